package orderclient

// TableRef identifies the seating a cart will order from.
type TableRef struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// CartItem is one menu item in the cart. Quantity is always >= 1; an item
// decremented to zero is removed rather than retained.
type CartItem struct {
	MenuItemID string  `json:"menu_item_id"`
	ShopID     string  `json:"shop_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

// Cart is the local authoritative cart. It is a plain injectable container:
// construct one per session and pass it where it is needed. Derived totals
// are recomputed from scratch after every structural mutation, never
// adjusted incrementally.
//
// Cart is not safe for concurrent use; callers serialize access the same way
// a UI event loop would.
type Cart struct {
	items       []CartItem
	table       *TableRef
	totalItems  int
	totalAmount float64
}

func NewCart() *Cart { return &Cart{} }

// AddItem appends the item with quantity 1, or bumps the quantity when the
// same menu item from the same shop is already present.
func (c *Cart) AddItem(item CartItem) {
	for i := range c.items {
		if c.items[i].MenuItemID == item.MenuItemID && c.items[i].ShopID == item.ShopID {
			c.items[i].Quantity++
			c.recompute()
			return
		}
	}
	item.Quantity = 1
	c.items = append(c.items, item)
	c.recompute()
}

// IncrementQuantity bumps the entry by one. Unknown ids are a no-op.
func (c *Cart) IncrementQuantity(menuItemID string) {
	for i := range c.items {
		if c.items[i].MenuItemID == menuItemID {
			c.items[i].Quantity++
			break
		}
	}
	c.recompute()
}

// DecrementQuantity lowers the entry by one, removing it entirely at
// quantity 1. Unknown ids are a no-op.
func (c *Cart) DecrementQuantity(menuItemID string) {
	for i := range c.items {
		if c.items[i].MenuItemID == menuItemID {
			if c.items[i].Quantity <= 1 {
				c.items = append(c.items[:i], c.items[i+1:]...)
			} else {
				c.items[i].Quantity--
			}
			break
		}
	}
	c.recompute()
}

// RemoveItem drops the entry regardless of quantity.
func (c *Cart) RemoveItem(menuItemID string) {
	for i := range c.items {
		if c.items[i].MenuItemID == menuItemID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	c.recompute()
}

// Clear resets to the empty cart. The table selection is dropped too.
func (c *Cart) Clear() {
	c.items = nil
	c.table = nil
	c.recompute()
}

// SetTable associates a table with the cart, independent of items.
func (c *Cart) SetTable(t TableRef) { c.table = &t }

func (c *Cart) Table() (TableRef, bool) {
	if c.table == nil {
		return TableRef{}, false
	}
	return *c.table, true
}

func (c *Cart) Empty() bool { return len(c.items) == 0 }

// Items returns a copy; mutating it does not touch the cart.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) TotalItems() int      { return c.totalItems }
func (c *Cart) TotalAmount() float64 { return c.totalAmount }

// recompute is a pure fold over the items. Idempotent.
func (c *Cart) recompute() {
	items, amount := 0, 0.0
	for _, it := range c.items {
		items += it.Quantity
		amount += float64(it.Quantity) * it.Price
	}
	c.totalItems, c.totalAmount = items, amount
}
