package domain

import "time"

type Shop struct {
	ID        string    `json:"id"`
	VendorID  string    `json:"vendor_id"`
	Name      string    `json:"name"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

type MenuItem struct {
	ID        string  `json:"id"`
	ShopID    string  `json:"shop_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

// Table is a physical seating unit. Code is the QR-encoded identifier
// customers scan; rendering the QR image is out of scope here.
type Table struct {
	ID     string `json:"id"`
	ShopID string `json:"shop_id"`
	Label  string `json:"label"`
	Code   string `json:"code"`
}

// OrderLine is a snapshot of a menu item at placement time, independent of
// live menu data.
type OrderLine struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type Order struct {
	ID          string      `json:"id"`
	ShortCode   string      `json:"short_code"`
	ShopID      string      `json:"shop_id"`
	CustomerID  string      `json:"customer_id"`
	TableID     string      `json:"table_id"`
	Status      OrderStatus `json:"status"`
	Items       []OrderLine `json:"items"`
	TotalAmount float64     `json:"total_amount"`
	CreatedAt   time.Time   `json:"created_at"`
}
