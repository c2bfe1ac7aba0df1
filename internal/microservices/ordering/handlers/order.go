package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"tabletap/internal/auth"
	"tabletap/internal/domain"
	"tabletap/internal/httpx"
	"tabletap/internal/microservices/ordering/repository"
	"tabletap/internal/microservices/ordering/service"
)

type OrderHandler struct {
	service service.OrderServiceInterface
}

func NewOrderHandler(s service.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: s}
}

// POST /api/v1/orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	if claims, ok := auth.FromContext(r.Context()); ok {
		req.CustomerID = claims.Subject
	}

	order, err := h.service.Create(r.Context(), req)
	if err != nil {
		if isValidation(err) {
			httpx.WriteProblem(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		httpx.WriteProblem(w, http.StatusInternalServerError, "create_failed", err.Error())
		return
	}
	httpx.WriteData(w, http.StatusCreated, order)
}

// GET /api/v1/orders/{order_id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Get(r.Context(), r.PathValue("order_id"))
	if errors.Is(err, repository.ErrNotFound) {
		httpx.WriteProblem(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	if err != nil {
		httpx.WriteProblem(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	httpx.WriteData(w, http.StatusOK, order)
}

// GET /api/v1/orders — the caller's own orders.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.WriteProblem(w, http.StatusUnauthorized, "unauthorized", "token required")
		return
	}
	orders, err := h.service.ListForCustomer(r.Context(), claims.Subject)
	if err != nil {
		httpx.WriteProblem(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	httpx.WriteData(w, http.StatusOK, orders)
}

// GET /api/v1/shops/{shop_id}/orders
func (h *OrderHandler) ListForShop(w http.ResponseWriter, r *http.Request) {
	shopID := r.PathValue("shop_id")
	if claims, ok := auth.FromContext(r.Context()); ok &&
		claims.Role == auth.RoleVendor && claims.ShopID != shopID {
		httpx.WriteProblem(w, http.StatusForbidden, "forbidden", "not your shop")
		return
	}
	orders, err := h.service.ListForShop(r.Context(), shopID)
	if err != nil {
		httpx.WriteProblem(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	httpx.WriteData(w, http.StatusOK, orders)
}

// PATCH /api/v1/orders/{order_id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	changedBy := "vendor"
	if claims, ok := auth.FromContext(r.Context()); ok {
		changedBy = claims.Subject
	}

	order, err := h.service.UpdateStatus(r.Context(), r.PathValue("order_id"), req.Status, changedBy)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		httpx.WriteProblem(w, http.StatusNotFound, "not_found", "order not found")
	case errors.Is(err, repository.ErrIllegalTransition):
		httpx.WriteProblem(w, http.StatusConflict, "illegal_transition", err.Error())
	case errors.Is(err, service.ErrBadStatus):
		httpx.WriteProblem(w, http.StatusBadRequest, "validation_failed", err.Error())
	case err != nil:
		httpx.WriteProblem(w, http.StatusInternalServerError, "update_failed", err.Error())
	default:
		httpx.WriteData(w, http.StatusOK, order)
	}
}

// PUT /api/v1/carts/{customer_id} — advisory snapshot sync.
func (h *OrderHandler) SyncCart(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("customer_id")
	if claims, ok := auth.FromContext(r.Context()); ok && claims.Subject != customerID {
		httpx.WriteProblem(w, http.StatusForbidden, "forbidden", "not your cart")
		return
	}
	var snapshot json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	if err := h.service.SyncCart(r.Context(), customerID, snapshot); err != nil {
		httpx.WriteProblem(w, http.StatusInternalServerError, "sync_failed", err.Error())
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{Message: "cart synced"})
}

func isValidation(err error) bool {
	return errors.Is(err, service.ErrNoItems) ||
		errors.Is(err, service.ErrNoTable) ||
		errors.Is(err, service.ErrNoShop) ||
		errors.Is(err, service.ErrBadQuantity) ||
		errors.Is(err, service.ErrBadPrice)
}
