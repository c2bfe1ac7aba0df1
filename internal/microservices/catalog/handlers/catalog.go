package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"tabletap/internal/auth"
	"tabletap/internal/domain"
	"tabletap/internal/httpx"
	"tabletap/internal/microservices/catalog/repository"
	"tabletap/internal/microservices/catalog/service"
)

type CatalogHandler struct {
	service service.CatalogServiceInterface
}

func NewCatalogHandler(s service.CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// POST /api/v1/shops
func (h *CatalogHandler) RegisterShop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	claims, _ := auth.FromContext(r.Context())
	shop, err := h.service.RegisterShop(r.Context(), claims.Subject, req.Name)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	httpx.WriteData(w, http.StatusCreated, shop)
}

// GET /api/v1/admin/shops/pending
func (h *CatalogHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	shops, err := h.service.ListPendingShops(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, shops)
}

// POST /api/v1/admin/shops/{shop_id}/approve
func (h *CatalogHandler) Approve(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ApproveShop(r.Context(), r.PathValue("shop_id")); err != nil {
		h.writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{Message: "shop approved"})
}

// POST /api/v1/admin/shops/{shop_id}/reject
func (h *CatalogHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RejectShop(r.Context(), r.PathValue("shop_id")); err != nil {
		h.writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{Message: "shop rejected"})
}

// POST /api/v1/shops/{shop_id}/menu
func (h *CatalogHandler) AddMenuItem(w http.ResponseWriter, r *http.Request) {
	var m domain.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	m.ShopID = r.PathValue("shop_id")
	if claims, ok := auth.FromContext(r.Context()); ok &&
		claims.Role == auth.RoleVendor && claims.ShopID != m.ShopID {
		httpx.WriteProblem(w, http.StatusForbidden, "forbidden", "not your shop")
		return
	}
	item, err := h.service.AddMenuItem(r.Context(), m)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	httpx.WriteData(w, http.StatusCreated, item)
}

// GET /api/v1/shops/{shop_id}/menu — public, this is what the QR scan lands on.
func (h *CatalogHandler) Menu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.service.Menu(r.Context(), r.PathValue("shop_id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, menu)
}

// PATCH /api/v1/menu/{item_id}/availability
func (h *CatalogHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Available bool `json:"available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	if err := h.service.SetAvailability(r.Context(), r.PathValue("item_id"), req.Available); err != nil {
		h.writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{Message: "availability updated"})
}

// POST /api/v1/shops/{shop_id}/tables
func (h *CatalogHandler) AddTable(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label string `json:"label"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	table, err := h.service.AddTable(r.Context(), r.PathValue("shop_id"), req.Label)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	httpx.WriteData(w, http.StatusCreated, table)
}

// GET /api/v1/shops/{shop_id}/tables
func (h *CatalogHandler) Tables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.service.Tables(r.Context(), r.PathValue("shop_id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, tables)
}

// GET /api/v1/tables/{table_id} — resolves a scanned QR code.
func (h *CatalogHandler) Table(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.Table(r.Context(), r.PathValue("table_id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, table)
}

func (h *CatalogHandler) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		httpx.WriteProblem(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrNameRequired), errors.Is(err, service.ErrBadPrice):
		httpx.WriteProblem(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, service.ErrNotApproved):
		httpx.WriteProblem(w, http.StatusConflict, "not_approved", err.Error())
	default:
		httpx.WriteProblem(w, http.StatusInternalServerError, "db_error", err.Error())
	}
}
