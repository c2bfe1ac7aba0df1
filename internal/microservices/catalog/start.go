package catalog

import (
	"database/sql"
	"net/http"

	"tabletap/internal/auth"
	"tabletap/internal/logger"
	"tabletap/internal/microservices/catalog/handlers"
	"tabletap/internal/microservices/catalog/repository"
	"tabletap/internal/microservices/catalog/service"
)

// Mount wires the catalog routes onto mux.
func Mount(mux *http.ServeMux, db *sql.DB, am *auth.Manager, log *logger.Logger) {
	repo := repository.NewCatalogRepository(db)
	svc := service.NewCatalogService(repo, log)
	h := handlers.NewCatalogHandler(svc)

	vendor := am.Middleware(auth.RoleVendor, auth.RoleAdmin)
	admin := am.Middleware(auth.RoleAdmin)

	mux.Handle("POST /api/v1/shops", vendor(http.HandlerFunc(h.RegisterShop)))
	mux.Handle("GET /api/v1/admin/shops/pending", admin(http.HandlerFunc(h.ListPending)))
	mux.Handle("POST /api/v1/admin/shops/{shop_id}/approve", admin(http.HandlerFunc(h.Approve)))
	mux.Handle("POST /api/v1/admin/shops/{shop_id}/reject", admin(http.HandlerFunc(h.Reject)))

	mux.Handle("POST /api/v1/shops/{shop_id}/menu", vendor(http.HandlerFunc(h.AddMenuItem)))
	mux.HandleFunc("GET /api/v1/shops/{shop_id}/menu", h.Menu)
	mux.Handle("PATCH /api/v1/menu/{item_id}/availability", vendor(http.HandlerFunc(h.SetAvailability)))

	mux.Handle("POST /api/v1/shops/{shop_id}/tables", vendor(http.HandlerFunc(h.AddTable)))
	mux.Handle("GET /api/v1/shops/{shop_id}/tables", vendor(http.HandlerFunc(h.Tables)))
	mux.HandleFunc("GET /api/v1/tables/{table_id}", h.Table)
}
