package ordering

import (
	"database/sql"
	"net/http"

	"tabletap/internal/auth"
	"tabletap/internal/connections/rabbitmq"
	"tabletap/internal/logger"
	"tabletap/internal/microservices/ordering/handlers"
	"tabletap/internal/microservices/ordering/repository"
	"tabletap/internal/microservices/ordering/service"
)

// Mount wires the ordering routes onto mux.
func Mount(mux *http.ServeMux, db *sql.DB, rmq *rabbitmq.Client, am *auth.Manager, log *logger.Logger) {
	repo := repository.NewOrderRepository(db)
	svc := service.NewOrderService(repo, rmq, log)
	h := handlers.NewOrderHandler(svc)

	customer := am.Middleware(auth.RoleCustomer)
	vendor := am.Middleware(auth.RoleVendor, auth.RoleAdmin)
	anyRole := am.Middleware()

	mux.Handle("POST /api/v1/orders", customer(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/v1/orders", anyRole(http.HandlerFunc(h.ListMine)))
	mux.Handle("GET /api/v1/orders/{order_id}", anyRole(http.HandlerFunc(h.Get)))
	mux.Handle("PATCH /api/v1/orders/{order_id}/status", vendor(http.HandlerFunc(h.UpdateStatus)))
	mux.Handle("GET /api/v1/shops/{shop_id}/orders", vendor(http.HandlerFunc(h.ListForShop)))
	mux.Handle("PUT /api/v1/carts/{customer_id}", customer(http.HandlerFunc(h.SyncCart)))
}
