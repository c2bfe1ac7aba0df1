package pushgw

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"tabletap/internal/auth"
	"tabletap/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection, reads the single join frame and, if the
// token authorizes the requested room, registers the client with the hub.
func ServeWS(hub *Hub, am *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := am.VerifyRequest(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		var join domain.JoinFrame
		if err := conn.ReadJSON(&join); err != nil || join.Action != "join" {
			_ = conn.Close()
			return
		}
		if !roomAllowed(claims, join.Room) {
			_ = conn.WriteJSON(map[string]string{"error": "room not allowed"})
			_ = conn.Close()
			return
		}

		c := &client{hub: hub, conn: conn, send: make(chan []byte, 16), room: join.Room}
		hub.register <- c
		go c.writePump()
		go c.readPump()
	}
}

// roomAllowed binds joins to identity: a customer may only join their own
// room, a vendor only their shop's. Admins may observe anything.
func roomAllowed(claims *auth.Claims, room string) bool {
	switch claims.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleCustomer:
		return room == domain.CustomerRoom(claims.Subject)
	case auth.RoleVendor:
		return strings.HasPrefix(room, "shop:") && room == domain.ShopRoom(claims.ShopID)
	}
	return false
}
