package pushgw

import (
	"time"

	"github.com/gorilla/websocket"

	"tabletap/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4096
)

type roomMessage struct {
	room string
	data []byte
}

// Hub fans event frames out to every connection joined to a room. All room
// membership changes and broadcasts funnel through run's select loop.
type Hub struct {
	rooms      map[string]map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan roomMessage
	log        *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan roomMessage, 64),
		log:        log,
	}
}

func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case c := <-h.register:
			if h.rooms[c.room] == nil {
				h.rooms[c.room] = make(map[*client]bool)
			}
			h.rooms[c.room][c] = true
			h.log.Debug("client_joined", map[string]any{"room": c.room})
		case c := <-h.unregister:
			if members, ok := h.rooms[c.room]; ok && members[c] {
				delete(members, c)
				close(c.send)
				if len(members) == 0 {
					delete(h.rooms, c.room)
				}
			}
		case msg := <-h.broadcast:
			for c := range h.rooms[msg.room] {
				select {
				case c.send <- msg.data:
				default:
					// slow consumer, drop it
					delete(h.rooms[msg.room], c)
					close(c.send)
				}
			}
		}
	}
}

// Broadcast queues data for every member of room.
func (h *Hub) Broadcast(room string, data []byte) {
	h.broadcast <- roomMessage{room: room, data: data}
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	room string
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		// the join frame was already consumed; anything further is ignored
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
