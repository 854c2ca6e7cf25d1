package websocket

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"storefront/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for dev simplicity
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client represents a single connected WebSocket client
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID uint
	Role   string
}

// orderStatusMessage is the payload pushed when an order changes state
type orderStatusMessage struct {
	Type    string `json:"type"`
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// Hub maintains the set of active clients and pushes order updates to them
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	updates    chan orderUpdate
	log        *zap.Logger
	mu         sync.Mutex
}

type orderUpdate struct {
	ownerID uint
	payload []byte
}

// NewHub initializes a new WS Hub instance
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		updates:    make(chan orderUpdate, 64),
		log:        log,
	}
}

// BroadcastOrderStatus pushes a status change to the order's owner and to
// every connected admin. Non-blocking for the caller.
func (h *Hub) BroadcastOrderStatus(orderID, ownerID uint, status string) {
	payload, err := json.Marshal(orderStatusMessage{
		Type:    "order_status",
		OrderID: orderID,
		Status:  status,
	})
	if err != nil {
		return
	}

	select {
	case h.updates <- orderUpdate{ownerID: ownerID, payload: payload}:
	default:
		h.log.Warn("websocket update queue full, dropping order status push",
			zap.Uint("order_id", orderID))
	}
}

// Run starts the core dispatch loop for WebSocket events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Debug("websocket client connected", zap.Uint("user_id", client.UserID))
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
		case update := <-h.updates:
			h.mu.Lock()
			for client := range h.clients {
				if client.UserID != update.ownerID && client.Role != model.RoleAdmin {
					continue
				}
				select {
				case client.Send <- update.payload:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// writePump handles writing messages from the Hub to the WebSocket connection
func (c *Client) writePump() {
	defer func() {
		_ = c.Conn.Close()
	}()
	for message := range c.Send {
		w, err := c.Conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		_, _ = w.Write(message)

		// Fast track writing queued messages
		n := len(c.Send)
		for i := 0; i < n; i++ {
			_, _ = w.Write([]byte{'\n'})
			_, _ = w.Write(<-c.Send)
		}

		if err := w.Close(); err != nil {
			return
		}
	}
	_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		_ = c.Conn.Close()
	}()
	for {
		// Just reading to keep connection alive
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}
	}
}

// ServeWs handles websocket requests from the peer. Authentication is via a
// token query param since browsers cannot set headers on WS handshakes.
func ServeWs(hub *Hub, c *gin.Context, secret []byte) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var userID uint
	if sub, ok := claims["sub"].(string); ok {
		if id, err := strconv.ParseUint(sub, 10, 64); err == nil {
			userID = uint(id)
		}
	}
	role, _ := claims["role"].(string)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		hub.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	client := &Client{Hub: hub, Conn: conn, Send: make(chan []byte, 256), UserID: userID, Role: role}
	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}
