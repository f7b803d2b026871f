package chatws

import (
	"context"
	"encoding/json"
	"strconv"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/models"
	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/services"
)

// Hub is the process-wide presence registry and push router. A single Run
// goroutine owns the clients map; all mutation and delivery happens through
// its channels, never on a shared map.
//
// One live handle per identity: a later registration for the same user id
// silently replaces the earlier one, and a disconnect removes an entry only
// when the terminating connection still owns it. A stale disconnect after
// replacement must leave the newer registration untouched.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *push
}

// Client is one websocket connection. It starts unregistered; a register
// event binds it to a user id and installs it in the hub.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	connID string
	authID string
	userID string
	send   chan []byte

	// closed is owned by the hub goroutine; it guards against a double
	// close when a stalled handle is later unregistered by its reader.
	closed bool
}

type push struct {
	senderID   string
	receiverID string
	payload    []byte
}

type sender interface {
	SendMessage(ctx context.Context, senderID, receiverID int64, text string) (*services.SendResult, error)
}

// clientEvent is the inbound wire format shared by register and sendMessage
// events.
type clientEvent struct {
	Type       string `json:"type"`
	UserID     string `json:"userId"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
}

type serverEvent struct {
	Type    string                `json:"type"`
	Message *models.DirectMessage `json:"message"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *push, 64),
	}
}

// NewClient wraps a connection whose bearer resolved to authUserID. The
// client becomes a push target only after its register event.
func NewClient(hub *Hub, conn *websocket.Conn, authUserID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		connID: uuid.NewString(),
		authID: authUserID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			// Last register wins. The replaced connection stays open but
			// is no longer a push target.
			if prev, ok := h.clients[client.userID]; ok && prev != client {
				zap.S().Debugw("presence entry replaced",
					"user_id", client.userID,
					"old_conn", prev.connID,
					"new_conn", client.connID,
				)
			}
			h.clients[client.userID] = client
		case client := <-h.unregister:
			// Match by handle, not by key: a disconnect from an already
			// replaced connection must not evict the newer registration.
			if current, ok := h.clients[client.userID]; ok && current == client {
				delete(h.clients, client.userID)
			}
			client.closeSend()
		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Push fans a stored message out to the receiver's live handle and to the
// sender's own handle, whichever of the two is present. Absent handles are
// normal; the message is already durable.
func (h *Hub) Push(message *models.DirectMessage) {
	payload, err := json.Marshal(serverEvent{Type: "newMessage", Message: message})
	if err != nil {
		zap.S().Errorw("chat hub encode message", "error", err)
		return
	}

	h.broadcast <- &push{
		senderID:   strconv.FormatInt(message.SenderID, 10),
		receiverID: strconv.FormatInt(message.ReceiverID, 10),
		payload:    payload,
	}
}

func (h *Hub) deliver(message *push) {
	h.sendToUser(message.receiverID, message.payload)
	if message.senderID != message.receiverID {
		h.sendToUser(message.senderID, message.payload)
	}
}

func (h *Hub) sendToUser(userID string, payload []byte) {
	client, ok := h.clients[userID]
	if !ok {
		return
	}

	select {
	case client.send <- payload:
	default:
		// Writer has stalled; drop the handle so the user polls the
		// durable log instead.
		delete(h.clients, userID)
		client.closeSend()
	}
}

func (c *Client) closeSend() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// ReadPump drives the connection state machine: unregistered until a register
// event, then a push target until teardown. Send events are authorized and
// persisted via the chat service; denied and unresolvable sends produce no
// reply on the channel.
func (c *Client) ReadPump(service sender) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var event clientEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			continue
		}

		switch event.Type {
		case "register":
			c.handleRegister(event.UserID)
		case "sendMessage":
			c.handleSend(service, event)
		}
	}
}

func (c *Client) handleRegister(userID string) {
	if userID == "" || userID != c.authID {
		return
	}
	c.userID = userID
	c.hub.Register(c)
}

func (c *Client) handleSend(service sender, event clientEvent) {
	senderID, err := strconv.ParseInt(event.SenderID, 10, 64)
	if err != nil {
		return
	}
	receiverID, err := strconv.ParseInt(event.ReceiverID, 10, 64)
	if err != nil {
		return
	}

	result, err := service.SendMessage(context.Background(), senderID, receiverID, event.Text)
	if err != nil {
		// Persistence failed; nothing was stored, so nothing is pushed.
		zap.S().Errorw("chat send failed",
			"conn", c.connID,
			"sender_id", senderID,
			"receiver_id", receiverID,
			"error", err,
		)
		return
	}
	if result.Status != services.SendDelivered {
		return
	}

	c.hub.Push(result.Message)
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
