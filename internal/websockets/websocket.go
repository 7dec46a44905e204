package websockets

import (
	"time"

	"playlater/internal/constants"
	"playlater/internal/events"
	"playlater/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	PING_INTERVAL     = 30 * time.Second
	PONG_TIMEOUT      = 60 * time.Second
	WRITE_TIMEOUT     = 10 * time.Second
	MAX_MESSAGE_SIZE  = 4 * 1024 // Clients only ever send control frames.
	SEND_CHANNEL_SIZE = 64
)

type Message struct {
	ID        string             `json:"id"`
	Type      events.MessageType `json:"type"`
	Data      map[string]any     `json:"data,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

type Client struct {
	ID         string
	UserID     uuid.UUID
	SessionID  uuid.UUID
	Connection *websocket.Conn
	Manager    *Manager
	send       chan Message
}

type Manager struct {
	hub      *Hub
	log      logger.Logger
	eventBus *events.EventBus
}

func New(eventBus *events.EventBus) (*Manager, error) {
	log := logger.New("websockets")

	manager := &Manager{
		hub: &Hub{
			broadcast:  make(chan Message),
			register:   make(chan *Client),
			unregister: make(chan *Client),
			clients:    make(map[string]*Client),
		},
		log:      log,
		eventBus: eventBus,
	}

	log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(manager)

	go manager.subscribeToActivityEvents()
	go manager.subscribeToBroadcastEvents()

	return manager, nil
}

// HandleWebSocket runs one connection. RequireAuth already resolved the
// session before the upgrade, so a connection without locals never got
// through the middleware and is closed immediately.
func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	user, ok := c.Locals(constants.UserLocalKey).(*models.User)
	if !ok || user == nil {
		log.Warn("websocket upgrade without an authenticated user")
		_ = c.WriteMessage(websocket.CloseMessage, []byte{})
		_ = c.Close()
		return
	}

	session, ok := c.Locals(constants.SessionLocalKey).(*models.Session)
	if !ok || session == nil {
		log.Warn("websocket upgrade without a session", "userID", user.ID)
		_ = c.WriteMessage(websocket.CloseMessage, []byte{})
		_ = c.Close()
		return
	}

	client := &Client{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		SessionID:  session.ID,
		Connection: c,
		Manager:    m,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}

	m.hub.register <- client
	defer func() {
		log.Info("Client disconnected", "clientID", client.ID, "userID", client.UserID)
		m.hub.unregister <- client
		if err := c.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
	}()

	log.Info("Client connected", "clientID", client.ID, "userID", client.UserID)

	go client.readPump()
	client.writePump()
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer func() {
		c.Manager.hub.unregister <- c
		_ = c.Connection.Close()
	}()

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
			log.Er("failed to set read deadline in pong handler", err, "clientID", c.ID)
		}
		return nil
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
			) {
				log.Er("unexpected close", err, "clientID", c.ID)
			}
			break
		}

		c.routeMessage(message)
	}
}

// routeMessage handles the few message types clients are allowed to send.
// The feed is one-way; everything else is dropped with a warning.
func (c *Client) routeMessage(message Message) {
	log := c.Manager.log.Function("routeMessage")

	switch message.Type {
	case events.PING:
		pong := Message{
			ID:        uuid.New().String(),
			Type:      events.PONG,
			Timestamp: time.Now(),
		}
		select {
		case c.send <- pong:
		default:
			log.Warn("Client send channel full, dropping pong", "clientID", c.ID)
		}
	default:
		log.Warn("Unknown message type", "clientID", c.ID, "type", message.Type)
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("websocket write error", err, "clientID", c.ID)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline for ping", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// subscribeToActivityEvents forwards each user-scoped event to that user's
// connections. Session revocations close the session's connections instead
// of being delivered.
func (m *Manager) subscribeToActivityEvents() {
	log := m.log.Function("subscribeToActivityEvents")

	err := m.eventBus.Subscribe(events.ACTIVITY_CHANNEL, func(event events.Event) error {
		if event.UserID == nil {
			log.Warn("activity event without a user id", "eventID", event.ID, "eventType", event.Type)
			return nil
		}

		if event.Type == events.SESSION_REVOKED {
			m.disconnectSession(event)
			return nil
		}

		m.SendMessageToUser(*event.UserID, Message{
			ID:        event.ID,
			Type:      event.Type,
			Data:      event.Data,
			Timestamp: event.Timestamp,
		})
		return nil
	})
	if err != nil {
		log.Er("failed to subscribe to activity events", err)
	}
}

func (m *Manager) subscribeToBroadcastEvents() {
	log := m.log.Function("subscribeToBroadcastEvents")

	err := m.eventBus.Subscribe(events.BROADCAST_CHANNEL, func(event events.Event) error {
		message := Message{
			ID:        event.ID,
			Type:      event.Type,
			Data:      event.Data,
			Timestamp: event.Timestamp,
		}

		select {
		case m.hub.broadcast <- message:
		default:
			log.Warn("Broadcast channel is full, dropping message", "eventID", event.ID)
		}
		return nil
	})
	if err != nil {
		log.Er("failed to subscribe to broadcast events", err)
	}
}

func (m *Manager) disconnectSession(event events.Event) {
	log := m.log.Function("disconnectSession")

	raw, ok := event.Data["session_id"].(string)
	if !ok {
		log.Warn("session revocation without a session id", "eventID", event.ID)
		return
	}
	sessionID, err := uuid.Parse(raw)
	if err != nil {
		log.Warn("invalid session id in revocation", "eventID", event.ID, "sessionID", raw)
		return
	}

	m.hub.mutex.RLock()
	var revoked []*Client
	for _, client := range m.hub.clients {
		if client.SessionID == sessionID {
			revoked = append(revoked, client)
		}
	}
	m.hub.mutex.RUnlock()

	for _, client := range revoked {
		log.Info(
			"Closing connection for revoked session",
			"clientID", client.ID,
			"sessionID", sessionID,
		)
		m.hub.unregister <- client
	}
}
