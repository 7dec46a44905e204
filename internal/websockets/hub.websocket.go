package websockets

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Hub struct {
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	mutex      sync.RWMutex
}

func (h *Hub) run(m *Manager) {
	for {
		select {
		case client := <-h.register:
			m.registerClient(client)

		case client := <-h.unregister:
			func() {
				// A client can be unregistered from several paths; the
				// second close is swallowed here.
				defer func() {
					_ = recover()
				}()
				close(client.send)
			}()
			m.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message, m)
		}
	}
}

func (m *Manager) registerClient(client *Client) {
	log := m.log.Function("registerClient")

	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	m.hub.clients[client.ID] = client

	log.Info("Client registered", "clientID", client.ID, "userID", client.UserID)
}

func (m *Manager) unregisterClient(client *Client) {
	log := m.log.Function("unregisterClient")

	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	delete(m.hub.clients, client.ID)

	log.Info("Client unregistered", "clientID", client.ID, "userID", client.UserID)
}

func (h *Hub) broadcastMessage(message Message, m *Manager) {
	log := m.log.Function("broadcastMessage")

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	sentCount := 0
	for clientID, client := range h.clients {
		select {
		case client.send <- message:
			sentCount++
		default:
			go func(c *Client, cID string, msg Message) {
				select {
				case c.send <- msg:
					log.Info("Message sent after retry", "clientID", cID)
				case <-time.After(5 * time.Second):
					log.Warn("Client too slow, disconnecting", "clientID", cID)
					m.hub.unregister <- c
				}
			}(client, clientID, message)
		}
	}

	log.Info(
		"Broadcast complete",
		"messageID", message.ID,
		"sentTo", sentCount,
		"totalClients", len(h.clients),
	)
}

// SendMessageToUser delivers to every connection the user has open. A full
// send buffer gets a short grace period before the client is dropped.
func (m *Manager) SendMessageToUser(userID uuid.UUID, message Message) {
	log := m.log.Function("SendMessageToUser")

	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	sentCount := 0
	totalUserConnections := 0

	for clientID, client := range m.hub.clients {
		if client.UserID != userID {
			continue
		}
		totalUserConnections++

		select {
		case client.send <- message:
			sentCount++
		default:
			go func(c *Client, cID string, msg Message) {
				select {
				case c.send <- msg:
					log.Info("Message sent after retry", "clientID", cID, "userID", userID)
				case <-time.After(5 * time.Second):
					log.Warn("Client too slow, disconnecting", "clientID", cID, "userID", userID)
					m.hub.unregister <- c
				}
			}(client, clientID, message)
		}
	}

	if totalUserConnections == 0 {
		return
	}

	log.Debug(
		"Message sent to user connections",
		"userID", userID,
		"messageID", message.ID,
		"sentTo", sentCount,
		"totalConnections", totalUserConnections,
	)
}
