package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type Channel string

func (c Channel) String() string {
	return string(c)
}

const (
	BROADCAST_CHANNEL Channel = "broadcast"
	ACTIVITY_CHANNEL  Channel = "activity"
)

type MessageType string

const (
	PING      MessageType = "ping"
	PONG      MessageType = "pong"
	MESSAGE   MessageType = "message"
	BROADCAST MessageType = "broadcast"
	ERROR     MessageType = "error"

	COLLECTION_ITEM_CREATED MessageType = "collection_item.created"
	COLLECTION_ITEM_UPDATED MessageType = "collection_item.updated"
	COLLECTION_ITEM_DELETED MessageType = "collection_item.deleted"

	PLAYTHROUGH_CREATED        MessageType = "playthrough.created"
	PLAYTHROUGH_UPDATED        MessageType = "playthrough.updated"
	PLAYTHROUGH_DELETED        MessageType = "playthrough.deleted"
	PLAYTHROUGH_STATUS_CHANGED MessageType = "playthrough.status_changed"

	SESSION_REVOKED MessageType = "session.revoked"

	GAME_METADATA_REFRESHED MessageType = "game.metadata_refreshed"
)

type Event struct {
	ID        string         `json:"id"`
	Type      MessageType    `json:"type"`
	Channel   Channel        `json:"channel"`
	Origin    string         `json:"origin,omitempty"`
	UserID    *uuid.UUID     `json:"user_id,omitempty"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

type EventHandler func(event Event) error

type EventBus struct {
	client     valkey.Client
	logger     logger.Logger
	instanceID string
	handlers   map[Channel][]EventHandler
	listening  map[Channel]bool
	mutex      sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
}

func New(client valkey.Client) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventBus{
		client:     client,
		logger:     logger.New("EventBus"),
		instanceID: uuid.New().String(),
		handlers:   make(map[Channel][]EventHandler),
		listening:  make(map[Channel]bool),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (eb *EventBus) Publish(channel Channel, event Event) error {
	log := eb.logger.Function("Publish")

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if event.Channel == "" {
		event.Channel = channel
	}

	// Stamped so the pub/sub echo of our own publish can be skipped;
	// local handlers are notified directly below.
	event.Origin = eb.instanceID

	eventData, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "eventID", event.ID)
	}

	ctx, cancel := context.WithTimeout(eb.ctx, 5*time.Second)
	defer cancel()

	err = eb.client.Do(ctx, eb.client.B().Publish().Channel(channel.String()).Message(string(eventData)).Build()).
		Error()
	if err != nil {
		return log.Err(
			"failed to publish event to valkey",
			err,
			"channel",
			channel,
			"eventID",
			event.ID,
		)
	}

	log.Debug("Event published", "channel", channel, "eventID", event.ID, "eventType", event.Type)

	eb.notifyLocalHandlers(channel, event)

	return nil
}

// PublishActivity publishes a user-scoped activity event on the activity channel.
func (eb *EventBus) PublishActivity(
	userID uuid.UUID,
	eventType MessageType,
	data map[string]any,
) error {
	return eb.Publish(ACTIVITY_CHANNEL, Event{
		Type:   eventType,
		UserID: &userID,
		Data:   data,
	})
}

func (eb *EventBus) Subscribe(channel Channel, handler EventHandler) error {
	log := eb.logger.Function("Subscribe")

	eb.mutex.Lock()
	eb.handlers[channel] = append(eb.handlers[channel], handler)
	firstHandler := !eb.listening[channel]
	eb.listening[channel] = true
	eb.mutex.Unlock()

	log.Info("Handler subscribed to channel", "channel", channel)

	if firstHandler {
		go eb.listenToChannel(channel)
	}

	return nil
}

func (eb *EventBus) notifyLocalHandlers(channel Channel, event Event) {
	log := eb.logger.Function("notifyLocalHandlers")

	eb.mutex.RLock()
	handlers, exists := eb.handlers[channel]
	eb.mutex.RUnlock()

	if !exists || len(handlers) == 0 {
		return
	}

	for i, handler := range handlers {
		go func(h EventHandler, handlerIndex int) {
			if err := h(event); err != nil {
				log.Er(
					"handler failed",
					err,
					"channel",
					channel,
					"eventID",
					event.ID,
					"handlerIndex",
					handlerIndex,
				)
			}
		}(handler, i)
	}
}

func (eb *EventBus) listenToChannel(channel Channel) {
	log := eb.logger.Function("listenToChannel")

	ctx, cancel := context.WithCancel(eb.ctx)
	defer cancel()

	log.Info("Starting to listen to channel", "channel", channel)

	err := eb.client.Receive(
		ctx,
		eb.client.B().Subscribe().Channel(channel.String()).Build(),
		func(msg valkey.PubSubMessage) {
			var event Event
			if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
				log.Er("failed to unmarshal event", err, "channel", channel, "message", msg.Message)
				return
			}

			// Our own publishes already went to local handlers.
			if event.Origin == eb.instanceID {
				return
			}

			log.Debug(
				"Received event from valkey",
				"channel",
				channel,
				"eventID",
				event.ID,
				"eventType",
				event.Type,
			)
			eb.notifyLocalHandlers(channel, event)
		},
	)
	if err != nil {
		log.Er("failed to listen to channel", err, "channel", channel)
	}
}

func (eb *EventBus) Close() error {
	log := eb.logger.Function("Close")

	eb.cancel()

	log.Info("EventBus closed")
	return nil
}
