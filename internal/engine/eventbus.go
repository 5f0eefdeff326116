package engine

import (
	"sync"
	"time"
)

// EventType represents the type of engine event.
type EventType string

const (
	EventFactoidSet       EventType = "factoid_set"
	EventFactoidForgotten EventType = "factoid_forgotten"
	EventKarmaChanged     EventType = "karma_changed"
	EventSettingChanged   EventType = "setting_changed"
	EventRefused          EventType = "refused"
)

// Event is a knowledge-mutation notification. Events are observation
// only; no engine behavior depends on a subscriber.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Group     string
	Key       string
	Data      map[string]any
}

// EventHandler is a function that handles events.
type EventHandler func(Event)

// EventBus fans engine events out to subscribers (console UI, logs).
type EventBus struct {
	mu          sync.RWMutex
	handlers    map[EventType][]EventHandler
	allHandlers []EventHandler
}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[EventType][]EventHandler)}
}

// Subscribe registers a handler for a specific event type.
func (eb *EventBus) Subscribe(eventType EventType, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
}

// SubscribeAll registers a handler for all event types.
func (eb *EventBus) SubscribeAll(handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.allHandlers = append(eb.allHandlers, handler)
}

// Publish sends an event to all registered handlers.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	for _, handler := range eb.handlers[event.Type] {
		handler(event)
	}
	for _, handler := range eb.allHandlers {
		handler(event)
	}
}
