// Package relay fans live socket events out to typed subscribers.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Thetiptop007/The-Tip-Top/internal/adminapi"
	"github.com/rs/zerolog"
)

// Event names pushed by the backend socket
const (
	EventNewOrder     = "order:new"
	EventOrderUpdate  = "order:update"
	EventNotification = "notification"
	EventAdminStats   = "admin:stats"
)

// Message is one event received from the socket
type Message struct {
	Event      string          `json:"event"`
	Data       json.RawMessage `json:"data,omitempty"`
	ReceivedAt time.Time       `json:"-"`
}

// Handler receives messages for a subscribed event
type Handler func(ctx context.Context, msg Message)

// Bus is an in-process publish/subscribe bus keyed by event name.
// Every subscription returns its own unsubscribe function.
type Bus struct {
	mu      sync.RWMutex
	subs    map[string]map[uint64]Handler
	nextID  uint64
	enabled bool
	logger  zerolog.Logger
}

// NewBus creates a new, enabled bus
func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{
		subs:    make(map[string]map[uint64]Handler),
		enabled: true,
		logger:  logger,
	}
}

// IsEnabled returns whether published messages are delivered
func (b *Bus) IsEnabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

// Enable resumes delivery
func (b *Bus) Enable() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = true
}

// Disable drops published messages until Enable is called
func (b *Bus) Disable() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = false
}

// Subscribe registers h for event
func (b *Bus) Subscribe(event string, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	if b.subs[event] == nil {
		b.subs[event] = make(map[uint64]Handler)
	}
	b.subs[event][id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[event], id)
			if len(b.subs[event]) == 0 {
				delete(b.subs, event)
			}
		})
	}
}

// Subscribers returns the number of handlers registered for event
func (b *Bus) Subscribers(event string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[event])
}

// Publish delivers msg synchronously to every handler of msg.Event.
// A panicking handler is logged and does not stop the others.
func (b *Bus) Publish(ctx context.Context, msg Message) {
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now()
	}

	b.mu.RLock()
	if !b.enabled {
		b.mu.RUnlock()
		return
	}
	handlers := make([]Handler, 0, len(b.subs[msg.Event]))
	for _, h := range b.subs[msg.Event] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(ctx, h, msg)
	}
}

func (b *Bus) deliver(ctx context.Context, h Handler, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Str("event", msg.Event).
				Str("panic", fmt.Sprint(r)).
				Msg("event handler panicked")
		}
	}()
	h(ctx, msg)
}

// OnNewOrder subscribes fn to order:new with the payload decoded
func (b *Bus) OnNewOrder(fn func(ctx context.Context, order adminapi.Order)) func() {
	return subscribeTyped(b, EventNewOrder, fn)
}

// OnOrderUpdate subscribes fn to order:update with the payload decoded
func (b *Bus) OnOrderUpdate(fn func(ctx context.Context, order adminapi.Order)) func() {
	return subscribeTyped(b, EventOrderUpdate, fn)
}

// Notification is a free-form backend notice
type Notification struct {
	Type    string          `json:"type"`
	Title   string          `json:"title"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// OnNotification subscribes fn to notification events
func (b *Bus) OnNotification(fn func(ctx context.Context, n Notification)) func() {
	return subscribeTyped(b, EventNotification, fn)
}

// OnAdminStats subscribes fn to live dashboard figures. Non-numeric
// fields of the payload are ignored.
func (b *Bus) OnAdminStats(fn func(ctx context.Context, stats map[string]float64)) func() {
	return b.Subscribe(EventAdminStats, func(ctx context.Context, msg Message) {
		var raw map[string]any
		if err := json.Unmarshal(msg.Data, &raw); err != nil {
			b.logger.Warn().Err(err).Str("event", msg.Event).Msg("failed to decode event payload")
			return
		}
		stats := make(map[string]float64, len(raw))
		for k, v := range raw {
			if n, ok := v.(float64); ok {
				stats[k] = n
			}
		}
		fn(ctx, stats)
	})
}

func subscribeTyped[T any](b *Bus, event string, fn func(ctx context.Context, v T)) func() {
	return b.Subscribe(event, func(ctx context.Context, msg Message) {
		var v T
		if err := json.Unmarshal(msg.Data, &v); err != nil {
			b.logger.Warn().Err(err).Str("event", event).Msg("failed to decode event payload")
			return
		}
		fn(ctx, v)
	})
}
