// Package notify turns live order events into operator notifications.
package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/Thetiptop007/The-Tip-Top/internal/adminapi"
	"github.com/Thetiptop007/The-Tip-Top/internal/relay"
	"github.com/rs/zerolog"
)

// NewOrderTitle heads every new-order notification
const NewOrderTitle = "🔔 New Order Received!"

const defaultStatusTitle = "Order Status Updated"

var statusTitles = map[string]string{
	adminapi.StatusConfirmed:      "✅ Order Confirmed",
	adminapi.StatusPreparing:      "👨‍🍳 Order Being Prepared",
	adminapi.StatusReady:          "🍽️ Order Ready",
	adminapi.StatusPickedUp:       "🛵 Order Picked Up",
	adminapi.StatusOutForDelivery: "🚚 Out for Delivery",
	adminapi.StatusDelivered:      "🎉 Order Delivered",
	adminapi.StatusCancelled:      "❌ Order Cancelled",
}

// Notification is a single operator-facing notice
type Notification struct {
	Title string
	Body  string
	Tag   string
	Data  map[string]string
}

// Sink displays notifications
type Sink interface {
	Show(ctx context.Context, n Notification) error
}

// LogSink writes notifications to a logger
type LogSink struct {
	Logger zerolog.Logger
}

// Show logs n at info level
func (s LogSink) Show(ctx context.Context, n Notification) error {
	s.Logger.Info().
		Str("tag", n.Tag).
		Str("title", n.Title).
		Str("body", n.Body).
		Msg("notification")
	return nil
}

// Service builds notifications and forwards them to a sink.
// A tag is only shown once.
type Service struct {
	sink   Sink
	logger zerolog.Logger

	mu      sync.Mutex
	enabled bool
	seen    map[string]struct{}
}

// NewService creates an enabled service writing to sink. A nil sink
// logs through logger.
func NewService(sink Sink, logger zerolog.Logger) *Service {
	if sink == nil {
		sink = LogSink{Logger: logger}
	}
	return &Service{
		sink:    sink,
		logger:  logger,
		enabled: true,
		seen:    make(map[string]struct{}),
	}
}

// SetEnabled turns delivery on or off
func (s *Service) SetEnabled(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = on
}

// Enabled reports whether notifications are delivered
func (s *Service) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// ShowNewOrderNotification announces a newly placed order
func (s *Service) ShowNewOrderNotification(ctx context.Context, order adminapi.Order) (bool, error) {
	return s.show(ctx, Notification{
		Title: NewOrderTitle,
		Body: fmt.Sprintf("Order #%s\n%s\n₹%s",
			order.OrderNumber, order.Customer.Name, order.Pricing.FinalAmount.StringFixed(2)),
		Tag: "order-" + order.ID,
		Data: map[string]string{
			"orderId":     order.ID,
			"orderNumber": order.OrderNumber,
		},
	})
}

// ShowOrderStatusNotification announces a status change
func (s *Service) ShowOrderStatusNotification(ctx context.Context, order adminapi.Order) (bool, error) {
	title, ok := statusTitles[order.Status]
	if !ok {
		title = defaultStatusTitle
	}
	return s.show(ctx, Notification{
		Title: title,
		Body:  fmt.Sprintf("Order #%s is now %s", order.OrderNumber, order.Status),
		Tag:   "order-" + order.ID + "-" + order.Status,
		Data: map[string]string{
			"orderId": order.ID,
			"status":  order.Status,
		},
	})
}

// Attach subscribes the service to order events on bus
func (s *Service) Attach(bus *relay.Bus) (detach func()) {
	unsubNew := bus.OnNewOrder(func(ctx context.Context, order adminapi.Order) {
		if _, err := s.ShowNewOrderNotification(ctx, order); err != nil {
			s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("failed to show notification")
		}
	})
	unsubUpdate := bus.OnOrderUpdate(func(ctx context.Context, order adminapi.Order) {
		if _, err := s.ShowOrderStatusNotification(ctx, order); err != nil {
			s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("failed to show notification")
		}
	})
	return func() {
		unsubNew()
		unsubUpdate()
	}
}

// show reports whether n was delivered
func (s *Service) show(ctx context.Context, n Notification) (bool, error) {
	s.mu.Lock()
	if !s.enabled {
		s.mu.Unlock()
		return false, nil
	}
	if _, dup := s.seen[n.Tag]; dup {
		s.mu.Unlock()
		return false, nil
	}
	s.seen[n.Tag] = struct{}{}
	s.mu.Unlock()

	if err := s.sink.Show(ctx, n); err != nil {
		s.mu.Lock()
		delete(s.seen, n.Tag)
		s.mu.Unlock()
		return false, fmt.Errorf("failed to show %q: %w", n.Tag, err)
	}
	return true, nil
}
