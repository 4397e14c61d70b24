package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/Thetiptop007/The-Tip-Top/internal/adminapi"
	"github.com/Thetiptop007/The-Tip-Top/internal/relay"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type recordingSink struct {
	mu    sync.Mutex
	shown []Notification
	err   error
}

func (r *recordingSink) Show(ctx context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.shown = append(r.shown, n)
	return nil
}

func (r *recordingSink) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.shown...)
}

func sampleOrder() adminapi.Order {
	return adminapi.Order{
		ID:          "o42",
		OrderNumber: "TT-1042",
		Status:      adminapi.StatusPending,
		Customer:    adminapi.Customer{Name: "Ravi"},
		Pricing:     adminapi.Pricing{FinalAmount: decimal.RequireFromString("349.5")},
	}
}

func TestShowNewOrderNotification(t *testing.T) {
	sink := &recordingSink{}
	s := NewService(sink, zerolog.Nop())

	shown, err := s.ShowNewOrderNotification(context.Background(), sampleOrder())
	if err != nil || !shown {
		t.Fatalf("expected notification shown, got %v, %v", shown, err)
	}

	got := sink.all()
	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(got))
	}
	if got[0].Title != NewOrderTitle {
		t.Errorf("unexpected title %q", got[0].Title)
	}
	if want := "Order #TT-1042\nRavi\n₹349.50"; got[0].Body != want {
		t.Errorf("expected body %q, got %q", want, got[0].Body)
	}
	if got[0].Tag != "order-o42" {
		t.Errorf("unexpected tag %q", got[0].Tag)
	}

	// same order again is suppressed
	shown, _ = s.ShowNewOrderNotification(context.Background(), sampleOrder())
	if shown || len(sink.all()) != 1 {
		t.Error("duplicate tag should not be shown twice")
	}
}

func TestShowOrderStatusNotification(t *testing.T) {
	tests := []struct {
		status string
		title  string
	}{
		{adminapi.StatusConfirmed, "✅ Order Confirmed"},
		{adminapi.StatusDelivered, "🎉 Order Delivered"},
		{adminapi.StatusCancelled, "❌ Order Cancelled"},
		{"ON_HOLD", "Order Status Updated"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			sink := &recordingSink{}
			s := NewService(sink, zerolog.Nop())
			order := sampleOrder()
			order.Status = tt.status

			if _, err := s.ShowOrderStatusNotification(context.Background(), order); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := sink.all()
			if len(got) != 1 || got[0].Title != tt.title {
				t.Errorf("expected title %q, got %+v", tt.title, got)
			}
		})
	}
}

func TestDisabledService(t *testing.T) {
	sink := &recordingSink{}
	s := NewService(sink, zerolog.Nop())
	s.SetEnabled(false)

	if s.Enabled() {
		t.Fatal("service should be disabled")
	}
	shown, err := s.ShowNewOrderNotification(context.Background(), sampleOrder())
	if shown || err != nil || len(sink.all()) != 0 {
		t.Errorf("disabled service delivered: shown=%v err=%v", shown, err)
	}

	// suppressed while disabled does not count as seen
	s.SetEnabled(true)
	if shown, _ := s.ShowNewOrderNotification(context.Background(), sampleOrder()); !shown {
		t.Error("expected notification once re-enabled")
	}
}

func TestSinkFailureAllowsRetry(t *testing.T) {
	sink := &recordingSink{err: errors.New("display unavailable")}
	s := NewService(sink, zerolog.Nop())

	if _, err := s.ShowNewOrderNotification(context.Background(), sampleOrder()); err == nil {
		t.Fatal("expected sink error")
	}

	sink.mu.Lock()
	sink.err = nil
	sink.mu.Unlock()

	if shown, err := s.ShowNewOrderNotification(context.Background(), sampleOrder()); !shown || err != nil {
		t.Errorf("expected retry to succeed, got %v, %v", shown, err)
	}
}

func TestAttach(t *testing.T) {
	sink := &recordingSink{}
	s := NewService(sink, zerolog.Nop())
	bus := relay.NewBus(zerolog.Nop())

	detach := s.Attach(bus)

	order := sampleOrder()
	data, _ := json.Marshal(order)
	bus.Publish(context.Background(), relay.Message{Event: relay.EventNewOrder, Data: data})

	order.Status = adminapi.StatusReady
	data, _ = json.Marshal(order)
	bus.Publish(context.Background(), relay.Message{Event: relay.EventOrderUpdate, Data: data})

	detach()
	bus.Publish(context.Background(), relay.Message{Event: relay.EventOrderUpdate, Data: data})

	got := sink.all()
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[1].Title != "🍽️ Order Ready" {
		t.Errorf("unexpected status title %q", got[1].Title)
	}
}
