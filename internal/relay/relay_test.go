package relay

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"

	"github.com/Thetiptop007/The-Tip-Top/internal/adminapi"
	"github.com/rs/zerolog"
)

func TestNewBus(t *testing.T) {
	b := NewBus(zerolog.Nop())

	if b == nil {
		t.Fatal("NewBus() returned nil")
	}

	if !b.IsEnabled() {
		t.Error("new bus should be enabled by default")
	}
}

func TestEnableDisable(t *testing.T) {
	b := NewBus(zerolog.Nop())
	var count int32
	b.Subscribe(EventNotification, func(ctx context.Context, msg Message) { atomic.AddInt32(&count, 1) })

	b.Disable()
	if b.IsEnabled() {
		t.Error("bus should be disabled after Disable()")
	}
	b.Publish(context.Background(), Message{Event: EventNotification})

	b.Enable()
	if !b.IsEnabled() {
		t.Error("bus should be enabled after Enable()")
	}
	b.Publish(context.Background(), Message{Event: EventNotification})

	if got := atomic.LoadInt32(&count); got != 1 {
		t.Errorf("expected 1 delivery while enabled, got %d", got)
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBus(zerolog.Nop())
	var updates, notices int32

	unsub := b.Subscribe(EventOrderUpdate, func(ctx context.Context, msg Message) { atomic.AddInt32(&updates, 1) })
	b.Subscribe(EventNotification, func(ctx context.Context, msg Message) { atomic.AddInt32(&notices, 1) })

	b.Publish(context.Background(), Message{Event: EventOrderUpdate})
	unsub()
	unsub() // second call is a no-op
	b.Publish(context.Background(), Message{Event: EventOrderUpdate})
	b.Publish(context.Background(), Message{Event: EventNotification})

	if got := atomic.LoadInt32(&updates); got != 1 {
		t.Errorf("handler called %d times after unsubscribe, want 1", got)
	}
	if got := atomic.LoadInt32(&notices); got != 1 {
		t.Errorf("other event handler called %d times, want 1", got)
	}
	if b.Subscribers(EventOrderUpdate) != 0 {
		t.Errorf("expected no order:update subscribers, got %d", b.Subscribers(EventOrderUpdate))
	}
}

func TestPanickingHandler(t *testing.T) {
	b := NewBus(zerolog.Nop())
	var called int32

	b.Subscribe(EventNewOrder, func(ctx context.Context, msg Message) { panic("boom") })
	b.Subscribe(EventNewOrder, func(ctx context.Context, msg Message) { atomic.AddInt32(&called, 1) })

	b.Publish(context.Background(), Message{Event: EventNewOrder})

	if got := atomic.LoadInt32(&called); got != 1 {
		t.Errorf("healthy handler called %d times, want 1", got)
	}
}

func TestOnNewOrder(t *testing.T) {
	b := NewBus(zerolog.Nop())

	var got adminapi.Order
	b.OnNewOrder(func(ctx context.Context, order adminapi.Order) { got = order })

	b.Publish(context.Background(), Message{
		Event: EventNewOrder,
		Data:  json.RawMessage(`{"_id":"o9","orderNumber":"TT-1009","customer":{"name":"Asha"},"pricing":{"finalAmount":420}}`),
	})

	if got.OrderNumber != "TT-1009" || got.Customer.Name != "Asha" {
		t.Errorf("unexpected order %+v", got)
	}

	// Undecodable payloads are dropped
	got = adminapi.Order{}
	b.Publish(context.Background(), Message{Event: EventNewOrder, Data: json.RawMessage(`"oops"`)})
	if got.ID != "" {
		t.Errorf("malformed payload delivered: %+v", got)
	}
}

func TestOnAdminStats(t *testing.T) {
	b := NewBus(zerolog.Nop())

	var got map[string]float64
	unsub := b.OnAdminStats(func(ctx context.Context, stats map[string]float64) { got = stats })
	defer unsub()

	b.Publish(context.Background(), Message{
		Event: EventAdminStats,
		Data:  json.RawMessage(`{"pendingOrders":4,"totalRevenue":999.5,"updatedBy":"system"}`),
	})

	if got["pendingOrders"] != 4 || got["totalRevenue"] != 999.5 {
		t.Errorf("unexpected stats %v", got)
	}
	if _, ok := got["updatedBy"]; ok {
		t.Error("non-numeric fields should be ignored")
	}
}

func TestOnNotification(t *testing.T) {
	b := NewBus(zerolog.Nop())

	var got Notification
	b.OnNotification(func(ctx context.Context, n Notification) { got = n })
	b.OnOrderUpdate(func(ctx context.Context, o adminapi.Order) { t.Error("order:update handler should not fire") })

	b.Publish(context.Background(), Message{
		Event: EventNotification,
		Data:  json.RawMessage(`{"type":"info","title":"Kitchen","message":"Tandoor is back up"}`),
	})

	if got.Title != "Kitchen" || got.Message != "Tandoor is back up" {
		t.Errorf("unexpected notification %+v", got)
	}
}
