package adminapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Thetiptop007/The-Tip-Top/internal/scope/listing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func setupTestServer(t *testing.T, r *chi.Mux) *Client {
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/v1/", WithToken("secret"))
}

func TestListerSendsRequestState(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/v1/orders", func(w http.ResponseWriter, req *http.Request) {
		if got := req.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected bearer token, got %q", got)
		}
		q := req.URL.Query()
		if q.Get("page") != "2" || q.Get("limit") != "10" || q.Get("status") != "PENDING" || q.Get("search") != "ravi" {
			t.Errorf("unexpected query %s", req.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"orders":[{"_id":"o1","orderNumber":"TT-1001","customer":{"name":"Ravi"},"pricing":{"finalAmount":349.5}}]},"pagination":{"page":2,"limit":10,"totalItems":11,"totalPages":2}}`))
	})
	client := setupTestServer(t, r)

	raw, err := client.Lister(PathOrders)(context.Background(), listing.Request{
		Page:    2,
		Limit:   10,
		Filters: map[string]string{"status": "PENDING"},
		Search:  "ravi",
	})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	page, err := listing.Normalize[Order](raw)
	if err != nil {
		t.Fatalf("Normalize() failed: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].OrderNumber != "TT-1001" {
		t.Fatalf("unexpected items %+v", page.Items)
	}
	if page.Items[0].Pricing.FinalAmount.StringFixed(2) != "349.50" {
		t.Errorf("unexpected final amount %s", page.Items[0].Pricing.FinalAmount)
	}
	if page.Pagination == nil || page.Pagination.TotalPages != 2 {
		t.Errorf("unexpected pagination %+v", page.Pagination)
	}
}

func TestAPIErrorMessage(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/v1/users", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"success":false,"message":"Admin access required"}`))
	})
	r.Get("/api/v1/menu", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})
	client := setupTestServer(t, r)

	_, err := client.Get(context.Background(), PathUsers, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusForbidden {
		t.Errorf("expected 403, got %d", apiErr.Status)
	}
	if got := listing.Message(err); got != "Admin access required" {
		t.Errorf("expected server message, got %q", got)
	}

	_, err = client.Get(context.Background(), PathMenu, nil)
	if got := listing.Message(err); !strings.Contains(got, "502") {
		t.Errorf("expected status in fallback message, got %q", got)
	}
}

func TestTransportError(t *testing.T) {
	client := New("http://127.0.0.1:1/api/v1")
	_, err := client.Get(context.Background(), PathOrders, nil)
	if err == nil {
		t.Fatal("expected error for unreachable backend")
	}
	if !strings.Contains(err.Error(), "failed to call GET /orders") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestGetOrder(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/v1/orders/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		_, _ = w.Write([]byte(`{"data":{"order":{"_id":"` + id + `","status":"READY"}}}`))
	})
	client := setupTestServer(t, r)

	o, err := client.GetOrder(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("GetOrder() failed: %v", err)
	}
	if o.ID != "abc123" || o.Status != StatusReady {
		t.Errorf("unexpected order %+v", o)
	}
}

func TestMutations(t *testing.T) {
	var (
		mu  sync.Mutex
		got []string
	)
	record := func(w http.ResponseWriter, req *http.Request) {
		mu.Lock()
		got = append(got, req.Method+" "+req.URL.Path)
		mu.Unlock()
		if req.Body != nil && req.ContentLength > 0 && req.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON body for %s", req.URL.Path)
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}

	r := chi.NewRouter()
	r.Patch("/api/v1/*", record)
	r.Delete("/api/v1/*", record)
	r.Put("/api/v1/*", record)
	client := setupTestServer(t, r)
	ctx := context.Background()

	calls := []func() error{
		func() error { return client.UpdateOrderStatus(ctx, "o1", StatusConfirmed) },
		func() error { return client.MarkOrderReady(ctx, "o1") },
		func() error { return client.AssignDelivery(ctx, "o1", "p1") },
		func() error { return client.CancelOrder(ctx, "o1", "out of stock") },
		func() error { return client.SetMenuAvailability(ctx, "m1", false) },
		func() error { return client.DeleteMenuItem(ctx, "m1") },
		func() error { return client.RestoreMenuItem(ctx, "m1") },
		func() error { return client.ToggleUserBlock(ctx, "u1", true) },
		func() error { return client.ToggleCategoryStatus(ctx, "c1") },
		func() error { return client.SettleSession(ctx, "s1", 1200) },
		func() error { return client.UpdateSettings(ctx, map[string]any{"isOpen": true}) },
	}
	for i, call := range calls {
		if err := call(); err != nil {
			t.Errorf("call %d failed: %v", i, err)
		}
	}

	mu.Lock()
	defer mu.Unlock()

	expected := []string{
		"PATCH /api/v1/orders/o1/status",
		"PATCH /api/v1/orders/o1/ready",
		"PATCH /api/v1/orders/o1/assign",
		"PATCH /api/v1/orders/o1/cancel",
		"PATCH /api/v1/menu/m1/availability",
		"DELETE /api/v1/menu/m1",
		"PATCH /api/v1/menu/m1/restore",
		"PATCH /api/v1/users/u1/block",
		"PATCH /api/v1/categories/c1/toggle-status",
		"PATCH /api/v1/delivery/session/s1/settle",
		"PUT /api/v1/settings",
	}
	if len(got) != len(expected) {
		t.Fatalf("expected %d calls, got %v", len(expected), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("call %d: expected %s, got %s", i, expected[i], got[i])
		}
	}
}

func TestDashboardSources(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/v1"+PathOrderStats, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"overview":{"totalOrders":120,"totalRevenue":45210.5},"statusStats":[{"_id":"DELIVERED","count":100},{"_id":"PENDING","count":6}]}}`))
	})
	r.Get("/api/v1"+PathUserStats, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"stats unavailable"}`))
	})
	r.Get("/api/v1"+PathDeliveryStats, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"overview":{"activePartners":3,"label":"x"}}}`))
	})
	client := setupTestServer(t, r)

	agg := listing.NewAggregator(zerolog.Nop(), client.DashboardSources()...)
	stats, err := agg.Collect(context.Background())

	if err == nil || !strings.Contains(err.Error(), "stats unavailable") {
		t.Errorf("expected users failure to be reported, got %v", err)
	}
	if stats["totalOrders"] != 120 || stats["totalRevenue"] != 45210.5 || stats["pendingOrders"] != 6 {
		t.Errorf("unexpected order stats %v", stats)
	}
	if stats["deliveryActivePartners"] != 3 {
		t.Errorf("expected deliveryActivePartners=3, got %v", stats)
	}
	if _, ok := stats["totalCustomers"]; ok {
		t.Error("failed source must not report figures")
	}
}

func TestExtractUserStats(t *testing.T) {
	stats, err := ExtractUserStats([]byte(`{"data":{"roleStats":[{"_id":"admin","count":2},{"_id":"customer","count":57}]}}`))
	if err != nil {
		t.Fatalf("ExtractUserStats() failed: %v", err)
	}
	if stats["totalCustomers"] != 57 {
		t.Errorf("expected 57 customers, got %v", stats["totalCustomers"])
	}

	if _, err := ExtractUserStats([]byte(`{"data":{"roleStats":"nope"}}`)); err == nil {
		t.Error("expected error for malformed roleStats")
	}
}
