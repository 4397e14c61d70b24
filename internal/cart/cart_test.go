package cart

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/Thetiptop007/The-Tip-Top/internal/scope/search"
	"github.com/shopspring/decimal"
)

func dish(id, name, price string) search.Item {
	return search.Item{ID: search.ItemID(id), Name: name, Price: decimal.RequireFromString(price)}
}

var (
	naan    = dish("1", "Butter Naan", "45")
	biryani = dish("2", "Chicken Biryani", "249.50")
)

func TestAddMergesByID(t *testing.T) {
	c := New()
	c.Add(naan, 2)
	c.Add(biryani, 1)
	c.Add(naan, 1)

	lines := c.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].ID != "1" || lines[0].Quantity != 3 {
		t.Errorf("expected naan x3 first, got %+v", lines[0])
	}
	if c.TotalItems() != 4 {
		t.Errorf("expected 4 items, got %d", c.TotalItems())
	}
	if want := decimal.RequireFromString("384.5"); !c.TotalAmount().Equal(want) {
		t.Errorf("expected total %s, got %s", want, c.TotalAmount())
	}
}

func TestAddNonPositiveQuantity(t *testing.T) {
	c := New()
	c.Add(naan, 0)
	if c.TotalItems() != 1 {
		t.Errorf("expected quantity clamped to 1, got %d", c.TotalItems())
	}
}

func TestRemove(t *testing.T) {
	c := New()
	c.Add(naan, 2)
	c.Add(biryani, 1)

	c.Remove("1")
	if got := c.Lines()[0].Quantity; got != 1 {
		t.Errorf("expected naan decremented to 1, got %d", got)
	}

	c.Remove("1")
	lines := c.Lines()
	if len(lines) != 1 || lines[0].ID != "2" {
		t.Errorf("expected only biryani left, got %+v", lines)
	}

	c.Remove("missing")
	if len(c.Lines()) != 1 {
		t.Error("removing an unknown id should be a no-op")
	}
}

func TestDeleteAndClear(t *testing.T) {
	c := New()
	c.Add(naan, 5)
	c.Add(biryani, 1)

	c.Delete("1")
	if c.TotalItems() != 1 {
		t.Errorf("expected 1 item after delete, got %d", c.TotalItems())
	}

	c.Clear()
	if len(c.Lines()) != 0 || !c.TotalAmount().IsZero() {
		t.Error("expected empty cart after Clear")
	}
}

func TestUpdate(t *testing.T) {
	c := New()
	c.Add(naan, 1)

	line := c.Lines()[0]
	line.Quantity = 4
	if err := c.Update(line); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if c.TotalItems() != 4 {
		t.Errorf("expected 4 after update, got %d", c.TotalItems())
	}

	err := c.Update(Line{Item: biryani, Quantity: 1})
	if !errors.Is(err, ErrUnknownLine) {
		t.Errorf("expected ErrUnknownLine, got %v", err)
	}
}

func TestLinesIsCopy(t *testing.T) {
	c := New()
	c.Add(naan, 1)

	lines := c.Lines()
	lines[0].Quantity = 99

	if c.TotalItems() != 1 {
		t.Error("mutating Lines() result changed the cart")
	}
}

func TestCheckoutValidation(t *testing.T) {
	co := Checkout{WhatsAppNumber: "7696482938"}

	tests := []struct {
		name    string
		fill    bool
		contact Contact
		want    error
	}{
		{"missing name", true, Contact{Address: "12 MG Road"}, ErrMissingContact},
		{"blank address", true, Contact{Name: "Asha", Address: "   "}, ErrMissingContact},
		{"empty cart", false, Contact{Name: "Asha", Address: "12 MG Road"}, ErrEmptyCart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			if tt.fill {
				c.Add(naan, 1)
			}
			if _, err := co.Place(c, tt.contact); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCheckoutMessage(t *testing.T) {
	c := New()
	c.Add(naan, 2)
	c.Add(biryani, 1)

	co := Checkout{WhatsAppNumber: "7696482938", Helpline: "+91 9650780199"}
	order, err := co.Place(c, Contact{Name: " Asha ", Address: "12 MG Road"})
	if err != nil {
		t.Fatalf("Place() failed: %v", err)
	}

	want := "Hello, I’d like to place an order:\n\n" +
		"🛒 Order Details:\n" +
		"1️⃣ Butter Naan - 2 Piece(s)\n" +
		"2️⃣ Chicken Biryani - 1 Piece(s)\n" +
		"\n💰 Total Amount: ₹339.50\n\n" +
		"📍 Delivery Address: 12 MG Road\n" +
		"👤 Name: Asha\n" +
		"\nHelpline No: +91 9650780199"
	if order.Message != want {
		t.Errorf("unexpected message:\n%s\nwant:\n%s", order.Message, want)
	}
	if order.TotalItems != 3 {
		t.Errorf("expected 3 items, got %d", order.TotalItems)
	}

	if !strings.HasPrefix(order.URL, "https://wa.me/7696482938?text=") {
		t.Fatalf("unexpected link %s", order.URL)
	}
	if strings.Contains(order.URL, "+") {
		t.Error("link should encode spaces as %20, not +")
	}

	u, err := url.Parse(order.URL)
	if err != nil {
		t.Fatalf("link does not parse: %v", err)
	}
	if got := u.Query().Get("text"); got != want {
		t.Errorf("link text does not round-trip:\n%s", got)
	}
}
