package cart

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// Contact is where and to whom an order is delivered
type Contact struct {
	Name    string
	Address string
}

// Order is a rendered checkout
type Order struct {
	Message     string          `json:"message"`
	URL         string          `json:"whatsapp_url"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalItems  int             `json:"total_items"`
}

// Checkout renders lines for the restaurant's WhatsApp number
type Checkout struct {
	WhatsAppNumber string
	Helpline       string
}

// Place renders the cart as an order message and share link
func (co Checkout) Place(c *Cart, contact Contact) (Order, error) {
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Address = strings.TrimSpace(contact.Address)
	if contact.Name == "" || contact.Address == "" {
		return Order{}, ErrMissingContact
	}

	lines := c.Lines()
	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	total := c.TotalAmount()
	msg := co.Message(lines, total, contact)
	return Order{
		Message:     msg,
		URL:         co.Link(msg),
		TotalAmount: total,
		TotalItems:  c.TotalItems(),
	}, nil
}

// Message formats the order text
func (co Checkout) Message(lines []Line, total decimal.Decimal, contact Contact) string {
	var b strings.Builder
	b.WriteString("Hello, I’d like to place an order:\n\n")
	b.WriteString("🛒 Order Details:\n")
	for i, l := range lines {
		fmt.Fprintf(&b, "%d️⃣ %s - %d Piece(s)\n", i+1, l.Name, l.Quantity)
	}
	fmt.Fprintf(&b, "\n💰 Total Amount: ₹%s\n\n", total.StringFixed(2))
	fmt.Fprintf(&b, "📍 Delivery Address: %s\n", contact.Address)
	fmt.Fprintf(&b, "👤 Name: %s\n", contact.Name)
	if co.Helpline != "" {
		fmt.Fprintf(&b, "\nHelpline No: %s", co.Helpline)
	}
	return b.String()
}

// Link builds the wa.me share URL for msg
func (co Checkout) Link(msg string) string {
	text := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", strings.TrimPrefix(co.WhatsAppNumber, "+"), text)
}
