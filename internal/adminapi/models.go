package adminapi

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses as the backend reports them
const (
	StatusPending        = "PENDING"
	StatusConfirmed      = "CONFIRMED"
	StatusPreparing      = "PREPARING"
	StatusReady          = "READY"
	StatusPickedUp       = "PICKED_UP"
	StatusOutForDelivery = "OUT_FOR_DELIVERY"
	StatusDelivered      = "DELIVERED"
	StatusCancelled      = "CANCELLED"
)

// Order is a customer order
type Order struct {
	ID          string      `json:"_id"`
	OrderNumber string      `json:"orderNumber"`
	Status      string      `json:"status"`
	Customer    Customer    `json:"customer"`
	Items       []OrderItem `json:"items,omitempty"`
	Pricing     Pricing     `json:"pricing"`
	Payment     *Payment    `json:"payment,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Customer is the contact on an order
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// OrderItem is one line of an order
type OrderItem struct {
	MenuItem string          `json:"menuItem,omitempty"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Pricing holds the order amounts
type Pricing struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Discount    decimal.Decimal `json:"discount"`
	FinalAmount decimal.Decimal `json:"finalAmount"`
}

// Payment is the payment state of an order
type Payment struct {
	Method string `json:"method"`
	Status string `json:"status"`
}

// MenuItem is a dish as managed from the back office
type MenuItem struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug,omitempty"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	IsAvailable bool            `json:"isAvailable"`
}

// User is a customer, admin or delivery partner account
type User struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
	IsBlocked bool   `json:"isBlocked"`
}

// DeliveryPartner is a rider account
type DeliveryPartner struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	IsAvailable bool   `json:"isAvailable"`
}

// Category groups menu items
type Category struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}
