// Package httpapi provides HTTP handlers and data transfer objects for the storefront API.
package httpapi

import (
	"github.com/Thetiptop007/The-Tip-Top/internal/scope/search"
	"github.com/shopspring/decimal"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	ItemCount int    `json:"item_count"`
}

// SearchRequest represents a menu search request
type SearchRequest struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"` // Default: All
	Limit    int    `json:"limit,omitempty"`    // Default: 10
}

// SearchResponse represents ranked menu results
type SearchResponse struct {
	Results  []search.ScoredItem `json:"results"`
	Count    int                 `json:"count"`
	Query    string              `json:"query"`
	Category string              `json:"category"`
}

// CategoriesResponse lists the menu category chips
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// CheckoutLine is one requested item
type CheckoutLine struct {
	ID       search.ItemID `json:"id"`
	Quantity int           `json:"quantity"`
}

// CheckoutRequest represents a storefront order
type CheckoutRequest struct {
	Name    string         `json:"name"`
	Address string         `json:"address"`
	Items   []CheckoutLine `json:"items"`
}

// CheckoutResponse carries the WhatsApp order message and link
type CheckoutResponse struct {
	Message     string          `json:"message"`
	WhatsAppURL string          `json:"whatsapp_url"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalItems  int             `json:"total_items"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
