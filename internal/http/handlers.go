package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/Thetiptop007/The-Tip-Top/internal/cart"
	"github.com/Thetiptop007/The-Tip-Top/internal/scope/db"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Handler contains HTTP handlers for the API
type Handler struct {
	catalog  *db.Catalog
	checkout cart.Checkout
	logger   zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog *db.Catalog, checkout cart.Checkout, logger zerolog.Logger) *Handler {
	return &Handler{
		catalog:  catalog,
		checkout: checkout,
		logger:   logger,
	}
}

// NewRouter mounts every route on a chi router. An empty origins list
// allows any origin.
func NewRouter(h *Handler, origins []string) *chi.Mux {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler)

	// Routes
	r.Get("/health", h.HandleHealth)
	r.Get("/menu", h.HandleMenu)
	r.Post("/search", h.HandleSearch)
	r.Get("/categories", h.HandleCategories)
	r.Post("/checkout", h.HandleCheckout)

	return r
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
