package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Thetiptop007/The-Tip-Top/internal/cart"
)

// HandleCheckout prices the requested items from the catalog and renders
// the WhatsApp order
func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("invalid checkout request")
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	c := cart.New()
	for _, line := range req.Items {
		item, ok := h.catalog.Get(line.ID)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown item "+string(line.ID), "UNKNOWN_ITEM")
			return
		}
		c.Add(item, line.Quantity)
	}

	order, err := h.checkout.Place(c, cart.Contact{Name: req.Name, Address: req.Address})
	switch {
	case errors.Is(err, cart.ErrMissingContact):
		writeError(w, http.StatusBadRequest, err.Error(), "MISSING_CONTACT")
		return
	case errors.Is(err, cart.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, err.Error(), "EMPTY_CART")
		return
	case err != nil:
		h.logger.Error().Err(err).Msg("checkout failed")
		writeError(w, http.StatusInternalServerError, "checkout failed", "CHECKOUT_FAILED")
		return
	}

	h.logger.Info().
		Int("total_items", order.TotalItems).
		Str("total_amount", order.TotalAmount.StringFixed(2)).
		Msg("checkout rendered")

	writeJSON(w, http.StatusOK, CheckoutResponse{
		Message:     order.Message,
		WhatsAppURL: order.URL,
		TotalAmount: order.TotalAmount,
		TotalItems:  order.TotalItems,
	})
}
