package adminapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Collection endpoints
const (
	PathOrders           = "/orders"
	PathMenu             = "/menu"
	PathUsers            = "/users"
	PathDeliveryPartners = "/delivery/partners"
	PathDeliverySessions = "/delivery/sessions"
	PathCategories       = "/categories"
	PathSettings         = "/settings"
)

// Stats endpoints
const (
	PathOrderStats    = "/orders/stats/overview"
	PathUserStats     = "/users/stats/overview"
	PathMenuStats     = "/menu/stats/overview"
	PathDeliveryStats = "/delivery/stats/overview"
	PathCategoryStats = "/categories/stats"
)

// GetOrder fetches a single order
func (c *Client) GetOrder(ctx context.Context, id string) (Order, error) {
	var o Order
	raw, err := c.Get(ctx, PathOrders+"/"+url.PathEscape(id), nil)
	if err != nil {
		return o, err
	}
	if err := decodeData(raw, "order", &o); err != nil {
		return o, err
	}
	return o, nil
}

// UpdateOrderStatus moves an order to status
func (c *Client) UpdateOrderStatus(ctx context.Context, id, status string) error {
	_, err := c.send(ctx, http.MethodPatch, PathOrders+"/"+url.PathEscape(id)+"/status", map[string]string{"status": status})
	return err
}

// MarkOrderReady flags an order as ready for pickup
func (c *Client) MarkOrderReady(ctx context.Context, id string) error {
	_, err := c.send(ctx, http.MethodPatch, PathOrders+"/"+url.PathEscape(id)+"/ready", struct{}{})
	return err
}

// AssignDelivery hands an order to a delivery partner
func (c *Client) AssignDelivery(ctx context.Context, id, partnerID string) error {
	_, err := c.send(ctx, http.MethodPatch, PathOrders+"/"+url.PathEscape(id)+"/assign", map[string]string{"deliveryPartnerId": partnerID})
	return err
}

// CancelOrder cancels an order with a reason
func (c *Client) CancelOrder(ctx context.Context, id, reason string) error {
	_, err := c.send(ctx, http.MethodPatch, PathOrders+"/"+url.PathEscape(id)+"/cancel", map[string]string{"reason": reason})
	return err
}

// SetMenuAvailability toggles whether a dish can be ordered
func (c *Client) SetMenuAvailability(ctx context.Context, id string, available bool) error {
	_, err := c.send(ctx, http.MethodPatch, PathMenu+"/"+url.PathEscape(id)+"/availability", map[string]bool{"isAvailable": available})
	return err
}

// DeleteMenuItem soft-deletes a dish
func (c *Client) DeleteMenuItem(ctx context.Context, id string) error {
	_, err := c.send(ctx, http.MethodDelete, PathMenu+"/"+url.PathEscape(id), nil)
	return err
}

// RestoreMenuItem undoes a soft delete
func (c *Client) RestoreMenuItem(ctx context.Context, id string) error {
	_, err := c.send(ctx, http.MethodPatch, PathMenu+"/"+url.PathEscape(id)+"/restore", nil)
	return err
}

// ToggleUserBlock blocks or unblocks a user
func (c *Client) ToggleUserBlock(ctx context.Context, id string, blocked bool) error {
	_, err := c.send(ctx, http.MethodPatch, PathUsers+"/"+url.PathEscape(id)+"/block", map[string]bool{"isBlocked": blocked})
	return err
}

// ToggleCategoryStatus flips a category between active and inactive
func (c *Client) ToggleCategoryStatus(ctx context.Context, id string) error {
	_, err := c.send(ctx, http.MethodPatch, PathCategories+"/"+url.PathEscape(id)+"/toggle-status", nil)
	return err
}

// SettleSession marks a delivery session's cash as settled
func (c *Client) SettleSession(ctx context.Context, id string, amount float64) error {
	_, err := c.send(ctx, http.MethodPatch, "/delivery/session/"+url.PathEscape(id)+"/settle", map[string]float64{"amount": amount})
	return err
}

// Settings fetches the restaurant settings document
func (c *Client) Settings(ctx context.Context) (map[string]any, error) {
	raw, err := c.Get(ctx, PathSettings, nil)
	if err != nil {
		return nil, err
	}
	var s map[string]any
	if err := decodeData(raw, "settings", &s); err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateSettings replaces the restaurant settings document
func (c *Client) UpdateSettings(ctx context.Context, settings map[string]any) error {
	_, err := c.send(ctx, http.MethodPut, PathSettings, settings)
	return err
}

// decodeData decodes data.<key> when present, otherwise data itself
func decodeData(raw json.RawMessage, key string, v any) error {
	data := unwrapData(raw)

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(data, &keyed); err == nil {
		if inner, ok := keyed[key]; ok {
			data = inner
		}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}
