package adminapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Thetiptop007/The-Tip-Top/internal/scope/listing"
)

// statBucket is one row of a grouped count, e.g. statusStats or roleStats
type statBucket struct {
	ID    string  `json:"_id"`
	Count float64 `json:"count"`
}

func countFor(buckets []statBucket, id string) float64 {
	for _, b := range buckets {
		if strings.EqualFold(b.ID, id) {
			return b.Count
		}
	}
	return 0
}

// ExtractOrderStats reads totalOrders, totalRevenue and pendingOrders
// from the order stats overview
func ExtractOrderStats(raw json.RawMessage) (listing.Stats, error) {
	var payload struct {
		Overview struct {
			TotalOrders  float64 `json:"totalOrders"`
			TotalRevenue float64 `json:"totalRevenue"`
		} `json:"overview"`
		StatusStats []statBucket `json:"statusStats"`
	}
	if err := json.Unmarshal(unwrapData(raw), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode order stats: %w", err)
	}

	return listing.Stats{
		"totalOrders":   payload.Overview.TotalOrders,
		"totalRevenue":  payload.Overview.TotalRevenue,
		"pendingOrders": countFor(payload.StatusStats, StatusPending),
	}, nil
}

// ExtractUserStats reads totalCustomers from the user stats overview
func ExtractUserStats(raw json.RawMessage) (listing.Stats, error) {
	var payload struct {
		RoleStats []statBucket `json:"roleStats"`
	}
	if err := json.Unmarshal(unwrapData(raw), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode user stats: %w", err)
	}

	return listing.Stats{
		"totalCustomers": countFor(payload.RoleStats, "customer"),
	}, nil
}

// ExtractOverview copies every numeric field of data.overview (or data)
// under prefix, for the menu, delivery and category stats endpoints
func ExtractOverview(prefix string) listing.Extractor {
	return func(raw json.RawMessage) (listing.Stats, error) {
		var fields map[string]any
		data := unwrapData(raw)
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode %s stats: %w", prefix, err)
		}
		if overview, ok := fields["overview"].(map[string]any); ok {
			fields = overview
		}

		stats := listing.Stats{}
		for k, v := range fields {
			if n, ok := v.(float64); ok && k != "" {
				stats[prefix+strings.ToUpper(k[:1])+k[1:]] = n
			}
		}
		return stats, nil
	}
}

// StatSource wraps a stats endpoint for a listing.Aggregator
func (c *Client) StatSource(name, path string, extract listing.Extractor) listing.StatSource {
	return listing.StatSource{
		Name: name,
		Fetch: func(ctx context.Context) (json.RawMessage, error) {
			return c.Get(ctx, path, nil)
		},
		Extract: extract,
	}
}

// DashboardSources are the stats endpoints behind the admin dashboard
func (c *Client) DashboardSources() []listing.StatSource {
	return []listing.StatSource{
		c.StatSource("orders", PathOrderStats, ExtractOrderStats),
		c.StatSource("users", PathUserStats, ExtractUserStats),
		c.StatSource("delivery", PathDeliveryStats, ExtractOverview("delivery")),
	}
}
