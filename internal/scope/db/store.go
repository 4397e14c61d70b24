// Package db provides menu storage for the storefront: an in-memory catalog
// loaded from a JSON file or Postgres.
package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Thetiptop007/The-Tip-Top/internal/scope/search"
)

// Catalog is the in-memory menu searched by the storefront.
// It is safe for concurrent use; Reload swaps the whole menu at once.
type Catalog struct {
	mu       sync.RWMutex
	items    []search.Item
	byID     map[search.ItemID]int
	loadedAt time.Time
}

// NewCatalog creates a catalog holding items
func NewCatalog(items []search.Item) *Catalog {
	c := &Catalog{}
	c.Replace(items)
	return c
}

// LoadCatalog builds a catalog from src
func LoadCatalog(ctx context.Context, src Source) (*Catalog, error) {
	c := NewCatalog(nil)
	if err := c.Reload(ctx, src); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload replaces the menu with the contents of src. On error the current
// menu is kept.
func (c *Catalog) Reload(ctx context.Context, src Source) error {
	items, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	c.Replace(items)
	return nil
}

// Replace swaps in a copy of items. A later duplicate id wins the lookup
// but both entries stay listed.
func (c *Catalog) Replace(items []search.Item) {
	cp := make([]search.Item, len(items))
	copy(cp, items)

	byID := make(map[search.ItemID]int, len(cp))
	for i := range cp {
		byID[cp[i].ID] = i
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = cp
	c.byID = byID
	c.loadedAt = time.Now()
}

// All returns a copy of the menu in catalog order
func (c *Catalog) All() []search.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]search.Item, len(c.items))
	copy(out, c.items)
	return out
}

// Get looks up an item by id
func (c *Catalog) Get(id search.ItemID) (search.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.byID[id]
	if !ok {
		return search.Item{}, false
	}
	return c.items[i], true
}

// Count returns the number of items in the catalog
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// LoadedAt returns when the menu was last replaced
func (c *Catalog) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// Search ranks the menu for q, keeping at most limit results when limit > 0
func (c *Catalog) Search(q search.Query, limit int) []search.ScoredItem {
	c.mu.RLock()
	results := search.Rank(c.items, q)
	c.mu.RUnlock()

	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results
}

// Categories returns "All" followed by every category in first-seen order
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return search.Categories(c.items)
}
