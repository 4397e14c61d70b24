package db

import (
	"context"

	"github.com/Thetiptop007/The-Tip-Top/internal/scope/search"
)

// Source loads the full menu from a backing store.
// Both FileSource (JSON file) and DB (Postgres) implement this interface.
type Source interface {
	Load(ctx context.Context) ([]search.Item, error)
}

var _ Source = (*FileSource)(nil)
var _ Source = (*DB)(nil)
