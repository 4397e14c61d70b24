package db

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Thetiptop007/The-Tip-Top/internal/scope/search"
)

// FileSource reads a menu from a JSON file. The file holds either a bare
// array of items or an object with a "dishes" array.
type FileSource struct {
	Path string
}

// Load reads and decodes the file
func (f *FileSource) Load(ctx context.Context) ([]search.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file: %w", err)
	}
	items, err := DecodeMenu(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", f.Path, err)
	}
	return items, nil
}

// DecodeMenu parses menu JSON and drops items without a name
func DecodeMenu(raw []byte) ([]search.Item, error) {
	raw = bytes.TrimSpace(raw)

	var items []search.Item
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
	} else {
		var doc struct {
			Dishes []search.Item `json:"dishes"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		items = doc.Dishes
	}

	out := make([]search.Item, 0, len(items))
	for _, it := range items {
		if it.Name == "" {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}
