// Package listing keeps the paginated, filtered, debounced-search state of
// one remote collection in sync with its list endpoint.
package listing

import (
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// DefaultErrorMessage is shown when a failure carries no description
const DefaultErrorMessage = "An error occurred"

// filterAll marks a filter chip that selects everything; it is never sent upstream
var filterAll = map[string]bool{"ALL": true, "All": true}

// Request is the query a controller sends to its list endpoint
type Request struct {
	Page    int
	Limit   int
	Filters map[string]string
	Search  string
}

// Values encodes the request as query parameters
func (r Request) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(r.Page))
	v.Set("limit", strconv.Itoa(r.Limit))

	keys := make([]string, 0, len(r.Filters))
	for k := range r.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		val := r.Filters[k]
		if val == "" || filterAll[val] {
			continue
		}
		v.Set(k, val)
	}

	if s := strings.TrimSpace(r.Search); s != "" {
		v.Set("search", s)
	}
	return v
}

// Message turns a fetch failure into display text. A server-provided
// message wins over the error text.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var sm interface{ ServerMessage() string }
	if errors.As(err, &sm) {
		if m := sm.ServerMessage(); m != "" {
			return m
		}
	}

	if m := err.Error(); m != "" {
		return m
	}
	return DefaultErrorMessage
}
