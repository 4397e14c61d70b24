package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/Thetiptop007/The-Tip-Top/internal/scope/search"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

// HandleMenu lists the menu filtered by ?q= and ?category=.
// Without ?limit= the whole matching menu is returned.
func (h *Handler) HandleMenu(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer", "INVALID_LIMIT")
			return
		}
		limit = min(n, maxSearchLimit)
	}

	h.respond(w, search.Query{Text: q.Get("q"), Category: q.Get("category")}, limit)
}

// HandleSearch ranks the menu against a JSON query body
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("invalid search request")
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	if req.Limit < 0 {
		writeError(w, http.StatusBadRequest, "limit must be a non-negative integer", "INVALID_LIMIT")
		return
	}
	if req.Limit == 0 {
		req.Limit = defaultSearchLimit
	}
	if req.Limit > maxSearchLimit {
		req.Limit = maxSearchLimit
	}

	h.respond(w, search.Query{Text: req.Query, Category: req.Category}, req.Limit)
}

// HandleCategories returns the category chips in menu order
func (h *Handler) HandleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: h.catalog.Categories()})
}

func (h *Handler) respond(w http.ResponseWriter, q search.Query, limit int) {
	q.Text = strings.TrimSpace(q.Text)
	if q.Category == "" {
		q.Category = search.AllCategories
	}

	results := h.catalog.Search(q, limit)

	h.logger.Info().
		Str("query", q.Text).
		Str("category", q.Category).
		Int("results", len(results)).
		Int("limit", limit).
		Msg("search completed")

	writeJSON(w, http.StatusOK, SearchResponse{
		Results:  results,
		Count:    len(results),
		Query:    q.Text,
		Category: q.Category,
	})
}
