package listing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Thetiptop007/The-Tip-Top/internal/libs/jobs"
	"github.com/rs/zerolog"
)

// Defaults for list screens
const (
	DefaultLimit    = 10
	DefaultDebounce = 400 * time.Millisecond
)

var (
	// ErrPageOutOfRange is returned by GoToPage for pages outside 1..totalPages
	ErrPageOutOfRange = errors.New("page out of range")
	// ErrInvalidLimit is returned by SetLimit for non-positive page sizes
	ErrInvalidLimit = errors.New("limit must be positive")
)

// FetchFunc calls the remote list endpoint and returns its raw envelope.
// It owns its own timeout policy.
type FetchFunc func(ctx context.Context, req Request) (json.RawMessage, error)

// Options configures a Controller
type Options struct {
	Limit    int
	Debounce time.Duration
	Filters  map[string]string
	Logger   zerolog.Logger

	// Search is applied to the first fetch without waiting for the debounce
	Search string
}

// State is a snapshot of a controller as a list screen renders it
type State[T any] struct {
	Items      []T
	Pagination Pagination
	Loading    bool
	Error      string

	Page    int
	Limit   int
	Filters map[string]string

	// SearchText is what the user typed; AppliedSearch is what the
	// current items were fetched with
	SearchText    string
	AppliedSearch string
}

// Controller owns pagination, filter and search state for one collection.
// Only the most recently issued request may update the state; responses
// to superseded requests are dropped when they arrive.
type Controller[T any] struct {
	ctx      context.Context
	fetch    FetchFunc
	logger   zerolog.Logger
	debounce *jobs.Debouncer

	mu    sync.Mutex
	seq   uint64
	state State[T]

	listenerMu sync.Mutex
	listeners  map[uint64]func(State[T])
	nextID     uint64
}

// New creates a controller. ctx bounds fetches started by the debounced
// search, which have no caller to take a context from.
func New[T any](ctx context.Context, fetch FetchFunc, opts Options) *Controller[T] {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	filters := make(map[string]string, len(opts.Filters))
	for k, v := range opts.Filters {
		filters[k] = v
	}

	return &Controller[T]{
		ctx:      ctx,
		fetch:    fetch,
		logger:   opts.Logger,
		debounce: jobs.NewDebouncer(opts.Debounce),
		state: State[T]{
			Items:   []T{},
			Page:    1,
			Limit:   opts.Limit,
			Filters: filters,

			SearchText:    opts.Search,
			AppliedSearch: strings.TrimSpace(opts.Search),
		},
		listeners: make(map[uint64]func(State[T])),
	}
}

// State returns a copy of the current state
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// OnChange registers fn to receive every state change and returns a
// function that removes it
func (c *Controller[T]) OnChange(fn func(State[T])) func() {
	c.listenerMu.Lock()
	defer c.listenerMu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.listenerMu.Lock()
		defer c.listenerMu.Unlock()
		delete(c.listeners, id)
	}
}

// Load issues the initial fetch for the current state
func (c *Controller[T]) Load(ctx context.Context) {
	c.Refetch(ctx)
}

// Refetch re-issues the current request
func (c *Controller[T]) Refetch(ctx context.Context) {
	c.mu.Lock()
	seq, req := c.beginLocked()
	c.mu.Unlock()

	c.publish()
	c.run(ctx, seq, req)
}

// SetSearchText records text for display and schedules a fetch once the
// debounce window passes without further input
func (c *Controller[T]) SetSearchText(text string) {
	c.mu.Lock()
	c.state.SearchText = text
	c.mu.Unlock()

	c.publish()
	c.debounce.Trigger(c.applySearch)
}

func (c *Controller[T]) applySearch() {
	c.mu.Lock()
	c.state.AppliedSearch = strings.TrimSpace(c.state.SearchText)
	c.state.Page = 1
	seq, req := c.beginLocked()
	c.mu.Unlock()

	c.publish()
	c.run(c.ctx, seq, req)
}

// SetFilter merges a filter and fetches page 1 immediately.
// An empty value removes the filter.
func (c *Controller[T]) SetFilter(ctx context.Context, name, value string) {
	c.mu.Lock()
	if value == "" {
		delete(c.state.Filters, name)
	} else {
		c.state.Filters[name] = value
	}
	c.state.Page = 1
	seq, req := c.beginLocked()
	c.mu.Unlock()

	c.publish()
	c.run(ctx, seq, req)
}

// GoToPage fetches page n, keeping filters and search. Pages outside
// 1..totalPages are rejected without fetching; before the first
// response only page 1 is valid.
func (c *Controller[T]) GoToPage(ctx context.Context, n int) error {
	c.mu.Lock()
	total := max(c.state.Pagination.TotalPages, 1)
	if n < 1 || n > total {
		c.mu.Unlock()
		return ErrPageOutOfRange
	}
	c.state.Page = n
	seq, req := c.beginLocked()
	c.mu.Unlock()

	c.publish()
	c.run(ctx, seq, req)
	return nil
}

// SetLimit changes the page size and fetches page 1
func (c *Controller[T]) SetLimit(ctx context.Context, limit int) error {
	if limit <= 0 {
		return ErrInvalidLimit
	}

	c.mu.Lock()
	c.state.Limit = limit
	c.state.Page = 1
	seq, req := c.beginLocked()
	c.mu.Unlock()

	c.publish()
	c.run(ctx, seq, req)
	return nil
}

// Close drops any pending debounced search
func (c *Controller[T]) Close() {
	c.debounce.Cancel()
}

// beginLocked tags a new request as the latest and marks the state loading
func (c *Controller[T]) beginLocked() (uint64, Request) {
	c.seq++
	c.state.Loading = true

	filters := make(map[string]string, len(c.state.Filters))
	for k, v := range c.state.Filters {
		filters[k] = v
	}

	return c.seq, Request{
		Page:    c.state.Page,
		Limit:   c.state.Limit,
		Filters: filters,
		Search:  c.state.AppliedSearch,
	}
}

func (c *Controller[T]) run(ctx context.Context, seq uint64, req Request) {
	raw, err := c.fetch(ctx, req)

	var page Page[T]
	if err == nil {
		page, err = Normalize[T](raw)
	}

	c.mu.Lock()
	if seq != c.seq {
		latest := c.seq
		c.mu.Unlock()
		c.logger.Debug().
			Uint64("seq", seq).
			Uint64("latest", latest).
			Msg("discarding stale list response")
		return
	}

	c.state.Loading = false
	if err != nil {
		c.state.Error = Message(err)
		c.mu.Unlock()
		c.logger.Warn().Err(err).Int("page", req.Page).Msg("list fetch failed")
		c.publish()
		return
	}

	c.state.Items = page.Items
	if page.Pagination != nil {
		c.state.Pagination = *page.Pagination
	}
	c.state.Error = ""
	c.mu.Unlock()

	c.logger.Debug().
		Int("page", req.Page).
		Int("items", len(page.Items)).
		Msg("list fetched")
	c.publish()
}

func (c *Controller[T]) publish() {
	snap := c.State()

	c.listenerMu.Lock()
	fns := make([]func(State[T]), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.listenerMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (c *Controller[T]) snapshotLocked() State[T] {
	s := c.state
	s.Items = make([]T, len(c.state.Items))
	copy(s.Items, c.state.Items)
	s.Filters = make(map[string]string, len(c.state.Filters))
	for k, v := range c.state.Filters {
		s.Filters[k] = v
	}
	return s
}
