package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Thetiptop007/The-Tip-Top/internal/libs/accel"
	"github.com/rs/zerolog"
)

// Stats is a flat set of named dashboard figures
type Stats map[string]float64

// Extractor pulls named figures out of a stats endpoint response
type Extractor func(raw json.RawMessage) (Stats, error)

// StatSource is one independent stats endpoint
type StatSource struct {
	Name    string
	Fetch   func(ctx context.Context) (json.RawMessage, error)
	Extract Extractor
}

// Aggregator combines several stats endpoints into one Stats value.
// Sources are queried concurrently; each applies its own fields as soon
// as it resolves, and a failing source keeps its last known figures.
type Aggregator struct {
	sources []StatSource
	batch   *accel.Batch
	logger  zerolog.Logger

	mu    sync.Mutex
	stats Stats
}

// NewAggregator creates an aggregator over the given sources
func NewAggregator(logger zerolog.Logger, sources ...StatSource) *Aggregator {
	return &Aggregator{
		sources: sources,
		batch:   accel.NewBatch(len(sources)),
		logger:  logger,
		stats:   Stats{},
	}
}

// Collect queries every source and returns the merged figures. The error
// joins the failures of individual sources; the returned stats are valid
// even when it is non-nil.
func (a *Aggregator) Collect(ctx context.Context) (Stats, error) {
	tasks := make([]accel.Task, len(a.sources))
	for i, src := range a.sources {
		tasks[i] = func(ctx context.Context) error {
			return a.collectOne(ctx, src)
		}
	}

	errs := a.batch.Run(ctx, tasks...)
	return a.Stats(), errors.Join(errs...)
}

func (a *Aggregator) collectOne(ctx context.Context, src StatSource) error {
	raw, err := src.Fetch(ctx)
	if err == nil {
		var fields Stats
		if fields, err = src.Extract(raw); err == nil {
			a.Merge(fields)
			a.logger.Debug().Str("source", src.Name).Int("fields", len(fields)).Msg("stats updated")
			return nil
		}
	}

	a.logger.Warn().Err(err).Str("source", src.Name).Msg("stats source failed")
	return fmt.Errorf("%s stats: %w", src.Name, err)
}

// Merge folds figures into the current stats, e.g. from a live
// admin:stats push, and returns the result
func (a *Aggregator) Merge(fields Stats) Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	for k, v := range fields {
		a.stats[k] = v
	}
	return a.copyLocked()
}

// Stats returns a copy of the current figures
func (a *Aggregator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.copyLocked()
}

func (a *Aggregator) copyLocked() Stats {
	out := make(Stats, len(a.stats))
	for k, v := range a.stats {
		out[k] = v
	}
	return out
}
