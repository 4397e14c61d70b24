// Package streamlite provides connectors that stream live events from the backend.
package streamlite

import (
	"context"
	"sync"
	"time"
)

// Connector represents a live event source
type Connector interface {
	Name() string
	Start(ctx context.Context) error
	Stop() error
}

// BaseConnector provides common functionality for all connectors
type BaseConnector struct {
	name string

	mu        sync.RWMutex
	startedAt time.Time
}

// NewBaseConnector creates a new base connector
func NewBaseConnector(name string) *BaseConnector {
	return &BaseConnector{
		name: name,
	}
}

// Name returns the connector name
func (c *BaseConnector) Name() string {
	return c.name
}

// Start marks the connector as started
func (c *BaseConnector) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startedAt = time.Now()
	return nil
}

// StartedAt returns when the connector was last started
func (c *BaseConnector) StartedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.startedAt
}

// Stop is a placeholder for cleanup
func (c *BaseConnector) Stop() error {
	return nil
}
