package streamlite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Thetiptop007/The-Tip-Top/internal/relay"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"
)

// EventRequestStats asks the backend to push fresh admin:stats
const EventRequestStats = "admin:request-stats"

// Reconnect defaults
const (
	DefaultReconnectDelay = time.Second
	DefaultMaxAttempts    = 5
)

// ErrNotConnected is returned when emitting without a live connection
var ErrNotConnected = errors.New("socket not connected")

// SocketOptions configures a SocketConnector
type SocketOptions struct {
	Token          string
	ReconnectDelay time.Duration
	MaxAttempts    int
	Logger         zerolog.Logger
}

// SocketConnector keeps a websocket to the backend open and publishes
// every received frame onto a relay bus.
type SocketConnector struct {
	*BaseConnector

	url    string
	bus    *relay.Bus
	opts   SocketOptions
	logger zerolog.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	cancel context.CancelFunc
	done   chan struct{}
}

type frame struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

var _ Connector = (*SocketConnector)(nil)

// NewSocketConnector creates a connector for url publishing onto bus
func NewSocketConnector(url string, bus *relay.Bus, opts SocketOptions) *SocketConnector {
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = DefaultReconnectDelay
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	return &SocketConnector{
		BaseConnector: NewBaseConnector("socket"),
		url:           url,
		bus:           bus,
		opts:          opts,
		logger:        opts.Logger.With().Str("url", url).Logger(),
	}
}

// Start dials the socket and begins reading in the background.
// The first dial error is returned; later drops are retried.
func (s *SocketConnector) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.done != nil {
		s.mu.Unlock()
		return fmt.Errorf("%s connector already started", s.Name())
	}
	s.mu.Unlock()

	conn, err := s.dial(ctx)
	if err != nil {
		return err
	}
	_ = s.BaseConnector.Start(ctx)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	s.conn = conn
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	go s.loop(runCtx, conn, done)
	return nil
}

// Stop closes the connection and waits for the read loop to exit
func (s *SocketConnector) Stop() error {
	s.mu.Lock()
	cancel, done, conn := s.cancel, s.done, s.conn
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	if conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "")
	}
	<-done

	s.mu.Lock()
	s.conn, s.cancel, s.done = nil, nil, nil
	s.mu.Unlock()
	return nil
}

// Connected reports whether a live connection is held
func (s *SocketConnector) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Emit sends an event frame to the backend
func (s *SocketConnector) Emit(ctx context.Context, event string, data any) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	if err := wsjson.Write(ctx, conn, frame{Event: event, Data: data}); err != nil {
		return fmt.Errorf("failed to emit %s: %w", event, err)
	}
	return nil
}

// RequestStats asks the backend for a fresh stats push
func (s *SocketConnector) RequestStats(ctx context.Context) error {
	return s.Emit(ctx, EventRequestStats, nil)
}

func (s *SocketConnector) dial(ctx context.Context) (*websocket.Conn, error) {
	opts := &websocket.DialOptions{}
	if s.opts.Token != "" {
		opts.HTTPHeader = http.Header{"Authorization": []string{"Bearer " + s.opts.Token}}
	}
	conn, _, err := websocket.Dial(ctx, s.url, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to dial socket: %w", err)
	}
	conn.SetReadLimit(1 << 20)
	s.logger.Info().Msg("socket connected")
	return conn, nil
}

func (s *SocketConnector) loop(ctx context.Context, conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		err := s.read(ctx, conn)
		s.setConn(nil)
		_ = conn.CloseNow()
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn().Err(err).Msg("socket disconnected")

		conn = s.reconnect(ctx)
		if conn == nil {
			return
		}
		s.setConn(conn)
	}
}

func (s *SocketConnector) read(ctx context.Context, conn *websocket.Conn) error {
	for {
		var msg relay.Message
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return err
		}
		if msg.Event == "" {
			continue
		}
		msg.ReceivedAt = time.Now()
		s.bus.Publish(ctx, msg)
	}
}

func (s *SocketConnector) reconnect(ctx context.Context) *websocket.Conn {
	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.opts.ReconnectDelay):
		}

		conn, err := s.dial(ctx)
		if err == nil {
			return conn
		}
		s.logger.Warn().Err(err).Int("attempt", attempt).Msg("socket reconnect failed")
	}
	s.logger.Error().Int("attempts", s.opts.MaxAttempts).Msg("giving up on socket reconnect")
	return nil
}

func (s *SocketConnector) setConn(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = conn
}
