package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"hrrecords/internal/platform/querier"
)

// ErrUnavailable is returned by every write when no store is reachable.
// The message is surfaced to callers verbatim.
var ErrUnavailable = errors.New("Database not available")

// Handle owns the process-wide pool. The pool is built on first use and
// kept for the life of the process; a failed build is not remembered, so
// the next call tries again.
type Handle struct {
	url     string
	connect Connector
	mu      sync.Mutex
	pool    atomic.Pointer[pgxpool.Pool]
}

// Connector builds a ready pool for a connection string.
type Connector func(ctx context.Context, databaseURL string) (*pgxpool.Pool, error)

func NewHandle(databaseURL string) *Handle {
	return NewHandleWith(databaseURL, Connect)
}

func NewHandleWith(databaseURL string, connect Connector) *Handle {
	return &Handle{url: databaseURL, connect: connect}
}

// Configured reports whether a connection string was supplied at all.
func (h *Handle) Configured() bool {
	return h != nil && h.url != ""
}

// Pool returns the shared pool, or nil without error when no connection
// string is configured.
func (h *Handle) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	if !h.Configured() {
		return nil, nil
	}
	if pool := h.pool.Load(); pool != nil {
		return pool, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if pool := h.pool.Load(); pool != nil {
		return pool, nil
	}
	pool, err := h.connect(ctx, h.url)
	if err != nil {
		return nil, err
	}
	h.pool.Store(pool)
	return pool, nil
}

// Reader returns a querier for best-effort reads. ok is false when the
// store is missing or cannot be reached; callers then return empty results.
func (h *Handle) Reader(ctx context.Context) (querier.Querier, bool) {
	pool, err := h.Pool(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("database connect failed, serving empty read")
		return nil, false
	}
	if pool == nil {
		return nil, false
	}
	return pool, true
}

// Writer returns a querier for writes or ErrUnavailable.
func (h *Handle) Writer(ctx context.Context) (querier.Querier, error) {
	pool, err := h.Pool(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if pool == nil {
		return nil, ErrUnavailable
	}
	return pool, nil
}

func (h *Handle) Ping(ctx context.Context) error {
	pool, err := h.Pool(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if pool == nil {
		return ErrUnavailable
	}
	return pool.Ping(ctx)
}

func (h *Handle) Close() {
	if h == nil {
		return
	}
	if pool := h.pool.Swap(nil); pool != nil {
		pool.Close()
	}
}

// Connect parses databaseURL, builds the pool and pings it once.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 0
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
