// Package session keeps the per-tab storefront sessions in memory.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/perfumery/cart/pkg/store"
	inErrors "github.com/Alturino/perfumery/internal/errors"
	"github.com/Alturino/perfumery/internal/log"
	"github.com/Alturino/perfumery/internal/metrics"
	"github.com/Alturino/perfumery/internal/remote"
	"github.com/Alturino/perfumery/order/pkg/checkout"
	orderResponse "github.com/Alturino/perfumery/order/pkg/response"
)

const (
	DefaultIdleTimeout   = 30 * time.Minute
	DefaultSweepInterval = time.Minute
)

type Option func(*Registry)

func WithIdleTimeout(timeout time.Duration) Option {
	return func(r *Registry) {
		if timeout > 0 {
			r.idleTimeout = timeout
		}
	}
}

func WithSweepInterval(interval time.Duration) Option {
	return func(r *Registry) {
		if interval > 0 {
			r.sweepInterval = interval
		}
	}
}

func WithDismissDelay(delay time.Duration) Option {
	return func(r *Registry) { r.dismissDelay = delay }
}

// WithCurrency sets the currency written on every order header.
func WithCurrency(currency string) Option {
	return func(r *Registry) { r.currency = currency }
}

func WithMetrics(m *metrics.Storefront) Option {
	return func(r *Registry) { r.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

type Registry struct {
	writer        remote.OrderWriter
	metrics       *metrics.Storefront
	now           func() time.Time
	currency      string
	idleTimeout   time.Duration
	sweepInterval time.Duration
	dismissDelay  time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry(writer remote.OrderWriter, opts ...Option) *Registry {
	r := &Registry{
		writer:        writer,
		now:           time.Now,
		idleTimeout:   DefaultIdleTimeout,
		sweepInterval: DefaultSweepInterval,
		dismissDelay:  checkout.DefaultDismissDelay,
		sessions:      map[uuid.UUID]*Session{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) newWorkflow(s *Session) *checkout.Workflow {
	var w *checkout.Workflow
	w = checkout.New(
		r.writer,
		checkout.WithDismissDelay(r.dismissDelay),
		checkout.WithMetrics(r.metrics),
		checkout.WithCurrency(r.currency),
		checkout.WithOnSuccess(func(orderResponse.Order) { s.Clear() }),
		checkout.WithOnDismiss(func() { s.dropWorkflow(w) }),
	)
	return w
}

// Start opens a session with an empty cart.
func (r *Registry) Start(c context.Context) *Session {
	now := r.now()
	s := &Session{
		ID:          uuid.New(),
		CreatedAt:   now,
		newWorkflow: r.newWorkflow,
		cart:        store.New(),
		lastSeen:    now,
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	count := len(r.sessions)
	r.mu.Unlock()
	r.metrics.SetSessions(count)

	zerolog.Ctx(c).
		Info().
		Str(log.KeyTag, "session Registry Start").
		Str(log.KeySessionID, s.ID.String()).
		Int(log.KeySessionsCount, count).
		Msg("started session")
	return s
}

// Get returns the session and marks it as active.
func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("failed getting session id=%s with error=%w", id, inErrors.ErrSessionNotFound)
	}
	s.touch(r.now())
	return s, nil
}

// End closes the session workflow and drops its cart.
func (r *Registry) End(c context.Context, id uuid.UUID) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	count := len(r.sessions)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("failed ending session id=%s with error=%w", id, inErrors.ErrSessionNotFound)
	}
	s.close()
	r.metrics.SetSessions(count)

	zerolog.Ctx(c).
		Info().
		Str(log.KeyTag, "session Registry End").
		Str(log.KeySessionID, id.String()).
		Int(log.KeySessionsCount, count).
		Msg("ended session")
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep ends every session idle for longer than the idle timeout and returns how many it ended.
func (r *Registry) Sweep(c context.Context) int {
	deadline := r.now().Add(-r.idleTimeout)

	r.mu.Lock()
	expired := []*Session{}
	for id, s := range r.sessions {
		if s.idleSince().Before(deadline) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	count := len(r.sessions)
	r.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	if len(expired) > 0 {
		r.metrics.SetSessions(count)
		zerolog.Ctx(c).
			Info().
			Str(log.KeyTag, "session Registry Sweep").
			Int("expired", len(expired)).
			Int(log.KeySessionsCount, count).
			Msg("expired idle sessions")
	}
	return len(expired)
}

// Run sweeps idle sessions until c is done.
func (r *Registry) Run(c context.Context) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "session Registry Run").
		Dur("idleTimeout", r.idleTimeout).
		Dur("sweepInterval", r.sweepInterval).
		Logger()

	logger.Info().Msg("starting session janitor")
	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.Done():
			logger.Info().Msg("stopped session janitor")
			return
		case <-ticker.C:
			r.Sweep(c)
		}
	}
}
