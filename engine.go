package labauth

import (
	"context"
	"time"

	"github.com/4clab/labauth/jwt"
	"github.com/4clab/labauth/notify"
)

// Engine is the server-side authentication core. It is safe for concurrent
// use after construction through [Builder.Build].
type Engine struct {
	config   Config
	store    CredentialStore
	hasher   passwordHasher
	tokens   *jwt.Manager
	notifier *notify.Dispatcher
	metrics  *Metrics
}

// passwordHasher is the contract the engine needs from the password package.
type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
	NeedsUpgrade(encodedHash string) (bool, error)
}

// Close flushes and stops the notification dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.notifier.Close()
}

// NotificationsDropped reports how many events the dispatcher discarded
// because its buffer was full.
func (e *Engine) NotificationsDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.notifier.Dropped()
}

// MetricsSnapshot returns a copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// Ping reports whether the credential store is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	if err := e.store.Ping(ctx); err != nil {
		return ErrStoreUnavailable
	}
	return nil
}

// VerifyToken validates a signed token and returns its claims. Any signature
// mismatch, malformed structure, or past expiry yields [ErrTokenInvalid];
// partial claims are never returned.
func (e *Engine) VerifyToken(token string) (*jwt.Claims, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.tokens.Parse(token)
	if err != nil {
		e.metricInc(MetricVerifyFailure)
		return nil, ErrTokenInvalid
	}

	e.metricInc(MetricVerifySuccess)
	return claims, nil
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) emit(ctx context.Context, eventType string, level notify.Level, userID, message string) {
	if e == nil || e.notifier == nil {
		return
	}
	e.notifier.Emit(ctx, notify.Event{
		Timestamp: time.Now(),
		EventType: eventType,
		Level:     level,
		UserID:    userID,
		IP:        clientIPFromContext(ctx),
		Message:   message,
	})
}
