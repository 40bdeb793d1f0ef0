package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/coderr/marketplace/internal/core/ports"
)

// BreakerTokenStore guards a TokenStore with a circuit breaker so that a
// Redis outage fails logins fast instead of waiting on every call.
type BreakerTokenStore struct {
	next ports.TokenStore
	cb   *gobreaker.CircuitBreaker
}

// BreakerSettings tunes the breaker. Zero values use the defaults below.
type BreakerSettings struct {
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// MinRequests is the request count needed before the failure ratio counts.
	MinRequests uint32
	// FailureRatio trips the breaker once reached.
	FailureRatio float64
}

func NewBreakerTokenStore(next ports.TokenStore, s BreakerSettings) *BreakerTokenStore {
	if s.Timeout <= 0 {
		s.Timeout = 10 * time.Second
	}
	if s.MinRequests == 0 {
		s.MinRequests = 5
	}
	if s.FailureRatio <= 0 {
		s.FailureRatio = 0.6
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "token-store",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= s.MinRequests && ratio >= s.FailureRatio
		},
	})
	return &BreakerTokenStore{next: next, cb: cb}
}

func (b *BreakerTokenStore) Current(ctx context.Context, userID int64) (string, error) {
	v, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Current(ctx, userID)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (b *BreakerTokenStore) Save(ctx context.Context, userID int64, token string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Save(ctx, userID, token)
	})
	return err
}

func (b *BreakerTokenStore) State() gobreaker.State {
	return b.cb.State()
}

// Check fails while the breaker is open. It backs the token store entry of
// the readiness check.
func (b *BreakerTokenStore) Check(context.Context) error {
	if st := b.cb.State(); st == gobreaker.StateOpen {
		return fmt.Errorf("token store circuit %s", st)
	}
	return nil
}

var _ ports.TokenStore = (*BreakerTokenStore)(nil)
