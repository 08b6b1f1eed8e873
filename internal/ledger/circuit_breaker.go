package ledger

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

// Breaker trips after repeated bridge failures so a dead wallet provider is
// reported as unavailable instead of timing out on every call.
type Breaker struct {
	mu              sync.RWMutex
	state           BreakerState
	failureCount    int
	successCount    int
	lastFailureTime time.Time

	maxFailures      int
	timeout          time.Duration
	halfOpenMaxCalls int
}

type BreakerConfig struct {
	MaxFailures      int           `json:"max_failures"`
	Timeout          time.Duration `json:"timeout"`
	HalfOpenMaxCalls int           `json:"half_open_max_calls"`
}

func DefaultBreakerConfig() *BreakerConfig {
	return &BreakerConfig{
		MaxFailures:      5,
		Timeout:          30 * time.Second,
		HalfOpenMaxCalls: 3,
	}
}

func NewBreaker(config *BreakerConfig) *Breaker {
	if config == nil {
		config = DefaultBreakerConfig()
	}

	return &Breaker{
		state:            BreakerClosed,
		maxFailures:      config.MaxFailures,
		timeout:          config.Timeout,
		halfOpenMaxCalls: config.HalfOpenMaxCalls,
	}
}

func (b *Breaker) Execute(fn func() error) error {
	if !b.allow() {
		return ErrProviderUnavailable
	}

	err := fn()

	if err != nil {
		b.recordFailure()
		return err
	}

	b.recordSuccess()
	return nil
}

func (b *Breaker) allow() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	switch b.state {
	case BreakerClosed:
		return true
	case BreakerOpen:
		return b.shouldAttemptReset()
	case BreakerHalfOpen:
		return b.successCount < b.halfOpenMaxCalls
	default:
		return false
	}
}

func (b *Breaker) shouldAttemptReset() bool {
	return time.Since(b.lastFailureTime) >= b.timeout
}

func (b *Breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failureCount++
	b.lastFailureTime = time.Now()

	switch b.state {
	case BreakerClosed:
		if b.failureCount >= b.maxFailures {
			b.state = BreakerOpen
		}
	case BreakerHalfOpen:
		b.state = BreakerOpen
		b.successCount = 0
	}
}

func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		b.failureCount = 0
	case BreakerHalfOpen:
		b.successCount++
		if b.successCount >= b.halfOpenMaxCalls {
			b.state = BreakerClosed
			b.failureCount = 0
			b.successCount = 0
		}
	case BreakerOpen:
		if b.shouldAttemptReset() {
			b.state = BreakerHalfOpen
			b.successCount = 1
		}
	}
}

func (b *Breaker) State() BreakerState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// GuardedProvider wraps a Provider with a Breaker. Connect and Disconnect
// bypass the breaker: a connect attempt is exactly the call that should probe
// a provider that was down.
type GuardedProvider struct {
	provider Provider
	breaker  *Breaker
}

func NewGuardedProvider(provider Provider, breaker *Breaker) *GuardedProvider {
	if breaker == nil {
		breaker = NewBreaker(nil)
	}
	return &GuardedProvider{provider: provider, breaker: breaker}
}

func (g *GuardedProvider) Connect(ctx context.Context) (Account, error) {
	return g.provider.Connect(ctx)
}

func (g *GuardedProvider) Disconnect(ctx context.Context) error {
	return g.provider.Disconnect(ctx)
}

func (g *GuardedProvider) Account(ctx context.Context) (Account, error) {
	var account Account
	err := g.breaker.Execute(func() error {
		var callErr error
		account, callErr = g.provider.Account(ctx)
		return callErr
	})
	return account, err
}

func (g *GuardedProvider) SignAndSubmitTransaction(ctx context.Context, payload EntryFunctionPayload) (TxnHandle, error) {
	var handle TxnHandle
	err := g.breaker.Execute(func() error {
		var callErr error
		handle, callErr = g.provider.SignAndSubmitTransaction(ctx, payload)
		return callErr
	})
	return handle, err
}

func (g *GuardedProvider) View(ctx context.Context, req ViewRequest) ([]json.RawMessage, error) {
	var values []json.RawMessage
	err := g.breaker.Execute(func() error {
		var callErr error
		values, callErr = g.provider.View(ctx, req)
		return callErr
	})
	return values, err
}
