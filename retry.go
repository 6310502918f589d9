package secuofx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/etnz/secuofx/date"
)

// RetryPolicy drives a Chain of adapters with bounded retries.
//
// Each adapter of the chain gets up to MaxAttempts calls. After the failed
// attempt n of an adapter, the policy waits Backoff(BaseDelay, n) before
// the next one. An ErrNotFound answer is never retried: it moves straight to
// the next adapter of the chain.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	CallTimeout time.Duration // per adapter call, zero means no timeout.

	// Sleep waits for d or until ctx is done. Nil means a real timer.
	Sleep func(ctx context.Context, d time.Duration) error
	Log   zerolog.Logger
}

// DefaultRetryPolicy returns the policy used when nothing is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		CallTimeout: 15 * time.Second,
		Log:         zerolog.Nop(),
	}
}

// MaxBackoff bounds the delay between two attempts.
const MaxBackoff = time.Hour

// Backoff returns the delay to wait after the failed attempt n (starting at 1):
// base * 2^(n-1), saturated at MaxBackoff.
func Backoff(base time.Duration, n int) time.Duration {
	if n < 1 {
		n = 1
	}
	if base <= 0 {
		return 0
	}
	d := base
	for i := 1; i < n && d < MaxBackoff; i++ {
		d *= 2
	}
	return min(d, MaxBackoff)
}

// phase is the state of a retry run.
type phase int

const (
	attempting         phase = iota // calling the primary adapter.
	fallbackAttempting              // calling a fallback adapter.
	succeeded
	exhausted
)

// run is the state of one retry run over a chain.
type run struct {
	phase   phase
	stage   int // index of the current adapter in the chain.
	attempt int // 1-based attempt counter, per adapter.
	calls   int // total adapter calls.
	quote   Quote
	last    error
}

// advance moves the run to the next adapter of the chain, or exhausts it.
func (r *run) advance(chainLen int) {
	r.stage++
	r.attempt = 1
	if r.stage >= chainLen {
		r.phase = exhausted
		return
	}
	r.phase = fallbackAttempting
}

// Fetch resolves sec on the given day through chain.
//
// On failure, the returned error is a *FetchError whose kind is derived from
// the last adapter error.
func (p RetryPolicy) Fetch(ctx context.Context, chain Chain, sec Security, on date.Date) (Quote, error) {
	r := p.run(ctx, chain, sec, on)
	if r.phase == succeeded {
		return r.quote, nil
	}
	return Quote{}, r.failure(sec.Symbol)
}

func (p RetryPolicy) run(ctx context.Context, chain Chain, sec Security, on date.Date) *run {
	r := &run{phase: attempting, attempt: 1}
	if len(chain) == 0 {
		r.phase = exhausted
		r.last = fmt.Errorf("no source for %s securities", sec.Kind)
		return r
	}

	for r.phase == attempting || r.phase == fallbackAttempting {
		a := chain[r.stage]
		q, err := p.call(ctx, a, sec, on)
		r.calls++
		if err == nil {
			r.quote = q
			r.phase = succeeded
			break
		}
		r.last = fmt.Errorf("%s: %w", a.Name(), err)

		if ctx.Err() != nil {
			// the whole batch is being abandoned.
			r.phase = exhausted
			break
		}
		if errors.Is(err, ErrNotFound) || r.attempt >= p.maxAttempts() {
			p.Log.Debug().Err(err).Str("symbol", sec.Symbol).Str("source", a.Name()).Int("attempt", r.attempt).Msg("giving up on source")
			r.advance(len(chain))
			continue
		}

		wait := Backoff(p.BaseDelay, r.attempt)
		p.Log.Warn().Err(err).
			Str("symbol", sec.Symbol).
			Str("source", a.Name()).
			Int("attempt", r.attempt).
			Dur("wait", wait).
			Msg("fetch failed, retrying")
		if err := p.sleep(ctx, wait); err != nil {
			r.phase = exhausted
			break
		}
		r.attempt++
	}
	return r
}

// call performs a single adapter call under the per call timeout, and checks the returned quote.
func (p RetryPolicy) call(ctx context.Context, a Adapter, sec Security, on date.Date) (Quote, error) {
	if p.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.CallTimeout)
		defer cancel()
	}
	q, err := a.Fetch(ctx, sec, on)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !IsTimeout(err) {
			err = fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return Quote{}, err
	}
	if !q.Price.IsPositive() {
		return Quote{}, fmt.Errorf("invalid price %s", q.Price)
	}
	if q.Date.After(on) {
		return Quote{}, fmt.Errorf("%w: source returned a price dated %s", ErrNotFound, q.Date)
	}
	q.Security = sec
	q.Currency = sec.Kind.Currency()
	if q.Source == "" {
		q.Source = a.Name()
	}
	return q, nil
}

func (p RetryPolicy) maxAttempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p RetryPolicy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// failure converts an exhausted run into a FetchError.
func (r *run) failure(identifier string) *FetchError {
	kind := failureKind(r.last)
	msg := fmt.Sprintf("gave up after %d attempt(s): %v", r.calls, r.last)
	if kind == NotFoundForDate {
		msg = fmt.Sprintf("no price on or before the requested date (possibly a market holiday): %v", r.last)
	}
	return &FetchError{Identifier: identifier, Kind: kind, Message: msg, Err: r.last}
}
