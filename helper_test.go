package secuofx

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etnz/secuofx/date"
)

// step is one scripted answer of a fake adapter.
type step struct {
	price string
	err   error
}

// scripted is a fake Adapter answering with a list of steps, the last one repeating forever.
type scripted struct {
	name  string
	steps []step

	mu    sync.Mutex
	calls int
}

func newScripted(name string, steps ...step) *scripted { return &scripted{name: name, steps: steps} }

func (s *scripted) Name() string { return s.name }

func (s *scripted) Fetch(_ context.Context, sec Security, on date.Date) (Quote, error) {
	s.mu.Lock()
	i := s.calls
	s.calls++
	s.mu.Unlock()

	st := s.steps[min(i, len(s.steps)-1)]
	if st.err != nil {
		return Quote{}, st.err
	}
	return NewQuote(sec, on, decimal.RequireFromString(st.price))
}

func (s *scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// sleepRecorder is a RetryPolicy.Sleep that records the delays instead of waiting.
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *sleepRecorder) Sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return nil
}

// testPolicy returns a policy that never really sleeps.
func testPolicy(rec *sleepRecorder) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		CallTimeout: time.Second,
		Sleep:       rec.Sleep,
	}
}

var jan15 = date.New(2024, 1, 15)
