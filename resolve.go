package secuofx

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/etnz/secuofx/date"
)

// Result is the outcome of resolving one identifier: exactly one of Quote and Err is set.
type Result struct {
	Identifier string
	Security   Security
	Quote      *Quote
	Err        *FetchError
	Attempts   int // number of adapter calls made.
}

// OK reports whether the identifier was resolved.
func (r Result) OK() bool { return r.Quote != nil }

// Results are the results of a batch, in input order.
type Results []Result

// Quotes returns the successful quotes, in input order.
func (rs Results) Quotes() []Quote {
	quotes := make([]Quote, 0, len(rs))
	for _, r := range rs {
		if r.Quote != nil {
			quotes = append(quotes, *r.Quote)
		}
	}
	return quotes
}

// Failures returns the failed results, in input order.
func (rs Results) Failures() Results {
	var failed Results
	for _, r := range rs {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Resolver resolves a batch of identifiers.
//
// Its zero value resolves nothing but classification failures; set Chains.
type Resolver struct {
	Chains      map[Kind]Chain
	Policy      RetryPolicy
	Concurrency int // maximum identifiers resolved in parallel, 1 or less means sequential.
	Log         zerolog.Logger
}

// Resolve returns one Result per identifier, in the same order.
//
// Identifiers are resolved independently: a failure, a retry or a backoff on
// one of them never affects the others.
func (r *Resolver) Resolve(ctx context.Context, identifiers []string, on date.Date) Results {
	results := make(Results, len(identifiers))

	var g errgroup.Group
	g.SetLimit(max(1, r.Concurrency))
	for i, id := range identifiers {
		g.Go(func() error {
			// each goroutine owns results[i].
			results[i] = r.resolve(ctx, id, on)
			return nil
		})
	}
	g.Wait() // never fails.
	return results
}

// resolve resolves a single identifier.
func (r *Resolver) resolve(ctx context.Context, id string, on date.Date) Result {
	sec := Classify(id)
	res := Result{Identifier: id, Security: sec}
	if sec.Kind == Unknown {
		res.Err = &FetchError{
			Identifier: id,
			Kind:       ClassificationFailed,
			Message:    fmt.Sprintf("%q is not a Japanese stock code (e.g. 7203.T), a US ticker (e.g. AAPL) nor a mutual fund code (e.g. 03311187)", id),
		}
		r.Log.Info().Str("identifier", id).Msg("unrecognized identifier")
		return res
	}

	run := r.Policy.run(ctx, r.Chains[sec.Kind], sec, on)
	res.Attempts = run.calls
	if run.phase != succeeded {
		res.Err = run.failure(id)
		r.Log.Info().Str("identifier", id).Stringer("kind", sec.Kind).Stringer("error", res.Err.Kind).Int("attempts", run.calls).Msg("unresolved")
		return res
	}
	q := run.quote
	res.Quote = &q
	r.Log.Info().Str("identifier", id).Stringer("kind", sec.Kind).Str("price", q.Price.String()).Str("currency", string(q.Currency)).Stringer("date", q.Date).Str("source", q.Source).Msg("resolved")
	return res
}
