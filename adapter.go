package secuofx

import (
	"context"

	"github.com/etnz/secuofx/date"
)

// Adapter retrieves the quote of a security from one data source.
//
// Fetch returns the price on, or nearest before, the requested day. It returns
// an error wrapping ErrNotFound when the source has no such data, so that it
// is not retried.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, sec Security, on date.Date) (Quote, error)
}

// Chain is the ordered list of adapters for a Kind: the primary first, then fallbacks.
type Chain []Adapter

// AdapterFunc turns a function into an Adapter.
type AdapterFunc struct {
	ID string
	F  func(ctx context.Context, sec Security, on date.Date) (Quote, error)
}

func (a AdapterFunc) Name() string { return a.ID }
func (a AdapterFunc) Fetch(ctx context.Context, sec Security, on date.Date) (Quote, error) {
	return a.F(ctx, sec, on)
}
