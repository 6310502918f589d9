package secuofx

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/etnz/secuofx/date"
)

// Currency is an ISO 4217 currency code.
type Currency string

const (
	JPY Currency = money.JPY
	USD Currency = money.USD
)

// Valid reports whether c is a currency code known to ISO 4217.
func (c Currency) Valid() bool { return c != "" && money.GetCurrency(string(c)) != nil }

// Format formats amount for display, e.g. "$185.64" or "¥2,561".
func (c Currency) Format(amount decimal.Decimal) string {
	cur := money.GetCurrency(string(c))
	if cur == nil {
		return amount.String()
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}

// Quote is the price of a security on a given day.
//
// Quotes are built with NewQuote and never modified afterwards.
type Quote struct {
	Security Security
	Date     date.Date       // valuation date, on or before the requested date.
	Price    decimal.Decimal // always > 0, in Currency. Mutual funds are quoted per 10,000 units.
	Currency Currency
	Name     string // display name, if the source knows it.
	Source   string // name of the adapter that produced it.
	Note     string // non fatal caveat about this quote.
}

// NewQuote returns a validated quote. The currency is derived from the security kind.
func NewQuote(sec Security, on date.Date, price decimal.Decimal) (Quote, error) {
	if sec.Kind == Unknown || sec.Symbol == "" {
		return Quote{}, fmt.Errorf("cannot quote unclassified security %q", sec.Symbol)
	}
	if !price.IsPositive() {
		return Quote{}, fmt.Errorf("invalid price %s for %s: must be positive", price, sec.Symbol)
	}
	if on.IsZero() {
		return Quote{}, fmt.Errorf("missing valuation date for %s", sec.Symbol)
	}
	return Quote{
		Security: sec,
		Date:     on,
		Price:    price,
		Currency: sec.Kind.Currency(),
	}, nil
}

// With returns a copy of q with the descriptive fields set, empty values are ignored.
func (q Quote) With(name, source, note string) Quote {
	if name != "" {
		q.Name = name
	}
	if source != "" {
		q.Source = source
	}
	if note != "" {
		q.Note = note
	}
	return q
}

// DisplayName returns Name, or the symbol when the name is unknown.
func (q Quote) DisplayName() string {
	if q.Name != "" {
		return q.Name
	}
	return q.Security.Symbol
}
