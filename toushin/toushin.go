// Package toushin reads mutual fund NAVs from the Investment Trusts
// Association fund library (投信総合検索ライブラリー).
//
// The fund page gives the fund name and a link to the NAV history as a
// Shift-JIS CSV file. When the CSV cannot be used the NAV is extracted from the
// page text instead.
package toushin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/etnz/secuofx"
	"github.com/etnz/secuofx/date"
	"github.com/etnz/secuofx/httpx"
)

const (
	baseURL = "https://toushin-lib.fwg.ne.jp"

	// DefaultLookback is the number of calendar days searched before the
	// target date when no NAV is published on that day.
	DefaultLookback = 7

	pagePath = "/FdsWeb/FDST030000"
	csvPath  = "/FdsWeb/FDST030000/csv-file-download"
)

// Adapter is the fund library quote source.
type Adapter struct {
	baseURL    string
	httpClient httpx.Doer
	extractor  Extractor
	lookback   int
	log        zerolog.Logger
}

// Option is a configuration option for the Adapter.
type Option func(*Adapter)

// WithBaseURL sets the base URL of the fund library.
func WithBaseURL(u string) Option {
	return func(a *Adapter) {
		if u != "" {
			a.baseURL = u
		}
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c httpx.Doer) Option { return func(a *Adapter) { a.httpClient = c } }

// WithExtractor replaces the page text extractor used when the CSV is unusable.
func WithExtractor(e Extractor) Option { return func(a *Adapter) { a.extractor = e } }

// WithLookback sets how many days before the target date a NAV is accepted.
func WithLookback(days int) Option { return func(a *Adapter) { a.lookback = days } }

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Adapter) { a.log = log.With().Str("client", "toushin").Logger() }
}

// New creates a fund library adapter.
func New(options ...Option) *Adapter {
	a := &Adapter{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		extractor:  DefaultExtractor(),
		lookback:   DefaultLookback,
		log:        zerolog.Nop(),
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// Name implements secuofx.Adapter.
func (a *Adapter) Name() string { return "toushin" }

// PageURL returns the address of the fund page for sec.
func (a *Adapter) PageURL(sec secuofx.Security) string {
	q := url.Values{}
	if sec.IsISIN() {
		q.Set("isinCd", sec.Symbol)
	} else {
		q.Set("associFundCd", sec.Symbol)
	}
	return a.baseURL + pagePath + "?" + q.Encode()
}

// Fetch implements secuofx.Adapter.
func (a *Adapter) Fetch(ctx context.Context, sec secuofx.Security, on date.Date) (secuofx.Quote, error) {
	if sec.Kind != secuofx.JapaneseMutualFund {
		return secuofx.Quote{}, fmt.Errorf("%w: %s is not a mutual fund", secuofx.ErrNotFound, sec.Symbol)
	}
	window := date.LookBack(on, a.lookback)

	pageURL := a.PageURL(sec)
	body, err := httpx.Get(ctx, a.httpClient, pageURL, nil)
	if err != nil {
		var status *httpx.StatusError
		if errors.As(err, &status) && status.StatusCode == http.StatusNotFound {
			return secuofx.Quote{}, fmt.Errorf("%w: no fund page for %q", secuofx.ErrNotFound, sec.Symbol)
		}
		return secuofx.Quote{}, fmt.Errorf("cannot get fund page: %w", err)
	}
	base, _ := url.Parse(pageURL)
	page, err := ParsePage(bytes.NewReader(body), base)
	if err != nil {
		return secuofx.Quote{}, fmt.Errorf("cannot parse fund page: %w", err)
	}
	if page.CSVURL == "" && page.AssocCode != "" && sec.IsISIN() {
		q := url.Values{}
		q.Set("isinCd", sec.Symbol)
		q.Set("associFundCd", page.AssocCode)
		page.CSVURL = a.baseURL + csvPath + "?" + q.Encode()
	}
	name := page.Name
	if name == "" {
		name = "投資信託 " + sec.Symbol
	}
	log := a.log.With().Str("fund", sec.Symbol).Logger()

	if page.CSVURL != "" {
		history, err := a.history(ctx, page.CSVURL)
		if err == nil {
			nav, ok := Nearest(history, window)
			if !ok {
				return secuofx.Quote{}, fmt.Errorf("%w: no NAV for %q in %v", secuofx.ErrNotFound, sec.Symbol, window)
			}
			quote, err := secuofx.NewQuote(sec, nav.Date, nav.Value)
			if err != nil {
				return secuofx.Quote{}, err
			}
			return quote.With(name, a.Name(), ""), nil
		}
		if ctx.Err() != nil {
			return secuofx.Quote{}, err
		}
		log.Warn().Err(err).Msg("NAV history unusable, reading the page instead")
	} else {
		log.Warn().Msg("no NAV history link, reading the page instead")
	}

	v, err := a.extractor.Extract(page.Text)
	if err != nil {
		return secuofx.Quote{}, fmt.Errorf("cannot read NAV of %q: %w", sec.Symbol, err)
	}
	note := ""
	day := v.Date
	switch {
	case day.IsZero():
		day = on
		note = "latest published NAV, valuation date unknown"
	case !window.Contains(day):
		return secuofx.Quote{}, fmt.Errorf("%w: published NAV of %q is dated %v, outside %v", secuofx.ErrNotFound, sec.Symbol, day, window)
	}
	quote, err := secuofx.NewQuote(sec, day, v.Value)
	if err != nil {
		return secuofx.Quote{}, err
	}
	return quote.With(name, a.Name(), note), nil
}

// history downloads and parses the NAV history CSV.
func (a *Adapter) history(ctx context.Context, addr string) ([]NAV, error) {
	body, err := httpx.Get(ctx, a.httpClient, addr, nil)
	if err != nil {
		return nil, err
	}
	return ReadHistory(bytes.NewReader(body))
}
