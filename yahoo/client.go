// Package yahoo fetches daily closing prices from the Yahoo Finance chart API.
package yahoo

import (
	"net/http"

	"github.com/rs/zerolog"
)

const (
	baseURL = "https://query1.finance.yahoo.com"

	// DefaultLookback is the number of calendar days searched before the
	// target date when it is not a trading day.
	DefaultLookback = 7
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=yahoo_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Adapter is the Yahoo Finance quote source.
type Adapter struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient sends the requests.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
	// lookback is the number of days searched before the target date.
	lookback int
	log      zerolog.Logger
}

// Option is a configuration option for the Adapter.
type Option func(*Adapter)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(u string) Option {
	return func(a *Adapter) {
		if u != "" {
			a.baseURL = u
		}
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(c HTTPClient) Option {
	return func(a *Adapter) { a.httpClient = c }
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) Option {
	return func(a *Adapter) {
		for key, values := range header {
			for _, value := range values {
				a.header.Add(key, value)
			}
		}
	}
}

// WithLookback sets how many days before the target date a close is accepted.
func WithLookback(days int) Option {
	return func(a *Adapter) { a.lookback = days }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Adapter) { a.log = log.With().Str("client", "yahoo").Logger() }
}

// New creates a new Yahoo Finance adapter.
func New(options ...Option) *Adapter {
	a := &Adapter{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		lookback:   DefaultLookback,
		log:        zerolog.Nop(),
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// Name implements secuofx.Adapter.
func (a *Adapter) Name() string { return "yahoo" }
