package yahoo_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/etnz/secuofx"
	"github.com/etnz/secuofx/date"
	"github.com/etnz/secuofx/yahoo"
)

// chartServer serves testdata/<symbol>.json and 404 for anything else.
func chartServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v8/finance/chart/") {
			http.NotFound(w, r)
			return
		}
		content, err := os.ReadFile(filepath.Join("testdata", path.Base(r.URL.Path)+".json"))
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			body, _ := os.ReadFile(filepath.Join("testdata", "notfound.json"))
			w.Write(body)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(content)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func respond(status int, body string) func(*http.Request) (*http.Response, error) {
	return func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Status:     http.StatusText(status),
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    req,
		}, nil
	}
}

func TestFetch(t *testing.T) {
	srv := chartServer(t)
	a := yahoo.New(yahoo.WithBaseURL(srv.URL), yahoo.WithHTTPClient(srv.Client()))

	tests := []struct {
		id       string
		on       date.Date
		wantDate date.Date
		want     string
		currency secuofx.Currency
		name     string
	}{
		// Jan 15 close is null: the previous trading day is used.
		{"7203.T", date.New(2024, 1, 15), date.New(2024, 1, 12), "2625.5", secuofx.JPY, "Toyota Motor Corporation"},
		{"7203.T", date.New(2024, 1, 16), date.New(2024, 1, 16), "2700", secuofx.JPY, "Toyota Motor Corporation"},
		{"7203.T", date.New(2024, 1, 14), date.New(2024, 1, 12), "2625.5", secuofx.JPY, "Toyota Motor Corporation"},
		// Jan 15 is a US holiday, bars are stamped 09:30 New York time.
		{"AAPL", date.New(2024, 1, 15), date.New(2024, 1, 12), "185.92", secuofx.USD, "Apple Inc."},
		{"aapl", date.New(2024, 1, 11), date.New(2024, 1, 11), "185.59", secuofx.USD, "Apple Inc."},
	}
	for _, tt := range tests {
		t.Run(tt.id+"@"+tt.on.String(), func(t *testing.T) {
			got, err := a.Fetch(t.Context(), secuofx.Classify(tt.id), tt.on)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDate, got.Date)
			assert.Truef(t, got.Price.Equal(decimal.RequireFromString(tt.want)), "Fetch() price = %v, want %v", got.Price, tt.want)
			assert.Equal(t, tt.currency, got.Currency)
			assert.Equal(t, tt.name, got.Name)
			assert.Equal(t, "yahoo", got.Source)
		})
	}
}

func TestFetch_EmptyWindow(t *testing.T) {
	srv := chartServer(t)
	a := yahoo.New(yahoo.WithBaseURL(srv.URL), yahoo.WithHTTPClient(srv.Client()))

	_, err := a.Fetch(t.Context(), secuofx.Classify("7203.T"), date.New(2024, 1, 30))
	require.ErrorIs(t, err, secuofx.ErrNotFound)

	// a zero look-back only accepts the target date itself.
	a = yahoo.New(yahoo.WithBaseURL(srv.URL), yahoo.WithHTTPClient(srv.Client()), yahoo.WithLookback(0))
	_, err = a.Fetch(t.Context(), secuofx.Classify("7203.T"), date.New(2024, 1, 15))
	require.ErrorIs(t, err, secuofx.ErrNotFound)
}

func TestFetch_UnknownSymbol(t *testing.T) {
	srv := chartServer(t)
	a := yahoo.New(yahoo.WithBaseURL(srv.URL), yahoo.WithHTTPClient(srv.Client()))

	_, err := a.Fetch(t.Context(), secuofx.Classify("03311187"), date.New(2024, 1, 15))
	require.ErrorIs(t, err, secuofx.ErrNotFound)
}

func TestFetch_Request(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "/v8/finance/chart/7203.T", req.URL.Path)
			q := req.URL.Query()
			// window is Jan 8..15, widened by one day each side.
			require.Equal(t, "1704585600", q.Get("period1"))
			require.Equal(t, "1705449600", q.Get("period2"))
			require.Equal(t, "1d", q.Get("interval"))
			require.Equal(t, "bar", req.Header.Get("foo"))
			body, err := os.ReadFile(filepath.Join("testdata", "7203.T.json"))
			require.NoError(t, err)
			return respond(http.StatusOK, string(body))(req)
		}).
		Times(1)

	a := yahoo.New(
		yahoo.WithBaseURL("http://localhost:8080"),
		yahoo.WithHTTPClient(httpClient),
		yahoo.WithHeader(http.Header{"foo": []string{"bar"}}),
	)
	_, err := a.Fetch(t.Context(), secuofx.Classify("7203.T"), date.New(2024, 1, 15))
	require.NoError(t, err)
}

func TestFetch_Failures(t *testing.T) {
	t.Parallel()

	notFound, err := os.ReadFile(filepath.Join("testdata", "notfound.json"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		do       func(*http.Request) (*http.Response, error)
		notFound bool
	}{
		{"404", respond(http.StatusNotFound, string(notFound)), true},
		{"error in body", respond(http.StatusOK, string(notFound)), true},
		{"rate limited", respond(http.StatusTooManyRequests, "Too Many Requests"), false},
		{"server error", respond(http.StatusBadGateway, ""), false},
		{"garbage", respond(http.StatusOK, "<html>"), false},
		{"transport", func(*http.Request) (*http.Response, error) { return nil, errors.New("connection reset by peer") }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			httpClient := NewMockHTTPClient(ctrl)
			httpClient.EXPECT().Do(gomock.Any()).DoAndReturn(tt.do).Times(1)

			a := yahoo.New(yahoo.WithHTTPClient(httpClient))
			_, err := a.Fetch(t.Context(), secuofx.Classify("AAPL"), date.New(2024, 1, 15))
			require.Error(t, err)
			assert.Equal(t, tt.notFound, errors.Is(err, secuofx.ErrNotFound), "errors.Is(%v, ErrNotFound)", err)
		})
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "yahoo", yahoo.New().Name())
}
