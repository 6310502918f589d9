package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/etnz/secuofx"
	"github.com/etnz/secuofx/date"
	"github.com/etnz/secuofx/httpx"
)

// JSON paths into the chart response.
//
//	{"chart": {"result": [{
//	    "meta": {"currency": "JPY", "symbol": "7203.T", "gmtoffset": 32400, "longName": "Toyota Motor Corporation"},
//	    "timestamp": [1705276800, ...],
//	    "indicators": {"quote": [{"close": [2650.5, null, ...]}]}
//	}], "error": null}}
const (
	pathError      = "$.chart.error"
	pathTimestamps = "$.chart.result[0].timestamp"
	pathCloses     = "$.chart.result[0].indicators.quote[0].close"
	pathOffset     = "$.chart.result[0].meta.gmtoffset"
	pathLongName   = "$.chart.result[0].meta.longName"
	pathShortName  = "$.chart.result[0].meta.shortName"
)

// Ticker returns the Yahoo symbol used for sec.
func Ticker(sec secuofx.Security) string { return sec.Symbol }

// Fetch implements secuofx.Adapter. It returns the latest close on or before
// on, within the look-back window.
func (a *Adapter) Fetch(ctx context.Context, sec secuofx.Security, on date.Date) (secuofx.Quote, error) {
	window := date.LookBack(on, a.lookback)

	symbol := Ticker(sec)
	q := url.Values{}
	// one extra day each side: bars are stamped in UTC, not in exchange time.
	q.Set("period1", strconv.FormatInt(window.From.Add(-1).Unix(), 10))
	q.Set("period2", strconv.FormatInt(window.To.Add(2).Unix(), 10))
	q.Set("interval", "1d")
	addr := a.baseURL + "/v8/finance/chart/" + url.PathEscape(symbol) + "?" + q.Encode()

	body, err := httpx.Get(ctx, a.httpClient, addr, a.header)
	if err != nil {
		var status *httpx.StatusError
		if errors.As(err, &status) && status.StatusCode == http.StatusNotFound {
			return secuofx.Quote{}, fmt.Errorf("%w: unknown symbol %q", secuofx.ErrNotFound, symbol)
		}
		return secuofx.Quote{}, err
	}

	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		return secuofx.Quote{}, fmt.Errorf("cannot parse chart for %q: %w", symbol, err)
	}

	if err := chartError(jobj); err != nil {
		return secuofx.Quote{}, fmt.Errorf("chart for %q: %w", symbol, err)
	}

	bars, err := readBars(jobj)
	if err != nil {
		return secuofx.Quote{}, fmt.Errorf("chart for %q: %w", symbol, err)
	}

	day, price, ok := latest(bars, window)
	if !ok {
		return secuofx.Quote{}, fmt.Errorf("%w: no close for %q in %v", secuofx.ErrNotFound, symbol, window)
	}
	a.log.Debug().Str("symbol", symbol).Stringer("date", day).Stringer("close", price).Msg("close found")

	quote, err := secuofx.NewQuote(sec, day, price)
	if err != nil {
		return secuofx.Quote{}, err
	}
	return quote.With(name(jobj), a.Name(), ""), nil
}

// bar is a daily close stamped with its exchange-local date.
type bar struct {
	day   date.Date
	close decimal.Decimal
}

// latest returns the most recent bar within window.
func latest(bars []bar, window date.Range) (date.Date, decimal.Decimal, bool) {
	var best *bar
	for i := range bars {
		b := &bars[i]
		if !window.Contains(b.day) {
			continue
		}
		if best == nil || b.day.After(best.day) {
			best = b
		}
	}
	if best == nil {
		return date.Date{}, decimal.Zero, false
	}
	return best.day, best.close, true
}

// chartError returns the error reported by the API in the body, if any.
func chartError(jobj any) error {
	jval, err := jsonpath.Get(pathError, jobj)
	if err != nil || jval == nil {
		return nil
	}
	m, ok := jval.(map[string]any)
	if !ok {
		return nil
	}
	code, _ := m["code"].(string)
	desc, _ := m["description"].(string)
	if code == "Not Found" {
		return fmt.Errorf("%w: %s", secuofx.ErrNotFound, desc)
	}
	return fmt.Errorf("api error %s: %s", code, desc)
}

// readBars extracts the non null closes from the chart.
func readBars(jobj any) ([]bar, error) {
	stamps, err := jsonpath.Get(pathTimestamps, jobj)
	if err != nil {
		// Yahoo omits timestamps entirely when the range holds no trading day.
		return nil, nil
	}
	closes, err := jsonpath.Get(pathCloses, jobj)
	if err != nil {
		return nil, fmt.Errorf("no close prices: %w", err)
	}
	ts, ok1 := stamps.([]any)
	cs, ok2 := closes.([]any)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("unexpected chart layout")
	}
	if len(ts) != len(cs) {
		return nil, fmt.Errorf("%d timestamps for %d closes", len(ts), len(cs))
	}

	var offset int64
	if v, err := jsonpath.Get(pathOffset, jobj); err == nil {
		if f, ok := first(v).(float64); ok {
			offset = int64(f)
		}
	}

	bars := make([]bar, 0, len(ts))
	for i := range ts {
		stamp, ok := ts[i].(float64)
		if !ok {
			continue
		}
		c, ok := cs[i].(float64)
		if !ok || c <= 0 {
			// null close: the exchange was closed or the bar is incomplete.
			continue
		}
		local := time.Unix(int64(stamp)+offset, 0).UTC()
		bars = append(bars, bar{day: date.Of(local), close: decimal.NewFromFloat(c).Round(4)})
	}
	return bars, nil
}

// name returns the long name of the security, or its short name.
func name(jobj any) string {
	for _, path := range []string{pathLongName, pathShortName} {
		v, err := jsonpath.Get(path, jobj)
		if err != nil {
			continue
		}
		if s, ok := first(v).(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// first unwraps a single element list: jsonpath is never clear about whether
// it returns a list of one answer or the answer itself.
func first(v any) any {
	if l, ok := v.([]any); ok && len(l) > 0 {
		return l[0]
	}
	return v
}
