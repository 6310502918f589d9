package toushin

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"

	"github.com/etnz/secuofx/date"
)

// NAV is a net asset value per 10,000 units published for a date.
type NAV struct {
	Date  date.Date
	Value decimal.Decimal
}

// dateLayouts are the date formats found in the NAV history.
var dateLayouts = []string{"2006年1月2日", "2006/1/2", "2006-1-2", "2006.1.2"}

// parseDate parses a date in any of the formats used by the fund library.
func parseDate(s string) (date.Date, error) {
	s = strings.TrimSpace(width.Fold.String(s))
	for _, layout := range dateLayouts {
		if d, err := date.ParseLayout(layout, s); err == nil {
			return d, nil
		}
	}
	return date.Date{}, fmt.Errorf("invalid date %q", s)
}

// parseValue parses an amount like "12,345" or "１２，３４５円".
func parseValue(s string) (decimal.Decimal, error) {
	s = width.Fold.String(s)
	s = strings.NewReplacer(",", "", "円", "", " ", "").Replace(strings.TrimSpace(s))
	return decimal.NewFromString(s)
}

// ReadHistory reads a Shift-JIS NAV history CSV. The header row, when present,
// locates the date (年月日 or 日付) and NAV (基準価額) columns. Rows that cannot
// be parsed are skipped. It fails when no row could be read.
func ReadHistory(r io.Reader) ([]NAV, error) {
	cr := csv.NewReader(transform.NewReader(r, japanese.ShiftJIS.NewDecoder()))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read NAV history: %w", err)
	}

	dateCol, navCol, start := 0, 1, 0
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		joined := strings.Join(row, "")
		if !strings.Contains(joined, "年月日") && !strings.Contains(joined, "日付") && !strings.Contains(joined, "基準価額") {
			continue
		}
		for j, cell := range row {
			switch {
			case strings.Contains(cell, "年月日") || strings.Contains(cell, "日付"):
				dateCol = j
			case strings.Contains(cell, "基準価額"):
				navCol = j
			}
		}
		start = i + 1
		break
	}

	var history []NAV
	for _, row := range rows[start:] {
		if len(row) <= max(dateCol, navCol) {
			continue
		}
		d, err := parseDate(row[dateCol])
		if err != nil {
			continue
		}
		v, err := parseValue(row[navCol])
		if err != nil || !v.IsPositive() {
			continue
		}
		history = append(history, NAV{Date: d, Value: v})
	}
	if len(history) == 0 {
		return nil, errors.New("no NAV in history")
	}
	return history, nil
}

// Nearest returns the latest NAV within window.
func Nearest(history []NAV, window date.Range) (NAV, bool) {
	var best NAV
	found := false
	for _, nav := range history {
		if !window.Contains(nav.Date) {
			continue
		}
		if !found || nav.Date.After(best.Date) {
			best, found = nav, true
		}
	}
	return best, found
}
