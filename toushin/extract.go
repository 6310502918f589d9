package toushin

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/width"

	"github.com/etnz/secuofx/date"
)

// Valuation is a NAV read from free text. Date is zero when the text does not
// say when it was published.
type Valuation struct {
	Value decimal.Decimal
	Date  date.Date
}

// Extractor reads a NAV from the visible text of a fund page.
type Extractor interface {
	Extract(text string) (Valuation, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(text string) (Valuation, error)

func (f ExtractorFunc) Extract(text string) (Valuation, error) { return f(text) }

// datePattern matches the dates written in fund pages.
const datePattern = `[0-9]{4}[年/.-][0-9]{1,2}[月/.-][0-9]{1,2}日?`

// ErrNoValue is returned when no NAV can be read from the text.
var ErrNoValue = errors.New("no NAV in page")

// LabelExtractor takes the first number following Label that lies strictly
// between Min and Max. Signed numbers and numbers introduced by one of Stops
// belong to another figure and are skipped. The valuation date is the date
// written between the label and the number, else the date following DateLabel.
// Full-width characters are folded first.
type LabelExtractor struct {
	Label     string
	DateLabel string
	Stops     []string
	Min, Max  decimal.Decimal

	// Span is the number of characters allowed between a label and its value,
	// a date counting as one.
	Span int
}

// DefaultExtractor returns the extractor for the fund library pages.
func DefaultExtractor() *LabelExtractor {
	return &LabelExtractor{
		Label:     "基準価額",
		DateLabel: "基準日",
		Stops:     []string{"前日比", "騰落", "分配金", "純資産"},
		Min:       decimal.NewFromInt(100),
		Max:       decimal.NewFromInt(1_000_000),
		Span:      20,
	}
}

// token is a date, or a possibly signed number.
var token = regexp.MustCompile(`(` + datePattern + `)|([-+±▲△−]?)([0-9][0-9,]*(?:\.[0-9]+)?)`)

// Extract implements Extractor.
func (e *LabelExtractor) Extract(text string) (Valuation, error) {
	text = width.Fold.String(text)
	span := e.Span
	if span <= 0 {
		span = 20
	}

	v, found := Valuation{}, false
	for rest := text; !found && e.Label != ""; {
		i := strings.Index(rest, e.Label)
		if i < 0 {
			break
		}
		rest = rest[i+len(e.Label):]
		v, found = e.after(rest, span)
	}
	if !found {
		return Valuation{}, ErrNoValue
	}

	if v.Date.IsZero() && e.DateLabel != "" {
		when := regexp.MustCompile(fmt.Sprintf(`%s[^0-9]{0,%d}?(%s)`, regexp.QuoteMeta(e.DateLabel), span, datePattern))
		if m := when.FindStringSubmatch(text); m != nil {
			if d, err := parseDate(m[1]); err == nil {
				v.Date = d
			}
		}
	}
	return v, nil
}

// after scans the text following a label for its value.
func (e *LabelExtractor) after(text string, span int) (Valuation, bool) {
	var v Valuation
	gap, prev := 0, 0
	for _, m := range token.FindAllStringSubmatchIndex(text, -1) {
		between := text[prev:m[0]]
		gap += utf8.RuneCountInString(between)
		if gap > span {
			break
		}
		prev = m[1]
		gap++

		if m[2] >= 0 {
			if d, err := parseDate(text[m[2]:m[3]]); err == nil && v.Date.IsZero() {
				v.Date = d
			}
			continue
		}
		if m[5] > m[4] || e.stopped(between) {
			// a change or another figure, not the NAV.
			continue
		}
		if next, _ := utf8.DecodeRuneInString(text[m[1]:]); next == '年' || next == '/' {
			continue
		}
		value, err := parseValue(text[m[6]:m[7]])
		if err != nil || value.LessThanOrEqual(e.Min) || value.GreaterThanOrEqual(e.Max) {
			continue
		}
		v.Value = value
		return v, true
	}
	return Valuation{}, false
}

func (e *LabelExtractor) stopped(s string) bool {
	for _, stop := range e.Stops {
		if strings.Contains(s, stop) {
			return true
		}
	}
	return false
}
