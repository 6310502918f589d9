package secuofx

import (
	"regexp"
	"strings"
	"unicode"
)

// Security is a classified identifier.
type Security struct {
	Kind     Kind
	Symbol   string // normalized symbol, used to query sources.
	Exchange string // exchange suffix for Japanese stocks ("T", "O", ...), otherwise empty.
}

// IsISIN reports whether the security symbol is an ISIN code.
func (s Security) IsISIN() bool { return isinPattern.MatchString(s.Symbol) }

// Code returns the bare security code: the symbol without its exchange suffix.
func (s Security) Code() string {
	if s.Exchange == "" {
		return s.Symbol
	}
	return strings.TrimSuffix(s.Symbol, "."+s.Exchange)
}

var (
	// 4 chars TSE code (numeric, or the newer alphanumeric "130A" style) and the exchange:
	// Tokyo, Osaka, Nagoya, Fukuoka, Sapporo.
	jpStockPattern = regexp.MustCompile(`^[0-9][0-9A-Z]{3}\.(T|O|N|F|S)$`)
	usStockPattern = regexp.MustCompile(`^[A-Za-z]{1,5}$`)
	// Investment Trusts Association (ITAJ) fund code.
	fundCodePattern = regexp.MustCompile(`^[0-9]{8}$`)
	isinPattern     = regexp.MustCompile(`^JP[0-9A-Z]{10}$`)
)

// rule is a single classification predicate. It returns ok=false when it does not apply.
type rule func(s string) (sec Security, ok bool)

// rules are evaluated in order, first match wins.
var rules = []rule{
	func(s string) (Security, bool) {
		m := jpStockPattern.FindStringSubmatch(s)
		if m == nil {
			return Security{}, false
		}
		return Security{Kind: JapaneseStock, Symbol: s, Exchange: m[1]}, true
	},
	func(s string) (Security, bool) {
		if !usStockPattern.MatchString(s) {
			return Security{}, false
		}
		return Security{Kind: USStock, Symbol: strings.ToUpper(s)}, true
	},
	func(s string) (Security, bool) {
		if !fundCodePattern.MatchString(s) {
			return Security{}, false
		}
		return Security{Kind: JapaneseMutualFund, Symbol: s}, true
	},
	func(s string) (Security, bool) {
		if !isinPattern.MatchString(s) {
			return Security{}, false
		}
		return Security{Kind: JapaneseMutualFund, Symbol: s}, true
	},
}

// Classify maps a raw identifier to a Security.
//
// It never fails: an identifier that matches no rule is returned as a
// Security of Kind Unknown, carrying the trimmed input as Symbol.
func Classify(raw string) Security {
	s := strings.TrimSpace(raw)
	for _, r := range rules {
		if sec, ok := r(s); ok {
			return sec
		}
	}
	return Security{Kind: Unknown, Symbol: s}
}

// ParseIdentifiers splits a free text list of identifiers separated by commas,
// spaces or new lines. Order and duplicates are preserved.
func ParseIdentifiers(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '、' || r == ';' || unicode.IsSpace(r)
	})
}
