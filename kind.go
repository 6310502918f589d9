package secuofx

// Kind is the market classification of a security.
type Kind int

const (
	Unknown Kind = iota
	JapaneseStock
	USStock
	JapaneseMutualFund
)

// String returns the kind tag as used in reports.
func (k Kind) String() string {
	switch k {
	case JapaneseStock:
		return "JP_STOCK"
	case USStock:
		return "US_STOCK"
	case JapaneseMutualFund:
		return "JP_MUTUALFUND"
	default:
		return "UNKNOWN"
	}
}

// Currency returns the home currency of securities of that kind.
//
// The currency of a quote is always the one of its kind, it is never guessed
// from the price.
func (k Kind) Currency() Currency {
	switch k {
	case JapaneseStock, JapaneseMutualFund:
		return JPY
	case USStock:
		return USD
	default:
		return ""
	}
}
