package secuofx

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etnz/secuofx/date"
)

func TestNewQuote(t *testing.T) {
	q, err := NewQuote(Classify("AAPL"), jan15, decimal.RequireFromString("185.92"))
	require.NoError(t, err)
	assert.Equal(t, USD, q.Currency)
	assert.Equal(t, "AAPL", q.DisplayName())

	// the currency never depends on the magnitude of the price.
	q, err = NewQuote(Classify("7203.T"), jan15, decimal.RequireFromString("0.5"))
	require.NoError(t, err)
	assert.Equal(t, JPY, q.Currency)

	_, err = NewQuote(Classify("AAPL"), jan15, decimal.Zero)
	assert.Error(t, err)
	_, err = NewQuote(Classify("AAPL"), jan15, decimal.NewFromInt(-1))
	assert.Error(t, err)
	_, err = NewQuote(Classify("???"), jan15, decimal.NewFromInt(1))
	assert.Error(t, err)
	_, err = NewQuote(Classify("AAPL"), date.Date{}, decimal.NewFromInt(1))
	assert.Error(t, err)
}

func TestCurrency(t *testing.T) {
	assert.True(t, JPY.Valid())
	assert.True(t, USD.Valid())
	assert.False(t, Currency("XYZ").Valid())
	assert.False(t, Currency("").Valid())
	assert.Equal(t, "¥2,626", JPY.Format(decimal.RequireFromString("2625.5")))
	assert.Equal(t, "$185.92", USD.Format(decimal.RequireFromString("185.92")))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "JP_STOCK", JapaneseStock.String())
	assert.Equal(t, "US_STOCK", USStock.String())
	assert.Equal(t, "JP_MUTUALFUND", JapaneseMutualFund.String())
	assert.Equal(t, "UNKNOWN", Unknown.String())
	assert.Equal(t, Currency(""), Unknown.Currency())
}

func TestQuote_With(t *testing.T) {
	q, err := NewQuote(Classify("03311118"), jan15, decimal.NewFromInt(12345))
	require.NoError(t, err)
	q2 := q.With("eMAXIS Slim", "toushin", "")
	assert.Equal(t, "eMAXIS Slim", q2.DisplayName())
	assert.Equal(t, "toushin", q2.Source)
	assert.Empty(t, q.Name, "With returns a copy")
}
