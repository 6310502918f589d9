package toushin

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etnz/secuofx/date"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want date.Date
	}{
		{"2024/01/15", date.New(2024, 1, 15)},
		{"2024/1/5", date.New(2024, 1, 5)},
		{"2024年01月15日", date.New(2024, 1, 15)},
		{"2024年1月5日", date.New(2024, 1, 5)},
		{"２０２４年１月５日", date.New(2024, 1, 5)},
		{" 2024-01-15 ", date.New(2024, 1, 15)},
	}
	for _, tt := range tests {
		got, err := parseDate(tt.in)
		if err != nil {
			t.Errorf("parseDate(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, in := range []string{"", "基準日", "15/01/2024", "2024年13月01日"} {
		if _, err := parseDate(in); err == nil {
			t.Errorf("parseDate(%q) expected an error", in)
		}
	}
}

func TestReadHistory(t *testing.T) {
	t.Run("header", func(t *testing.T) {
		history, err := ReadHistory(bytes.NewReader(shiftJIS(t, allCountryCSV)))
		require.NoError(t, err)
		require.Len(t, history, 4)
		assert.Equal(t, date.New(2024, 1, 11), history[0].Date)
		assert.True(t, history[0].Value.Equal(decimal.NewFromInt(21005)))
	})

	t.Run("columns located by header", func(t *testing.T) {
		csv := "ファンド名,ひふみ投信\n基準価額(円),分配金,日付\n\"78,512\",0,2024/01/12\n\"78,600\",0,2024/01/15\n"
		history, err := ReadHistory(bytes.NewReader(shiftJIS(t, csv)))
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, date.New(2024, 1, 15), history[1].Date)
		assert.True(t, history[0].Value.Equal(decimal.NewFromInt(78512)), "value = %v", history[0].Value)
	})

	t.Run("no header", func(t *testing.T) {
		history, err := ReadHistory(strings.NewReader("2024/01/12,10500\n2024/01/15,10550\n"))
		require.NoError(t, err)
		require.Len(t, history, 2)
	})

	t.Run("unusable", func(t *testing.T) {
		for _, csv := range []string{"", "<html>error</html>", "年月日,基準価額\n合計,-\n"} {
			_, err := ReadHistory(bytes.NewReader(shiftJIS(t, csv)))
			assert.Error(t, err, csv)
		}
	})
}

func TestNearest(t *testing.T) {
	history := []NAV{
		{date.New(2024, 1, 16), decimal.NewFromInt(4)},
		{date.New(2024, 1, 11), decimal.NewFromInt(1)},
		{date.New(2024, 1, 12), decimal.NewFromInt(2)},
	}
	tests := []struct {
		on   date.Date
		want int64
		ok   bool
	}{
		{date.New(2024, 1, 15), 2, true},
		{date.New(2024, 1, 12), 2, true},
		{date.New(2024, 1, 16), 4, true},
		{date.New(2024, 1, 25), 0, false},
		{date.New(2024, 1, 10), 0, false},
	}
	for _, tt := range tests {
		got, ok := Nearest(history, date.LookBack(tt.on, 7))
		if ok != tt.ok {
			t.Errorf("Nearest(%v) found = %v, want %v", tt.on, ok, tt.ok)
			continue
		}
		if ok && !got.Value.Equal(decimal.NewFromInt(tt.want)) {
			t.Errorf("Nearest(%v) = %v, want %v", tt.on, got.Value, tt.want)
		}
	}
}
