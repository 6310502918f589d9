package ofx

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etnz/secuofx"
	"github.com/etnz/secuofx/date"
)

// Options are the account level fields of the document.
type Options struct {
	AccountID string
	BrokerID  string
	Org       string
	Language  string
}

// DefaultOptions returns the options used by default.
func DefaultOptions() Options {
	return Options{
		AccountID: "00000",
		BrokerID:  "SecuOFX",
		Org:       "PURSE/0.9",
		Language:  "JPN",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.AccountID == "" {
		o.AccountID = d.AccountID
	}
	if o.BrokerID == "" {
		o.BrokerID = d.BrokerID
	}
	if o.Org == "" {
		o.Org = d.Org
	}
	if o.Language == "" {
		o.Language = d.Language
	}
	return o
}

// market is the home market of a currency: prices are stamped at its close.
type market struct {
	loc   *time.Location
	close int // hour
}

var markets = map[secuofx.Currency]market{
	secuofx.JPY: {time.FixedZone("JST", 9*3600), 15},
	secuofx.USD: {time.FixedZone("EST", -5*3600), 16},
}

// fundUnits is the number of units a mutual fund NAV is quoted for.
var fundUnits = decimal.NewFromInt(10_000)

// FormatTime formats t as an OFX date time with its zone, e.g. "20240115150000[+9:JST]".
func FormatTime(t time.Time) string {
	name, offset := t.Zone()
	return fmt.Sprintf("%s[%+d:%s]", t.Format("20060102150405"), offset/3600, name)
}

// ParseTime parses an OFX date time like "20240115150000.000[+9:JST]".
// Without a zone the time is in UTC.
func ParseTime(s string) (time.Time, error) {
	if len(s) < 14 {
		return time.Time{}, fmt.Errorf("invalid OFX date %q", s)
	}
	loc := time.UTC
	if i := strings.IndexByte(s, '['); i >= 0 {
		zone := strings.TrimSuffix(s[i+1:], "]")
		off, name, _ := strings.Cut(zone, ":")
		hours, err := strconv.ParseFloat(off, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid OFX time zone %q: %w", zone, err)
		}
		loc = time.FixedZone(name, int(hours*3600))
	}
	return time.ParseInLocation("20060102150405", s[:14], loc)
}

// closeOf returns the closing time of the home market of cur on d.
func closeOf(cur secuofx.Currency, d date.Date) (string, error) {
	m, ok := markets[cur]
	if !ok {
		return "", fmt.Errorf("no home market for currency %q", cur)
	}
	return FormatTime(d.In(m.close, 0, m.loc)), nil
}

// SecurityID returns the OFX identifier of a security.
func SecurityID(sec secuofx.Security) SecID {
	switch sec.Kind {
	case secuofx.JapaneseStock:
		return SecID{UniqueID: sec.Code(), UniqueIDType: "JP:SIC"}
	case secuofx.JapaneseMutualFund:
		if sec.IsISIN() {
			return SecID{UniqueID: sec.Symbol, UniqueIDType: "ISIN"}
		}
		return SecID{UniqueID: sec.Symbol, UniqueIDType: "JP:ITAJ"}
	default:
		return SecID{UniqueID: sec.Symbol, UniqueIDType: "NASDAQ"}
	}
}

// UnitPrice returns the price of a single unit: fund NAVs are quoted for 10,000 units.
func UnitPrice(q secuofx.Quote) decimal.Decimal {
	if q.Security.Kind == secuofx.JapaneseMutualFund {
		return q.Price.Div(fundUnits)
	}
	return q.Price
}

// Encode builds the document of the resolved quotes in results. Failures are
// ignored. There is one statement per currency, in order of first appearance,
// dated at the close of its home market on asOf.
func Encode(results []secuofx.Result, asOf date.Date, opts Options) (*Document, error) {
	opts = opts.withDefaults()

	doc := &Document{
		SignOn: SignOn{
			Status:   statusOK,
			DTServer: FormatTime(asOf.In(0, 0, markets[secuofx.JPY].loc)),
			Language: opts.Language,
			Org:      opts.Org,
		},
	}

	index := make(map[secuofx.Currency]int)
	seen := make(map[SecID]bool)
	var infos []SecInfo
	for _, r := range results {
		if r.Quote == nil {
			continue
		}
		q := *r.Quote
		if !q.Currency.Valid() {
			return nil, fmt.Errorf("quote of %q has an invalid currency %q", r.Identifier, q.Currency)
		}

		i, ok := index[q.Currency]
		if !ok {
			asOfTime, err := closeOf(q.Currency, asOf)
			if err != nil {
				return nil, err
			}
			i = len(doc.Statements)
			index[q.Currency] = i
			doc.Statements = append(doc.Statements, Statement{
				TrnUID: strconv.Itoa(i),
				Status: statusOK,
				Response: InvestmentStatement{
					DTAsOf:  asOfTime,
					CurDef:  string(q.Currency),
					Account: Account{BrokerID: opts.BrokerID, AcctID: opts.AccountID},
				},
			})
		}

		priced, err := closeOf(q.Currency, q.Date)
		if err != nil {
			return nil, err
		}
		id := SecurityID(q.Security)
		pos, info := PosStock, StockInfo
		if q.Security.Kind == secuofx.JapaneseMutualFund {
			pos, info = PosMF, MFInfo
		}
		list := &doc.Statements[i].Response.List
		list.Positions = append(list.Positions, Position{
			XMLName: xmlName(pos),
			Inv: InvPos{
				SecID:       id,
				HeldInAcct:  "CASH",
				PosType:     "LONG",
				UnitPrice:   UnitPrice(q),
				DTPriceAsOf: priced,
				Currency:    &CurrencyInfo{Rate: decimal.NewFromInt(1), Symbol: string(q.Currency)},
			},
		})

		if !seen[id] {
			seen[id] = true
			infos = append(infos, SecInfo{XMLName: xmlName(info), SecID: id, Name: q.DisplayName(), Ticker: q.Security.Symbol})
		}
	}

	if len(infos) > 0 {
		doc.SecList = &SecListMessages{
			Trn:  SecListTrn{TrnUID: "0", Status: statusOK},
			List: SecList{Infos: infos},
		}
	}
	return doc, nil
}

// Filename returns the name of the file for the quotes of asOf:
// SecuOFX_YYYYMMDD.ofx, or SecuOFX_YYYYMMDD_<symbol>.ofx for a single quote.
func Filename(asOf date.Date, quotes []secuofx.Quote) string {
	if len(quotes) == 1 {
		return fmt.Sprintf("SecuOFX_%s_%s.ofx", asOf.Format("20060102"), quotes[0].Security.Symbol)
	}
	return fmt.Sprintf("SecuOFX_%s.ofx", asOf.Format("20060102"))
}

func xmlName(local string) xml.Name { return xml.Name{Local: local} }
