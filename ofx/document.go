// Package ofx writes price quotes as an OFX 2 investment statement download,
// the format read by personal finance software to import security prices.
//
// A document holds one statement per currency, each listing a position per
// quote with a zero quantity, and the list of the quoted securities.
package ofx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// Header is written before the OFX element. The comment keeps the OFX 1 header
// fields for importers that sniff them.
const Header = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<?OFX OFXHEADER="200" VERSION="203" SECURITY="NONE" OLDFILEUID="NONE" NEWFILEUID="NONE"?>
<!--
OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:UTF-8
CHARSET:UNICODE
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE
-->
`

// Document is an OFX investment statement download.
type Document struct {
	XMLName    xml.Name         `xml:"OFX"`
	SignOn     SignOn           `xml:"SIGNONMSGSRSV1>SONRS"`
	Statements []Statement      `xml:"INVSTMTMSGSRSV1>INVSTMTTRNRS,omitempty"`
	SecList    *SecListMessages `xml:"SECLISTMSGSRSV1,omitempty"`
}

// Status is a transaction status, always successful here.
type Status struct {
	Code     int    `xml:"CODE"`
	Severity string `xml:"SEVERITY"`
}

var statusOK = Status{Code: 0, Severity: "INFO"}

// SignOn is the sign-on response.
type SignOn struct {
	Status   Status `xml:"STATUS"`
	DTServer string `xml:"DTSERVER"`
	Language string `xml:"LANGUAGE"`
	Org      string `xml:"FI>ORG"`
}

// Statement is the investment statement transaction of one currency.
type Statement struct {
	TrnUID   string              `xml:"TRNUID"`
	Status   Status              `xml:"STATUS"`
	Response InvestmentStatement `xml:"INVSTMTRS"`
}

// InvestmentStatement is the position list of an account.
type InvestmentStatement struct {
	DTAsOf  string       `xml:"DTASOF"`
	CurDef  string       `xml:"CURDEF"`
	Account Account      `xml:"INVACCTFROM"`
	List    PositionList `xml:"INVPOSLIST"`
	Balance Balance      `xml:"INVBAL"`
}

// Account identifies the brokerage account.
type Account struct {
	BrokerID string `xml:"BROKERID"`
	AcctID   string `xml:"ACCTID"`
}

// PositionList holds POSSTOCK and POSMF elements in document order.
type PositionList struct {
	Positions []Position `xml:",any"`
}

// Position is a POSSTOCK or POSMF element.
type Position struct {
	XMLName xml.Name
	Inv     InvPos `xml:"INVPOS"`
}

// Element names of positions and security infos.
const (
	PosStock  = "POSSTOCK"
	PosMF     = "POSMF"
	StockInfo = "STOCKINFO"
	MFInfo    = "MFINFO"
)

// InvPos is the content common to all positions.
type InvPos struct {
	SecID       SecID           `xml:"SECID"`
	HeldInAcct  string          `xml:"HELDINACCT"`
	PosType     string          `xml:"POSTYPE"`
	Units       decimal.Decimal `xml:"UNITS"`
	UnitPrice   decimal.Decimal `xml:"UNITPRICE"`
	MktVal      decimal.Decimal `xml:"MKTVAL"`
	DTPriceAsOf string          `xml:"DTPRICEASOF"`
	Currency    *CurrencyInfo   `xml:"CURRENCY,omitempty"`
}

// SecID identifies a security.
type SecID struct {
	UniqueID     string `xml:"UNIQUEID"`
	UniqueIDType string `xml:"UNIQUEIDTYPE"`
}

// CurrencyInfo is the currency of a position.
type CurrencyInfo struct {
	Rate   decimal.Decimal `xml:"CURRATE"`
	Symbol string          `xml:"CURSYM"`
}

// Balance is the (empty) cash balance of the account.
type Balance struct {
	AvailCash     decimal.Decimal `xml:"AVAILCASH"`
	MarginBalance decimal.Decimal `xml:"MARGINBALANCE"`
	ShortBalance  decimal.Decimal `xml:"SHORTBALANCE"`
}

// SecListMessages is the security list message set.
type SecListMessages struct {
	Trn  SecListTrn `xml:"SECLISTTRNRS"`
	List SecList    `xml:"SECLIST"`
}

// SecListTrn is the (empty) security list transaction.
type SecListTrn struct {
	TrnUID string `xml:"TRNUID"`
	Status Status `xml:"STATUS"`
}

// SecList holds STOCKINFO and MFINFO elements in document order.
type SecList struct {
	Infos []SecInfo `xml:",any"`
}

// SecInfo is a STOCKINFO or MFINFO element.
type SecInfo struct {
	XMLName xml.Name
	SecID   SecID  `xml:"SECINFO>SECID"`
	Name    string `xml:"SECINFO>SECNAME"`
	Ticker  string `xml:"SECINFO>TICKER,omitempty"`
}

// Positions returns all the positions of all the statements.
func (d *Document) Positions() []Position {
	var all []Position
	for _, s := range d.Statements {
		all = append(all, s.Response.List.Positions...)
	}
	return all
}

// Currencies returns the default currency of each statement.
func (d *Document) Currencies() []string {
	curs := make([]string, 0, len(d.Statements))
	for _, s := range d.Statements {
		curs = append(curs, s.Response.CurDef)
	}
	return curs
}

// WriteTo writes the header and the document.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString(Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(d); err != nil {
		return 0, fmt.Errorf("cannot encode OFX: %w", err)
	}
	buf.WriteByte('\n')
	return buf.WriteTo(w)
}

// Bytes returns the document as written by WriteTo.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a document written by WriteTo.
func Decode(r io.Reader) (*Document, error) {
	var d Document
	if err := xml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("cannot decode OFX: %w", err)
	}
	return &d, nil
}
