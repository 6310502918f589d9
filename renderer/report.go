package renderer

import (
	"github.com/etnz/secuofx"
	"github.com/etnz/secuofx/date"
)

// Report is the status of every identifier of a batch.
type Report struct {
	Date     date.Date
	Rows     []Row
	Resolved int
	Failed   int
}

// Row is the status of one identifier, formatted for display.
type Row struct {
	Identifier string
	Kind       string
	Name       string
	Price      string
	Currency   string
	Date       string
	Source     string
	Status     string
}

// NewReport builds the report of results, in input order.
func NewReport(results []secuofx.Result, on date.Date) *Report {
	r := &Report{Date: on}
	for _, res := range results {
		row := Row{
			Identifier: res.Identifier,
			Kind:       res.Security.Kind.String(),
		}
		switch {
		case res.Quote != nil:
			q := res.Quote
			r.Resolved++
			row.Name = q.DisplayName()
			row.Price = q.Currency.Format(q.Price)
			row.Currency = string(q.Currency)
			row.Date = q.Date.String()
			row.Source = q.Source
			row.Status = "OK"
			if q.Note != "" {
				row.Status = "OK (" + q.Note + ")"
			}
		case res.Err != nil:
			r.Failed++
			row.Status = res.Err.Kind.String() + ": " + res.Err.Message
		}
		r.Rows = append(r.Rows, row)
	}
	return r
}

// RenderReport renders the report to a markdown string.
func RenderReport(r *Report) string {
	partials := map[string]string{
		"report_title":   "report_title.md",
		"report_table":   "report_table.md",
		"report_summary": "report_summary.md",
	}
	return renderTemplate("report", "report.md", partials, r)
}

// ReportMarkdown renders the status of results as markdown.
func ReportMarkdown(results []secuofx.Result, on date.Date) string {
	return RenderReport(NewReport(results, on))
}
