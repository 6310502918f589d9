package renderer

import "github.com/etnz/secuofx"

// Classification lists how identifiers are understood, without fetching anything.
type Classification struct {
	Rows []ClassificationRow
}

// ClassificationRow is one classified identifier.
type ClassificationRow struct {
	Identifier string
	Kind       string
	Symbol     string
	Exchange   string
	Currency   string
}

// NewClassification classifies ids, in order.
func NewClassification(ids []string) *Classification {
	c := &Classification{}
	for _, id := range ids {
		sec := secuofx.Classify(id)
		c.Rows = append(c.Rows, ClassificationRow{
			Identifier: id,
			Kind:       sec.Kind.String(),
			Symbol:     sec.Symbol,
			Exchange:   sec.Exchange,
			Currency:   string(sec.Kind.Currency()),
		})
	}
	return c
}

// RenderClassification renders the classification to a markdown string.
func RenderClassification(c *Classification) string {
	return renderTemplate("classification", "classification.md", nil, c)
}
