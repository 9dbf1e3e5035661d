// Package report renders a Summary for human and machine consumption.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/cryptotax-dev/cryptotax/internal/model"
)

// USD formats a decimal dollar amount for display, e.g. "$1,234.56".
// The amount is rounded to cents.
func USD(d decimal.Decimal) string {
	cur := money.New(0, money.USD).Currency()
	cents := d.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(cents.IntPart())
}

// Write renders the summary as a human-readable report.
func Write(w io.Writer, s model.Summary) error {
	lines := []struct {
		label string
		value decimal.Decimal
	}{
		{"Short-term gain (loss)", s.ShortTermGain},
		{"Long-term gain (loss)", s.LongTermGain},
		{"Total proceeds", s.TotalProceeds},
		{"Total cost basis", s.TotalCostBasis},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-24s %s\n", l.label+":", USD(l.value)); err != nil {
			return err
		}
	}
	return nil
}

// jsonSummary pins the JSON field names and renders amounts with a
// fixed two-decimal scale.
type jsonSummary struct {
	ShortTermGain  string `json:"short_term_gain"`
	LongTermGain   string `json:"long_term_gain"`
	TotalProceeds  string `json:"total_proceeds"`
	TotalCostBasis string `json:"total_cost_basis"`
}

// WriteJSON renders the summary as indented JSON for piping into
// other tooling.
func WriteJSON(w io.Writer, s model.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonSummary{
		ShortTermGain:  s.ShortTermGain.StringFixed(2),
		LongTermGain:   s.LongTermGain.StringFixed(2),
		TotalProceeds:  s.TotalProceeds.StringFixed(2),
		TotalCostBasis: s.TotalCostBasis.StringFixed(2),
	})
}
