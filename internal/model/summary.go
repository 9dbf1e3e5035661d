package model

import "github.com/shopspring/decimal"

// Summary holds the four aggregate figures reported for a statement.
// ShortTermGain and LongTermGain partition the gain/loss column by
// term; TotalProceeds and TotalCostBasis sum every row regardless of
// term.
type Summary struct {
	ShortTermGain  decimal.Decimal
	LongTermGain   decimal.Decimal
	TotalProceeds  decimal.Decimal
	TotalCostBasis decimal.Decimal
}
