// Package summary reduces the disposals of a gain/loss statement to
// the four figures needed for tax filing.
package summary

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cryptotax-dev/cryptotax/internal/model"
)

// ErrInvalidTerm reports a disposal whose term classification is
// neither short-term nor long-term. The importer never produces such
// a row; this guards callers that construct Disposals directly.
var ErrInvalidTerm = errors.New("invalid term classification")

// Calculate folds disposals into a Summary in a single pass. It is a
// pure function: no state survives a call, and permuting the input
// does not change the result. An empty input yields a zero Summary.
func Calculate(rows []model.Disposal) (model.Summary, error) {
	shortTerm := decimal.Zero
	longTerm := decimal.Zero
	proceeds := decimal.Zero
	costBasis := decimal.Zero

	for i, row := range rows {
		switch row.Term {
		case model.ShortTerm:
			shortTerm = shortTerm.Add(row.GainLoss)
		case model.LongTerm:
			longTerm = longTerm.Add(row.GainLoss)
		default:
			return model.Summary{}, fmt.Errorf("disposal %d (%s): %w: %q",
				i+1, row.Asset, ErrInvalidTerm, row.Term)
		}
		proceeds = proceeds.Add(row.Proceeds)
		costBasis = costBasis.Add(row.CostBasis)
	}

	return model.Summary{
		ShortTermGain:  shortTerm,
		LongTermGain:   longTerm,
		TotalProceeds:  proceeds,
		TotalCostBasis: costBasis,
	}, nil
}
