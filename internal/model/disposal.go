package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Term classifies a disposal by holding period for tax purposes.
type Term string

const (
	// ShortTerm marks disposals of assets held for at most the
	// long-term threshold (365 days by default).
	ShortTerm Term = "short-term"
	// LongTerm marks disposals of assets held beyond the threshold.
	LongTerm Term = "long-term"
)

// Valid reports whether t is a recognized classification.
func (t Term) Valid() bool {
	return t == ShortTerm || t == LongTerm
}

// Disposal is one parsed row of a gain/loss statement: a single tax
// lot sold or otherwise disposed of during the reporting period.
type Disposal struct {
	Asset        string          // asset name, e.g. "BTC"
	Quantity     decimal.Decimal // amount of the asset disposed
	DateAcquired time.Time
	DateDisposed time.Time
	HoldingDays  int
	Term         Term
	CostBasis    decimal.Decimal // USD
	Proceeds     decimal.Decimal // USD
	GainLoss     decimal.Decimal // USD, negative for a loss
	Source       string          // data source reported by the exchange
}
