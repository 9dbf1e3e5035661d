package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cryptotax-dev/cryptotax/internal/config"
	"github.com/cryptotax-dev/cryptotax/internal/model"
)

// CoinbaseParser parses Coinbase Gain/Loss Statement CSV exports.
//
// Exports carry a metadata preamble of variable length before the
// header, so the header row is located by content rather than by a
// fixed skip count. The column-to-field mapping is resolved once from
// the header using the configured column names.
type CoinbaseParser struct {
	cfg *config.Config
}

// NewCoinbaseParser creates a parser using cfg's column mapping,
// long-term threshold and date layouts.
func NewCoinbaseParser(cfg *config.Config) *CoinbaseParser {
	return &CoinbaseParser{cfg: cfg}
}

// Format returns the parser name.
func (p *CoinbaseParser) Format() string { return "coinbase" }

// columnIndex holds the resolved position of each mapped column, -1
// when the column is absent from the header.
type columnIndex struct {
	asset        int
	quantity     int
	dateAcquired int
	dateDisposed int
	costBasis    int
	proceeds     int
	gainLoss     int
	holdingDays  int
	source       int
}

// Parse reads a gain/loss statement and returns its Disposals. It
// aborts on the first malformed row: a summary computed from a
// partially read statement would be silently wrong.
func (p *CoinbaseParser) Parse(r io.Reader) ([]model.Disposal, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // preamble rows have fewer fields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}

	idx, headerRow, err := p.locateHeader(records)
	if err != nil {
		return nil, err
	}

	var rows []model.Disposal
	for i, rec := range records[headerRow+1:] {
		if isBlank(rec) {
			continue
		}
		d, err := p.parseRow(idx, rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", headerRow+i+2, err)
		}
		rows = append(rows, d)
	}
	return rows, nil
}

// locateHeader finds the header row and resolves the column mapping.
// A row is the header when it carries the three required amount
// columns.
func (p *CoinbaseParser) locateHeader(records [][]string) (columnIndex, int, error) {
	cols := p.cfg.Columns
	for row, rec := range records {
		pos := make(map[string]int, len(rec))
		for i, cell := range rec {
			pos[strings.TrimSpace(cell)] = i
		}

		find := func(name string) int {
			if i, ok := pos[name]; ok && name != "" {
				return i
			}
			return -1
		}

		idx := columnIndex{
			asset:        find(cols.Asset),
			quantity:     find(cols.Quantity),
			dateAcquired: find(cols.DateAcquired),
			dateDisposed: find(cols.DateDisposed),
			costBasis:    find(cols.CostBasis),
			proceeds:     find(cols.Proceeds),
			gainLoss:     find(cols.GainLoss),
			holdingDays:  find(cols.HoldingDays),
			source:       find(cols.Source),
		}
		if idx.proceeds < 0 || idx.costBasis < 0 || idx.gainLoss < 0 {
			continue
		}

		if idx.holdingDays < 0 && (idx.dateAcquired < 0 || idx.dateDisposed < 0) {
			return columnIndex{}, 0, fmt.Errorf(
				"header on row %d has neither a %q column nor both %q and %q",
				row+1, cols.HoldingDays, cols.DateAcquired, cols.DateDisposed)
		}
		return idx, row, nil
	}
	return columnIndex{}, 0, fmt.Errorf("no header row with columns %q, %q and %q found",
		cols.Proceeds, cols.CostBasis, cols.GainLoss)
}

func (p *CoinbaseParser) parseRow(idx columnIndex, rec []string) (model.Disposal, error) {
	cols := p.cfg.Columns

	proceeds, err := parseAmount(cols.Proceeds, cell(rec, idx.proceeds))
	if err != nil {
		return model.Disposal{}, err
	}
	costBasis, err := parseAmount(cols.CostBasis, cell(rec, idx.costBasis))
	if err != nil {
		return model.Disposal{}, err
	}
	gainLoss, err := parseAmount(cols.GainLoss, cell(rec, idx.gainLoss))
	if err != nil {
		return model.Disposal{}, err
	}

	var quantity decimal.Decimal
	if q := cell(rec, idx.quantity); q != "" {
		quantity, err = parseAmount(cols.Quantity, q)
		if err != nil {
			return model.Disposal{}, err
		}
	}

	acquired, err := p.parseDate(cols.DateAcquired, cell(rec, idx.dateAcquired))
	if err != nil {
		return model.Disposal{}, err
	}
	disposed, err := p.parseDate(cols.DateDisposed, cell(rec, idx.dateDisposed))
	if err != nil {
		return model.Disposal{}, err
	}

	days, err := p.holdingDays(idx, rec, acquired, disposed)
	if err != nil {
		return model.Disposal{}, err
	}

	term := model.ShortTerm
	if days > p.cfg.LongTermDays {
		term = model.LongTerm
	}

	return model.Disposal{
		Asset:        cell(rec, idx.asset),
		Quantity:     quantity,
		DateAcquired: acquired,
		DateDisposed: disposed,
		HoldingDays:  days,
		Term:         term,
		CostBasis:    costBasis,
		Proceeds:     proceeds,
		GainLoss:     gainLoss,
		Source:       cell(rec, idx.source),
	}, nil
}

// holdingDays reads the holding-period column when present, otherwise
// derives it from the acquisition and disposition dates.
func (p *CoinbaseParser) holdingDays(idx columnIndex, rec []string, acquired, disposed time.Time) (int, error) {
	if s := cell(rec, idx.holdingDays); s != "" {
		days, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("parsing %s %q: %w", p.cfg.Columns.HoldingDays, s, err)
		}
		return days, nil
	}
	if acquired.IsZero() || disposed.IsZero() {
		return 0, fmt.Errorf("cannot determine holding period: no %s value and missing dates",
			p.cfg.Columns.HoldingDays)
	}
	return int(disposed.Sub(acquired).Hours() / 24), nil
}

// parseDate parses a date cell with the configured layouts. An empty
// cell yields the zero time; it only becomes an error if the holding
// period cannot be determined without it.
func (p *CoinbaseParser) parseDate(column, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range p.cfg.DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing %s %q: unrecognized date format", column, s)
}

// parseAmount parses a monetary cell. Exports decorate amounts with
// currency symbols and thousands separators, and some render negative
// amounts in parentheses.
func parseAmount(column, s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		neg = true
		raw = raw[1 : len(raw)-1]
	}
	raw = strings.ReplaceAll(raw, "$", "")
	raw = strings.ReplaceAll(raw, ",", "")

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing %s %q: %w", column, s, err)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
