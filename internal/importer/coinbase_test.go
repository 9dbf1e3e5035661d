package importer

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptotax-dev/cryptotax/internal/config"
	"github.com/cryptotax-dev/cryptotax/internal/model"
)

const coinbaseHeader = "Transaction Type,Transaction ID,Tax lot ID,Asset name,Amount,Date Acquired,Cost basis (USD),Date of Disposition,Proceeds (USD),Gains (Losses) (USD),Holding period (Days),Data source"

func loadStatement(t *testing.T) []model.Disposal {
	t.Helper()
	data, err := os.ReadFile("../../testdata/coinbase_gain_loss.csv")
	require.NoError(t, err)

	p := NewCoinbaseParser(config.Default())
	rows, err := p.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	return rows
}

func TestCoinbaseParser_Parse(t *testing.T) {
	rows := loadStatement(t)
	require.Len(t, rows, 5)

	btc := rows[0]
	assert.Equal(t, "BTC", btc.Asset)
	assert.Equal(t, "0.50000000", btc.Quantity.StringFixed(8))
	assert.Equal(t, "14000.00", btc.CostBasis.StringFixed(2))
	assert.Equal(t, "21000.00", btc.Proceeds.StringFixed(2))
	assert.Equal(t, "7000.00", btc.GainLoss.StringFixed(2))
	assert.Equal(t, 425, btc.HoldingDays)
	assert.Equal(t, model.LongTerm, btc.Term)
	assert.Equal(t, "Coinbase", btc.Source)
	assert.Equal(t, 2023, btc.DateAcquired.Year())
	assert.Equal(t, 11, int(btc.DateAcquired.Month()))
	assert.Equal(t, 2, btc.DateAcquired.Day())
}

func TestCoinbaseParser_DecoratedAmounts(t *testing.T) {
	rows := loadStatement(t)

	// Cost basis quoted with dollar sign and thousands separator.
	sol := rows[2]
	assert.Equal(t, "SOL", sol.Asset)
	assert.Equal(t, "1050.00", sol.CostBasis.StringFixed(2))

	// Parenthesized amounts are losses.
	assert.Equal(t, "-150.00", sol.GainLoss.StringFixed(2))
	ltc := rows[4]
	assert.Equal(t, "-20.00", ltc.GainLoss.StringFixed(2))
}

func TestCoinbaseParser_TermBoundary(t *testing.T) {
	rows := loadStatement(t)

	// 365 days is still short-term; 366 is long-term.
	doge := rows[3]
	assert.Equal(t, 365, doge.HoldingDays)
	assert.Equal(t, model.ShortTerm, doge.Term)

	ltc := rows[4]
	assert.Equal(t, 366, ltc.HoldingDays)
	assert.Equal(t, model.LongTerm, ltc.Term)
}

func TestCoinbaseParser_DerivedHoldingPeriod(t *testing.T) {
	// No holding-period column: the term comes from the dates.
	csv := "Asset name,Date Acquired,Cost basis (USD),Date of Disposition,Proceeds (USD),Gains (Losses) (USD)\n" +
		"BTC,2023-11-02,14000.00,2024-12-31,21000.00,7000.00\n" +
		"SOL,2024-01-10,1050.00,2024-04-02,900.00,-150.00\n"

	p := NewCoinbaseParser(config.Default())
	rows, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 425, rows[0].HoldingDays)
	assert.Equal(t, model.LongTerm, rows[0].Term)
	assert.Equal(t, 83, rows[1].HoldingDays)
	assert.Equal(t, model.ShortTerm, rows[1].Term)
}

func TestCoinbaseParser_PreambleSkipped(t *testing.T) {
	rows := loadStatement(t)

	// The metadata rows above the header never become disposals.
	for _, row := range rows {
		assert.NotEqual(t, "Primary", row.Asset)
		assert.True(t, row.Term.Valid())
	}
}

func TestCoinbaseParser_HeaderOnly(t *testing.T) {
	p := NewCoinbaseParser(config.Default())
	rows, err := p.Parse(strings.NewReader(coinbaseHeader + "\n"))
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestCoinbaseParser_MissingHeader(t *testing.T) {
	p := NewCoinbaseParser(config.Default())
	_, err := p.Parse(strings.NewReader("Coinbase\nGain/Loss Statement\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

func TestCoinbaseParser_BadAmount(t *testing.T) {
	csv := coinbaseHeader + "\n" +
		"Sale,TX1,LOT-1,BTC,1.0,2023-11-02,14000.00,2024-12-31,NOTANUMBER,7000.00,425,Coinbase\n"
	p := NewCoinbaseParser(config.Default())
	_, err := p.Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing Proceeds (USD)")
	assert.Contains(t, err.Error(), "row 2")
}

func TestCoinbaseParser_BadHoldingDays(t *testing.T) {
	csv := coinbaseHeader + "\n" +
		"Sale,TX1,LOT-1,BTC,1.0,2023-11-02,14000.00,2024-12-31,21000.00,7000.00,NOTDAYS,Coinbase\n"
	p := NewCoinbaseParser(config.Default())
	_, err := p.Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing Holding period (Days)")
}

func TestCoinbaseParser_UnclassifiableRow(t *testing.T) {
	// Empty holding period and no dates: the row cannot be assigned a
	// term and must fail rather than land in either bucket.
	csv := coinbaseHeader + "\n" +
		"Sale,TX1,LOT-1,BTC,1.0,,14000.00,,21000.00,7000.00,,Coinbase\n"
	p := NewCoinbaseParser(config.Default())
	_, err := p.Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot determine holding period")
}

func TestCoinbaseParser_BadDate(t *testing.T) {
	csv := "Asset name,Date Acquired,Cost basis (USD),Date of Disposition,Proceeds (USD),Gains (Losses) (USD)\n" +
		"BTC,NOTADATE,14000.00,2024-12-31,21000.00,7000.00\n"
	p := NewCoinbaseParser(config.Default())
	_, err := p.Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing Date Acquired")
}

func TestCoinbaseParser_CustomColumns(t *testing.T) {
	cfg := config.Default()
	cfg.Columns.Asset = "Symbol"
	cfg.Columns.Proceeds = "Sale Price"
	cfg.Columns.CostBasis = "Basis"
	cfg.Columns.GainLoss = "Net Gain"
	cfg.Columns.HoldingDays = "Days Held"

	csv := "Symbol,Basis,Sale Price,Net Gain,Days Held\n" +
		"ETH,2000.00,2500.00,500.00,213\n"

	p := NewCoinbaseParser(cfg)
	rows, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ETH", rows[0].Asset)
	assert.Equal(t, "500.00", rows[0].GainLoss.StringFixed(2))
	assert.Equal(t, model.ShortTerm, rows[0].Term)
}

func TestCoinbaseParser_Format(t *testing.T) {
	p := NewCoinbaseParser(config.Default())
	assert.Equal(t, "coinbase", p.Format())
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(NewCoinbaseParser(config.Default()))
	p := r.Get("coinbase")
	require.NotNil(t, p)
	assert.Equal(t, "coinbase", p.Format())
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry(config.Default())
	require.NotNil(t, r.Get("coinbase"))
}
