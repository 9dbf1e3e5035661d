package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls how a gain/loss statement CSV is read. The zero
// value is not usable; start from Default and override.
type Config struct {
	Columns      Columns  `yaml:"columns"`
	LongTermDays int      `yaml:"long_term_days"`
	DateLayouts  []string `yaml:"date_layouts,omitempty"`
}

// Columns maps statement header names to Disposal fields. The header
// row is located by content, so column order in the file does not
// matter. Proceeds, CostBasis and GainLoss are required; the rest are
// optional, except that classification needs either HoldingDays or
// both date columns.
type Columns struct {
	Asset        string `yaml:"asset"`
	Quantity     string `yaml:"quantity"`
	DateAcquired string `yaml:"date_acquired"`
	DateDisposed string `yaml:"date_disposed"`
	CostBasis    string `yaml:"cost_basis"`
	Proceeds     string `yaml:"proceeds"`
	GainLoss     string `yaml:"gain_loss"`
	HoldingDays  string `yaml:"holding_days"`
	Source       string `yaml:"source"`
}

// Load reads a statement config from a YAML file. Fields left out of
// the file keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the column contract of a Coinbase Gain/Loss
// Statement export and the standard one-year long-term threshold.
func Default() *Config {
	return &Config{
		Columns: Columns{
			Asset:        "Asset name",
			Quantity:     "Amount",
			DateAcquired: "Date Acquired",
			DateDisposed: "Date of Disposition",
			CostBasis:    "Cost basis (USD)",
			Proceeds:     "Proceeds (USD)",
			GainLoss:     "Gains (Losses) (USD)",
			HoldingDays:  "Holding period (Days)",
			Source:       "Data source",
		},
		LongTermDays: 365,
		DateLayouts: []string{
			"2006-01-02",
			"01/02/2006",
			"2006-01-02 15:04:05 MST",
		},
	}
}
