package strategyconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, Validate(&cfg))
}

func TestLoadStrictYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")

	good := `
meta:
  strategy_id: test
  version: v1
fees:
  fee_multiplier: 1.15
  margin: 0.01
filters:
  min_monthly_sales: 30
  min_buy_order: 0.05
quartile_reversion:
  window_days: 15
  min_window_sales: 3
listing_spread:
  min_listings: 4
spring:
  window_days: 15
  min_sales_per_day: 2
  max_buy_price: 100
backtest:
  liquidation_force_days: 4
  dynamic_fallback: true
`
	require.NoError(t, os.WriteFile(path, []byte(good), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1.15, cfg.Fees.FeeMultiplier)
	assert.Equal(t, 15, cfg.Reversion.WindowDays)
	assert.True(t, cfg.Backtest.DynamicFallback)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")

	bad := `
fees:
  fee_multiplier: 1.15
  margain: 0.01
`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"fee below one", func(c *Config) { c.Fees.FeeMultiplier = 0.9 }},
		{"negative margin", func(c *Config) { c.Fees.Margin = -0.01 }},
		{"min window sales below three", func(c *Config) { c.Reversion.MinWindowSales = 2 }},
		{"min listings below four", func(c *Config) { c.Spread.MinListings = 2 }},
		{"zero force days", func(c *Config) { c.Backtest.LiquidationForceDays = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, Validate(&cfg))
		})
	}
}

func TestHashIsStable(t *testing.T) {
	a := Default()
	b := Default()

	ha, err := Hash(&a)
	require.NoError(t, err)
	hb, err := Hash(&b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)

	b.Fees.Margin = 0.02
	hb2, err := Hash(&b)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb2)
}
