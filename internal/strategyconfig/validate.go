package strategyconfig

import "fmt"

// Validate rejects parameter sets that would make strategy math meaningless.
func Validate(cfg *Config) error {
	if cfg.Fees.FeeMultiplier <= 1.0 {
		return fmt.Errorf("fee_multiplier must be > 1.0, got %v", cfg.Fees.FeeMultiplier)
	}
	if cfg.Fees.Margin < 0 {
		return fmt.Errorf("margin must be >= 0, got %v", cfg.Fees.Margin)
	}
	if cfg.Filters.MinMonthlySales < 1 {
		return fmt.Errorf("min_monthly_sales must be >= 1, got %d", cfg.Filters.MinMonthlySales)
	}
	if cfg.Reversion.WindowDays < 1 {
		return fmt.Errorf("quartile_reversion.window_days must be >= 1, got %d", cfg.Reversion.WindowDays)
	}
	if cfg.Reversion.MinWindowSales < 3 {
		// Quartiles are undefined below 3 observations.
		return fmt.Errorf("quartile_reversion.min_window_sales must be >= 3, got %d", cfg.Reversion.MinWindowSales)
	}
	if cfg.Spread.MinListings < 4 {
		// The 2nd/1st ask ratio is meaningless on a near-empty book.
		return fmt.Errorf("listing_spread.min_listings must be >= 4, got %d", cfg.Spread.MinListings)
	}
	if cfg.Spring.WindowDays < 1 {
		return fmt.Errorf("spring.window_days must be >= 1, got %d", cfg.Spring.WindowDays)
	}
	if cfg.Spring.MinSalesPerDay < 0 {
		return fmt.Errorf("spring.min_sales_per_day must be >= 0, got %v", cfg.Spring.MinSalesPerDay)
	}
	if cfg.Backtest.LiquidationForceDays < 1 {
		return fmt.Errorf("backtest.liquidation_force_days must be >= 1, got %d", cfg.Backtest.LiquidationForceDays)
	}
	return nil
}
