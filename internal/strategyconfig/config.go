package strategyconfig

// Config holds every tunable parameter of the trading strategies and the
// backtester. Loaded from YAML; struct (not map) so the config hash is
// reproducible.
// ⭐ SSOT: 전략 파라미터는 이 구조체를 통해서만 전달
type Config struct {
	Meta     Meta     `yaml:"meta" json:"meta"`
	Fees     Fees     `yaml:"fees" json:"fees"`
	Filters  Filters  `yaml:"filters" json:"filters"`
	Reversion Reversion `yaml:"quartile_reversion" json:"quartile_reversion"`
	Spread   Spread   `yaml:"listing_spread" json:"listing_spread"`
	Spring   Spring   `yaml:"spring" json:"spring"`
	Backtest Backtest `yaml:"backtest" json:"backtest"`
}

// Meta identifies the parameter set.
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Fees models the marketplace cut. For CS:GO on the Steam Community Market
// the fee multiplier is 1.15 (15%).
type Fees struct {
	FeeMultiplier float64 `yaml:"fee_multiplier" json:"fee_multiplier"`
	// Margin is added on top of the fee when a threshold needs headroom,
	// e.g. the listing-spread ratio test.
	Margin float64 `yaml:"margin" json:"margin"`
}

// Filters is the standard filter applied before any strategy runs.
type Filters struct {
	MinMonthlySales int     `yaml:"min_monthly_sales" json:"min_monthly_sales"`
	MinBuyOrder     float64 `yaml:"min_buy_order" json:"min_buy_order"`
}

// Reversion parameterizes the quartile-reversion strategy.
type Reversion struct {
	WindowDays     int `yaml:"window_days" json:"window_days"`
	MinWindowSales int `yaml:"min_window_sales" json:"min_window_sales"`
}

// Spread parameterizes the listing-spread strategy.
type Spread struct {
	MinListings int `yaml:"min_listings" json:"min_listings"`
}

// Spring parameterizes the spring strategy.
type Spring struct {
	WindowDays     int     `yaml:"window_days" json:"window_days"`
	MinSalesPerDay float64 `yaml:"min_sales_per_day" json:"min_sales_per_day"`
	// MaxBuyPrice caps Q1 so a signal stays within the account balance.
	// 0 disables the cap.
	MaxBuyPrice float64 `yaml:"max_buy_price" json:"max_buy_price"`
}

// Backtest holds the simulator defaults; CLI flags override them.
type Backtest struct {
	LiquidationForceDays int  `yaml:"liquidation_force_days" json:"liquidation_force_days"`
	DynamicFallback      bool `yaml:"dynamic_fallback" json:"dynamic_fallback"`
}

// Default returns the parameter set the strategies were tuned with.
func Default() Config {
	return Config{
		Meta: Meta{StrategyID: "csgo_flip_default", Version: "v1"},
		Fees: Fees{FeeMultiplier: 1.15, Margin: 0.01},
		Filters: Filters{
			MinMonthlySales: 30,
			MinBuyOrder:     0.05,
		},
		Reversion: Reversion{WindowDays: 15, MinWindowSales: 3},
		Spread:    Spread{MinListings: 4},
		Spring: Spring{
			WindowDays:     15,
			MinSalesPerDay: 2,
			MaxBuyPrice:    100,
		},
		Backtest: Backtest{LiquidationForceDays: 4, DynamicFallback: true},
	}
}
