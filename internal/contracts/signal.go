package contracts

import "time"

// Signal is a live buy opportunity produced by a strategy scan.
type Signal struct {
	ItemName       string    `json:"item_name"`
	Condition      string    `json:"condition"`
	Strategy       string    `json:"strategy"`
	BuyPrice       float64   `json:"buy_price"`
	SellPrice      float64   `json:"sell_price"`
	FallbackPrice  float64   `json:"fallback_price,omitempty"`
	Q1             float64   `json:"q1,omitempty"`
	Q2             float64   `json:"q2,omitempty"`
	Q3             float64   `json:"q3,omitempty"`
	Ratio          float64   `json:"ratio"`
	ExpectedProfit float64   `json:"expected_profit"`
	SalesPerDay    float64   `json:"sales_per_day"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// PurchaseTemplate carries the strategy-implied prices used to turn
// historical sale events into Purchases during backtesting. All statistics
// in it are computed from data preceding the evaluation region.
type PurchaseTemplate struct {
	Q1                   float64
	Q2                   float64
	Q3                   float64
	RecommendedSellPrice float64
	FallbackSellPrice    float64
}
