// Package backtest replays a strategy against recorded sale histories.
//
// The run is two steps per item. Step A derives the strategy's price
// template from history that strictly precedes the evaluation region, then
// turns every cheap-enough sale event inside the region into a simulated
// purchase. Step B settles those purchases against the item's later events
// through the two-phase liquidator. Events are a finite shared resource: an
// event that triggered or settled one purchase is gone for all others.
package backtest

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wonny/steamflip/internal/contracts"
	"github.com/wonny/steamflip/internal/history"
	"github.com/wonny/steamflip/internal/strategy"
	"github.com/wonny/steamflip/internal/strategyconfig"
)

// Config carries the simulation parameters of one run.
type Config struct {
	Region               contracts.Region
	LiquidationForceDays int
	FeeMultiplier        float64
	Margin               float64
	DynamicFallback      bool
}

// ConfigFrom lifts the run parameters out of a strategy parameter set.
func ConfigFrom(sc strategyconfig.Config, region contracts.Region) Config {
	return Config{
		Region:               region,
		LiquidationForceDays: sc.Backtest.LiquidationForceDays,
		FeeMultiplier:        sc.Fees.FeeMultiplier,
		Margin:               sc.Fees.Margin,
		DynamicFallback:      sc.Backtest.DynamicFallback,
	}
}

// Validate fails fast on parameters that would make the run meaningless.
func (c Config) Validate() error {
	if err := c.Region.Validate(); err != nil {
		return err
	}
	if c.LiquidationForceDays < 1 {
		return fmt.Errorf("liquidation force days must be ≥ 1, got %d", c.LiquidationForceDays)
	}
	if c.FeeMultiplier <= 1.0 {
		return fmt.Errorf("fee multiplier must exceed 1.0, got %.3f", c.FeeMultiplier)
	}
	if c.Margin < 0 {
		return fmt.Errorf("margin must be ≥ 0, got %.3f", c.Margin)
	}
	return nil
}

// Buckets groups resolved purchases by outcome.
type Buckets struct {
	SoldPhase1 []contracts.Purchase
	SoldPhase2 []contracts.Purchase
	NeverSold  []contracts.Purchase
}

// Result is the full output of one backtest run.
type Result struct {
	RunID     string
	Strategy  string
	StartedAt time.Time
	Duration  time.Duration
	Purchases []contracts.Purchase
	Buckets   Buckets
	Summary   Summary
}

// PersistedRun converts the result into the stored summary row.
func (r *Result) PersistedRun(paramsHash string) contracts.BacktestRun {
	return contracts.BacktestRun{
		RunID:          r.RunID,
		Strategy:       r.Strategy,
		ParamsHash:     paramsHash,
		StartedAt:      r.StartedAt,
		Duration:       r.Duration,
		PurchaseCount:  len(r.Purchases),
		SoldPhase1:     len(r.Buckets.SoldPhase1),
		SoldPhase2:     len(r.Buckets.SoldPhase2),
		NeverSold:      len(r.Buckets.NeverSold),
		NetProfit:      r.Summary.NetProfit,
		RealizedProfit: r.Summary.RealizedProfit,
		SunkCost:       r.Summary.SunkCost,
	}
}

// Run replays the strategy over every item and resolves the resulting
// purchases. Single-threaded and deterministic: each item's pools are owned
// by its own resolution loop, and items are processed in input order.
//
// One item's failure only skips that item (batch tolerance).
func Run(strat strategy.BacktestStrategy, items []contracts.ItemRecord, cfg Config, log zerolog.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("backtest config: %w", err)
	}

	started := time.Now()
	var purchases []contracts.Purchase
	var timelineEnd time.Time

	for _, item := range items {
		got, err := runItem(strat, item, cfg, log)
		if err != nil {
			log.Warn().Err(err).Str("item", item.Name).Msg("아이템 평가 실패, 건너뜀")
			continue
		}
		purchases = append(purchases, got...)
		if item.LastPulledAt.After(timelineEnd) {
			timelineEnd = item.LastPulledAt
		}
	}

	buckets := bucketize(purchases)
	return &Result{
		RunID:     uuid.NewString(),
		Strategy:  strat.Name(),
		StartedAt: started,
		Duration:  time.Since(started),
		Purchases: purchases,
		Buckets:   buckets,
		Summary:   Summarize(buckets, timelineEnd),
	}, nil
}

// runItem performs Step A and Step B for a single item.
func runItem(strat strategy.BacktestStrategy, item contracts.ItemRecord, cfg Config, log zerolog.Logger) ([]contracts.Purchase, error) {
	// The standard filter gates the backtest exactly as it gates live scans:
	// souvenir and thin-volume items never generate purchases.
	if !strat.Eligible(item) {
		return nil, nil
	}

	events := item.SortedHistory()
	if len(events) == 0 {
		return nil, nil
	}

	latest := events[len(events)-1].Timestamp
	regionStart, regionEnd, err := cfg.Region.Resolve(latest)
	if err != nil {
		return nil, err
	}

	// Step A. The template sees only events up to the region start.
	prior := history.Between(events, regionStart.AddDate(0, 0, -strat.WindowDays()), regionStart)
	tmpl, err := strat.Evaluate(prior, item)
	if err != nil {
		if errors.Is(err, contracts.ErrInsufficientData) {
			log.Debug().Str("item", item.Name).Int("prior_events", len(prior)).
				Msg("신호 산출용 과거 데이터 부족")
			return nil, nil
		}
		return nil, err
	}

	fallback := contracts.FallbackStatic
	if cfg.DynamicFallback {
		fallback = contracts.FallbackDynamic
	}
	buyCeiling := tmpl.Q3 / (cfg.FeeMultiplier + cfg.Margin)

	sim := newLiquidator(events, item.LastPulledAt, cfg.LiquidationForceDays, cfg.FeeMultiplier)

	// Every cheap-enough sale inside the region becomes a buy; the trigger
	// event is consumed so it can never also settle a sale.
	var pending []contracts.Purchase
	for i := sim.indexAtOrAfter(regionStart); i < len(events); i++ {
		ev := events[i]
		if ev.Timestamp.After(regionEnd) {
			break
		}
		if ev.Price >= tmpl.Q1 || ev.Price >= buyCeiling {
			continue
		}
		sim.consume(i)
		pending = append(pending, contracts.Purchase{
			ItemName:             item.Name,
			BuyDate:              ev.Timestamp,
			BuyPrice:             ev.Price,
			RecommendedSellPrice: tmpl.RecommendedSellPrice,
			FallbackSellPrice:    tmpl.FallbackSellPrice,
			Fallback:             fallback,
		})
	}

	// Step B, in buy-date order (pending already is: events are sorted).
	resolved := make([]contracts.Purchase, 0, len(pending))
	for _, p := range pending {
		resolved = append(resolved, sim.resolve(p))
	}
	return resolved, nil
}

func bucketize(purchases []contracts.Purchase) Buckets {
	var b Buckets
	for _, p := range purchases {
		switch p.Outcome {
		case contracts.OutcomeSoldPhase1:
			b.SoldPhase1 = append(b.SoldPhase1, p)
		case contracts.OutcomeSoldPhase2:
			b.SoldPhase2 = append(b.SoldPhase2, p)
		default:
			b.NeverSold = append(b.NeverSold, p)
		}
	}
	return b
}
