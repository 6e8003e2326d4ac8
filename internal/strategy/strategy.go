// Package strategy implements the buy-low/sell-high signal rules.
//
// Every strategy is a pure function of one ItemRecord: no shared state, no
// I/O. Signal() scans the current market shape for live opportunities;
// strategies that support backtesting additionally implement Evaluate(),
// which derives sell targets from a pre-windowed slice of prior history.
package strategy

import (
	"fmt"

	"github.com/wonny/steamflip/internal/contracts"
	"github.com/wonny/steamflip/internal/strategyconfig"
)

// Strategy names accepted by New and the CLI --strategy flag.
const (
	NameListingSpread     = "listing-spread"
	NameQuartileReversion = "quartile-reversion"
	NameSpring            = "spring"
)

// Strategy decides whether a live buy opportunity exists for one item.
type Strategy interface {
	Name() string
	// Eligible reports whether the item passes the standard filter. Signal
	// applies it internally; the backtester must call it before Evaluate so
	// filtered-out items never generate purchases.
	Eligible(item contracts.ItemRecord) bool
	// Signal returns nil when the item does not satisfy the strategy.
	// Insufficient history is treated as "no signal", not as an error;
	// returned errors indicate real failures (e.g. malformed windows).
	Signal(item contracts.ItemRecord) (*contracts.Signal, error)
}

// BacktestStrategy additionally derives purchase templates from prior
// history, for the simulator's no-lookahead signal generation step.
type BacktestStrategy interface {
	Strategy
	// WindowDays is the width of the trailing window the strategy's
	// statistics are computed over.
	WindowDays() int
	// Evaluate computes sell targets from a pre-windowed prior history.
	// Returns contracts.ErrInsufficientData when the window is too thin;
	// the caller skips the item.
	Evaluate(prior []contracts.SaleEvent, item contracts.ItemRecord) (*contracts.PurchaseTemplate, error)
}

// New builds a strategy by name.
func New(name string, cfg strategyconfig.Config) (Strategy, error) {
	switch name {
	case NameListingSpread:
		return &ListingSpread{cfg: cfg}, nil
	case NameQuartileReversion:
		return &QuartileReversion{cfg: cfg}, nil
	case NameSpring:
		return &Spring{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// All returns every strategy under one parameter set, for full scans.
func All(cfg strategyconfig.Config) []Strategy {
	return []Strategy{
		&ListingSpread{cfg: cfg},
		&QuartileReversion{cfg: cfg},
		&Spring{cfg: cfg},
	}
}

// standardFilter is applied before any strategy logic: enough trailing
// volume, not a souvenir, and a standing buy order above the floor.
func standardFilter(item contracts.ItemRecord, cfg strategyconfig.Config) bool {
	if len(item.SaleHistory) < cfg.Filters.MinMonthlySales {
		return false
	}
	if item.IsSouvenir() {
		return false
	}
	if item.BuyOrderPrice < cfg.Filters.MinBuyOrder {
		return false
	}
	return true
}
