package contracts

import "time"

// PhaseOutcome records how (or whether) a simulated purchase liquidated.
type PhaseOutcome int

const (
	// OutcomeUnresolved is the initial state; every purchase is resolved
	// exactly once by the simulator.
	OutcomeUnresolved PhaseOutcome = iota
	// OutcomeSoldPhase1 means a sale at or above the recommended price was
	// found inside the forced-liquidation window.
	OutcomeSoldPhase1
	// OutcomeSoldPhase2 means the position only cleared at the fallback
	// price, after the forced window.
	OutcomeSoldPhase2
	// OutcomeNeverSold means no qualifying sale exists in the available
	// history; the buy price is treated as sunk capital.
	OutcomeNeverSold
)

func (o PhaseOutcome) String() string {
	switch o {
	case OutcomeSoldPhase1:
		return "sold_phase1"
	case OutcomeSoldPhase2:
		return "sold_phase2"
	case OutcomeNeverSold:
		return "never_sold"
	default:
		return "unresolved"
	}
}

// FallbackPricing selects how the Phase-2 sell target is derived.
// 클로저 대신 명시적 태그로 표현하고 시뮬레이터가 해석함
type FallbackPricing int

const (
	// FallbackStatic sells against the precomputed fallback price (Q2 of the
	// signal-generation window).
	FallbackStatic FallbackPricing = iota
	// FallbackDynamic recomputes Q3 over the purchase's Phase-1 window with
	// its left edge pulled back two extra days, degrading to the static
	// price when that window holds fewer than 3 sales.
	FallbackDynamic
)

// Purchase is a simulated position: created when a strategy's buy condition
// matches a historical sale event, resolved exactly once by the simulator.
type Purchase struct {
	ItemName             string
	BuyDate              time.Time
	BuyPrice             float64
	RecommendedSellPrice float64
	FallbackSellPrice    float64
	Fallback             FallbackPricing

	Outcome        PhaseOutcome
	SellDate       time.Time // zero unless sold
	SellPrice      float64   // gross, before fee
	RealizedProfit float64   // SellPrice/fee − BuyPrice
}

// Sold reports whether the purchase liquidated in either phase.
func (p Purchase) Sold() bool {
	return p.Outcome == OutcomeSoldPhase1 || p.Outcome == OutcomeSoldPhase2
}

// HoldingHours returns the holding time of a sold purchase in hours.
func (p Purchase) HoldingHours() float64 {
	if !p.Sold() {
		return 0
	}
	return p.SellDate.Sub(p.BuyDate).Hours()
}
