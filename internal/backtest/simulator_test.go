package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/steamflip/internal/contracts"
)

func jan(day int) time.Time {
	return time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC)
}

func janAt(day, hour int) time.Time {
	return time.Date(2024, time.January, day, hour, 0, 0, 0, time.UTC)
}

func TestLiquidatorForcedWindowExpiry(t *testing.T) {
	// The only event at or above the recommended price lands after the
	// forced window [Jan 3, Jan 8], so Phase 1 must not claim it.
	events := []contracts.SaleEvent{
		{Timestamp: jan(1), Price: 10},
		{Timestamp: jan(3), Price: 12},
		{Timestamp: jan(5), Price: 9},
		{Timestamp: jan(10), Price: 20},
	}
	sim := newLiquidator(events, jan(10), 5, 1.15)

	got := sim.resolve(contracts.Purchase{
		ItemName:             "AK-47 | Redline",
		BuyDate:              jan(3),
		BuyPrice:             12,
		RecommendedSellPrice: 20,
		FallbackSellPrice:    11,
		Fallback:             contracts.FallbackStatic,
	})

	assert.Equal(t, contracts.OutcomeSoldPhase2, got.Outcome)
	assert.Equal(t, jan(10), got.SellDate)
	assert.Equal(t, 20.0, got.SellPrice)
	assert.InDelta(t, 20.0/1.15-12, got.RealizedProfit, 1e-9)
}

func TestLiquidatorPhaseOrdering(t *testing.T) {
	// A qualifying event inside the forced window wins over a later, even
	// higher one outside it.
	events := []contracts.SaleEvent{
		{Timestamp: jan(1), Price: 5},
		{Timestamp: jan(2), Price: 20},
		{Timestamp: jan(9), Price: 30},
	}
	sim := newLiquidator(events, jan(9), 4, 1.15)
	sim.consume(0) // buy trigger

	got := sim.resolve(contracts.Purchase{
		BuyDate:              jan(1),
		BuyPrice:             5,
		RecommendedSellPrice: 15,
		FallbackSellPrice:    10,
	})

	assert.Equal(t, contracts.OutcomeSoldPhase1, got.Outcome)
	assert.Equal(t, jan(2), got.SellDate)
}

func TestLiquidatorFIFONotPriceOptimal(t *testing.T) {
	// Two qualifying events inside the window: the earlier one settles the
	// trade even though the later one pays more.
	events := []contracts.SaleEvent{
		{Timestamp: jan(1), Price: 5},
		{Timestamp: jan(2), Price: 16},
		{Timestamp: jan(3), Price: 40},
	}
	sim := newLiquidator(events, jan(3), 4, 1.15)
	sim.consume(0)

	got := sim.resolve(contracts.Purchase{
		BuyDate:              jan(1),
		BuyPrice:             5,
		RecommendedSellPrice: 15,
	})

	assert.Equal(t, contracts.OutcomeSoldPhase1, got.Outcome)
	assert.Equal(t, 16.0, got.SellPrice)
}

func TestLiquidatorSecondPurchasePoolExclusions(t *testing.T) {
	// Purchase 2 buys one day after purchase 1 with a 3-day window. Its
	// Phase-1 pool must exclude both the event purchase 1 consumed and the
	// unconsumed qualifying event at or before its own buy date.
	events := []contracts.SaleEvent{
		{Timestamp: jan(1), Price: 5},        // buy 1 trigger
		{Timestamp: janAt(1, 12), Price: 20}, // consumed by purchase 1
		{Timestamp: janAt(1, 18), Price: 20}, // ≤ purchase 2's buy date
		{Timestamp: jan(2), Price: 5},        // buy 2 trigger
		{Timestamp: jan(3), Price: 20},
	}
	sim := newLiquidator(events, jan(3), 3, 1.15)
	sim.consume(0)
	sim.consume(3)

	p1 := sim.resolve(contracts.Purchase{
		BuyDate: jan(1), BuyPrice: 5, RecommendedSellPrice: 10,
	})
	require.Equal(t, contracts.OutcomeSoldPhase1, p1.Outcome)
	require.Equal(t, janAt(1, 12), p1.SellDate)

	p2 := sim.resolve(contracts.Purchase{
		BuyDate: jan(2), BuyPrice: 5, RecommendedSellPrice: 10,
	})
	assert.Equal(t, contracts.OutcomeSoldPhase1, p2.Outcome)
	// Not janAt(1,18): that event predates purchase 2's buy.
	assert.Equal(t, jan(3), p2.SellDate)
}

func TestLiquidatorNoDoubleConsumption(t *testing.T) {
	// One qualifying event, two purchases: only the first may settle.
	events := []contracts.SaleEvent{
		{Timestamp: jan(1), Price: 5},
		{Timestamp: jan(2), Price: 5},
		{Timestamp: jan(3), Price: 20},
	}
	sim := newLiquidator(events, jan(3), 5, 1.15)
	sim.consume(0)
	sim.consume(1)

	p1 := sim.resolve(contracts.Purchase{
		BuyDate: jan(1), BuyPrice: 5, RecommendedSellPrice: 10, FallbackSellPrice: 10,
	})
	p2 := sim.resolve(contracts.Purchase{
		BuyDate: jan(2), BuyPrice: 5, RecommendedSellPrice: 10, FallbackSellPrice: 10,
	})

	assert.Equal(t, contracts.OutcomeSoldPhase1, p1.Outcome)
	assert.Equal(t, contracts.OutcomeNeverSold, p2.Outcome)

	consumed := 0
	for _, c := range sim.consumedMask() {
		if c {
			consumed++
		}
	}
	assert.Equal(t, 3, consumed) // 2 triggers + 1 sell
}

func TestLiquidatorPhase2IncludesWindowEndEvent(t *testing.T) {
	// An event exactly at the end of the forced window, priced between the
	// fallback and recommended targets, belongs to the Phase-2 pool.
	events := []contracts.SaleEvent{
		{Timestamp: jan(1), Price: 10},
		{Timestamp: jan(4), Price: 16},
	}
	sim := newLiquidator(events, jan(10), 3, 1.15)
	sim.consume(0)

	got := sim.resolve(contracts.Purchase{
		BuyDate:              jan(1),
		BuyPrice:             10,
		RecommendedSellPrice: 20,
		FallbackSellPrice:    15,
	})

	assert.Equal(t, contracts.OutcomeSoldPhase2, got.Outcome)
	assert.Equal(t, jan(4), got.SellDate)
	assert.Equal(t, 16.0, got.SellPrice)
}

func TestLiquidatorNeverSold(t *testing.T) {
	events := []contracts.SaleEvent{
		{Timestamp: jan(1), Price: 5},
		{Timestamp: jan(4), Price: 6},
	}
	sim := newLiquidator(events, jan(4), 2, 1.15)
	sim.consume(0)

	got := sim.resolve(contracts.Purchase{
		BuyDate: jan(1), BuyPrice: 5, RecommendedSellPrice: 10, FallbackSellPrice: 8,
	})

	assert.Equal(t, contracts.OutcomeNeverSold, got.Outcome)
	assert.True(t, got.SellDate.IsZero())
	assert.Zero(t, got.RealizedProfit)
}

func TestLiquidatorDynamicFallback(t *testing.T) {
	// Widened window [Dec 30, Jan 5] holds {5, 8, 10, 12}: Q3 = 11. The
	// static fallback of 20 would reject the Jan 9 sale at 11; the dynamic
	// target accepts it.
	events := []contracts.SaleEvent{
		{Timestamp: jan(1), Price: 5},
		{Timestamp: jan(2), Price: 8},
		{Timestamp: jan(3), Price: 10},
		{Timestamp: jan(4), Price: 12},
		{Timestamp: jan(9), Price: 11},
	}
	sim := newLiquidator(events, jan(9), 4, 1.15)
	sim.consume(0)

	purchase := contracts.Purchase{
		BuyDate:              jan(1),
		BuyPrice:             5,
		RecommendedSellPrice: 50,
		FallbackSellPrice:    20,
		Fallback:             contracts.FallbackDynamic,
	}
	got := sim.resolve(purchase)
	assert.Equal(t, contracts.OutcomeSoldPhase2, got.Outcome)
	assert.Equal(t, 11.0, got.SellPrice)

	// With the static tag the same purchase never sells.
	sim2 := newLiquidator(events, jan(9), 4, 1.15)
	sim2.consume(0)
	purchase.Fallback = contracts.FallbackStatic
	got = sim2.resolve(purchase)
	assert.Equal(t, contracts.OutcomeNeverSold, got.Outcome)
}

func TestLiquidatorDynamicFallbackDegradesWhenThin(t *testing.T) {
	// Fewer than 3 events in the widened window: the static price applies.
	events := []contracts.SaleEvent{
		{Timestamp: jan(1), Price: 5},
		{Timestamp: jan(2), Price: 8},
		{Timestamp: jan(9), Price: 9},
	}
	sim := newLiquidator(events, jan(9), 4, 1.15)
	sim.consume(0)

	got := sim.resolve(contracts.Purchase{
		BuyDate:              jan(1),
		BuyPrice:             5,
		RecommendedSellPrice: 50,
		FallbackSellPrice:    9,
		Fallback:             contracts.FallbackDynamic,
	})
	assert.Equal(t, contracts.OutcomeSoldPhase2, got.Outcome)
	assert.Equal(t, jan(9), got.SellDate)
}
