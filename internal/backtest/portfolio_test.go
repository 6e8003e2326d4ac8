package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/steamflip/internal/contracts"
)

func TestSummarizeProfitAndSunkCost(t *testing.T) {
	buckets := Buckets{
		SoldPhase1: []contracts.Purchase{{
			BuyDate: jan(1), BuyPrice: 10,
			SellDate: janAt(1, 6), SellPrice: 20, RealizedProfit: 7.39,
			Outcome: contracts.OutcomeSoldPhase1,
		}},
		SoldPhase2: []contracts.Purchase{{
			BuyDate: jan(1), BuyPrice: 5,
			SellDate: jan(3), SellPrice: 8, RealizedProfit: 1.95,
			Outcome: contracts.OutcomeSoldPhase2,
		}},
		NeverSold: []contracts.Purchase{{
			BuyDate: jan(2), BuyPrice: 12,
			Outcome: contracts.OutcomeNeverSold,
		}},
	}

	s := Summarize(buckets, jan(5))
	assert.InDelta(t, 9.34, s.RealizedProfit, 1e-9)
	assert.InDelta(t, 12.0, s.SunkCost, 1e-9)
	assert.InDelta(t, 9.34-12.0, s.NetProfit, 1e-9)
}

func TestSummarizeHoldingHistogram(t *testing.T) {
	buckets := Buckets{
		SoldPhase1: []contracts.Purchase{
			// 6 hours → bucket 0
			{BuyDate: jan(1), SellDate: janAt(1, 6), Outcome: contracts.OutcomeSoldPhase1},
			// 30 hours → bucket 1
			{BuyDate: jan(1), SellDate: janAt(2, 6), Outcome: contracts.OutcomeSoldPhase1},
		},
		SoldPhase2: []contracts.Purchase{
			// 48 hours → bucket 2
			{BuyDate: jan(1), SellDate: jan(3), Outcome: contracts.OutcomeSoldPhase2},
		},
		NeverSold: []contracts.Purchase{
			// open positions do not enter the histogram
			{BuyDate: jan(1), Outcome: contracts.OutcomeNeverSold},
		},
	}

	s := Summarize(buckets, jan(5))
	assert.Equal(t, map[int]int{0: 1, 1: 1, 2: 1}, s.HoldingHistogram)
}

func TestSummarizeTimeline(t *testing.T) {
	buckets := Buckets{
		SoldPhase1: []contracts.Purchase{{
			BuyDate: jan(1), BuyPrice: 10,
			SellDate: janAt(1, 6), Outcome: contracts.OutcomeSoldPhase1,
		}},
		NeverSold: []contracts.Purchase{{
			BuyDate: janAt(1, 3), BuyPrice: 4,
			Outcome: contracts.OutcomeNeverSold,
		}},
	}

	s := Summarize(buckets, janAt(1, 10))
	require.Len(t, s.Timeline, 11) // Jan 1 00:00 through 10:00 inclusive

	byHour := make(map[time.Time]TimelinePoint, len(s.Timeline))
	for _, pt := range s.Timeline {
		byHour[pt.Hour] = pt
	}

	// Hour 0: only the sold purchase is held.
	assert.Equal(t, 1, byHour[jan(1)].UnitsHeld)
	assert.InDelta(t, 10, byHour[jan(1)].CashCommitted, 1e-9)

	// Hour 4: both positions open.
	assert.Equal(t, 2, byHour[janAt(1, 4)].UnitsHeld)
	assert.InDelta(t, 14, byHour[janAt(1, 4)].CashCommitted, 1e-9)

	// Hour 8: the sold position closed at 06:00, the open one remains.
	assert.Equal(t, 1, byHour[janAt(1, 8)].UnitsHeld)
	assert.InDelta(t, 4, byHour[janAt(1, 8)].CashCommitted, 1e-9)
}

func TestSummarizeEmptyRun(t *testing.T) {
	s := Summarize(Buckets{}, time.Time{})
	assert.Zero(t, s.NetProfit)
	assert.Empty(t, s.Timeline)
	assert.Empty(t, s.HoldingHistogram)
}
