package backtest

import (
	"sort"
	"time"

	"github.com/wonny/steamflip/internal/contracts"
	"github.com/wonny/steamflip/internal/history"
	"github.com/wonny/steamflip/internal/stats"
)

// liquidator resolves one item's purchases against that item's sale history.
//
// The history is held as an index-addressable arena with a parallel consumed
// slice, so "this event already settled a trade" is a queryable fact instead
// of a destructive list deletion. Pools are index ranges into the arena:
//   - Phase-1 pool: [p1lo, p1hi), events inside the forced-liquidation window
//   - Phase-2 pool: events from the window end (inclusive) through
//     lastPulledAt; the overlap at the window end is harmless because
//     Phase 1 scans first and the consumed slice blocks double settlement
//
// p1lo is a monotone watermark: once a purchase is processed, events at or
// before its buy date can never satisfy a later purchase, so the left edge
// only moves right. Purchases must therefore arrive in buy-date order.
// ⭐ SSOT: 체결 이벤트 소진(consumed) 상태는 이 구조체만 관리
type liquidator struct {
	events       []contracts.SaleEvent // chronological
	consumed     []bool
	lastPulledAt time.Time
	forceDays    int
	fee          float64

	p1lo   int
	primed bool
}

func newLiquidator(events []contracts.SaleEvent, lastPulledAt time.Time, forceDays int, fee float64) *liquidator {
	if lastPulledAt.IsZero() && len(events) > 0 {
		lastPulledAt = events[len(events)-1].Timestamp
	}
	return &liquidator{
		events:       events,
		consumed:     make([]bool, len(events)),
		lastPulledAt: lastPulledAt,
		forceDays:    forceDays,
		fee:          fee,
	}
}

// indexAtOrAfter returns the first arena index with timestamp ≥ t.
func (l *liquidator) indexAtOrAfter(t time.Time) int {
	return sort.Search(len(l.events), func(i int) bool {
		return !l.events[i].Timestamp.Before(t)
	})
}

// indexAfter returns the first arena index with timestamp > t.
func (l *liquidator) indexAfter(t time.Time) int {
	return sort.Search(len(l.events), func(i int) bool {
		return l.events[i].Timestamp.After(t)
	})
}

// consume marks one arena event as settled. Consumed events are skipped by
// every later pool scan, for buys and sells alike.
func (l *liquidator) consume(i int) { l.consumed[i] = true }

// consumedMask returns a copy of the consumption state.
func (l *liquidator) consumedMask() []bool {
	mask := make([]bool, len(l.consumed))
	copy(mask, l.consumed)
	return mask
}

// resolve settles one purchase. Exactly one of the three outcomes is set.
func (l *liquidator) resolve(p contracts.Purchase) contracts.Purchase {
	windowEnd := p.BuyDate.AddDate(0, 0, l.forceDays)

	// Slide the Phase-1 pool. The first purchase keeps its own buy date in
	// the pool (the trigger event is already consumed); later purchases drop
	// everything at or before their buy date.
	if !l.primed {
		l.p1lo = l.indexAtOrAfter(p.BuyDate)
		l.primed = true
	} else if lo := l.indexAfter(p.BuyDate); lo > l.p1lo {
		l.p1lo = lo
	}
	p1hi := l.indexAfter(windowEnd)

	// Phase 1: first unconsumed event at or above the recommended price.
	// FIFO on purpose, not price-optimal.
	for i := l.p1lo; i < p1hi; i++ {
		if l.consumed[i] || l.events[i].Price < p.RecommendedSellPrice {
			continue
		}
		return l.sell(p, i, contracts.OutcomeSoldPhase1)
	}

	// Phase 2: from the end of the forced window (inclusive) through
	// lastPulledAt, against the fallback.
	target := l.fallbackTarget(p, windowEnd)
	p2hi := l.indexAfter(l.lastPulledAt)
	for i := l.indexAtOrAfter(windowEnd); i < p2hi; i++ {
		if l.consumed[i] || l.events[i].Price < target {
			continue
		}
		return l.sell(p, i, contracts.OutcomeSoldPhase2)
	}

	p.Outcome = contracts.OutcomeNeverSold
	return p
}

func (l *liquidator) sell(p contracts.Purchase, i int, outcome contracts.PhaseOutcome) contracts.Purchase {
	l.consume(i)
	p.Outcome = outcome
	p.SellDate = l.events[i].Timestamp
	p.SellPrice = l.events[i].Price
	p.RealizedProfit = p.SellPrice/l.fee - p.BuyPrice
	return p
}

// fallbackTarget is the Phase-2 sell threshold. Dynamic pricing recomputes
// Q3 over the purchase's Phase-1 window widened 2 days to the left, using
// the raw history (consumption does not change the statistic, only which
// events may settle the trade); thin windows degrade to the static price.
func (l *liquidator) fallbackTarget(p contracts.Purchase, windowEnd time.Time) float64 {
	if p.Fallback != contracts.FallbackDynamic {
		return p.FallbackSellPrice
	}
	widened := history.Between(l.events, p.BuyDate.AddDate(0, 0, -2), windowEnd)
	quarts, err := stats.QuartilesOf(widened)
	if err != nil {
		return p.FallbackSellPrice
	}
	return quarts.Q3
}
