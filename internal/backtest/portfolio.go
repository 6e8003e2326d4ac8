package backtest

import (
	"time"

	"github.com/wonny/steamflip/internal/contracts"
)

// TimelinePoint is one hourly sample of the simulated portfolio.
type TimelinePoint struct {
	Hour          time.Time
	CashCommitted float64
	UnitsHeld     int
}

// Summary aggregates a run's resolved purchases.
type Summary struct {
	NetProfit      float64
	RealizedProfit float64
	// SunkCost is the capital stuck in positions that never liquidated.
	SunkCost float64

	// HoldingHistogram counts sold purchases by holding time, bucketed in
	// whole days (bucket 0 = under 24h, 1 = 24–48h, ...).
	HoldingHistogram map[int]int

	// Timeline samples cash committed and units held every hour from the
	// earliest buy to the end of the pulled data.
	Timeline []TimelinePoint
}

// Summarize reduces outcome buckets to the run summary. timelineEnd is the
// latest lastPulledAt across the items in the run; open positions are
// treated as held through it.
func Summarize(buckets Buckets, timelineEnd time.Time) Summary {
	s := Summary{HoldingHistogram: make(map[int]int)}

	for _, p := range append(append([]contracts.Purchase{}, buckets.SoldPhase1...), buckets.SoldPhase2...) {
		s.RealizedProfit += p.RealizedProfit
		s.HoldingHistogram[int(p.HoldingHours())/24]++
	}
	for _, p := range buckets.NeverSold {
		s.SunkCost += p.BuyPrice
	}
	s.NetProfit = s.RealizedProfit - s.SunkCost

	s.Timeline = timeline(buckets, timelineEnd)
	return s
}

// timeline walks hour by hour from the earliest buy date to timelineEnd and
// sums every purchase whose holding interval covers the hour. Sold positions
// cover [buyDate, sellDate]; never-sold positions stay open to the end.
func timeline(buckets Buckets, timelineEnd time.Time) []TimelinePoint {
	all := make([]contracts.Purchase, 0,
		len(buckets.SoldPhase1)+len(buckets.SoldPhase2)+len(buckets.NeverSold))
	all = append(all, buckets.SoldPhase1...)
	all = append(all, buckets.SoldPhase2...)
	all = append(all, buckets.NeverSold...)
	if len(all) == 0 {
		return nil
	}

	start := all[0].BuyDate
	for _, p := range all {
		if p.BuyDate.Before(start) {
			start = p.BuyDate
		}
	}
	start = start.Truncate(time.Hour)
	if timelineEnd.Before(start) {
		timelineEnd = start
	}

	var points []TimelinePoint
	for hour := start; !hour.After(timelineEnd); hour = hour.Add(time.Hour) {
		var pt TimelinePoint
		pt.Hour = hour
		for _, p := range all {
			if hour.Before(p.BuyDate.Truncate(time.Hour)) {
				continue
			}
			if p.Sold() && hour.After(p.SellDate) {
				continue
			}
			pt.CashCommitted += p.BuyPrice
			pt.UnitsHeld++
		}
		points = append(points, pt)
	}
	return points
}
