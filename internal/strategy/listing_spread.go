package strategy

import (
	"math"
	"sort"
	"time"

	"github.com/wonny/steamflip/internal/contracts"
	"github.com/wonny/steamflip/internal/strategyconfig"
)

// ListingSpread flags items whose two cheapest asks are far apart: buy the
// lowest listing, relist just under the second. Satisfied when the
// 2nd-lowest / lowest ratio clears the fee multiplier plus margin.
type ListingSpread struct {
	cfg strategyconfig.Config
}

func (s *ListingSpread) Name() string { return NameListingSpread }

func (s *ListingSpread) Eligible(item contracts.ItemRecord) bool {
	return standardFilter(item, s.cfg)
}

func (s *ListingSpread) Signal(item contracts.ItemRecord) (*contracts.Signal, error) {
	if !s.Eligible(item) {
		return nil, nil
	}
	// With a near-empty book the ratio says nothing about demand.
	if len(item.Listings) < s.cfg.Spread.MinListings {
		return nil, nil
	}

	relevant := []float64{item.Listings[0], item.Listings[1]}
	sort.Float64s(relevant)
	lowest, second := relevant[0], relevant[1]
	if lowest <= 0 {
		return nil, nil
	}

	ratio := second / lowest
	threshold := s.cfg.Fees.FeeMultiplier + s.cfg.Fees.Margin
	if ratio <= threshold {
		return nil, nil
	}

	return &contracts.Signal{
		ItemName:       item.Name,
		Condition:      item.Condition,
		Strategy:       s.Name(),
		BuyPrice:       lowest,
		SellPrice:      second,
		Ratio:          math.Round(ratio*100) / 100,
		ExpectedProfit: second/s.cfg.Fees.FeeMultiplier - lowest,
		SalesPerDay:    item.SalesPerDay,
		GeneratedAt:    time.Now(),
	}, nil
}
