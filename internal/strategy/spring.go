package strategy

import (
	"errors"
	"math"
	"time"

	"github.com/wonny/steamflip/internal/contracts"
	"github.com/wonny/steamflip/internal/history"
	"github.com/wonny/steamflip/internal/stats"
	"github.com/wonny/steamflip/internal/strategyconfig"
)

// Spring flags items that oscillate inside a wide historical band: buy near
// Q1, sell near Q3. Requires Q1 above the standing buy order (otherwise the
// buy-order book absorbs the dip and a listing sale never happens) and
// enough daily volume to expect both ends of the band to print.
type Spring struct {
	cfg strategyconfig.Config
}

func (s *Spring) Name() string { return NameSpring }

// WindowDays is the trailing window the quartiles are computed over.
func (s *Spring) WindowDays() int { return s.cfg.Spring.WindowDays }

func (s *Spring) Eligible(item contracts.ItemRecord) bool {
	return standardFilter(item, s.cfg)
}

func (s *Spring) Signal(item contracts.ItemRecord) (*contracts.Signal, error) {
	if !s.Eligible(item) {
		return nil, nil
	}

	window, err := history.SelectWindow(item.SaleHistory, contracts.RelativeRegion(s.WindowDays(), 0))
	if err != nil {
		return nil, err
	}
	tmpl, err := s.Evaluate(window, item)
	if err != nil {
		if errors.Is(err, contracts.ErrInsufficientData) {
			return nil, nil
		}
		return nil, err
	}

	fee := s.cfg.Fees.FeeMultiplier
	switch {
	case tmpl.Q1*fee >= tmpl.Q3: // band too narrow to cover the fee
		return nil, nil
	case tmpl.Q1 <= item.BuyOrderPrice:
		return nil, nil
	case item.SalesPerDay < s.cfg.Spring.MinSalesPerDay:
		return nil, nil
	case s.cfg.Spring.MaxBuyPrice > 0 && tmpl.Q1 > s.cfg.Spring.MaxBuyPrice:
		return nil, nil
	}

	ratio := tmpl.Q3 / tmpl.Q1
	profit := (ratio - fee) * tmpl.Q1
	return &contracts.Signal{
		ItemName:  item.Name,
		Condition: item.Condition,
		Strategy:  s.Name(),
		BuyPrice:  tmpl.Q1,
		SellPrice: tmpl.Q3,
		Q1:        tmpl.Q1,
		Q2:        tmpl.Q2,
		Q3:        tmpl.Q3,
		Ratio:     math.Round(ratio*100) / 100,
		// 1/4 chance to print at or below Q1, 1/4 at or above Q3 → /8.
		ExpectedProfit: profit * item.SalesPerDay / 8,
		SalesPerDay:    item.SalesPerDay,
		GeneratedAt:    time.Now(),
	}, nil
}

// Evaluate derives the purchase template from an already-windowed prior
// history.
func (s *Spring) Evaluate(prior []contracts.SaleEvent, _ contracts.ItemRecord) (*contracts.PurchaseTemplate, error) {
	quarts, err := stats.QuartilesOf(prior)
	if err != nil {
		return nil, err
	}
	return &contracts.PurchaseTemplate{
		Q1:                   quarts.Q1,
		Q2:                   quarts.Q2,
		Q3:                   quarts.Q3,
		RecommendedSellPrice: quarts.Q3,
		FallbackSellPrice:    quarts.Q2,
	}, nil
}
