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

// QuartileReversion flags items whose lowest ask, even after the fee, sits
// below the third quartile of recent sales: buy now, list at Q3, and let
// the price distribution revert. Q2 serves as the fallback target when Q3
// never prints.
type QuartileReversion struct {
	cfg strategyconfig.Config
}

func (s *QuartileReversion) Name() string { return NameQuartileReversion }

// WindowDays is the trailing window the quartiles are computed over.
func (s *QuartileReversion) WindowDays() int { return s.cfg.Reversion.WindowDays }

func (s *QuartileReversion) Eligible(item contracts.ItemRecord) bool {
	return standardFilter(item, s.cfg)
}

func (s *QuartileReversion) Signal(item contracts.ItemRecord) (*contracts.Signal, error) {
	if !s.Eligible(item) {
		return nil, nil
	}
	lowest, ok := item.LowestListing()
	if !ok || lowest <= 0 {
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

	if lowest*s.cfg.Fees.FeeMultiplier >= tmpl.Q3 {
		return nil, nil
	}

	return &contracts.Signal{
		ItemName:       item.Name,
		Condition:      item.Condition,
		Strategy:       s.Name(),
		BuyPrice:       lowest,
		SellPrice:      tmpl.RecommendedSellPrice,
		FallbackPrice:  tmpl.FallbackSellPrice,
		Q1:             tmpl.Q1,
		Q2:             tmpl.Q2,
		Q3:             tmpl.Q3,
		Ratio:          math.Round(tmpl.Q3/lowest*100) / 100,
		ExpectedProfit: tmpl.Q3 - lowest*s.cfg.Fees.FeeMultiplier,
		SalesPerDay:    item.SalesPerDay,
		GeneratedAt:    time.Now(),
	}, nil
}

// Evaluate derives the purchase template from an already-windowed prior
// history. The caller owns the windowing so the backtester can guarantee
// the window predates its evaluation region.
func (s *QuartileReversion) Evaluate(prior []contracts.SaleEvent, _ contracts.ItemRecord) (*contracts.PurchaseTemplate, error) {
	if len(prior) < s.cfg.Reversion.MinWindowSales {
		return nil, contracts.ErrInsufficientData
	}
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
