// Package scanner runs the live strategies over the stored item universe.
package scanner

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/wonny/steamflip/internal/contracts"
	"github.com/wonny/steamflip/internal/strategy"
	"github.com/wonny/steamflip/pkg/logger"
)

// Scanner evaluates one strategy against every stored item.
type Scanner struct {
	items   contracts.ItemRepository
	logger  *logger.Logger
	workers int
}

// New creates a scanner with bounded evaluation concurrency. Strategies are
// pure per-item functions, so fan-out never changes the result set.
func New(items contracts.ItemRepository, workers int, log *logger.Logger) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{
		items:   items,
		logger:  log,
		workers: workers,
	}
}

// Scan returns every live signal the strategy finds, most profitable first.
// One item's evaluation failure only skips that item.
func (s *Scanner) Scan(ctx context.Context, strat strategy.Strategy) ([]contracts.Signal, error) {
	records, err := s.items.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan failed to load items: %w", err)
	}

	jobs := make(chan contracts.ItemRecord)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var signals []contracts.Signal

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				sig, err := strat.Signal(item)
				if err != nil {
					s.logger.WithError(err).WithField("item", item.Name).Warn("신호 평가 실패, 건너뜀")
					continue
				}
				if sig == nil {
					continue
				}
				mu.Lock()
				signals = append(signals, *sig)
				mu.Unlock()
			}
		}()
	}

	for _, item := range records {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- item:
		}
	}
	close(jobs)
	wg.Wait()

	// Deterministic output regardless of worker interleaving.
	sort.Slice(signals, func(i, j int) bool {
		if signals[i].ExpectedProfit != signals[j].ExpectedProfit {
			return signals[i].ExpectedProfit > signals[j].ExpectedProfit
		}
		return signals[i].ItemName < signals[j].ItemName
	})

	s.logger.WithField("strategy", strat.Name()).
		WithField("items", len(records)).
		WithField("signals", len(signals)).
		Info("scan complete")
	return signals, nil
}

// ScanAll runs every strategy under one parameter set and merges the
// results grouped by strategy name.
func (s *Scanner) ScanAll(ctx context.Context, strategies []strategy.Strategy) (map[string][]contracts.Signal, error) {
	out := make(map[string][]contracts.Signal, len(strategies))
	for _, strat := range strategies {
		signals, err := s.Scan(ctx, strat)
		if err != nil {
			return nil, err
		}
		out[strat.Name()] = signals
	}
	return out, nil
}
