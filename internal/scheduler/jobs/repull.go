// Package jobs holds the concrete scheduled jobs.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/steamflip/internal/contracts"
	"github.com/wonny/steamflip/internal/market"
	"github.com/wonny/steamflip/pkg/logger"
)

// RepullJob re-pulls items whose records have gone stale. Steam only keeps
// hourly resolution for the most recent history, so letting records age
// degrades every downstream statistic.
type RepullJob struct {
	collector  *market.Collector
	items      contracts.ItemRepository
	logger     *logger.Logger
	schedule   string
	staleAfter time.Duration
}

// NewRepullJob creates the stale-item re-pull job.
func NewRepullJob(collector *market.Collector, items contracts.ItemRepository, schedule string, staleAfter time.Duration, log *logger.Logger) *RepullJob {
	return &RepullJob{
		collector:  collector,
		items:      items,
		logger:     log,
		schedule:   schedule,
		staleAfter: staleAfter,
	}
}

func (j *RepullJob) Name() string     { return "repull-stale-items" }
func (j *RepullJob) Schedule() string { return j.schedule }

// Run pulls every item not refreshed within staleAfter.
func (j *RepullJob) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-j.staleAfter)
	names, err := j.items.StaleSince(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("repull job failed to list stale items: %w", err)
	}
	if len(names) == 0 {
		j.logger.Debug("재수집 대상 없음")
		return nil
	}

	stored, err := j.collector.Collect(ctx, names)
	if err != nil {
		return fmt.Errorf("repull job failed: %w", err)
	}

	j.logger.WithField("stale", len(names)).
		WithField("stored", stored).
		Info("stale items re-pulled")
	return nil
}
