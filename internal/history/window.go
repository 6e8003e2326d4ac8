// Package history selects sub-sequences of sale histories by time window.
package history

import (
	"time"

	"github.com/wonny/steamflip/internal/contracts"
)

// SelectWindow returns the events whose timestamps fall inside the region,
// inclusive on both ends, preserving input order. Relative bounds resolve
// against the day floor of the chronologically last event in the history.
//
// An empty result is normal for rarely traded items and is not an error;
// the only error case is a malformed bound.
func SelectWindow(events []contracts.SaleEvent, region contracts.Region) ([]contracts.SaleEvent, error) {
	if err := region.Validate(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return []contracts.SaleEvent{}, nil
	}

	latest := Latest(events)
	lo, hi, err := region.Resolve(latest)
	if err != nil {
		return nil, err
	}
	return Between(events, lo, hi), nil
}

// Between returns the events with lo ≤ timestamp ≤ hi, preserving order.
func Between(events []contracts.SaleEvent, lo, hi time.Time) []contracts.SaleEvent {
	selected := make([]contracts.SaleEvent, 0, len(events))
	for _, ev := range events {
		if ev.Timestamp.Before(lo) || ev.Timestamp.After(hi) {
			continue
		}
		selected = append(selected, ev)
	}
	return selected
}

// Latest returns the maximum timestamp in events. Histories are usually
// chronological but that is not guaranteed, so this scans.
func Latest(events []contracts.SaleEvent) time.Time {
	var latest time.Time
	for _, ev := range events {
		if ev.Timestamp.After(latest) {
			latest = ev.Timestamp
		}
	}
	return latest
}
