package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/steamflip/internal/contracts"
	"github.com/wonny/steamflip/internal/strategy"
	"github.com/wonny/steamflip/pkg/logger"
)

// memoryRepo is an in-memory contracts.ItemRepository for tests.
type memoryRepo struct {
	items []contracts.ItemRecord
	err   error
}

func (m *memoryRepo) Upsert(_ context.Context, item contracts.ItemRecord) error {
	m.items = append(m.items, item)
	return nil
}

func (m *memoryRepo) GetByName(_ context.Context, name, condition string) (*contracts.ItemRecord, error) {
	for _, it := range m.items {
		if it.Name == name && it.Condition == condition {
			return &it, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *memoryRepo) GetAll(context.Context) ([]contracts.ItemRecord, error) {
	return m.items, m.err
}

func (m *memoryRepo) StaleSince(context.Context, time.Time) ([]string, error) {
	return nil, nil
}

// stubStrategy signals a fixed profit for every item except those it is
// told to fail on.
type stubStrategy struct {
	name    string
	profits map[string]float64
	failOn  string
}

func (s *stubStrategy) Name() string {
	if s.name == "" {
		return "stub"
	}
	return s.name
}

func (s *stubStrategy) Eligible(contracts.ItemRecord) bool { return true }

func (s *stubStrategy) Signal(item contracts.ItemRecord) (*contracts.Signal, error) {
	if item.Name == s.failOn {
		return nil, errors.New("boom")
	}
	profit, ok := s.profits[item.Name]
	if !ok {
		return nil, nil
	}
	return &contracts.Signal{
		ItemName:       item.Name,
		Strategy:       s.Name(),
		ExpectedProfit: profit,
	}, nil
}

func TestScanSortsByExpectedProfit(t *testing.T) {
	repo := &memoryRepo{items: []contracts.ItemRecord{
		{Name: "low"}, {Name: "high"}, {Name: "mid"}, {Name: "silent"},
	}}
	strat := &stubStrategy{profits: map[string]float64{
		"low": 1, "high": 10, "mid": 5,
	}}

	s := New(repo, 3, logger.Nop())
	signals, err := s.Scan(context.Background(), strat)
	require.NoError(t, err)

	require.Len(t, signals, 3)
	assert.Equal(t, "high", signals[0].ItemName)
	assert.Equal(t, "mid", signals[1].ItemName)
	assert.Equal(t, "low", signals[2].ItemName)
}

func TestScanIsolatesItemFailures(t *testing.T) {
	repo := &memoryRepo{items: []contracts.ItemRecord{
		{Name: "ok"}, {Name: "bad"},
	}}
	strat := &stubStrategy{
		profits: map[string]float64{"ok": 2, "bad": 3},
		failOn:  "bad",
	}

	s := New(repo, 2, logger.Nop())
	signals, err := s.Scan(context.Background(), strat)
	require.NoError(t, err)
	require.Len(t, signals, 1)
	assert.Equal(t, "ok", signals[0].ItemName)
}

func TestScanPropagatesRepoError(t *testing.T) {
	repo := &memoryRepo{err: errors.New("db down")}
	s := New(repo, 1, logger.Nop())

	_, err := s.Scan(context.Background(), &stubStrategy{})
	assert.Error(t, err)
}

func TestScanAllGroupsByStrategy(t *testing.T) {
	repo := &memoryRepo{items: []contracts.ItemRecord{
		{Name: "a"}, {Name: "b"},
	}}
	first := &stubStrategy{name: "first", profits: map[string]float64{"a": 1, "b": 2}}
	second := &stubStrategy{name: "second", profits: map[string]float64{"a": 3}}

	s := New(repo, 2, logger.Nop())
	results, err := s.ScanAll(context.Background(), []strategy.Strategy{first, second})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Len(t, results["first"], 2)
	require.Len(t, results["second"], 1)
	assert.Equal(t, "a", results["second"][0].ItemName)
}

func TestScanTiesBreakByName(t *testing.T) {
	repo := &memoryRepo{items: []contracts.ItemRecord{
		{Name: "bravo"}, {Name: "alpha"},
	}}
	strat := &stubStrategy{profits: map[string]float64{
		"bravo": 4, "alpha": 4,
	}}

	s := New(repo, 2, logger.Nop())
	signals, err := s.Scan(context.Background(), strat)
	require.NoError(t, err)
	require.Len(t, signals, 2)
	assert.Equal(t, "alpha", signals[0].ItemName)
}
