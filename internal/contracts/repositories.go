package contracts

import (
	"context"
	"time"
)

// ItemRepository is the persistence boundary for pulled market data.
// ⭐ SSOT: 아이템 저장소 인터페이스는 여기서만 정의
type ItemRepository interface {
	Upsert(ctx context.Context, item ItemRecord) error
	GetByName(ctx context.Context, name, condition string) (*ItemRecord, error)
	GetAll(ctx context.Context) ([]ItemRecord, error)
	// StaleSince lists item names last pulled before the cutoff, for the
	// re-pull scheduler.
	StaleSince(ctx context.Context, cutoff time.Time) ([]string, error)
}

// BacktestRun is the persisted summary of one backtest invocation.
type BacktestRun struct {
	RunID          string        `json:"run_id"`
	Strategy       string        `json:"strategy"`
	ParamsHash     string        `json:"params_hash"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration"`
	PurchaseCount  int           `json:"purchase_count"`
	SoldPhase1     int           `json:"sold_phase1"`
	SoldPhase2     int           `json:"sold_phase2"`
	NeverSold      int           `json:"never_sold"`
	NetProfit      float64       `json:"net_profit"`
	RealizedProfit float64       `json:"realized_profit"`
	SunkCost       float64       `json:"sunk_cost"`
}

// RunRepository stores backtest run summaries.
type RunRepository interface {
	Save(ctx context.Context, run BacktestRun) error
	List(ctx context.Context, limit int) ([]BacktestRun, error)
}
