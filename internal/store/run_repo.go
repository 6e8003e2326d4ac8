package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/steamflip/internal/contracts"
)

// RunRepository implements contracts.RunRepository
// ⭐ SSOT: 백테스트 실행 이력 저장/조회는 여기서만
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository creates a new run repository
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// Save stores one backtest run summary.
func (r *RunRepository) Save(ctx context.Context, run contracts.BacktestRun) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO backtest_runs (
			run_id, strategy, params_hash, started_at, duration_ms,
			purchase_count, sold_phase1, sold_phase2, never_sold,
			net_profit, realized_profit, sunk_cost
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, run.RunID, run.Strategy, run.ParamsHash, run.StartedAt, run.Duration.Milliseconds(),
		run.PurchaseCount, run.SoldPhase1, run.SoldPhase2, run.NeverSold,
		run.NetProfit, run.RealizedProfit, run.SunkCost)
	if err != nil {
		return fmt.Errorf("failed to save backtest run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]contracts.BacktestRun, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT run_id, strategy, params_hash, started_at, duration_ms,
			purchase_count, sold_phase1, sold_phase2, never_sold,
			net_profit, realized_profit, sunk_cost
		FROM backtest_runs ORDER BY started_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query backtest runs: %w", err)
	}
	defer rows.Close()

	var runs []contracts.BacktestRun
	for rows.Next() {
		var run contracts.BacktestRun
		var durationMs int64
		if err := rows.Scan(
			&run.RunID, &run.Strategy, &run.ParamsHash, &run.StartedAt, &durationMs,
			&run.PurchaseCount, &run.SoldPhase1, &run.SoldPhase2, &run.NeverSold,
			&run.NetProfit, &run.RealizedProfit, &run.SunkCost,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		run.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
