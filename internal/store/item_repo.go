// Package store implements the PostgreSQL repositories behind the
// contracts interfaces.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/steamflip/internal/contracts"
)

// ItemRepository implements contracts.ItemRepository
// ⭐ SSOT: 아이템 데이터 저장/조회는 여기서만
type ItemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository creates a new item repository
func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{pool: pool}
}

// Upsert stores one item record, replacing its sale history. The history
// replacement keeps the row an exact mirror of the latest pull.
func (r *ItemRepository) Upsert(ctx context.Context, item contracts.ItemRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO items (name, condition, special_type, listings, buy_order, sales_per_day, last_pulled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name, condition) DO UPDATE SET
			special_type = EXCLUDED.special_type,
			listings = EXCLUDED.listings,
			buy_order = EXCLUDED.buy_order,
			sales_per_day = EXCLUDED.sales_per_day,
			last_pulled_at = EXCLUDED.last_pulled_at
	`, item.Name, item.Condition, item.SpecialType, item.Listings,
		item.BuyOrderPrice, item.SalesPerDay, item.LastPulledAt)
	if err != nil {
		return fmt.Errorf("failed to upsert item: %w", err)
	}

	_, err = tx.Exec(ctx, `DELETE FROM sale_events WHERE item_name = $1 AND condition = $2`,
		item.Name, item.Condition)
	if err != nil {
		return fmt.Errorf("failed to clear sale events: %w", err)
	}

	batch := &pgx.Batch{}
	for _, ev := range item.SaleHistory {
		batch.Queue(`INSERT INTO sale_events (item_name, condition, sold_at, price) VALUES ($1, $2, $3, $4)`,
			item.Name, item.Condition, ev.Timestamp, ev.Price)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert sale events: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit item upsert: %w", err)
	}
	return nil
}

// GetByName retrieves one item with its full sale history.
func (r *ItemRepository) GetByName(ctx context.Context, name, condition string) (*contracts.ItemRecord, error) {
	var item contracts.ItemRecord
	err := r.pool.QueryRow(ctx, `
		SELECT name, condition, special_type, listings, buy_order, sales_per_day, last_pulled_at
		FROM items WHERE name = $1 AND condition = $2
	`, name, condition).Scan(
		&item.Name, &item.Condition, &item.SpecialType, &item.Listings,
		&item.BuyOrderPrice, &item.SalesPerDay, &item.LastPulledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %q (%s) not found", name, condition)
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	item.SaleHistory, err = r.loadHistory(ctx, name, condition)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetAll retrieves every item with its sale history, for scans and
// backtests.
func (r *ItemRepository) GetAll(ctx context.Context) ([]contracts.ItemRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, condition, special_type, listings, buy_order, sales_per_day, last_pulled_at
		FROM items ORDER BY name, condition
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []contracts.ItemRecord
	for rows.Next() {
		var item contracts.ItemRecord
		if err := rows.Scan(
			&item.Name, &item.Condition, &item.SpecialType, &item.Listings,
			&item.BuyOrderPrice, &item.SalesPerDay, &item.LastPulledAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	for i := range items {
		items[i].SaleHistory, err = r.loadHistory(ctx, items[i].Name, items[i].Condition)
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}

// StaleSince lists item names last pulled before the cutoff.
func (r *ItemRepository) StaleSince(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, condition FROM items WHERE last_pulled_at < $1 ORDER BY last_pulled_at
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale items: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name, condition string
		if err := rows.Scan(&name, &condition); err != nil {
			return nil, fmt.Errorf("failed to scan stale row: %w", err)
		}
		if condition == "" {
			names = append(names, name)
		} else {
			names = append(names, fmt.Sprintf("%s (%s)", name, condition))
		}
	}
	return names, rows.Err()
}

func (r *ItemRepository) loadHistory(ctx context.Context, name, condition string) ([]contracts.SaleEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT sold_at, price FROM sale_events
		WHERE item_name = $1 AND condition = $2
		ORDER BY sold_at
	`, name, condition)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale events: %w", err)
	}
	defer rows.Close()

	var events []contracts.SaleEvent
	for rows.Next() {
		var ev contracts.SaleEvent
		if err := rows.Scan(&ev.Timestamp, &ev.Price); err != nil {
			return nil, fmt.Errorf("failed to scan sale event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
