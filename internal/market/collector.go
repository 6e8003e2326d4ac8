package market

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wonny/steamflip/internal/contracts"
	"github.com/wonny/steamflip/pkg/logger"
)

// Collector pulls item records from Steam and persists them.
// ⭐ SSOT: ItemRecord는 수집기만 만들고 갱신함
type Collector struct {
	client  *Client
	items   contracts.ItemRepository
	logger  *logger.Logger
	workers int
}

// NewCollector wires a collector over the Steam client and the item store.
func NewCollector(client *Client, items contracts.ItemRepository, workers int, log *logger.Logger) *Collector {
	if workers < 1 {
		workers = 1
	}
	return &Collector{
		client:  client,
		items:   items,
		logger:  log,
		workers: workers,
	}
}

// PullItem fetches one item's listings and sale history and builds its
// record. The market hash name is split back into name and condition.
func (c *Collector) PullItem(ctx context.Context, marketHashName string) (*contracts.ItemRecord, error) {
	listings, err := c.client.FetchListings(ctx, marketHashName)
	if err != nil {
		return nil, err
	}
	hist, err := c.client.FetchPriceHistory(ctx, marketHashName)
	if err != nil {
		return nil, err
	}

	name, condition := splitHashName(marketHashName)
	return &contracts.ItemRecord{
		Name:          name,
		Condition:     condition,
		SpecialType:   listings.SpecialType,
		Listings:      listings.Asks,
		BuyOrderPrice: listings.BuyOrder,
		SalesPerDay:   hist.SalesPerDay,
		SaleHistory:   hist.Events,
		LastPulledAt:  time.Now(),
	}, nil
}

// Collect pulls every named item with bounded concurrency and upserts the
// results. One item's failure only costs that item (batch tolerance);
// Collect reports how many records landed.
func (c *Collector) Collect(ctx context.Context, marketHashNames []string) (int, error) {
	jobs := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex
	stored := 0

	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for hashName := range jobs {
				record, err := c.PullItem(ctx, hashName)
				if err != nil {
					c.logger.WithError(err).WithField("item", hashName).Warn("수집 실패, 건너뜀")
					continue
				}
				if err := c.items.Upsert(ctx, *record); err != nil {
					c.logger.WithError(err).WithField("item", hashName).Error("저장 실패")
					continue
				}
				mu.Lock()
				stored++
				mu.Unlock()
			}
		}()
	}

	for _, hashName := range marketHashNames {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return stored, ctx.Err()
		case jobs <- hashName:
		}
	}
	close(jobs)
	wg.Wait()

	if stored == 0 && len(marketHashNames) > 0 {
		return 0, fmt.Errorf("no items collected out of %d requested", len(marketHashNames))
	}
	return stored, nil
}

// splitHashName undoes MarketHashName: "AK-47 | Redline (Field-Tested)"
// becomes ("AK-47 | Redline", "Field-Tested").
func splitHashName(marketHashName string) (name, condition string) {
	if !strings.HasSuffix(marketHashName, ")") {
		return marketHashName, ""
	}
	open := strings.LastIndex(marketHashName, "(")
	if open <= 0 {
		return marketHashName, ""
	}
	return strings.TrimSpace(marketHashName[:open]), marketHashName[open+1 : len(marketHashName)-1]
}
