package market

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/steamflip/internal/contracts"
	pkgredis "github.com/wonny/steamflip/pkg/redis"
)

// saleTimeLayout matches Steam's chart timestamps, e.g. "Dec 11 2019 01:".
// The trailing " +0" marker is stripped before parsing.
const saleTimeLayout = "Jan 02 2006 15:"

// priceHistoryResponse is the raw pricehistory JSON. Each price row is
// [timestamp string, median price, volume string].
type priceHistoryResponse struct {
	Success bool            `json:"success"`
	Prices  [][]interface{} `json:"prices"`
}

// PriceHistory is the parsed pull of one item's chart endpoint.
type PriceHistory struct {
	Events      []contracts.SaleEvent `json:"events"`
	SalesPerDay float64               `json:"sales_per_day"`
}

// FetchPriceHistory pulls the full recorded sale history of one item.
// ⭐ SSOT: pricehistory 엔드포인트 호출은 이 함수에서만
func (c *Client) FetchPriceHistory(ctx context.Context, marketHashName string) (*PriceHistory, error) {
	cacheKey := pkgredis.PriceHistoryKey(marketHashName)
	var cached PriceHistory
	if found, _ := c.cache.Get(ctx, cacheKey, &cached); found {
		return &cached, nil
	}

	var raw priceHistoryResponse
	if err := c.http.GetJSON(ctx, c.priceHistoryURL(marketHashName), &raw); err != nil {
		return nil, fmt.Errorf("price history fetch failed: %w", err)
	}
	if !raw.Success {
		return nil, fmt.Errorf("price history rejected for %q", marketHashName)
	}

	events, err := parsePriceRows(raw.Prices)
	if err != nil {
		return nil, fmt.Errorf("price history parse failed for %q: %w", marketHashName, err)
	}
	hist := &PriceHistory{
		Events:      events,
		SalesPerDay: salesPerDay(raw.Prices, time.Now()),
	}

	if err := c.cache.Set(ctx, cacheKey, hist, pkgredis.TTLMedium); err != nil {
		c.logger.WithError(err).Warn("price history cache write failed")
	}

	c.logger.WithField("item", marketHashName).
		WithField("events", len(events)).
		Debug("price history pulled")
	return hist, nil
}

// parsePriceRows converts raw chart rows into sale events, skipping rows
// that do not match the expected shape. A malformed row is a Steam-side
// rendering quirk, not a reason to drop the whole history.
func parsePriceRows(rows [][]interface{}) ([]contracts.SaleEvent, error) {
	events := make([]contracts.SaleEvent, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		ts, ok := row[0].(string)
		if !ok {
			continue
		}
		price, ok := row[1].(float64)
		if !ok {
			continue
		}

		when, err := parseSaleTime(ts)
		if err != nil {
			continue
		}
		events = append(events, contracts.SaleEvent{Timestamp: when, Price: price})
	}
	if len(events) == 0 && len(rows) > 0 {
		return nil, fmt.Errorf("no parseable rows out of %d", len(rows))
	}
	return events, nil
}

func parseSaleTime(s string) (time.Time, error) {
	s = strings.TrimSpace(strings.TrimSuffix(s, "+0"))
	return time.Parse(saleTimeLayout, s)
}

// SalesPerDay is the volume-weighted trailing 30-day sale rate implied by
// the raw chart rows, measured against now.
func salesPerDay(rows [][]interface{}, now time.Time) float64 {
	cutoff := now.AddDate(0, 0, -30)
	var volume int
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		ts, ok := row[0].(string)
		if !ok {
			continue
		}
		when, err := parseSaleTime(ts)
		if err != nil || !when.After(cutoff) {
			continue
		}
		volume += volumeOf(row)
	}
	return float64(volume) / 30
}

// volumeOf reads the optional volume column of a chart row.
func volumeOf(row []interface{}) int {
	if len(row) < 3 {
		return 1
	}
	s, ok := row[2].(string)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
