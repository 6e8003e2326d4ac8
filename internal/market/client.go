// Package market pulls item data from the Steam Community Market: current
// listings from the item page HTML, the sale history from the price-history
// chart endpoint. Everything downstream consumes the ItemRecord this package
// produces; prices are normalized to USD here and nowhere else.
package market

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/wonny/steamflip/pkg/config"
	"github.com/wonny/steamflip/pkg/httputil"
	"github.com/wonny/steamflip/pkg/logger"
	"github.com/wonny/steamflip/pkg/redis"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Client accesses the Steam Community Market.
// ⭐ SSOT: Steam 요청은 이 클라이언트를 통해서만
type Client struct {
	http   *httputil.Client
	cache  *redis.Cache
	logger *logger.Logger

	baseURL  string
	appID    int
	currency int
}

// NewClient creates a Steam market client. The rate limit is mandatory:
// Steam bans IPs that hammer the market endpoints.
func NewClient(cfg *config.Config, cache *redis.Cache, log *logger.Logger) *Client {
	httpClient := httputil.New(log).
		WithRateLimit(cfg.Steam.RequestsPerMinute).
		WithUserAgent(userAgent)

	return &Client{
		http:     httpClient,
		cache:    cache,
		logger:   log,
		baseURL:  strings.TrimRight(cfg.Steam.BaseURL, "/"),
		appID:    cfg.Steam.AppID,
		currency: cfg.Steam.Currency,
	}
}

// listingURL is the public item page, e.g.
// https://steamcommunity.com/market/listings/730/AK-47%20%7C%20Redline%20%28Field-Tested%29
func (c *Client) listingURL(marketHashName string) string {
	return fmt.Sprintf("%s/listings/%d/%s", c.baseURL, c.appID, url.PathEscape(marketHashName))
}

// priceHistoryURL is the JSON chart endpoint behind the item page.
func (c *Client) priceHistoryURL(marketHashName string) string {
	return fmt.Sprintf("%s/pricehistory/?appid=%d&currency=%d&market_hash_name=%s",
		c.baseURL, c.appID, c.currency, url.QueryEscape(marketHashName))
}

// MarketHashName joins item name and condition the way Steam's URLs expect,
// e.g. "AK-47 | Redline (Field-Tested)".
func MarketHashName(name, condition string) string {
	if condition == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, condition)
}
