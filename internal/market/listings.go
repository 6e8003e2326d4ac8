package market

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	pkgredis "github.com/wonny/steamflip/pkg/redis"
)

// Listings is the current order-book shape of one item page.
type Listings struct {
	Asks        []float64 `json:"asks"` // ascending, buyer-pays prices
	BuyOrder    float64   `json:"buy_order"`
	SpecialType string    `json:"special_type"`
}

// FetchListings scrapes the item page for current asks and the highest
// standing buy order.
// ⭐ SSOT: 리스팅 페이지 파싱은 이 함수에서만
func (c *Client) FetchListings(ctx context.Context, marketHashName string) (*Listings, error) {
	cacheKey := pkgredis.ListingsKey(marketHashName)
	var cached Listings
	if found, _ := c.cache.Get(ctx, cacheKey, &cached); found {
		return &cached, nil
	}

	resp, err := c.http.Get(ctx, c.listingURL(marketHashName))
	if err != nil {
		return nil, fmt.Errorf("listing page fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing page returned %d for %q", resp.StatusCode, marketHashName)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("listing page parse failed: %w", err)
	}

	listings := parseListingDoc(doc, marketHashName)

	if err := c.cache.Set(ctx, cacheKey, listings, pkgredis.TTLShort); err != nil {
		c.logger.WithError(err).Warn("listings cache write failed")
	}

	c.logger.WithField("item", marketHashName).
		WithField("asks", len(listings.Asks)).
		Debug("listings pulled")
	return listings, nil
}

func parseListingDoc(doc *goquery.Document, marketHashName string) *Listings {
	listings := &Listings{SpecialType: "None"}

	// Buyer-pays ask prices. Steam occasionally renders "Sold!" in place of
	// a price; ParsePrice failing on those rows filters them out.
	doc.Find("span.market_listing_price.market_listing_price_with_fee").Each(func(_ int, s *goquery.Selection) {
		price, err := ParsePrice(s.Text())
		if err != nil {
			return
		}
		listings.Asks = append(listings.Asks, price)
	})
	sort.Float64s(listings.Asks)

	// Highest standing buy order. The summary renders two promoted spans,
	// quantity then price; only the price carries a currency symbol.
	doc.Find("#market_commodity_buyrequests .market_commodity_orders_header_promote").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.Contains(s.Text(), "$") {
			return true
		}
		if price, err := ParsePrice(s.Text()); err == nil {
			listings.BuyOrder = price
			return false
		}
		return true
	})

	if strings.Contains(marketHashName, "Souvenir") {
		listings.SpecialType = "Souvenir"
	}
	return listings
}

// ParsePrice extracts a USD amount from Steam's rendered price text, e.g.
// "$1.23 USD" or "1,234.56".
func ParsePrice(text string) (float64, error) {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, fmt.Errorf("no price in %q", strings.TrimSpace(text))
	}
	price, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable price %q: %w", strings.TrimSpace(text), err)
	}
	return price, nil
}
