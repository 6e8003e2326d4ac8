package market

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSaleTime(t *testing.T) {
	got, err := parseSaleTime("Dec 11 2019 01: +0")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2019, time.December, 11, 1, 0, 0, 0, time.UTC), got)

	_, err = parseSaleTime("not a date")
	assert.Error(t, err)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"$1.23 USD", 1.23, false},
		{"  $0.05  ", 0.05, false},
		{"1,234.56", 1234.56, false},
		{"Sold!", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePriceRows(t *testing.T) {
	rows := [][]interface{}{
		{"Dec 11 2019 01: +0", 1.25, "3"},
		{"Dec 12 2019 01: +0", 1.30, "1"},
		{"garbage", 1.0, "1"}, // skipped
		{"Dec 13 2019 01: +0", "not-a-price", "1"}, // skipped
	}

	events, err := parsePriceRows(rows)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 1.25, events[0].Price)
	assert.Equal(t, time.Date(2019, time.December, 12, 1, 0, 0, 0, time.UTC), events[1].Timestamp)
}

func TestParsePriceRowsAllGarbage(t *testing.T) {
	_, err := parsePriceRows([][]interface{}{{"nope", "nope"}})
	assert.Error(t, err)
}

func TestSalesPerDay(t *testing.T) {
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	rows := [][]interface{}{
		{"Feb 25 2024 01: +0", 1.0, "30"}, // recent, 30 sales
		{"Feb 28 2024 01: +0", 1.0, "30"}, // recent, 30 sales
		{"Dec 01 2023 01: +0", 1.0, "99"}, // too old
	}
	assert.InDelta(t, 2.0, salesPerDay(rows, now), 1e-9)
}

func TestParseListingDoc(t *testing.T) {
	html := `
	<html><body>
	<span class="market_listing_price market_listing_price_with_fee"> $1.50 USD </span>
	<span class="market_listing_price market_listing_price_with_fee"> $1.20 USD </span>
	<span class="market_listing_price market_listing_price_with_fee"> Sold! </span>
	<div id="market_commodity_buyrequests">
		<span class="market_commodity_orders_header_promote">7</span>
		<span class="market_commodity_orders_header_promote">$1.02</span>
	</div>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	got := parseListingDoc(doc, "AK-47 | Redline (Field-Tested)")
	assert.Equal(t, []float64{1.20, 1.50}, got.Asks)
	assert.Equal(t, 1.02, got.BuyOrder)
	assert.Equal(t, "None", got.SpecialType)

	souvenir := parseListingDoc(doc, "Souvenir AWP | Desolate Space (Field-Tested)")
	assert.Equal(t, "Souvenir", souvenir.SpecialType)
}

func TestMarketHashNameRoundTrip(t *testing.T) {
	hash := MarketHashName("AK-47 | Redline", "Field-Tested")
	assert.Equal(t, "AK-47 | Redline (Field-Tested)", hash)

	name, condition := splitHashName(hash)
	assert.Equal(t, "AK-47 | Redline", name)
	assert.Equal(t, "Field-Tested", condition)

	name, condition = splitHashName("Operation Broken Fang Case")
	assert.Equal(t, "Operation Broken Fang Case", name)
	assert.Empty(t, condition)
}
