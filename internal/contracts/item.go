package contracts

import (
	"sort"
	"time"
)

// SpecialTypeSouvenir marks souvenir drops. Their prices are driven by
// memorabilia value, not by supply, so every strategy filters them out.
const SpecialTypeSouvenir = "Souvenir"

// SaleEvent is one recorded sale: when it happened and at what price (USD).
// Immutable once pulled.
type SaleEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// ItemRecord is one tradable item variant (name × condition) as pulled from
// the Steam Community Market.
// ⭐ SSOT: 수집기(collector)만 이 레코드를 갱신하고, 전략/백테스트는 읽기 전용
type ItemRecord struct {
	Name          string      `json:"name"`
	SpecialType   string      `json:"special_type"` // "None" or SpecialTypeSouvenir
	Condition     string      `json:"condition"`    // e.g. "Field-Tested"
	Listings      []float64   `json:"listings"`     // current asks, ascending
	BuyOrderPrice float64     `json:"buy_order_price"`
	SalesPerDay   float64     `json:"sales_per_day"` // trailing-month rate
	SaleHistory   []SaleEvent `json:"sale_history"`
	LastPulledAt  time.Time   `json:"last_pulled_at"`
}

// IsSouvenir reports whether this is a souvenir variant.
func (it ItemRecord) IsSouvenir() bool {
	return it.SpecialType == SpecialTypeSouvenir
}

// LowestListing returns the cheapest current ask.
func (it ItemRecord) LowestListing() (float64, bool) {
	if len(it.Listings) == 0 {
		return 0, false
	}
	return it.Listings[0], true
}

// SortedHistory returns a copy of SaleHistory in chronological order.
// Pulled histories are usually already chronological, but that is not
// guaranteed, and the backtester depends on ordering.
func (it ItemRecord) SortedHistory() []SaleEvent {
	events := make([]SaleEvent, len(it.SaleHistory))
	copy(events, it.SaleHistory)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	return events
}

// LatestSale returns the timestamp of the chronologically last sale.
func (it ItemRecord) LatestSale() (time.Time, bool) {
	var latest time.Time
	for _, ev := range it.SaleHistory {
		if ev.Timestamp.After(latest) {
			latest = ev.Timestamp
		}
	}
	if latest.IsZero() {
		return time.Time{}, false
	}
	return latest, true
}
