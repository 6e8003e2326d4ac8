package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/steamflip/internal/contracts"
	"github.com/wonny/steamflip/pkg/logger"
)

// ItemHandler serves the stored item universe.
type ItemHandler struct {
	items  contracts.ItemRepository
	logger *logger.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(items contracts.ItemRepository, log *logger.Logger) *ItemHandler {
	return &ItemHandler{items: items, logger: log}
}

// itemSummary is the list-view shape; full histories only ship from Get.
type itemSummary struct {
	Name          string    `json:"name"`
	Condition     string    `json:"condition"`
	SpecialType   string    `json:"special_type"`
	LowestListing float64   `json:"lowest_listing"`
	BuyOrderPrice float64   `json:"buy_order_price"`
	SalesPerDay   float64   `json:"sales_per_day"`
	SaleEvents    int       `json:"sale_events"`
	LastPulledAt  time.Time `json:"last_pulled_at"`
}

// List returns a summary of every stored item
// GET /api/v1/items
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.items.GetAll(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("item list failed")
		writeError(w, http.StatusInternalServerError, "failed to load items")
		return
	}

	summaries := make([]itemSummary, 0, len(records))
	for _, item := range records {
		lowest, _ := item.LowestListing()
		summaries = append(summaries, itemSummary{
			Name:          item.Name,
			Condition:     item.Condition,
			SpecialType:   item.SpecialType,
			LowestListing: lowest,
			BuyOrderPrice: item.BuyOrderPrice,
			SalesPerDay:   item.SalesPerDay,
			SaleEvents:    len(item.SaleHistory),
			LastPulledAt:  item.LastPulledAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(summaries),
		"items": summaries,
	})
}

// Get returns one item with its full sale history
// GET /api/v1/items/{name}?condition=Field-Tested
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	condition := r.URL.Query().Get("condition")

	item, err := h.items.GetByName(r.Context(), name, condition)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, item)
}
