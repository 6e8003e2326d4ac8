package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/wonny/steamflip/internal/backtest"
	"github.com/wonny/steamflip/internal/contracts"
	"github.com/wonny/steamflip/internal/strategy"
	"github.com/wonny/steamflip/internal/strategyconfig"
	"github.com/wonny/steamflip/pkg/logger"
)

// BacktestHandler runs backtests and serves past run summaries.
type BacktestHandler struct {
	items  contracts.ItemRepository
	runs   contracts.RunRepository
	params strategyconfig.Config
	logger *logger.Logger
}

// NewBacktestHandler creates a new backtest handler
func NewBacktestHandler(items contracts.ItemRepository, runs contracts.RunRepository, params strategyconfig.Config, log *logger.Logger) *BacktestHandler {
	return &BacktestHandler{items: items, runs: runs, params: params, logger: log}
}

// backtestRequest is the POST body for launching a run. The region is given
// in relative day offsets, matching the CLI.
type backtestRequest struct {
	Strategy        string `json:"strategy"`
	RegionStartDays int    `json:"region_start_days"`
	RegionEndDays   int    `json:"region_end_days"`
	ForceDays       *int   `json:"force_days,omitempty"`
	DynamicFallback *bool  `json:"dynamic_fallback,omitempty"`
}

// Run launches a backtest synchronously and returns its summary
// POST /api/v1/backtests
func (h *BacktestHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req backtestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	strat, err := strategy.New(req.Strategy, h.params)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	bstrat, ok := strat.(strategy.BacktestStrategy)
	if !ok {
		writeError(w, http.StatusBadRequest, "strategy does not support backtesting")
		return
	}

	cfg := backtest.ConfigFrom(h.params, contracts.RelativeRegion(req.RegionStartDays, req.RegionEndDays))
	if req.ForceDays != nil {
		cfg.LiquidationForceDays = *req.ForceDays
	}
	if req.DynamicFallback != nil {
		cfg.DynamicFallback = *req.DynamicFallback
	}

	items, err := h.items.GetAll(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("backtest failed to load items")
		writeError(w, http.StatusInternalServerError, "failed to load items")
		return
	}

	result, err := backtest.Run(bstrat, items, cfg, h.logger.Zerolog())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := strategyconfig.Hash(&h.params)
	if err == nil {
		if saveErr := h.runs.Save(r.Context(), result.PersistedRun(hash)); saveErr != nil {
			h.logger.WithError(saveErr).Warn("backtest run not persisted")
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":      result.RunID,
		"strategy":    result.Strategy,
		"purchases":   len(result.Purchases),
		"sold_phase1": len(result.Buckets.SoldPhase1),
		"sold_phase2": len(result.Buckets.SoldPhase2),
		"never_sold":  len(result.Buckets.NeverSold),
		"net_profit":  result.Summary.NetProfit,
		"sunk_cost":   result.Summary.SunkCost,
	})
}

// List returns recent backtest runs
// GET /api/v1/backtests?limit=20
func (h *BacktestHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	runs, err := h.runs.List(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("run list failed")
		writeError(w, http.StatusInternalServerError, "failed to load runs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(runs),
		"runs":  runs,
	})
}
