package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/steamflip/internal/scanner"
	"github.com/wonny/steamflip/internal/strategy"
	"github.com/wonny/steamflip/internal/strategyconfig"
	"github.com/wonny/steamflip/pkg/logger"
)

// SignalHandler runs live strategy scans on demand.
type SignalHandler struct {
	scanner *scanner.Scanner
	params  strategyconfig.Config
	logger  *logger.Logger
}

// NewSignalHandler creates a new signal handler
func NewSignalHandler(sc *scanner.Scanner, params strategyconfig.Config, log *logger.Logger) *SignalHandler {
	return &SignalHandler{scanner: sc, params: params, logger: log}
}

// Scan evaluates one strategy against the stored universe
// GET /api/v1/signals/{strategy}
func (h *SignalHandler) Scan(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["strategy"]

	strat, err := strategy.New(name, h.params)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	signals, err := h.scanner.Scan(r.Context(), strat)
	if err != nil {
		h.logger.WithError(err).WithField("strategy", name).Error("scan failed")
		writeError(w, http.StatusInternalServerError, "scan failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"strategy": name,
		"count":    len(signals),
		"signals":  signals,
	})
}
