package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/wonny/vega/internal/marketdata"
	"github.com/wonny/vega/internal/timeline"
	"github.com/wonny/vega/pkg/logger"
)

// TimelineHandler handles strategy timeline API endpoints
type TimelineHandler struct {
	reconstructor *timeline.Reconstructor
	provider      *marketdata.MockProvider
	logger        *logger.Logger
}

// NewTimelineHandler creates a new timeline handler
func NewTimelineHandler(rc *timeline.Reconstructor, provider *marketdata.MockProvider, log *logger.Logger) *TimelineHandler {
	return &TimelineHandler{
		reconstructor: rc,
		provider:      provider,
		logger:        log,
	}
}

// TimelineRequest 타임라인 재구성 요청 (날짜는 YYYY-MM-DD)
type TimelineRequest struct {
	Ticker        string         `json:"ticker"`
	From          string         `json:"from"`
	To            string         `json:"to"`
	Legs          []timeline.Leg `json:"legs"`
	Rate          float64        `json:"rate"`
	DividendYield float64        `json:"dividend_yield"`
	Volatility    float64        `json:"volatility"`
}

// Reconstruct rebuilds the day-by-day value of a strategy
// POST /api/v1/timeline
func (h *TimelineHandler) Reconstruct(w http.ResponseWriter, r *http.Request) {
	var req TimelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'from' date format (expected YYYY-MM-DD)")
		return
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'to' date format (expected YYYY-MM-DD)")
		return
	}

	result, err := h.reconstructor.Reconstruct(r.Context(), timeline.Request{
		Ticker:        req.Ticker,
		From:          from,
		To:            to,
		Legs:          req.Legs,
		Rate:          req.Rate,
		DividendYield: req.DividendYield,
		Volatility:    req.Volatility,
	})
	if err != nil {
		if errors.Is(err, marketdata.ErrUnknownTicker) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.WithError(err).Warn("Timeline reconstruction failed")
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Tickers lists the tickers available from the price provider
// GET /api/v1/timeline/tickers
func (h *TimelineHandler) Tickers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tickers": h.provider.Tickers(),
	})
}
