package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/wonny/vega/internal/options"
	"github.com/wonny/vega/internal/portfolio"
	"github.com/wonny/vega/internal/risk"
	"github.com/wonny/vega/internal/scenario"
	"github.com/wonny/vega/pkg/config"
	"github.com/wonny/vega/pkg/logger"
)

// OptionsHandler handles pricing, scenario and risk API endpoints
// ⭐ SSOT: 옵션 엔진 API 핸들러는 이 구조체에서만
type OptionsHandler struct {
	config *config.Config
	logger *logger.Logger
}

// NewOptionsHandler creates a new options handler
func NewOptionsHandler(cfg *config.Config, log *logger.Logger) *OptionsHandler {
	return &OptionsHandler{
		config: cfg,
		logger: log,
	}
}

// parseToday resolves the valuation date, defaulting to the current date
func parseToday(raw string) (time.Time, bool) {
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ContractRequest 단일 계약 평가 요청 공통 필드
type ContractRequest struct {
	Contract options.OptionContract `json:"contract"`
	Market   options.MarketSnapshot `json:"market"`
	Today    string                 `json:"today,omitempty"` // YYYY-MM-DD (생략 시 오늘)
}

func (h *OptionsHandler) decodeContractRequest(w http.ResponseWriter, r *http.Request) (ContractRequest, time.Time, bool) {
	var req ContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return req, time.Time{}, false
	}

	today, ok := parseToday(req.Today)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid 'today' date format (expected YYYY-MM-DD)")
		return req, time.Time{}, false
	}

	if err := req.Contract.Validate(); err != nil {
		respondEngineError(w, err)
		return req, time.Time{}, false
	}
	if err := req.Market.Validate(); err != nil {
		respondEngineError(w, err)
		return req, time.Time{}, false
	}

	return req, today, true
}

// PriceResponse 단일 계약 가격 응답
type PriceResponse struct {
	Symbol string  `json:"symbol,omitempty"`
	Price  float64 `json:"price"`
}

// Price values a single contract
// POST /api/v1/options/price
func (h *OptionsHandler) Price(w http.ResponseWriter, r *http.Request) {
	req, today, ok := h.decodeContractRequest(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, PriceResponse{
		Symbol: req.Contract.Symbol,
		Price:  options.Price(req.Contract, req.Market, today),
	})
}

// GreeksResponse 단일 계약 Greeks 응답
type GreeksResponse struct {
	Symbol string         `json:"symbol,omitempty"`
	Price  float64        `json:"price"`
	Greeks options.Greeks `json:"greeks"`
}

// Greeks computes price and analytical Greeks for a single contract
// POST /api/v1/options/greeks
func (h *OptionsHandler) Greeks(w http.ResponseWriter, r *http.Request) {
	req, today, ok := h.decodeContractRequest(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, GreeksResponse{
		Symbol: req.Contract.Symbol,
		Price:  options.Price(req.Contract, req.Market, today),
		Greeks: options.Compute(req.Contract, req.Market, today),
	})
}

// ImpliedVolRequest implied volatility 요청
// Market.Volatility는 무시되고 ObservedPrice에서 역산
type ImpliedVolRequest struct {
	Contract      options.OptionContract `json:"contract"`
	Market        options.MarketSnapshot `json:"market"`
	Today         string                 `json:"today,omitempty"`
	ObservedPrice float64                `json:"observed_price"`
	InitialGuess  float64                `json:"initial_guess,omitempty"`
	Tolerance     float64                `json:"tolerance,omitempty"`
	MaxIter       int                    `json:"max_iter,omitempty"`
}

// ImpliedVolResponse implied volatility 응답
type ImpliedVolResponse struct {
	Symbol        string  `json:"symbol,omitempty"`
	ImpliedVol    float64 `json:"implied_vol"`
	ObservedPrice float64 `json:"observed_price"`
}

// ImpliedVol solves for the volatility implied by an observed price
// POST /api/v1/options/implied-vol
func (h *OptionsHandler) ImpliedVol(w http.ResponseWriter, r *http.Request) {
	var req ImpliedVolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	today, ok := parseToday(req.Today)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid 'today' date format (expected YYYY-MM-DD)")
		return
	}

	if err := req.Contract.Validate(); err != nil {
		respondEngineError(w, err)
		return
	}
	if err := req.Market.Validate(); err != nil {
		respondEngineError(w, err)
		return
	}

	cfg := options.SolverConfig{
		InitialGuess: req.InitialGuess,
		Tolerance:    req.Tolerance,
		MaxIter:      req.MaxIter,
	}
	if cfg.InitialGuess == 0 {
		cfg.InitialGuess = h.config.Engine.DefaultInitialVol
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = h.config.Engine.SolverTolerance
	}
	if cfg.MaxIter == 0 {
		cfg.MaxIter = h.config.Engine.SolverMaxIter
	}

	iv, err := options.ImpliedVol(req.ObservedPrice, req.Contract, req.Market, today, cfg)
	if err != nil {
		h.logger.WithError(err).Warn("Implied vol solve failed")
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ImpliedVolResponse{
		Symbol:        req.Contract.Symbol,
		ImpliedVol:    iv,
		ObservedPrice: req.ObservedPrice,
	})
}

// PortfolioRequest 포트폴리오 평가 요청 공통 필드
type PortfolioRequest struct {
	Positions []portfolio.Position   `json:"positions"`
	Market    options.MarketSnapshot `json:"market"`
	Today     string                 `json:"today,omitempty"`
}

// validatePortfolioRequest 공통 검증 후 평가일 반환
func (h *OptionsHandler) validatePortfolioRequest(w http.ResponseWriter, req PortfolioRequest) (time.Time, bool) {
	today, ok := parseToday(req.Today)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid 'today' date format (expected YYYY-MM-DD)")
		return time.Time{}, false
	}

	for _, p := range req.Positions {
		if err := p.Contract.Validate(); err != nil {
			respondEngineError(w, err)
			return time.Time{}, false
		}
	}
	if err := req.Market.Validate(); err != nil {
		respondEngineError(w, err)
		return time.Time{}, false
	}

	return today, true
}

// PortfolioResponse 포트폴리오 가치/Greeks 응답
type PortfolioResponse struct {
	Value            float64        `json:"value"`
	Greeks           options.Greeks `json:"greeks"`
	DeltaHedgeShares float64        `json:"delta_hedge_shares"`
}

// Portfolio aggregates value and Greeks across positions
// POST /api/v1/portfolio/value
func (h *OptionsHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	var req PortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	today, ok := h.validatePortfolioRequest(w, req)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, PortfolioResponse{
		Value:            portfolio.Price(req.Positions, req.Market, today),
		Greeks:           portfolio.GreeksFor(req.Positions, req.Market, today),
		DeltaHedgeShares: portfolio.DeltaHedgeShares(req.Positions, req.Market, today),
	})
}

// SpotScenarioRequest spot 스윕 요청
type SpotScenarioRequest struct {
	PortfolioRequest
	Spots []float64 `json:"spots"`
}

// SpotScenario sweeps the portfolio across a spot grid
// POST /api/v1/scenario/spot
func (h *OptionsHandler) SpotScenario(w http.ResponseWriter, r *http.Request) {
	var req SpotScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	today, ok := h.validatePortfolioRequest(w, req.PortfolioRequest)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"points": scenario.Spot(req.Positions, req.Market, today, req.Spots),
	})
}

// VolScenarioRequest volatility 스윕 요청
type VolScenarioRequest struct {
	PortfolioRequest
	Vols []float64 `json:"vols"`
}

// VolScenario sweeps the portfolio across a volatility grid
// POST /api/v1/scenario/vol
func (h *OptionsHandler) VolScenario(w http.ResponseWriter, r *http.Request) {
	var req VolScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	today, ok := h.validatePortfolioRequest(w, req.PortfolioRequest)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"points": scenario.Vol(req.Positions, req.Market, today, req.Vols),
	})
}

// TimeScenarioRequest 시간 경과 스윕 요청
type TimeScenarioRequest struct {
	PortfolioRequest
	DaysForward []int `json:"days_forward"`
}

// TimeScenario sweeps the portfolio forward in time
// POST /api/v1/scenario/time
func (h *OptionsHandler) TimeScenario(w http.ResponseWriter, r *http.Request) {
	var req TimeScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	today, ok := h.validatePortfolioRequest(w, req.PortfolioRequest)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"points": scenario.Time(req.Positions, req.Market, today, req.DaysForward),
	})
}

// CrashScenarioRequest 급락 시나리오 요청
type CrashScenarioRequest struct {
	PortfolioRequest
	Crashes []float64 `json:"crashes"` // 음수 비율 (예: -0.15)
}

// CrashScenario evaluates the portfolio under instantaneous spot drops
// POST /api/v1/scenario/crash
func (h *OptionsHandler) CrashScenario(w http.ResponseWriter, r *http.Request) {
	var req CrashScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	today, ok := h.validatePortfolioRequest(w, req.PortfolioRequest)
	if !ok {
		return
	}

	points, err := scenario.Crash(req.Positions, req.Market, today, req.Crashes)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"points": points,
	})
}

// SurfaceRequest 2축 surface 요청
type SurfaceRequest struct {
	PortfolioRequest
	Spots       []float64 `json:"spots"`
	Vols        []float64 `json:"vols,omitempty"`
	DaysForward []int     `json:"days_forward,omitempty"`
}

// SpotVolSurface evaluates the portfolio on a spot x volatility grid
// POST /api/v1/scenario/spot-vol-surface
func (h *OptionsHandler) SpotVolSurface(w http.ResponseWriter, r *http.Request) {
	var req SurfaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	today, ok := h.validatePortfolioRequest(w, req.PortfolioRequest)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, scenario.SpotVol(req.Positions, req.Market, today, req.Spots, req.Vols))
}

// SpotTimeSurface evaluates the portfolio on a spot x time grid
// POST /api/v1/scenario/spot-time-surface
func (h *OptionsHandler) SpotTimeSurface(w http.ResponseWriter, r *http.Request) {
	var req SurfaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	today, ok := h.validatePortfolioRequest(w, req.PortfolioRequest)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, scenario.SpotTime(req.Positions, req.Market, today, req.Spots, req.DaysForward))
}

// PayoffRequest payoff 커브 요청
// Spots를 생략하면 GridCenter 주변에 기본 그리드를 생성
type PayoffRequest struct {
	PortfolioRequest
	ExpiryDate         string    `json:"expiry_date"`
	Spots              []float64 `json:"spots,omitempty"`
	GridCenter         float64   `json:"grid_center,omitempty"`
	GridPctRange       float64   `json:"grid_pct_range,omitempty"`
	GridPoints         int       `json:"grid_points,omitempty"`
	IncludeValueToday  bool      `json:"include_value_today"`
	IncludeGreeksToday bool      `json:"include_greeks_today"`
}

// Payoff builds payoff and value curves for the portfolio
// POST /api/v1/scenario/payoff
func (h *OptionsHandler) Payoff(w http.ResponseWriter, r *http.Request) {
	var req PayoffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	today, ok := h.validatePortfolioRequest(w, req.PortfolioRequest)
	if !ok {
		return
	}

	expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'expiry_date' format (expected YYYY-MM-DD)")
		return
	}

	spots := req.Spots
	if len(spots) == 0 {
		center := req.GridCenter
		if center == 0 {
			center = req.Market.Spot
		}
		pctRange := req.GridPctRange
		if pctRange == 0 {
			pctRange = h.config.Engine.DefaultPctRange
		}
		n := req.GridPoints
		if n == 0 {
			n = h.config.Engine.DefaultGridPoints
		}

		spots, err = scenario.MakeSpotGrid(center, pctRange, n, scenario.DefaultMinSpot)
		if err != nil {
			respondEngineError(w, err)
			return
		}
	}

	result, err := scenario.Payoff(req.Positions, req.Market, today, scenario.PayoffConfig{
		ExpiryDate:         expiry,
		Spots:              spots,
		IncludeValueToday:  req.IncludeValueToday,
		IncludeGreeksToday: req.IncludeGreeksToday,
	})
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// MonteCarloRequest Monte Carlo 시뮬레이션 요청
type MonteCarloRequest struct {
	PortfolioRequest
	Config risk.MonteCarloConfig `json:"config"`
}

// MonteCarlo simulates the horizon distribution of portfolio value
// POST /api/v1/risk/monte-carlo
func (h *OptionsHandler) MonteCarlo(w http.ResponseWriter, r *http.Request) {
	var req MonteCarloRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	today, ok := h.validatePortfolioRequest(w, req.PortfolioRequest)
	if !ok {
		return
	}

	cfg := req.Config
	if cfg.NumSimulations == 0 {
		cfg.NumSimulations = h.config.Engine.DefaultNumSims
	}

	result, err := risk.NewMonteCarloSimulator(cfg).Simulate(req.Positions, req.Market, today)
	if err != nil {
		h.logger.WithError(err).Warn("Monte Carlo simulation failed")
		respondEngineError(w, err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"run_id":       result.RunID,
		"horizon_days": cfg.HorizonDays,
		"simulations":  cfg.NumSimulations,
	}).Info("Monte Carlo simulation completed")

	respondJSON(w, http.StatusOK, result)
}
