package timeline

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/vega/internal/marketdata"
	"github.com/wonny/vega/internal/options"
	"github.com/wonny/vega/internal/portfolio"
)

// =============================================================================
// Strategy Timeline
// 일별 가격 시계열 위에서 전략을 날짜별로 재평가
// ⭐ SSOT: 타임라인 재구성 로직은 이 패키지에서만
// =============================================================================

// LegKind 전략 구성 종목의 종류
type LegKind string

const (
	LegOption LegKind = "option"
	LegStock  LegKind = "stock"
)

// Leg 전략의 구성 포지션 1개
// 옵션 leg는 Contract로 평가하고 주식 leg는 spot 그대로 평가
type Leg struct {
	Kind     LegKind                `json:"kind"`
	Label    string                 `json:"label"`
	Contract options.OptionContract `json:"contract,omitempty"`
	Quantity float64                `json:"quantity"`
}

// Request 타임라인 재구성 요청
type Request struct {
	Ticker        string    `json:"ticker"`
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
	Legs          []Leg     `json:"legs"`
	Rate          float64   `json:"rate"`
	DividendYield float64   `json:"dividend_yield"`
	Volatility    float64   `json:"volatility"`
}

// ExpiryMarker 구간 내에 있는 옵션 만기 표시
type ExpiryMarker struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

// Result 날짜 축에 인덱스 정렬된 시계열 묶음
type Result struct {
	Ticker     string               `json:"ticker"`
	Dates      []string             `json:"dates"`
	Underlying []float64            `json:"underlying"`
	Legs       map[string][]float64 `json:"legs"`
	Total      []float64            `json:"total"`
	Expiries   []ExpiryMarker       `json:"expiries,omitempty"`
}

// Reconstructor 전략 타임라인 재구성기
type Reconstructor struct {
	provider marketdata.Provider
}

// NewReconstructor 새 재구성기 생성
func NewReconstructor(provider marketdata.Provider) *Reconstructor {
	return &Reconstructor{provider: provider}
}

// Reconstruct 요청 구간의 영업일마다 전략 전체를 재평가
//
// 각 날짜의 spot으로 스냅샷을 만들고 옵션 leg는 해당 날짜를 평가일로
// 가치를 계산. 만기가 지난 옵션은 내재가치에 수렴한 값이 그대로 이어짐
func (rc *Reconstructor) Reconstruct(ctx context.Context, req Request) (*Result, error) {
	if len(req.Legs) == 0 {
		return nil, fmt.Errorf("%w: at least one leg is required", options.ErrInvalidInput)
	}
	if req.Volatility <= 0 {
		return nil, fmt.Errorf("%w: volatility must be positive, got %g", options.ErrInvalidInput, req.Volatility)
	}
	for i, leg := range req.Legs {
		if leg.Label == "" {
			return nil, fmt.Errorf("%w: leg %d has no label", options.ErrInvalidInput, i)
		}
		if leg.Kind == LegOption {
			if err := leg.Contract.Validate(); err != nil {
				return nil, fmt.Errorf("leg %q: %w", leg.Label, err)
			}
		}
	}

	bars, err := rc.provider.DailyPrices(ctx, req.Ticker, req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("load prices for %s: %w", req.Ticker, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no trading days in range", options.ErrInvalidInput)
	}

	result := &Result{
		Ticker:     req.Ticker,
		Dates:      make([]string, 0, len(bars)),
		Underlying: make([]float64, 0, len(bars)),
		Legs:       make(map[string][]float64, len(req.Legs)),
		Total:      make([]float64, 0, len(bars)),
	}
	for _, leg := range req.Legs {
		result.Legs[leg.Label] = make([]float64, 0, len(bars))
	}

	for _, bar := range bars {
		market := options.MarketSnapshot{
			Spot:          bar.Close,
			Rate:          req.Rate,
			DividendYield: req.DividendYield,
			Volatility:    req.Volatility,
		}

		var total float64
		for _, leg := range req.Legs {
			var value float64
			switch leg.Kind {
			case LegStock:
				value = leg.Quantity * bar.Close
			case LegOption:
				pos := portfolio.Position{Contract: leg.Contract, Quantity: leg.Quantity}
				value = portfolio.PositionPrice(pos, market, bar.Date)
			default:
				return nil, fmt.Errorf("%w: unknown leg kind %q", options.ErrInvalidInput, leg.Kind)
			}
			result.Legs[leg.Label] = append(result.Legs[leg.Label], value)
			total += value
		}

		result.Dates = append(result.Dates, bar.Date.Format("2006-01-02"))
		result.Underlying = append(result.Underlying, bar.Close)
		result.Total = append(result.Total, total)
	}

	result.Expiries = expiryMarkers(req.Legs, req.From, req.To)

	return result, nil
}

// expiryMarkers 구간 내 옵션 만기 마커 (중복 제거하지 않고 leg별로 하나씩)
func expiryMarkers(legs []Leg, from, to time.Time) []ExpiryMarker {
	var markers []ExpiryMarker
	for _, leg := range legs {
		if leg.Kind != LegOption {
			continue
		}
		exp := leg.Contract.Expiry
		if exp.Before(from) || exp.After(to) {
			continue
		}
		markers = append(markers, ExpiryMarker{
			Date:  exp.Format("2006-01-02"),
			Label: leg.Label,
		})
	}
	return markers
}
