package scenario

import (
	"fmt"
	"sort"
	"time"

	"github.com/wonny/vega/internal/options"
	"github.com/wonny/vega/internal/portfolio"
)

// DefaultMinSpot 그리드 하한 (0/음수 spot 방지)
const DefaultMinSpot = 0.01

// PayoffConfig payoff / value 커브 설정
//
// ExpiryDate는 payoff 커브를 계산할 평가일.
// IncludeValueToday가 true면 같은 spot 그리드에서 value_today 커브 추가.
// 변동성은 전달된 market 스냅샷의 flat vol을 그대로 사용
type PayoffConfig struct {
	ExpiryDate         time.Time `json:"expiry_date"`
	Spots              []float64 `json:"spots"`
	IncludeValueToday  bool      `json:"include_value_today"`
	IncludeGreeksToday bool      `json:"include_greeks_today"`
}

// GreekCurves 그리드를 따라 계산한 Greeks 커브 (spots와 인덱스 정렬)
type GreekCurves struct {
	Delta []float64 `json:"delta"`
	Gamma []float64 `json:"gamma"`
	Vega  []float64 `json:"vega"`
	Theta []float64 `json:"theta"`
	Rho   []float64 `json:"rho"`
}

// PayoffAssumptions 평가 당시의 시장 가정 기록
type PayoffAssumptions struct {
	Rate          float64 `json:"rate"`
	DividendYield float64 `json:"dividend_yield"`
	Volatility    float64 `json:"volatility"`
	VolModel      string  `json:"vol_model"`
}

// PayoffMetadata 커브 메타데이터
type PayoffMetadata struct {
	Today       string            `json:"today"`
	ExpiryDate  string            `json:"expiry_date"`
	Assumptions PayoffAssumptions `json:"assumptions"`
}

// PayoffResult frontend-ready 커브 묶음
// 모든 커브는 동일한 정렬된 Spots 축에 인덱스 정렬됨
type PayoffResult struct {
	Spots          []float64      `json:"spots"`
	PayoffAtExpiry []float64      `json:"payoff_at_expiry"`
	ValueToday     []float64      `json:"value_today,omitempty"`
	GreeksToday    *GreekCurves   `json:"greeks_today,omitempty"`
	Metadata       PayoffMetadata `json:"metadata"`
}

// MakeSpotGrid center 주변의 균등 간격 spot 그리드 생성
//
// 예: center=185, pctRange=0.5, n=11 → 92.5 ~ 277.5 사이 11개 지점.
// 하한은 max(minSpot, center*(1-pctRange))
func MakeSpotGrid(center, pctRange float64, n int, minSpot float64) ([]float64, error) {
	if center <= 0 {
		return nil, fmt.Errorf("%w: spot center must be > 0, got %g", options.ErrInvalidInput, center)
	}
	if pctRange <= 0 {
		return nil, fmt.Errorf("%w: pct range must be > 0, got %g", options.ErrInvalidInput, pctRange)
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: grid needs at least 2 points, got %d", options.ErrInvalidInput, n)
	}

	lo := center * (1.0 - pctRange)
	if lo < minSpot {
		lo = minSpot
	}
	hi := center * (1.0 + pctRange)

	step := (hi - lo) / float64(n-1)
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = lo + float64(i)*step
	}

	return grid, nil
}

// Payoff 포트폴리오의 payoff/value 커브 생성
//
// 만기 시점 커브는 ExpiryDate에 포트폴리오를 평가해서 얻음 (만기 도달
// 계약은 내재가치로 수렴). 옵션으로 오늘 가치 커브와 오늘 Greeks 커브를
// 같은 그리드 위에 추가
func Payoff(positions []portfolio.Position, market options.MarketSnapshot, today time.Time, cfg PayoffConfig) (*PayoffResult, error) {
	if len(cfg.Spots) == 0 {
		return nil, fmt.Errorf("%w: spot grid must be non-empty", options.ErrInvalidInput)
	}
	for _, s := range cfg.Spots {
		if s < DefaultMinSpot {
			return nil, fmt.Errorf("%w: spot grid values must be >= %g, got %g",
				options.ErrInvalidInput, DefaultMinSpot, s)
		}
	}

	// 일관된 커브를 위해 정렬
	spots := make([]float64, len(cfg.Spots))
	copy(spots, cfg.Spots)
	sort.Float64s(spots)

	// Payoff at expiry (portfolio valued on the expiry date)
	payoffAtExpiry := make([]float64, 0, len(spots))
	for _, s := range spots {
		payoffAtExpiry = append(payoffAtExpiry, portfolio.Price(positions, market.WithSpot(s), cfg.ExpiryDate))
	}

	result := &PayoffResult{
		Spots:          spots,
		PayoffAtExpiry: payoffAtExpiry,
		Metadata: PayoffMetadata{
			Today:      today.Format("2006-01-02"),
			ExpiryDate: cfg.ExpiryDate.Format("2006-01-02"),
			Assumptions: PayoffAssumptions{
				Rate:          market.Rate,
				DividendYield: market.DividendYield,
				Volatility:    market.Volatility,
				VolModel:      "flat",
			},
		},
	}

	// Optional: value curve today on the same grid
	if cfg.IncludeValueToday {
		valueToday := make([]float64, 0, len(spots))
		for _, s := range spots {
			valueToday = append(valueToday, portfolio.Price(positions, market.WithSpot(s), today))
		}
		result.ValueToday = valueToday
	}

	// Optional: Greeks today along the grid
	if cfg.IncludeGreeksToday {
		curves := &GreekCurves{
			Delta: make([]float64, 0, len(spots)),
			Gamma: make([]float64, 0, len(spots)),
			Vega:  make([]float64, 0, len(spots)),
			Theta: make([]float64, 0, len(spots)),
			Rho:   make([]float64, 0, len(spots)),
		}
		for _, s := range spots {
			g := portfolio.GreeksFor(positions, market.WithSpot(s), today)
			curves.Delta = append(curves.Delta, g.Delta)
			curves.Gamma = append(curves.Gamma, g.Gamma)
			curves.Vega = append(curves.Vega, g.Vega)
			curves.Theta = append(curves.Theta, g.Theta)
			curves.Rho = append(curves.Rho, g.Rho)
		}
		result.GreeksToday = curves
	}

	return result, nil
}
