package scenario

import (
	"fmt"
	"time"

	"github.com/wonny/vega/internal/options"
	"github.com/wonny/vega/internal/portfolio"
)

// =============================================================================
// Deterministic single-axis sweeps
// 스냅샷의 필드 하나를 바꾼 새 스냅샷으로 포트폴리오를 재평가
// 스윕 축 값은 받은 순서 그대로 반환 (정렬하지 않음)
// =============================================================================

// SpotPoint spot 스윕 한 지점의 평가 결과
type SpotPoint struct {
	Spot  float64 `json:"spot"`
	Value float64 `json:"value"`
	options.Greeks
}

// VolPoint vol 스윕 한 지점의 평가 결과
type VolPoint struct {
	Volatility float64 `json:"volatility"`
	Value      float64 `json:"value"`
	options.Greeks
}

// TimePoint 평가일을 앞으로 보낸 한 지점의 결과
type TimePoint struct {
	DaysForward int       `json:"days_forward"`
	Date        time.Time `json:"date"`
	Value       float64   `json:"value"`
	options.Greeks
}

// CrashPoint 크래시 시나리오 한 지점의 결과
type CrashPoint struct {
	CrashPct float64 `json:"crash_pct"`
	Spot     float64 `json:"spot"`
	Value    float64 `json:"value"`
	options.Greeks
}

// Spot 포트폴리오 가치/Greeks를 spot의 함수로 평가
func Spot(positions []portfolio.Position, market options.MarketSnapshot, today time.Time, spots []float64) []SpotPoint {
	results := make([]SpotPoint, 0, len(spots))

	for _, s := range spots {
		m := market.WithSpot(s)
		results = append(results, SpotPoint{
			Spot:   s,
			Value:  portfolio.Price(positions, m, today),
			Greeks: portfolio.GreeksFor(positions, m, today),
		})
	}

	return results
}

// Vol 포트폴리오 가치/Greeks를 변동성의 함수로 평가
func Vol(positions []portfolio.Position, market options.MarketSnapshot, today time.Time, vols []float64) []VolPoint {
	results := make([]VolPoint, 0, len(vols))

	for _, v := range vols {
		m := market.WithVolatility(v)
		results = append(results, VolPoint{
			Volatility: v,
			Value:      portfolio.Price(positions, m, today),
			Greeks:     portfolio.GreeksFor(positions, m, today),
		})
	}

	return results
}

// Time 시간 경과에 따른 포트폴리오 가치/Greeks
// 시장은 그대로 두고 평가일만 days만큼 전진; 만기가 지난 계약은
// 내재가치/0 Greeks로 수렴할 뿐 에러가 아님
func Time(positions []portfolio.Position, market options.MarketSnapshot, today time.Time, daysForward []int) []TimePoint {
	results := make([]TimePoint, 0, len(daysForward))

	for _, d := range daysForward {
		date := today.AddDate(0, 0, d)
		results = append(results, TimePoint{
			DaysForward: d,
			Date:        date,
			Value:       portfolio.Price(positions, market, date),
			Greeks:      portfolio.GreeksFor(positions, market, date),
		})
	}

	return results
}

// Crash 결정론적 시장 급락 스트레스 테스트
//
// crashes는 음수 비율로 표현 (예: [-0.15, -0.25, -0.50]).
// 음수가 아닌 값이 하나라도 있으면 아무것도 평가하지 않고 즉시 실패
func Crash(positions []portfolio.Position, market options.MarketSnapshot, today time.Time, crashes []float64) ([]CrashPoint, error) {
	// 전체 검증 후 실행 (부분 실행 금지)
	for _, c := range crashes {
		if c >= 0 {
			return nil, fmt.Errorf("%w: crash percentages must be negative (e.g. -0.25 for -25%%), got %g",
				options.ErrInvalidInput, c)
		}
	}

	results := make([]CrashPoint, 0, len(crashes))

	for _, c := range crashes {
		shocked := market.WithSpot(market.Spot * (1.0 + c))

		results = append(results, CrashPoint{
			CrashPct: c,
			Spot:     shocked.Spot,
			Value:    portfolio.Price(positions, shocked, today),
			Greeks:   portfolio.GreeksFor(positions, shocked, today),
		})
	}

	return results, nil
}
