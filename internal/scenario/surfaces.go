package scenario

import (
	"time"

	"github.com/wonny/vega/internal/options"
	"github.com/wonny/vega/internal/portfolio"
)

// =============================================================================
// Two-axis surfaces
// row-major: 바깥 축 = spots, 안쪽 축 = 두 번째 스윕 변수
// 축 값은 받은 그대로 반환 (호출자가 정렬했을 때만 정렬되어 있음)
// =============================================================================

// SpotVolSurface Spot × Volatility 그리드 평가 결과
type SpotVolSurface struct {
	Spots []float64   `json:"spots"`
	Vols  []float64   `json:"vols"`
	Value [][]float64 `json:"value"`
	Delta [][]float64 `json:"delta"`
	Gamma [][]float64 `json:"gamma"`
	Vega  [][]float64 `json:"vega"`
}

// SpotTimeSurface Spot × Time 그리드 평가 결과
type SpotTimeSurface struct {
	Spots       []float64   `json:"spots"`
	DaysForward []int       `json:"days_forward"`
	Value       [][]float64 `json:"value"`
	Delta       [][]float64 `json:"delta"`
	Gamma       [][]float64 `json:"gamma"`
	Theta       [][]float64 `json:"theta"`
}

// SpotVol 포트폴리오를 Spot × Volatility 그리드에서 평가
func SpotVol(positions []portfolio.Position, market options.MarketSnapshot, today time.Time, spots, vols []float64) SpotVolSurface {
	surface := SpotVolSurface{
		Spots: spots,
		Vols:  vols,
		Value: make([][]float64, 0, len(spots)),
		Delta: make([][]float64, 0, len(spots)),
		Gamma: make([][]float64, 0, len(spots)),
		Vega:  make([][]float64, 0, len(spots)),
	}

	for _, s := range spots {
		rowVal := make([]float64, 0, len(vols))
		rowDelta := make([]float64, 0, len(vols))
		rowGamma := make([]float64, 0, len(vols))
		rowVega := make([]float64, 0, len(vols))

		for _, v := range vols {
			m := market.WithSpot(s).WithVolatility(v)

			rowVal = append(rowVal, portfolio.Price(positions, m, today))

			g := portfolio.GreeksFor(positions, m, today)
			rowDelta = append(rowDelta, g.Delta)
			rowGamma = append(rowGamma, g.Gamma)
			rowVega = append(rowVega, g.Vega)
		}

		surface.Value = append(surface.Value, rowVal)
		surface.Delta = append(surface.Delta, rowDelta)
		surface.Gamma = append(surface.Gamma, rowGamma)
		surface.Vega = append(surface.Vega, rowVega)
	}

	return surface
}

// SpotTime 포트폴리오를 Spot × Time 그리드에서 평가
func SpotTime(positions []portfolio.Position, market options.MarketSnapshot, today time.Time, spots []float64, daysForward []int) SpotTimeSurface {
	surface := SpotTimeSurface{
		Spots:       spots,
		DaysForward: daysForward,
		Value:       make([][]float64, 0, len(spots)),
		Delta:       make([][]float64, 0, len(spots)),
		Gamma:       make([][]float64, 0, len(spots)),
		Theta:       make([][]float64, 0, len(spots)),
	}

	for _, s := range spots {
		rowVal := make([]float64, 0, len(daysForward))
		rowDelta := make([]float64, 0, len(daysForward))
		rowGamma := make([]float64, 0, len(daysForward))
		rowTheta := make([]float64, 0, len(daysForward))

		for _, d := range daysForward {
			date := today.AddDate(0, 0, d)
			m := market.WithSpot(s)

			rowVal = append(rowVal, portfolio.Price(positions, m, date))

			g := portfolio.GreeksFor(positions, m, date)
			rowDelta = append(rowDelta, g.Delta)
			rowGamma = append(rowGamma, g.Gamma)
			rowTheta = append(rowTheta, g.Theta)
		}

		surface.Value = append(surface.Value, rowVal)
		surface.Delta = append(surface.Delta, rowDelta)
		surface.Gamma = append(surface.Gamma, rowGamma)
		surface.Theta = append(surface.Theta, rowTheta)
	}

	return surface
}
