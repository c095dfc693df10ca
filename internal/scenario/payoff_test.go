package scenario

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/vega/internal/options"
	"github.com/wonny/vega/internal/portfolio"
)

func TestMakeSpotGrid(t *testing.T) {
	grid, err := MakeSpotGrid(185, 0.5, 11, DefaultMinSpot)
	require.NoError(t, err)
	require.Len(t, grid, 11)

	assert.InDelta(t, 92.5, grid[0], 1e-9)
	assert.InDelta(t, 277.5, grid[10], 1e-9)
	assert.True(t, sort.Float64sAreSorted(grid))

	// 균등 간격
	step := grid[1] - grid[0]
	for i := 1; i < len(grid); i++ {
		assert.InDelta(t, step, grid[i]-grid[i-1], 1e-9)
	}
}

func TestMakeSpotGridClampsAtMinSpot(t *testing.T) {
	// pctRange > 1이면 하한이 음수가 되므로 minSpot으로 잘림
	grid, err := MakeSpotGrid(10, 1.5, 5, DefaultMinSpot)
	require.NoError(t, err)

	assert.InDelta(t, DefaultMinSpot, grid[0], 1e-12)
	assert.InDelta(t, 25.0, grid[len(grid)-1], 1e-9)
}

func TestMakeSpotGridRejectsBadInput(t *testing.T) {
	cases := []struct {
		name     string
		center   float64
		pctRange float64
		n        int
	}{
		{"zero center", 0, 0.5, 11},
		{"negative center", -10, 0.5, 11},
		{"zero range", 185, 0, 11},
		{"single point", 185, 0.5, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			grid, err := MakeSpotGrid(tc.center, tc.pctRange, tc.n, DefaultMinSpot)
			assert.Nil(t, grid)
			assert.True(t, errors.Is(err, options.ErrInvalidInput))
		})
	}
}

func TestPayoffCurvesAlign(t *testing.T) {
	positions := bullishPositions()
	grid, err := MakeSpotGrid(testMarket.Spot, 0.5, 21, DefaultMinSpot)
	require.NoError(t, err)

	result, err := Payoff(positions, testMarket, testToday, PayoffConfig{
		ExpiryDate:         testExpiry,
		Spots:              grid,
		IncludeValueToday:  true,
		IncludeGreeksToday: true,
	})
	require.NoError(t, err)

	n := len(result.Spots)
	assert.Len(t, result.PayoffAtExpiry, n)
	assert.Len(t, result.ValueToday, n)
	require.NotNil(t, result.GreeksToday)
	assert.Len(t, result.GreeksToday.Delta, n)
	assert.Len(t, result.GreeksToday.Gamma, n)
	assert.Len(t, result.GreeksToday.Vega, n)
	assert.Len(t, result.GreeksToday.Theta, n)
	assert.Len(t, result.GreeksToday.Rho, n)

	// 만기 커브 = 내재가치
	for i, s := range result.Spots {
		want := portfolio.Price(positions, testMarket.WithSpot(s), testExpiry)
		assert.InDelta(t, want, result.PayoffAtExpiry[i], 1e-12)
	}

	assert.Equal(t, "2026-01-22", result.Metadata.Today)
	assert.Equal(t, "2026-06-19", result.Metadata.ExpiryDate)
	assert.Equal(t, "flat", result.Metadata.Assumptions.VolModel)
	assert.Equal(t, testMarket.Volatility, result.Metadata.Assumptions.Volatility)
}

func TestPayoffOptionalCurvesOmitted(t *testing.T) {
	positions := bullishPositions()
	result, err := Payoff(positions, testMarket, testToday, PayoffConfig{
		ExpiryDate: testExpiry,
		Spots:      []float64{150, 185, 220},
	})
	require.NoError(t, err)

	assert.Nil(t, result.ValueToday)
	assert.Nil(t, result.GreeksToday)
}

func TestPayoffSortsSpotGrid(t *testing.T) {
	positions := bullishPositions()
	unsorted := []float64{220, 150, 185}

	result, err := Payoff(positions, testMarket, testToday, PayoffConfig{
		ExpiryDate: testExpiry,
		Spots:      unsorted,
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{150, 185, 220}, result.Spots)
	// 입력 슬라이스는 건드리지 않음
	assert.Equal(t, []float64{220, 150, 185}, unsorted)
}

func TestPayoffRejectsBadGrid(t *testing.T) {
	positions := bullishPositions()

	_, err := Payoff(positions, testMarket, testToday, PayoffConfig{ExpiryDate: testExpiry})
	assert.True(t, errors.Is(err, options.ErrInvalidInput))

	_, err = Payoff(positions, testMarket, testToday, PayoffConfig{
		ExpiryDate: testExpiry,
		Spots:      []float64{185, 0.001},
	})
	assert.True(t, errors.Is(err, options.ErrInvalidInput))
}
