package scenario

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/vega/internal/options"
	"github.com/wonny/vega/internal/portfolio"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var (
	testToday  = date(2026, 1, 22)
	testExpiry = date(2026, 6, 19)
	testMarket = options.MarketSnapshot{Spot: 185, Rate: 0.03, DividendYield: 0.005, Volatility: 0.25}
)

// bullish book: long call + short put (net long exposure)
func bullishPositions() []portfolio.Position {
	return []portfolio.Position{
		{Contract: options.NewContract("AAPL", options.Call, 180, testExpiry), Quantity: 1},
		{Contract: options.NewContract("AAPL", options.Put, 170, testExpiry), Quantity: -1},
	}
}

func TestSpotScenario(t *testing.T) {
	positions := bullishPositions()
	spots := []float64{170, 185, 200}

	results := Spot(positions, testMarket, testToday, spots)
	require.Len(t, results, 3)

	for i, s := range spots {
		// Swept values echoed verbatim
		assert.Equal(t, s, results[i].Spot)

		// Each point matches a direct portfolio evaluation
		m := testMarket.WithSpot(s)
		assert.InDelta(t, portfolio.Price(positions, m, testToday), results[i].Value, 1e-12)
		assert.InDelta(t, portfolio.GreeksFor(positions, m, testToday).Delta, results[i].Delta, 1e-12)
	}

	// Bullish book gains with spot
	assert.Less(t, results[0].Value, results[1].Value)
	assert.Less(t, results[1].Value, results[2].Value)
}

func TestSpotScenarioPreservesOrder(t *testing.T) {
	// Unsorted input stays unsorted in the output
	spots := []float64{200, 170, 185}
	results := Spot(bullishPositions(), testMarket, testToday, spots)

	require.Len(t, results, 3)
	for i, s := range spots {
		assert.Equal(t, s, results[i].Spot)
	}
}

func TestVolScenario(t *testing.T) {
	// Single long call: value is increasing in vol
	positions := []portfolio.Position{
		{Contract: options.NewContract("AAPL", options.Call, 180, testExpiry), Quantity: 1},
	}
	vols := []float64{0.1, 0.25, 0.5}

	results := Vol(positions, testMarket, testToday, vols)
	require.Len(t, results, 3)

	assert.Less(t, results[0].Value, results[1].Value)
	assert.Less(t, results[1].Value, results[2].Value)

	for i, v := range vols {
		assert.Equal(t, v, results[i].Volatility)
	}
}

func TestTimeScenarioSurvivesExpiry(t *testing.T) {
	positions := []portfolio.Position{
		{Contract: options.NewContract("AAPL", options.Call, 180, testExpiry), Quantity: 1},
	}

	// Sweep past the contract's expiry: must collapse, not fail
	days := []int{0, 30, 200}
	results := Time(positions, testMarket, testToday, days)
	require.Len(t, results, 3)

	assert.Equal(t, testToday, results[0].Date)
	assert.Equal(t, testToday.AddDate(0, 0, 200), results[2].Date)

	// Day 200 is past expiry: intrinsic value, zero gamma/vega/theta
	assert.InDelta(t, 5.0, results[2].Value, 1e-12) // max(185-180, 0)
	assert.Zero(t, results[2].Gamma)
	assert.Zero(t, results[2].Vega)
	assert.Zero(t, results[2].Theta)

	// Long option decays as time passes (all else fixed)
	assert.Greater(t, results[0].Value, results[1].Value)
}

func TestCrashScenario(t *testing.T) {
	crashes := []float64{-0.15, -0.25, -0.50}

	results, err := Crash(bullishPositions(), testMarket, testToday, crashes)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, c := range crashes {
		assert.Equal(t, c, results[i].CrashPct)
		assert.InDelta(t, testMarket.Spot*(1+c), results[i].Spot, 1e-12)
	}

	// Bullish strategy: deeper crash → value strictly non-increasing
	assert.GreaterOrEqual(t, results[0].Value, results[1].Value)
	assert.GreaterOrEqual(t, results[1].Value, results[2].Value)
}

func TestCrashScenarioRejectsNonNegative(t *testing.T) {
	for _, crashes := range [][]float64{
		{0.15},
		{0},
		{-0.25, 0.1}, // one bad value fails the whole call
	} {
		results, err := Crash(bullishPositions(), testMarket, testToday, crashes)
		require.Error(t, err)
		assert.True(t, errors.Is(err, options.ErrInvalidInput), "want ErrInvalidInput, got %v", err)
		assert.Nil(t, results, "no partial results on validation failure")
	}
}
