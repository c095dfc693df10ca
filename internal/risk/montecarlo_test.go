package risk

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
	testToday  = date(2026, time.January, 22)
	testExpiry = date(2026, time.June, 19)
	testMarket = options.MarketSnapshot{
		Spot:          185,
		Rate:          0.03,
		DividendYield: 0.005,
		Volatility:    0.25,
	}
)

func seedOf(v int64) *int64 {
	return &v
}

func longCallBook() []portfolio.Position {
	return []portfolio.Position{
		{Contract: options.NewContract("AAPL260619C180", options.Call, 180, testExpiry), Quantity: 1},
	}
}

func TestSimulateSeedDeterminism(t *testing.T) {
	cfg := MonteCarloConfig{HorizonDays: 30, NumSimulations: 2000, Seed: seedOf(42), ReturnSamples: true}

	first, err := NewMonteCarloSimulator(cfg).Simulate(longCallBook(), testMarket, testToday)
	require.NoError(t, err)
	second, err := NewMonteCarloSimulator(cfg).Simulate(longCallBook(), testMarket, testToday)
	require.NoError(t, err)

	// 동일 시드 → 비트 단위로 동일한 분포
	assert.Equal(t, first.Samples, second.Samples)
	assert.Equal(t, first.Percentiles, second.Percentiles)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.TailRisk, second.TailRisk)

	// RunID는 실행마다 새로 발급
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestSimulateZeroSeedDeterministic(t *testing.T) {
	// 시드 0도 명시적 시드: 비트 단위로 재현 가능해야 함
	cfg := MonteCarloConfig{HorizonDays: 30, NumSimulations: 1000, Seed: seedOf(0), ReturnSamples: true}

	first, err := NewMonteCarloSimulator(cfg).Simulate(longCallBook(), testMarket, testToday)
	require.NoError(t, err)
	second, err := NewMonteCarloSimulator(cfg).Simulate(longCallBook(), testMarket, testToday)
	require.NoError(t, err)

	assert.Equal(t, first.Samples, second.Samples)
	assert.Equal(t, first.Percentiles, second.Percentiles)
}

func TestHorizonSnapshotLabelsDate(t *testing.T) {
	horizon := date(2026, time.February, 21)
	m := horizonSnapshot(testMarket, 0.40, horizon)

	assert.Equal(t, "2026-02-21", m.Timestamp)
	assert.Equal(t, 0.40, m.Volatility)
	assert.Equal(t, testMarket.Spot, m.Spot)
	// 원본 스냅샷은 변경되지 않음
	assert.Empty(t, testMarket.Timestamp)
	assert.Equal(t, 0.25, testMarket.Volatility)
}

func TestSimulatePercentilesMonotone(t *testing.T) {
	cfg := MonteCarloConfig{HorizonDays: 60, NumSimulations: 5000, Seed: seedOf(7)}
	result, err := NewMonteCarloSimulator(cfg).Simulate(longCallBook(), testMarket, testToday)
	require.NoError(t, err)

	keys := []string{"p01", "p05", "p10", "p25", "p50", "p75", "p90", "p95", "p99"}
	require.Len(t, result.Percentiles, len(keys))

	prev := result.Percentiles[keys[0]]
	for _, k := range keys[1:] {
		v, ok := result.Percentiles[k]
		require.True(t, ok, "missing percentile %s", k)
		assert.GreaterOrEqual(t, v, prev, "percentiles must be non-decreasing at %s", k)
		prev = v
	}
}

func TestSimulateTailRisk(t *testing.T) {
	cfg := MonteCarloConfig{HorizonDays: 60, NumSimulations: 5000, Seed: seedOf(7)}
	result, err := NewMonteCarloSimulator(cfg).Simulate(longCallBook(), testMarket, testToday)
	require.NoError(t, err)

	// 가치 기준 꼬리: VaR95 = p05, VaR99 = p01
	assert.Equal(t, result.Percentiles["p05"], result.TailRisk.VaR95)
	assert.Equal(t, result.Percentiles["p01"], result.TailRisk.VaR99)

	// CVaR은 해당 VaR 이하 평균이므로 VaR보다 클 수 없음
	assert.LessOrEqual(t, result.TailRisk.CVaR95, result.TailRisk.VaR95)
	assert.LessOrEqual(t, result.TailRisk.CVaR99, result.TailRisk.VaR99)
	assert.LessOrEqual(t, result.TailRisk.VaR99, result.TailRisk.VaR95)
}

func TestSimulateHigherVolWidensDistribution(t *testing.T) {
	low, err := NewMonteCarloSimulator(MonteCarloConfig{
		HorizonDays: 30, NumSimulations: 5000, Seed: seedOf(11), Vol: 0.10,
	}).Simulate(longCallBook(), testMarket, testToday)
	require.NoError(t, err)

	high, err := NewMonteCarloSimulator(MonteCarloConfig{
		HorizonDays: 30, NumSimulations: 5000, Seed: seedOf(11), Vol: 0.60,
	}).Simulate(longCallBook(), testMarket, testToday)
	require.NoError(t, err)

	assert.Greater(t, high.Summary.Std, low.Summary.Std)
	assert.InDelta(t, 0.10, low.Assumptions.Volatility, 1e-12)
	assert.InDelta(t, 0.60, high.Assumptions.Volatility, 1e-12)
}

func TestSimulateDriftOverride(t *testing.T) {
	drift := 0.15
	result, err := NewMonteCarloSimulator(MonteCarloConfig{
		HorizonDays: 30, NumSimulations: 1000, Seed: seedOf(3), Drift: &drift,
	}).Simulate(longCallBook(), testMarket, testToday)
	require.NoError(t, err)

	assert.InDelta(t, 0.15, result.Assumptions.Drift, 1e-12)

	// 기본값: risk-neutral drift = rate - dividend yield
	base, err := NewMonteCarloSimulator(MonteCarloConfig{
		HorizonDays: 30, NumSimulations: 1000, Seed: seedOf(3),
	}).Simulate(longCallBook(), testMarket, testToday)
	require.NoError(t, err)
	assert.InDelta(t, testMarket.Rate-testMarket.DividendYield, base.Assumptions.Drift, 1e-12)
}

func TestSimulateSamplesOnlyWhenRequested(t *testing.T) {
	cfg := MonteCarloConfig{HorizonDays: 30, NumSimulations: 500, Seed: seedOf(1)}
	result, err := NewMonteCarloSimulator(cfg).Simulate(longCallBook(), testMarket, testToday)
	require.NoError(t, err)
	assert.Nil(t, result.Samples)

	cfg.ReturnSamples = true
	result, err = NewMonteCarloSimulator(cfg).Simulate(longCallBook(), testMarket, testToday)
	require.NoError(t, err)
	assert.Len(t, result.Samples, 500)
}

func TestSimulateAssumptionsRecorded(t *testing.T) {
	cfg := MonteCarloConfig{HorizonDays: 45, NumSimulations: 1000, Seed: seedOf(9)}
	result, err := NewMonteCarloSimulator(cfg).Simulate(longCallBook(), testMarket, testToday)
	require.NoError(t, err)

	assert.Equal(t, "GBM", result.Assumptions.Model)
	assert.Equal(t, testMarket.Spot, result.Assumptions.Spot)
	assert.Equal(t, 45, result.Assumptions.HorizonDays)
	assert.Equal(t, 1000, result.Assumptions.NumSimulations)
	assert.Equal(t, testMarket.Rate, result.Assumptions.RiskFreeRate)
	assert.Equal(t, testMarket.DividendYield, result.Assumptions.DividendYield)
	assert.NotEmpty(t, result.RunID)
	assert.False(t, result.RunDate.IsZero())
}

func TestSimulateRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  MonteCarloConfig
	}{
		{"zero horizon", MonteCarloConfig{HorizonDays: 0, NumSimulations: 100}},
		{"negative horizon", MonteCarloConfig{HorizonDays: -5, NumSimulations: 100}},
		{"zero simulations", MonteCarloConfig{HorizonDays: 30, NumSimulations: 0}},
		{"negative vol override", MonteCarloConfig{HorizonDays: 30, NumSimulations: 100, Vol: -0.2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := NewMonteCarloSimulator(tc.cfg).Simulate(longCallBook(), testMarket, testToday)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, options.ErrInvalidInput))
		})
	}
}

func TestSimulateZeroMarketVolRejected(t *testing.T) {
	flat := testMarket
	flat.Volatility = 0

	result, err := NewMonteCarloSimulator(MonteCarloConfig{
		HorizonDays: 30, NumSimulations: 100,
	}).Simulate(longCallBook(), flat, testToday)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, options.ErrInvalidInput))
}
