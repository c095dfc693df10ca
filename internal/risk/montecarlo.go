package risk

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/vega/internal/options"
	"github.com/wonny/vega/internal/portfolio"
)

// =============================================================================
// Monte Carlo Engine (GBM terminal distribution)
// =============================================================================

// percentileLevels 결과에 포함되는 백분위수
var percentileLevels = []int{1, 5, 10, 25, 50, 75, 90, 95, 99}

// MonteCarloConfig Monte Carlo 시뮬레이션 설정
// ⭐ SSOT: 재현성을 위해 모든 설정을 명시적으로 기록
type MonteCarloConfig struct {
	HorizonDays    int      `json:"horizon_days"`    // 시뮬레이션 지평 (캘린더 일)
	NumSimulations int      `json:"num_simulations"` // 시뮬레이션 횟수 (기본: 10000)
	Vol            float64  `json:"vol,omitempty"`   // 변동성 override (0 = market vol 사용)
	Drift          *float64 `json:"drift,omitempty"` // drift override (nil = rate - dividend yield)
	Seed           *int64   `json:"seed,omitempty"`  // 재현성용 시드 (nil = 비결정적; 0 포함 모든 값 유효)
	ReturnSamples  bool     `json:"return_samples,omitempty"`
}

// MonteCarloAssumptions 실행 당시 가정 기록
type MonteCarloAssumptions struct {
	Model          string  `json:"model"`
	Spot           float64 `json:"spot"`
	Volatility     float64 `json:"volatility"`
	Drift          float64 `json:"drift"`
	HorizonDays    int     `json:"horizon_days"`
	NumSimulations int     `json:"n_simulations"`
	RiskFreeRate   float64 `json:"risk_free_rate"`
	DividendYield  float64 `json:"dividend_yield"`
}

// MonteCarloSummary 분포 기본 통계
type MonteCarloSummary struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// TailRisk VaR/CVaR (포트폴리오 가치 기준: 낮을수록 나쁨)
// VaR95 = p05, VaR99 = p01; CVaR = 해당 VaR 이하 값들의 평균
type TailRisk struct {
	VaR95  float64 `json:"var_95"`
	VaR99  float64 `json:"var_99"`
	CVaR95 float64 `json:"cvar_95"`
	CVaR99 float64 `json:"cvar_99"`
}

// MonteCarloResult Monte Carlo 시뮬레이션 결과
// 호출마다 새로 생성되며 생성 후 수정하지 않음
type MonteCarloResult struct {
	RunID       string                `json:"run_id"`
	RunDate     time.Time             `json:"run_date"`
	Assumptions MonteCarloAssumptions `json:"assumptions"`
	Summary     MonteCarloSummary     `json:"summary"`
	Percentiles map[string]float64    `json:"percentiles"` // p01 ... p99
	TailRisk    TailRisk              `json:"tail_risk"`
	Samples     []float64             `json:"samples,omitempty"`
}

// MonteCarloSimulator Monte Carlo 시뮬레이터
// 난수 생성기는 호출 단위로 로컬 스코프 (프로세스 전역 상태를 공유하지 않음)
type MonteCarloSimulator struct {
	config MonteCarloConfig
	rng    *rand.Rand
}

// NewMonteCarloSimulator 새 시뮬레이터 생성
// Seed가 주어지면 (0 포함) 동일 입력에 대해 비트 단위로 재현 가능
func NewMonteCarloSimulator(config MonteCarloConfig) *MonteCarloSimulator {
	var rng *rand.Rand
	if config.Seed != nil {
		rng = rand.New(rand.NewSource(*config.Seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &MonteCarloSimulator{
		config: config,
		rng:    rng,
	}
}

// Simulate 포트폴리오 가치의 지평 시점 분포 시뮬레이션
//
// 기초자산 모형: GBM closed form
//
//	S_T = S0 * exp((mu - 0.5*sigma^2)*T + sigma*sqrt(T)*Z)
//
// 각 draw마다 지평 날짜의 쇼크된 스냅샷으로 포트폴리오 전체를 재평가
// (경로당 1회 전체 평가가 지배적 비용)
func (mc *MonteCarloSimulator) Simulate(positions []portfolio.Position, market options.MarketSnapshot, today time.Time) (*MonteCarloResult, error) {
	cfg := mc.config

	// 입력 검증 (부분 실행 금지)
	if cfg.HorizonDays <= 0 {
		return nil, fmt.Errorf("%w: horizon days must be positive, got %d", options.ErrInvalidInput, cfg.HorizonDays)
	}
	if cfg.NumSimulations <= 0 {
		return nil, fmt.Errorf("%w: number of simulations must be positive, got %d", options.ErrInvalidInput, cfg.NumSimulations)
	}

	sigma := cfg.Vol
	if sigma == 0 {
		sigma = market.Volatility
	}
	if sigma <= 0 {
		return nil, fmt.Errorf("%w: volatility must be positive, got %g", options.ErrInvalidInput, sigma)
	}

	mu := market.Rate - market.DividendYield
	if cfg.Drift != nil {
		mu = *cfg.Drift
	}

	T := float64(cfg.HorizonDays) / 365.0
	horizonDate := today.AddDate(0, 0, cfg.HorizonDays)
	sqrtT := math.Sqrt(T)
	s0 := market.Spot

	// Terminal spot 시뮬레이션 + 지평 시점 재평가
	base := horizonSnapshot(market, sigma, horizonDate)
	terminalValues := make([]float64, cfg.NumSimulations)
	for i := 0; i < cfg.NumSimulations; i++ {
		z := mc.rng.NormFloat64()
		st := s0 * math.Exp((mu-0.5*sigma*sigma)*T+sigma*sqrtT*z)

		terminalValues[i] = portfolio.Price(positions, base.WithSpot(st), horizonDate)
	}

	return mc.buildResult(terminalValues, market, sigma, mu), nil
}

// horizonSnapshot 지평 시점 평가용 스냅샷
// Timestamp는 지평 날짜로 라벨링 (계산에는 쓰이지 않는 메타데이터)
func horizonSnapshot(market options.MarketSnapshot, sigma float64, horizonDate time.Time) options.MarketSnapshot {
	m := market.WithVolatility(sigma)
	m.Timestamp = horizonDate.Format("2006-01-02")
	return m
}

// buildResult 시뮬레이션 결과 통계 계산
func (mc *MonteCarloSimulator) buildResult(terminalValues []float64, market options.MarketSnapshot, sigma, mu float64) *MonteCarloResult {
	cfg := mc.config

	sorted := make([]float64, len(terminalValues))
	copy(sorted, terminalValues)
	sort.Float64s(sorted)

	percentiles := make(map[string]float64, len(percentileLevels))
	for _, p := range percentileLevels {
		percentiles[fmt.Sprintf("p%02d", p)] = Percentile(sorted, float64(p))
	}

	var95 := percentiles["p05"]
	var99 := percentiles["p01"]

	result := &MonteCarloResult{
		RunID:   uuid.New().String(),
		RunDate: time.Now(),
		Assumptions: MonteCarloAssumptions{
			Model:          "GBM",
			Spot:           market.Spot,
			Volatility:     sigma,
			Drift:          mu,
			HorizonDays:    cfg.HorizonDays,
			NumSimulations: cfg.NumSimulations,
			RiskFreeRate:   market.Rate,
			DividendYield:  market.DividendYield,
		},
		Summary: MonteCarloSummary{
			Mean: Mean(terminalValues),
			Std:  StdDev(terminalValues),
		},
		Percentiles: percentiles,
		TailRisk: TailRisk{
			VaR95:  var95,
			VaR99:  var99,
			CVaR95: TailMean(sorted, var95),
			CVaR99: TailMean(sorted, var99),
		},
	}

	if cfg.ReturnSamples {
		result.Samples = terminalValues
	}

	return result
}
