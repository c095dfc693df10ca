package options

import (
	"fmt"
	"math"
	"time"
)

// SolverConfig implied vol 솔버 튜닝 파라미터
type SolverConfig struct {
	InitialGuess float64 `json:"initial_guess"` // 기본 0.2
	Tolerance    float64 `json:"tolerance"`     // 기본 1e-6
	MaxIter      int     `json:"max_iter"`      // 기본 50 (Newton 단계)
}

// DefaultSolverConfig returns the standard solver tuning
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		InitialGuess: 0.2,
		Tolerance:    1e-6,
		MaxIter:      50,
	}
}

func (c SolverConfig) withDefaults() SolverConfig {
	if c.InitialGuess == 0 {
		c.InitialGuess = 0.2
	}
	if c.Tolerance == 0 {
		c.Tolerance = 1e-6
	}
	if c.MaxIter == 0 {
		c.MaxIter = 50
	}
	return c
}

// bisection 탐색 구간과 반복 한도
const (
	bisectLow  = 1e-6
	bisectHigh = 5.0
	bisectIter = 100
)

// ImpliedVol 관측 가격에서 변동성 역산
//
// Newton-Raphson을 먼저 시도하고 (분석적 vega를 도함수로 사용),
// vega가 수치적으로 무시 가능해지거나(<1e-8) 업데이트가 sigma<=0로
// 떨어지면 bisection으로 폴백. Newton은 deep OTM에서 발산할 수 있고
// bisection은 가격이 vol에 단조라 수렴이 보장되지만 느림.
//
// 실패 조건: 관측 가격 <= 0, 만기 도달(T<=0) → ErrInvalidInput
// 두 방법 모두 수렴 실패 → ErrNoConvergence
func ImpliedVol(observed float64, contract OptionContract, market MarketSnapshot, today time.Time, cfg SolverConfig) (float64, error) {
	if observed <= 0 {
		return 0, fmt.Errorf("%w: market price must be positive, got %g", ErrInvalidInput, observed)
	}

	T := YearFraction(contract.Expiry, today)
	if T <= 0 {
		return 0, fmt.Errorf("%w: implied vol undefined at or after expiry", ErrInvalidInput)
	}

	cfg = cfg.withDefaults()

	// --- Newton-Raphson ---
	sigma := math.Max(cfg.InitialGuess, 1e-4)

	for i := 0; i < cfg.MaxIter; i++ {
		m := market.WithVolatility(sigma)

		diff := Price(contract, m, today) - observed
		if math.Abs(diff) < cfg.Tolerance {
			return sigma, nil
		}

		vega := Compute(contract, m, today).Vega
		if vega < 1e-8 {
			break // fallback
		}

		sigma -= diff / vega
		if sigma <= 0 {
			break // fallback
		}
	}

	// --- Bisection fallback ---
	low, high := bisectLow, bisectHigh

	for i := 0; i < bisectIter; i++ {
		mid := 0.5 * (low + high)

		midPrice := Price(contract, market.WithVolatility(mid), today)
		if math.Abs(midPrice-observed) < cfg.Tolerance {
			return mid, nil
		}

		if midPrice > observed {
			high = mid
		} else {
			low = mid
		}
	}

	return 0, fmt.Errorf("%w: implied volatility for observed price %g", ErrNoConvergence, observed)
}
