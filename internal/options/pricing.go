package options

import (
	"math"
	"time"
)

// =============================================================================
// Black-Scholes Valuation (European, continuous dividend yield)
// =============================================================================

// Price 단일 계약의 공정가치 (순수 함수)
//
// T = (expiry - today) / 365 (actual/365)
//   - T <= 0  : 내재가치 반환 (만기 도달/경과)
//   - sigma<=0: 불확실성 없는 퇴화 케이스, 할인 선도 내재가치 반환 (에러 아님)
//   - 그 외   : 표준 closed-form
func Price(contract OptionContract, market MarketSnapshot, today time.Time) float64 {
	S := market.Spot
	K := contract.Strike
	r := market.Rate
	q := market.DividendYield
	sigma := market.Volatility

	T := YearFraction(contract.Expiry, today)

	// Intrinsic value at expiry
	if T <= 0 {
		if contract.Type == Call {
			return math.Max(S-K, 0.0)
		}
		return math.Max(K-S, 0.0)
	}

	// Guard against zero volatility
	if sigma <= 0 {
		forward := S*math.Exp(-q*T) - K*math.Exp(-r*T)
		if contract.Type == Call {
			return math.Max(forward, 0.0)
		}
		return math.Max(-forward, 0.0)
	}

	sqrtT := math.Sqrt(T)

	d1 := (math.Log(S/K) + (r-q+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	if contract.Type == Call {
		return S*math.Exp(-q*T)*normCDF(d1) - K*math.Exp(-r*T)*normCDF(d2)
	}
	return K*math.Exp(-r*T)*normCDF(-d2) - S*math.Exp(-q*T)*normCDF(-d1)
}
