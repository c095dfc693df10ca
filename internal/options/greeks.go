package options

import (
	"math"
	"time"
)

// Greeks 옵션 가격 민감도
//
// Conventions:
//   - Theta는 1일(캘린더) 기준 (연간 theta / 365)
//   - Vega는 vol 1.00 변화 기준 (1% 기준이 필요하면 /100)
//   - Rho는 rate 1.00 변화 기준
//
// D1/D2는 진단용; 퇴화 케이스(T<=0, sigma<=0)에서는 0
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
	D1    float64 `json:"d1"`
	D2    float64 `json:"d2"`
}

// Scale returns the Greeks multiplied by a scalar factor
func (g Greeks) Scale(factor float64) Greeks {
	return Greeks{
		Delta: factor * g.Delta,
		Gamma: factor * g.Gamma,
		Vega:  factor * g.Vega,
		Theta: factor * g.Theta,
		Rho:   factor * g.Rho,
	}
}

// Add returns the field-wise sum of two Greeks
func (g Greeks) Add(other Greeks) Greeks {
	return Greeks{
		Delta: g.Delta + other.Delta,
		Gamma: g.Gamma + other.Gamma,
		Vega:  g.Vega + other.Vega,
		Theta: g.Theta + other.Theta,
		Rho:   g.Rho + other.Rho,
	}
}

// Compute 단일 계약의 분석적 Greeks (순수 함수)
//
// 만기 도달(T<=0): gamma/vega/theta/rho=0, delta는 계단 함수
// (spot==strike 경계에서는 0.5 가중 규약).
// 무변동성(sigma<=0): gamma/vega/theta=0, delta/rho는 할인 선도 기준
// 계단 함수 (동일한 경계 규약)
func Compute(contract OptionContract, market MarketSnapshot, today time.Time) Greeks {
	S := market.Spot
	K := contract.Strike
	r := market.Rate
	q := market.DividendYield
	sigma := market.Volatility

	T := YearFraction(contract.Expiry, today)

	// At expiry: price is intrinsic and most Greeks collapse
	if T <= 0 {
		var delta float64
		if contract.Type == Call {
			switch {
			case S > K:
				delta = 1.0
			case S < K:
				delta = 0.0
			default:
				delta = 0.5
			}
		} else {
			switch {
			case S < K:
				delta = -1.0
			case S > K:
				delta = 0.0
			default:
				delta = -0.5
			}
		}
		return Greeks{Delta: delta}
	}

	// Zero vol: distribution collapses; delta/rho become forward step functions
	if sigma <= 0 {
		forward := S*math.Exp(-q*T) - K*math.Exp(-r*T)

		var delta, rho float64
		if contract.Type == Call {
			switch {
			case forward > 0:
				delta = math.Exp(-q * T)
				rho = T * K * math.Exp(-r*T)
			case forward < 0:
				delta = 0.0
			default:
				delta = 0.5 * math.Exp(-q*T)
			}
		} else {
			switch {
			case forward < 0:
				delta = -math.Exp(-q * T)
				rho = -T * K * math.Exp(-r*T)
			case forward > 0:
				delta = 0.0
			default:
				delta = -0.5 * math.Exp(-q*T)
			}
		}
		return Greeks{Delta: delta, Rho: rho}
	}

	sqrtT := math.Sqrt(T)
	discQ := math.Exp(-q * T)
	discR := math.Exp(-r * T)

	d1 := (math.Log(S/K) + (r-q+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	pdfD1 := normPDF(d1)

	// gamma/vega는 call/put 공통 (항상 >= 0)
	gamma := discQ * pdfD1 / (S * sigma * sqrtT)
	vega := S * discQ * pdfD1 * sqrtT

	var delta, rho, thetaYear float64
	if contract.Type == Call {
		delta = discQ * normCDF(d1)
		rho = K * T * discR * normCDF(d2)
		thetaYear = -(S*discQ*pdfD1*sigma)/(2.0*sqrtT) -
			r*K*discR*normCDF(d2) +
			q*S*discQ*normCDF(d1)
	} else {
		delta = discQ * (normCDF(d1) - 1.0)
		rho = -K * T * discR * normCDF(-d2)
		thetaYear = -(S*discQ*pdfD1*sigma)/(2.0*sqrtT) +
			r*K*discR*normCDF(-d2) -
			q*S*discQ*normCDF(-d1)
	}

	return Greeks{
		Delta: delta,
		Gamma: gamma,
		Vega:  vega,
		Theta: thetaYear / 365.0,
		Rho:   rho,
		D1:    d1,
		D2:    d2,
	}
}
