package portfolio

import (
	"time"

	"github.com/wonny/vega/internal/options"
)

// Position 단일 옵션 계약에 대한 포지션
//
// Quantity 규약: 양수 = long, 음수 = short.
// 계약의 UnitMultiplier와는 독립적이며 둘이 곱해져 최종 스케일이 됨
type Position struct {
	Contract options.OptionContract `json:"contract"`
	Quantity float64                `json:"quantity"`
}

// scale 포지션의 최종 곱셈 인자 (signed quantity × contract multiplier)
func (p Position) scale() float64 {
	return p.Quantity * p.Contract.UnitMultiplier()
}

// PositionPrice 포지션 가치 = scale × 단위 계약 가격
func PositionPrice(p Position, market options.MarketSnapshot, today time.Time) float64 {
	return p.scale() * options.Price(p.Contract, market, today)
}

// PositionGreeks 포지션 Greeks (모든 필드를 동일 인자로 스케일)
func PositionGreeks(p Position, market options.MarketSnapshot, today time.Time) options.Greeks {
	return options.Compute(p.Contract, market, today).Scale(p.scale())
}

// Price 포트폴리오 전체 가치 (포지션별 합)
// 성질: quantity에 선형, 포지션 간 가법, 부호 반전 대칭
func Price(positions []Position, market options.MarketSnapshot, today time.Time) float64 {
	var total float64
	for _, p := range positions {
		total += PositionPrice(p, market, today)
	}
	return total
}

// GreeksFor 포트폴리오 전체 Greeks (포지션별 합)
func GreeksFor(positions []Position, market options.MarketSnapshot, today time.Time) options.Greeks {
	var total options.Greeks
	for _, p := range positions {
		total = total.Add(PositionGreeks(p, market, today))
	}
	return total
}

// DeltaHedgeShares 순 delta를 0으로 만드는 기초자산 주식 수
//
// 규약: 기초자산 1주의 delta = +1, hedge shares = -portfolio delta
func DeltaHedgeShares(positions []Position, market options.MarketSnapshot, today time.Time) float64 {
	return -GreeksFor(positions, market, today).Delta
}
