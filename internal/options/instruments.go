package options

import (
	"fmt"
	"time"
)

// =============================================================================
// Instrument & Market Model
// =============================================================================

// OptionType 옵션 종류
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// ExerciseStyle 행사 방식
// American은 태그로만 허용하고 가격은 European으로 계산함
type ExerciseStyle string

const (
	European ExerciseStyle = "european"
	American ExerciseStyle = "american"
)

// OptionContract 단일 옵션 계약 (불변 값 타입)
// ⭐ SSOT: Multiplier는 계약 자체의 배수, Position.Quantity와는 독립적인 곱셈 인자
// Multiplier가 0이면 1.0으로 취급 (미설정)
type OptionContract struct {
	Symbol     string        `json:"symbol"`
	Type       OptionType    `json:"type"`
	Style      ExerciseStyle `json:"style"`
	Strike     float64       `json:"strike"`
	Expiry     time.Time     `json:"expiry"`
	Multiplier float64       `json:"multiplier,omitempty"`
}

// NewContract creates a contract with defaults applied (european style, multiplier 1.0)
func NewContract(symbol string, typ OptionType, strike float64, expiry time.Time) OptionContract {
	return OptionContract{
		Symbol:     symbol,
		Type:       typ,
		Style:      European,
		Strike:     strike,
		Expiry:     expiry,
		Multiplier: 1.0,
	}
}

// UnitMultiplier returns the contract multiplier, treating the zero value as 1.0
func (c OptionContract) UnitMultiplier() float64 {
	if c.Multiplier == 0 {
		return 1.0
	}
	return c.Multiplier
}

// Validate checks contract invariants
func (c OptionContract) Validate() error {
	if c.Type != Call && c.Type != Put {
		return fmt.Errorf("%w: option type must be call or put, got %q", ErrInvalidInput, c.Type)
	}
	if c.Style != "" && c.Style != European && c.Style != American {
		return fmt.Errorf("%w: style must be european or american, got %q", ErrInvalidInput, c.Style)
	}
	if c.Strike <= 0 {
		return fmt.Errorf("%w: strike must be > 0, got %g", ErrInvalidInput, c.Strike)
	}
	if c.Expiry.IsZero() {
		return fmt.Errorf("%w: expiry date is required", ErrInvalidInput)
	}
	if c.Multiplier < 0 {
		return fmt.Errorf("%w: multiplier must be >= 0, got %g", ErrInvalidInput, c.Multiplier)
	}
	return nil
}

// MarketSnapshot 특정 시점의 시장 상태 (불변 값 타입)
// 스윕 평가자는 필드를 바꾼 새 스냅샷을 만들며 절대 제자리 수정하지 않음
type MarketSnapshot struct {
	Spot          float64 `json:"spot"`
	Rate          float64 `json:"rate"`           // continuously compounded risk-free rate
	DividendYield float64 `json:"dividend_yield"` // continuous dividend yield
	Volatility    float64 `json:"volatility"`     // flat vol
	Timestamp     string  `json:"timestamp"`      // metadata only, not used in computation
}

// Validate checks market invariants for valuation
func (m MarketSnapshot) Validate() error {
	if m.Spot <= 0 {
		return fmt.Errorf("%w: spot must be > 0, got %g", ErrInvalidInput, m.Spot)
	}
	if m.DividendYield < 0 {
		return fmt.Errorf("%w: dividend yield must be >= 0, got %g", ErrInvalidInput, m.DividendYield)
	}
	return nil
}

// WithSpot returns a copy of the snapshot with spot replaced
func (m MarketSnapshot) WithSpot(spot float64) MarketSnapshot {
	m.Spot = spot
	return m
}

// WithVolatility returns a copy of the snapshot with volatility replaced
func (m MarketSnapshot) WithVolatility(vol float64) MarketSnapshot {
	m.Volatility = vol
	return m
}

// YearFraction actual/365 연 환산 (만기 - 평가일)
// 날짜는 time-of-day 없는 calendar date로 취급
func YearFraction(expiry, today time.Time) float64 {
	days := expiry.Sub(today).Hours() / 24.0
	return days / 365.0
}
