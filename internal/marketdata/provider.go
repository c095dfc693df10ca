package marketdata

import (
	"context"
	"errors"
	"time"
)

// ErrUnknownTicker 등록되지 않은 티커 조회
var ErrUnknownTicker = errors.New("unknown ticker")

// DailyBar 일별 종가 1건
type DailyBar struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Provider 일별 가격 시계열 공급자
// ⭐ SSOT: 가격 데이터 접근은 이 인터페이스를 통해서만
type Provider interface {
	// DailyPrices [from, to] 구간의 영업일 종가 시계열 (날짜 오름차순)
	DailyPrices(ctx context.Context, ticker string, from, to time.Time) ([]DailyBar, error)

	// LatestPrice 가장 최근 종가
	LatestPrice(ctx context.Context, ticker string) (float64, error)
}
