package marketdata

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"
)

// =============================================================================
// Mock Provider (결정적 GBM 시계열)
// 외부 데이터 소스 없이 타임라인/백테스트 경로를 구동하기 위한 구현.
// 티커별 고정 시드 → 같은 날짜 구간은 항상 같은 시계열
// =============================================================================

const (
	mockTradingDays = 252.0
	mockAnnualDrift = 0.05
	mockSeriesEpoch = "2024-01-02" // 모든 mock 시계열의 기준 시작일
)

// TickerSpec mock 티커의 시계열 파라미터
type TickerSpec struct {
	StartPrice float64 `json:"start_price"`
	AnnualVol  float64 `json:"annual_vol"`
	Seed       int64   `json:"seed"`
}

// MockProvider 설정된 티커에 대해 결정적 일별 시계열을 생성
type MockProvider struct {
	tickers map[string]TickerSpec
	epoch   time.Time
}

// NewMockProvider 기본 티커 세트로 mock provider 생성
func NewMockProvider() *MockProvider {
	epoch, _ := time.Parse("2006-01-02", mockSeriesEpoch)
	return &MockProvider{
		epoch: epoch,
		tickers: map[string]TickerSpec{
			"AAPL": {StartPrice: 150, AnnualVol: 0.22, Seed: 1001},
			"MSFT": {StartPrice: 300, AnnualVol: 0.20, Seed: 1002},
			"NVDA": {StartPrice: 450, AnnualVol: 0.38, Seed: 1003},
			"VOO":  {StartPrice: 400, AnnualVol: 0.15, Seed: 1004},
			"SPY":  {StartPrice: 430, AnnualVol: 0.15, Seed: 1005},
		},
	}
}

// Register 티커 추가/덮어쓰기 (테스트와 CLI에서 사용)
func (p *MockProvider) Register(ticker string, spec TickerSpec) {
	p.tickers[ticker] = spec
}

// Tickers 등록된 티커 목록 (정렬)
func (p *MockProvider) Tickers() []string {
	out := make([]string, 0, len(p.tickers))
	for t := range p.tickers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// DailyPrices [from, to] 구간의 영업일 종가 시계열
//
// 시계열은 epoch부터 GBM 일별 스텝으로 생성되므로 구간을 어떻게 잘라도
// 같은 날짜에는 항상 같은 가격이 나옴
func (p *MockProvider) DailyPrices(ctx context.Context, ticker string, from, to time.Time) ([]DailyBar, error) {
	spec, ok := p.tickers[ticker]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTicker, ticker)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("invalid range: to %s before from %s",
			to.Format("2006-01-02"), from.Format("2006-01-02"))
	}

	rng := rand.New(rand.NewSource(spec.Seed))
	dailyDrift := mockAnnualDrift / mockTradingDays
	dailyVol := spec.AnnualVol / math.Sqrt(mockTradingDays)

	var bars []DailyBar
	price := spec.StartPrice

	for d := p.epoch; !d.After(to); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}

		// epoch 이전 요청은 지원하지 않음: 시계열은 epoch에서 시작
		if !d.Before(from) {
			bars = append(bars, DailyBar{Date: d, Close: price})
		}

		z := rng.NormFloat64()
		price *= math.Exp(dailyDrift - 0.5*dailyVol*dailyVol + dailyVol*z)
	}

	return bars, nil
}

// LatestPrice 오늘까지 시계열의 마지막 종가
func (p *MockProvider) LatestPrice(ctx context.Context, ticker string) (float64, error) {
	now := time.Now()
	bars, err := p.DailyPrices(ctx, ticker, p.epoch, now)
	if err != nil {
		return 0, err
	}
	if len(bars) == 0 {
		return 0, fmt.Errorf("no price history for %s", ticker)
	}
	return bars[len(bars)-1].Close, nil
}
