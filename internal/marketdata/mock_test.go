package marketdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProviderDeterministic(t *testing.T) {
	ctx := context.Background()
	from, _ := time.Parse("2006-01-02", "2024-03-01")
	to, _ := time.Parse("2006-01-02", "2024-04-01")

	first, err := NewMockProvider().DailyPrices(ctx, "AAPL", from, to)
	require.NoError(t, err)
	second, err := NewMockProvider().DailyPrices(ctx, "AAPL", from, to)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestMockProviderSubRangeConsistent(t *testing.T) {
	ctx := context.Background()
	p := NewMockProvider()

	from, _ := time.Parse("2006-01-02", "2024-01-02")
	mid, _ := time.Parse("2006-01-02", "2024-02-01")
	to, _ := time.Parse("2006-01-02", "2024-03-01")

	full, err := p.DailyPrices(ctx, "MSFT", from, to)
	require.NoError(t, err)
	tail, err := p.DailyPrices(ctx, "MSFT", mid, to)
	require.NoError(t, err)

	// 구간을 잘라도 같은 날짜에는 같은 가격
	require.NotEmpty(t, tail)
	byDate := make(map[string]float64, len(full))
	for _, b := range full {
		byDate[b.Date.Format("2006-01-02")] = b.Close
	}
	for _, b := range tail {
		want, ok := byDate[b.Date.Format("2006-01-02")]
		require.True(t, ok)
		assert.Equal(t, want, b.Close)
	}
}

func TestMockProviderSkipsWeekends(t *testing.T) {
	ctx := context.Background()
	from, _ := time.Parse("2006-01-02", "2024-01-02")
	to, _ := time.Parse("2006-01-02", "2024-01-31")

	bars, err := NewMockProvider().DailyPrices(ctx, "VOO", from, to)
	require.NoError(t, err)

	for _, b := range bars {
		assert.NotEqual(t, time.Saturday, b.Date.Weekday())
		assert.NotEqual(t, time.Sunday, b.Date.Weekday())
	}

	// 2024-01-02 ~ 2024-01-31: 22 영업일
	assert.Len(t, bars, 22)
}

func TestMockProviderUnknownTicker(t *testing.T) {
	ctx := context.Background()
	from, _ := time.Parse("2006-01-02", "2024-01-02")

	bars, err := NewMockProvider().DailyPrices(ctx, "NOPE", from, from.AddDate(0, 0, 7))
	assert.Nil(t, bars)
	assert.True(t, errors.Is(err, ErrUnknownTicker))
}

func TestMockProviderRegister(t *testing.T) {
	ctx := context.Background()
	p := NewMockProvider()
	p.Register("TEST", TickerSpec{StartPrice: 50, AnnualVol: 0.30, Seed: 99})

	from, _ := time.Parse("2006-01-02", "2024-01-02")
	bars, err := p.DailyPrices(ctx, "TEST", from, from)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 50.0, bars[0].Close)

	assert.Contains(t, p.Tickers(), "TEST")
}
