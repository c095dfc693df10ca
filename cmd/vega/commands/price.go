package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/vega/internal/options"
)

// priceCmd represents the price command
var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "단일 계약 가격/Greeks 계산",
	Long: `Black-Scholes로 단일 옵션 계약의 가격과 Greeks를 계산합니다.

Conventions:
- theta: 캘린더 1일당
- vega:  vol 1.00당 (1%p당은 /100)
- rho:   rate 1.00당 (1%p당은 /100)

Example:
  go run ./cmd/vega price --type call --strike 180 --expiry 2026-06-19 --spot 185 --vol 0.25
  go run ./cmd/vega price --type put --strike 170 --expiry 2026-06-19 --spot 185 --vol 0.25 --rate 0.03`,
	RunE: runPrice,
}

var (
	// Price flags
	priceType   string
	priceStrike float64
	priceExpiry string
	priceSpot   float64
	priceVol    float64
	priceRate   float64
	priceDiv    float64
	priceToday  string
)

func init() {
	rootCmd.AddCommand(priceCmd)

	// Flags
	priceCmd.Flags().StringVar(&priceType, "type", "call", "옵션 종류 (call|put)")
	priceCmd.Flags().Float64Var(&priceStrike, "strike", 0, "행사가")
	priceCmd.Flags().StringVar(&priceExpiry, "expiry", "", "만기일 (YYYY-MM-DD)")
	priceCmd.Flags().Float64Var(&priceSpot, "spot", 0, "기초자산 가격")
	priceCmd.Flags().Float64Var(&priceVol, "vol", 0.2, "변동성 (연율)")
	priceCmd.Flags().Float64Var(&priceRate, "rate", 0.03, "무위험 이자율")
	priceCmd.Flags().Float64Var(&priceDiv, "div", 0, "배당 수익률")
	priceCmd.Flags().StringVar(&priceToday, "today", "", "평가일 (YYYY-MM-DD, 기본 오늘)")

	priceCmd.MarkFlagRequired("strike")
	priceCmd.MarkFlagRequired("expiry")
	priceCmd.MarkFlagRequired("spot")
}

func runPrice(cmd *cobra.Command, args []string) error {
	contract, market, today, err := buildContract(
		priceType, priceStrike, priceExpiry, priceSpot, priceVol, priceRate, priceDiv, priceToday)
	if err != nil {
		return err
	}

	price := options.Price(contract, market, today)
	greeks := options.Compute(contract, market, today)

	fmt.Printf("=== %s %s K=%.2f exp=%s ===\n",
		contract.Type, contract.Symbol, contract.Strike, contract.Expiry.Format("2006-01-02"))
	fmt.Printf("Price: %.4f\n\n", price)
	fmt.Printf("Delta: %+.4f\n", greeks.Delta)
	fmt.Printf("Gamma: %+.6f\n", greeks.Gamma)
	fmt.Printf("Vega:  %+.4f\n", greeks.Vega)
	fmt.Printf("Theta: %+.4f (per day)\n", greeks.Theta)
	fmt.Printf("Rho:   %+.4f\n", greeks.Rho)

	return nil
}

// buildContract assembles contract/market/valuation date from CLI flags
func buildContract(typ string, strike float64, expiry string, spot, vol, rate, div float64, todayRaw string) (options.OptionContract, options.MarketSnapshot, time.Time, error) {
	var zeroContract options.OptionContract
	var zeroMarket options.MarketSnapshot

	expiryDate, err := time.Parse("2006-01-02", expiry)
	if err != nil {
		return zeroContract, zeroMarket, time.Time{}, fmt.Errorf("invalid --expiry (expected YYYY-MM-DD): %w", err)
	}

	today := time.Now().UTC()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if todayRaw != "" {
		today, err = time.Parse("2006-01-02", todayRaw)
		if err != nil {
			return zeroContract, zeroMarket, time.Time{}, fmt.Errorf("invalid --today (expected YYYY-MM-DD): %w", err)
		}
	}

	symbol := fmt.Sprintf("%s-%.0f-%s", typ, strike, expiryDate.Format("20060102"))
	contract := options.NewContract(symbol, options.OptionType(typ), strike, expiryDate)
	if err := contract.Validate(); err != nil {
		return zeroContract, zeroMarket, time.Time{}, err
	}

	market := options.MarketSnapshot{
		Spot:          spot,
		Rate:          rate,
		DividendYield: div,
		Volatility:    vol,
	}
	if err := market.Validate(); err != nil {
		return zeroContract, zeroMarket, time.Time{}, err
	}

	return contract, market, today, nil
}
