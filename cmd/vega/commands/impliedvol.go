package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/vega/internal/options"
)

// impliedVolCmd represents the implied-vol command
var impliedVolCmd = &cobra.Command{
	Use:   "implied-vol",
	Short: "관측 가격에서 implied volatility 역산",
	Long: `관측된 옵션 가격에서 Black-Scholes implied volatility를 역산합니다.

Newton-Raphson을 먼저 시도하고 실패 시 bisection으로 폴백합니다.

Example:
  go run ./cmd/vega implied-vol --type call --strike 180 --expiry 2026-06-19 --spot 185 --price 12.50`,
	RunE: runImpliedVol,
}

var (
	// Implied vol flags
	ivType     string
	ivStrike   float64
	ivExpiry   string
	ivSpot     float64
	ivRate     float64
	ivDiv      float64
	ivToday    string
	ivObserved float64
	ivGuess    float64
)

func init() {
	rootCmd.AddCommand(impliedVolCmd)

	// Flags
	impliedVolCmd.Flags().StringVar(&ivType, "type", "call", "옵션 종류 (call|put)")
	impliedVolCmd.Flags().Float64Var(&ivStrike, "strike", 0, "행사가")
	impliedVolCmd.Flags().StringVar(&ivExpiry, "expiry", "", "만기일 (YYYY-MM-DD)")
	impliedVolCmd.Flags().Float64Var(&ivSpot, "spot", 0, "기초자산 가격")
	impliedVolCmd.Flags().Float64Var(&ivRate, "rate", 0.03, "무위험 이자율")
	impliedVolCmd.Flags().Float64Var(&ivDiv, "div", 0, "배당 수익률")
	impliedVolCmd.Flags().StringVar(&ivToday, "today", "", "평가일 (YYYY-MM-DD, 기본 오늘)")
	impliedVolCmd.Flags().Float64Var(&ivObserved, "price", 0, "관측된 옵션 가격")
	impliedVolCmd.Flags().Float64Var(&ivGuess, "guess", 0.2, "초기 추정 변동성")

	impliedVolCmd.MarkFlagRequired("strike")
	impliedVolCmd.MarkFlagRequired("expiry")
	impliedVolCmd.MarkFlagRequired("spot")
	impliedVolCmd.MarkFlagRequired("price")
}

func runImpliedVol(cmd *cobra.Command, args []string) error {
	// vol 자리에는 guess를 넣음 (시장 vol은 역산 대상이라 사용되지 않음)
	contract, market, today, err := buildContract(
		ivType, ivStrike, ivExpiry, ivSpot, ivGuess, ivRate, ivDiv, ivToday)
	if err != nil {
		return err
	}

	cfg := options.DefaultSolverConfig()
	cfg.InitialGuess = ivGuess

	iv, err := options.ImpliedVol(ivObserved, contract, market, today, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("=== Implied Volatility ===\n")
	fmt.Printf("Observed price: %.4f\n", ivObserved)
	fmt.Printf("Implied vol:    %.6f (%.2f%%)\n", iv, iv*100)

	return nil
}
