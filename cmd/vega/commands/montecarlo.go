package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/wonny/vega/internal/portfolio"
	"github.com/wonny/vega/internal/risk"
)

// monteCarloCmd represents the monte-carlo command
var monteCarloCmd = &cobra.Command{
	Use:   "monte-carlo",
	Short: "단일 계약 Monte Carlo 시뮬레이션",
	Long: `GBM terminal 분포로 지평 시점의 포지션 가치 분포를 시뮬레이션합니다.

출력:
- mean / std
- p01 ~ p99 백분위수
- VaR / CVaR (95%, 99%)

Example:
  go run ./cmd/vega monte-carlo --type call --strike 180 --expiry 2026-06-19 --spot 185 --vol 0.25 --horizon 30
  go run ./cmd/vega monte-carlo --type put --strike 170 --expiry 2026-06-19 --spot 185 --vol 0.25 --horizon 30 --sims 50000 --seed 42`,
	RunE: runMonteCarlo,
}

var (
	// Monte Carlo flags
	mcType    string
	mcStrike  float64
	mcExpiry  string
	mcSpot    float64
	mcVol     float64
	mcRate    float64
	mcDiv     float64
	mcToday   string
	mcQty     float64
	mcHorizon int
	mcSims    int
	mcSeed    int64
)

func init() {
	rootCmd.AddCommand(monteCarloCmd)

	// Flags
	monteCarloCmd.Flags().StringVar(&mcType, "type", "call", "옵션 종류 (call|put)")
	monteCarloCmd.Flags().Float64Var(&mcStrike, "strike", 0, "행사가")
	monteCarloCmd.Flags().StringVar(&mcExpiry, "expiry", "", "만기일 (YYYY-MM-DD)")
	monteCarloCmd.Flags().Float64Var(&mcSpot, "spot", 0, "기초자산 가격")
	monteCarloCmd.Flags().Float64Var(&mcVol, "vol", 0.2, "변동성 (연율)")
	monteCarloCmd.Flags().Float64Var(&mcRate, "rate", 0.03, "무위험 이자율")
	monteCarloCmd.Flags().Float64Var(&mcDiv, "div", 0, "배당 수익률")
	monteCarloCmd.Flags().StringVar(&mcToday, "today", "", "평가일 (YYYY-MM-DD, 기본 오늘)")
	monteCarloCmd.Flags().Float64Var(&mcQty, "qty", 1, "수량 (음수 = short)")
	monteCarloCmd.Flags().IntVar(&mcHorizon, "horizon", 30, "시뮬레이션 지평 (일)")
	monteCarloCmd.Flags().IntVar(&mcSims, "sims", 10000, "시뮬레이션 횟수")
	monteCarloCmd.Flags().Int64Var(&mcSeed, "seed", 0, "난수 시드 (미지정 = 비결정적; 0도 유효한 시드)")

	monteCarloCmd.MarkFlagRequired("strike")
	monteCarloCmd.MarkFlagRequired("expiry")
	monteCarloCmd.MarkFlagRequired("spot")
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	contract, market, today, err := buildContract(
		mcType, mcStrike, mcExpiry, mcSpot, mcVol, mcRate, mcDiv, mcToday)
	if err != nil {
		return err
	}

	positions := []portfolio.Position{
		{Contract: contract, Quantity: mcQty},
	}

	mcConfig := risk.MonteCarloConfig{
		HorizonDays:    mcHorizon,
		NumSimulations: mcSims,
	}
	if cmd.Flags().Changed("seed") {
		mcConfig.Seed = &mcSeed
	}

	sim := risk.NewMonteCarloSimulator(mcConfig)

	result, err := sim.Simulate(positions, market, today)
	if err != nil {
		return err
	}

	fmt.Printf("=== Monte Carlo (%s, %d sims, %d days) ===\n", result.Assumptions.Model, mcSims, mcHorizon)
	fmt.Printf("Run ID: %s\n\n", result.RunID)
	fmt.Printf("Mean: %.4f\n", result.Summary.Mean)
	fmt.Printf("Std:  %.4f\n\n", result.Summary.Std)

	keys := make([]string, 0, len(result.Percentiles))
	for k := range result.Percentiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s: %.4f\n", k, result.Percentiles[k])
	}

	fmt.Printf("\nVaR 95:  %.4f\n", result.TailRisk.VaR95)
	fmt.Printf("VaR 99:  %.4f\n", result.TailRisk.VaR99)
	fmt.Printf("CVaR 95: %.4f\n", result.TailRisk.CVaR95)
	fmt.Printf("CVaR 99: %.4f\n", result.TailRisk.CVaR99)

	return nil
}
