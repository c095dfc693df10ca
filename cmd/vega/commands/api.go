package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/vega/internal/api"
	"github.com/wonny/vega/internal/api/handlers"
	"github.com/wonny/vega/internal/marketdata"
	"github.com/wonny/vega/internal/timeline"
	"github.com/wonny/vega/pkg/config"
	"github.com/wonny/vega/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 가격/Greeks/implied vol 엔드포인트 제공
- 시나리오/리스크 엔드포인트 제공

Endpoints:
  GET  /health                             - Health check
  POST /api/v1/options/price               - 단일 계약 가격
  POST /api/v1/options/greeks              - 단일 계약 Greeks
  POST /api/v1/options/implied-vol         - Implied volatility
  POST /api/v1/portfolio/value             - 포트폴리오 가치/Greeks
  POST /api/v1/scenario/{spot,vol,time,crash}
  POST /api/v1/scenario/{spot-vol,spot-time}-surface
  POST /api/v1/scenario/payoff             - Payoff 커브
  POST /api/v1/risk/monte-carlo            - Monte Carlo 시뮬레이션
  POST /api/v1/timeline                    - 전략 타임라인

Example:
  go run ./cmd/vega api
  go run ./cmd/vega api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "8080", "API 서버 포트")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Vega API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Create market data provider
	provider := marketdata.NewMockProvider()

	// 4. Create timeline reconstructor
	reconstructor := timeline.NewReconstructor(provider)

	// 5. Create handlers
	optionsHandler := handlers.NewOptionsHandler(cfg, log)
	timelineHandler := handlers.NewTimelineHandler(reconstructor, provider, log)

	// 6. Create router
	router := api.NewRouter(cfg, optionsHandler, timelineHandler, log)

	// 7. Create server
	server := api.New(cfg, log, router)

	// 8. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
