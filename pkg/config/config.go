package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production
	HTTP HTTPConfig

	// Engine defaults (API 레이어 기본값; 엔진 자체는 한도를 강제하지 않음)
	Engine EngineConfig

	// Rate limiting (API layer)
	RateLimit RateLimitConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// HTTPConfig holds HTTP server timeouts
// WriteTimeout은 가장 무거운 요청(대규모 Monte Carlo)도 커버해야 함
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// EngineConfig holds pricing engine defaults used by the API layer
type EngineConfig struct {
	DefaultNumSims    int     // Monte Carlo 기본 시뮬레이션 횟수
	DefaultGridPoints int     // payoff 그리드 기본 포인트 수
	DefaultPctRange   float64 // payoff 그리드 기본 범위 (+/- 비율)
	DefaultInitialVol float64 // implied vol 초기 추정치
	SolverTolerance   float64 // implied vol 수렴 허용 오차
	SolverMaxIter     int     // Newton-Raphson 최대 반복
}

// RateLimitConfig holds API rate limiter configuration
type RateLimitConfig struct {
	Enabled bool
	RPS     float64 // requests per second
	Burst   int
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),
		HTTP: HTTPConfig{
			ReadTimeout:  getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		},

		// Engine defaults
		Engine: EngineConfig{
			DefaultNumSims:    getEnvAsInt("ENGINE_DEFAULT_NUM_SIMS", 10000),
			DefaultGridPoints: getEnvAsInt("ENGINE_DEFAULT_GRID_POINTS", 101),
			DefaultPctRange:   getEnvAsFloat("ENGINE_DEFAULT_PCT_RANGE", 0.5),
			DefaultInitialVol: getEnvAsFloat("ENGINE_DEFAULT_INITIAL_VOL", 0.2),
			SolverTolerance:   getEnvAsFloat("ENGINE_SOLVER_TOLERANCE", 1e-6),
			SolverMaxIter:     getEnvAsInt("ENGINE_SOLVER_MAX_ITER", 50),
		},

		// Rate limiting
		RateLimit: RateLimitConfig{
			Enabled: getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RPS:     getEnvAsFloat("RATE_LIMIT_RPS", 50),
			Burst:   getEnvAsInt("RATE_LIMIT_BURST", 100),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.HTTP.ReadTimeout <= 0 || c.HTTP.WriteTimeout <= 0 || c.HTTP.IdleTimeout <= 0 {
		return fmt.Errorf("HTTP timeouts must be > 0")
	}

	if c.Engine.DefaultNumSims <= 0 {
		return fmt.Errorf("ENGINE_DEFAULT_NUM_SIMS must be > 0")
	}
	if c.Engine.DefaultGridPoints < 2 {
		return fmt.Errorf("ENGINE_DEFAULT_GRID_POINTS must be >= 2")
	}
	if c.Engine.SolverTolerance <= 0 {
		return fmt.Errorf("ENGINE_SOLVER_TOLERANCE must be > 0")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
