package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"mcs-forecast/internal/simulation"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath      string
	LogDir        string
	PortfolioPath string

	Trials  int
	Seed    *int64
	Workers int
	Timeout time.Duration

	// RateLimit caps MCP forecast calls per second; 0 means unlimited.
	RateLimit float64
	RateBurst int
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Binary directory first, so an MCP client can launch us from anywhere
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	return fromEnv(exeDir), nil
}

func fromEnv(exeDir string) *AppConfig {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	cfg := &AppConfig{
		DataPath:      dataPath,
		LogDir:        getEnv("LOGS_FOLDER", filepath.Join(dataPath, "logs")),
		PortfolioPath: getEnv("PORTFOLIO_PATH", filepath.Join(dataPath, "portfolio.yaml")),
		Trials:        getEnvInt("MCS_TRIALS", simulation.DefaultTrials),
		Workers:       getEnvInt("MCS_WORKERS", runtime.NumCPU()),
		Timeout:       time.Duration(getEnvInt("MCS_TIMEOUT_SECONDS", 60)) * time.Second,
		RateLimit:     getEnvFloat("MCS_RATE_LIMIT", 0),
		RateBurst:     getEnvInt("MCS_RATE_BURST", 1),
	}

	if raw, ok := os.LookupEnv("MCS_SEED"); ok && raw != "" {
		if seed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			cfg.Seed = &seed
		} else {
			log.Warn().Str("value", raw).Msg("Ignoring invalid MCS_SEED")
		}
	}

	return cfg
}

// Engine builds a simulation engine with the configured trials, workers and seed.
// Extra options are applied last.
func (c *AppConfig) Engine(extra ...simulation.Option) *simulation.Engine {
	opts := []simulation.Option{
		simulation.WithTrials(c.Trials),
		simulation.WithWorkers(c.Workers),
	}
	if c.Seed != nil {
		opts = append(opts, simulation.WithSeed(*c.Seed))
	}
	return simulation.NewEngine(append(opts, extra...)...)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if intVal, err := strconv.Atoi(value); err == nil && intVal > 0 {
			return intVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring invalid numeric setting")
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f >= 0 {
			return f
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring invalid numeric setting")
	}
	return fallback
}
