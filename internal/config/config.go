package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	StoreURL     string
	StoreAPIKey  string
	DBPath       string
	ServerPort   string
	LogLevel     string
	CounselorKey string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		StoreURL:     getEnv("LEAGUE_STORE_URL", ""),
		StoreAPIKey:  getEnv("LEAGUE_STORE_KEY", ""),
		DBPath:       getEnv("DB_PATH", "crest.db"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CounselorKey: getEnv("COUNSELOR_KEY", ""),
	}

	if cfg.StoreURL == "" {
		return nil, fmt.Errorf("LEAGUE_STORE_URL is required")
	}
	if cfg.StoreAPIKey == "" {
		return nil, fmt.Errorf("LEAGUE_STORE_KEY is required")
	}

	logger.Info().
		Str("store_url", cfg.StoreURL).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Bool("counselor_key_set", cfg.CounselorKey != "").
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
