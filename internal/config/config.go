package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/histquiz.db"`
	RedisURL string     `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// Salt mixed into the date hash that seeds daily generation. Changing it
	// changes every future puzzle, so treat it as frozen.
	SeedSalt string `env:"SEED_SALT" envDefault:"histquiz"`

	// Judge settings for range-puzzle composition. With JudgeEnabled off the
	// generator goes straight to the legacy shuffle fallback.
	JudgeEnabled     bool   `env:"JUDGE_ENABLED" envDefault:"false"`
	JudgeModel       string `env:"JUDGE_MODEL" envDefault:"gpt-4o-mini"`
	JudgeMaxAttempts int    `env:"JUDGE_MAX_ATTEMPTS" envDefault:"3"`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`

	// Optional bootstrap admin. Created only when the admins table is empty.
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.JudgeEnabled && cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("JUDGE_ENABLED requires OPENAI_API_KEY")
	}
	return &cfg, nil
}
