package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrConfig wraps problems with environment configuration or flags.
var ErrConfig = errors.New("shapeval: invalid configuration")

// Config holds CLI defaults read from the environment. Flags override it.
type Config struct {
	LogLevel string `env:"SHAPEVAL_LOG_LEVEL" envDefault:"warn"`
	// Format forces the input format; empty means detect from the file
	// extension.
	Format string `env:"SHAPEVAL_FORMAT"`
	Indent bool   `env:"SHAPEVAL_INDENT" envDefault:"false"`
}

// LoadConfig reads Config from the environment after loading an optional
// .env file from the working directory.
func LoadConfig() (Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := checkFormat(cfg.Format); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func checkFormat(f string) error {
	switch f {
	case "", formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("%w: unknown format %q (valid: json, yaml)", ErrConfig, f)
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrConfig, s)
	}
	return lvl, nil
}
