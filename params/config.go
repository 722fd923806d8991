package params

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/uhyunpark/ordergate/pkg/num"
	"github.com/uhyunpark/ordergate/pkg/util"
)

type API struct {
	Addr           string
	AllowedOrigins []string
}

type Log struct {
	File  string // empty logs to stdout only
	Level string
}

type Store struct {
	Path string
}

type Gate struct {
	// MinOrderQuoteAssetAmount in QuotePrecision units. Zero means "take it
	// from the store"; there is no built-in default.
	MinOrderQuoteAssetAmount num.Uint
	RequireSignatures        bool
}

type Config struct {
	API   API
	Log   Log
	Store Store
	Gate  Gate

	// malformed environment values seen by LoadFromEnv
	errs []error
}

func Default() Config {
	return Config{
		API: API{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:3001"},
		},
		Log: Log{
			File:  "data/gate.log",
			Level: "info",
		},
		Store: Store{
			Path: "data/ordergate",
		},
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables
// Priority: ENV > .env file > defaults
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	// Try to load .env file (optional - won't fail if not exists)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	cfg.API.Addr = getEnv("API_ADDR", cfg.API.Addr)
	if v, ok := os.LookupEnv("LOG_FILE"); ok {
		cfg.Log.File = v // LOG_FILE= disables the file sink
	}
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Store.Path = getEnv("STORE_PATH", cfg.Store.Path)

	if v := os.Getenv("GATE_MIN_ORDER_QUOTE_ASSET_AMOUNT"); v != "" {
		amount, err := num.UintFromDecimal(v)
		if err != nil {
			cfg.errs = append(cfg.errs, fmt.Errorf("GATE_MIN_ORDER_QUOTE_ASSET_AMOUNT: %w", err))
		}
		cfg.Gate.MinOrderQuoteAssetAmount = amount
	}

	if v := os.Getenv("GATE_REQUIRE_SIGNATURES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			cfg.errs = append(cfg.errs, fmt.Errorf("GATE_REQUIRE_SIGNATURES: %w", err))
		}
		cfg.Gate.RequireSignatures = b
	}

	// Example: "http://localhost:3000,https://app.example.com"
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.API.AllowedOrigins = origins
	}

	return cfg
}

// Validate reports malformed environment values and unusable settings.
func (c Config) Validate() error {
	errs := append([]error(nil), c.errs...)
	if c.API.Addr == "" {
		errs = append(errs, errors.New("API_ADDR must not be empty"))
	}
	if c.Store.Path == "" {
		errs = append(errs, errors.New("STORE_PATH must not be empty"))
	}
	if _, err := util.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	return errors.Join(errs...)
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
