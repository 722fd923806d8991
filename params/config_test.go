package params

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if !Default().Gate.MinOrderQuoteAssetAmount.IsZero() {
		t.Error("minimum order value must not have a built-in default")
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("API_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORE_PATH", "/tmp/gate")
	t.Setenv("GATE_MIN_ORDER_QUOTE_ASSET_AMOUNT", "500000")
	t.Setenv("GATE_REQUIRE_SIGNATURES", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg := LoadFromEnv(filepath.Join(t.TempDir(), "missing.env"))
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.API.Addr != ":9090" {
		t.Errorf("API.Addr = %q", cfg.API.Addr)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Store.Path != "/tmp/gate" {
		t.Errorf("Store.Path = %q", cfg.Store.Path)
	}
	if got := cfg.Gate.MinOrderQuoteAssetAmount.String(); got != "500000" {
		t.Errorf("MinOrderQuoteAssetAmount = %s", got)
	}
	if !cfg.Gate.RequireSignatures {
		t.Error("RequireSignatures not set")
	}
	if len(cfg.API.AllowedOrigins) != 2 || cfg.API.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", cfg.API.AllowedOrigins)
	}
}

func TestLoadFromEnv_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("GATE_MIN_ORDER_QUOTE_ASSET_AMOUNT=1000000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv does not override variables already set.
	t.Setenv("GATE_MIN_ORDER_QUOTE_ASSET_AMOUNT", "")
	os.Unsetenv("GATE_MIN_ORDER_QUOTE_ASSET_AMOUNT")

	cfg := LoadFromEnv(path)
	if got := cfg.Gate.MinOrderQuoteAssetAmount.String(); got != "1000000" {
		t.Errorf("MinOrderQuoteAssetAmount = %s, want 1000000", got)
	}
}

func TestLoadFromEnv_Malformed(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"GATE_MIN_ORDER_QUOTE_ASSET_AMOUNT", "0.5"},
		{"GATE_MIN_ORDER_QUOTE_ASSET_AMOUNT", "-1"},
		{"GATE_REQUIRE_SIGNATURES", "sometimes"},
		{"LOG_LEVEL", "chatty"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			cfg := LoadFromEnv(filepath.Join(t.TempDir(), "missing.env"))
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
