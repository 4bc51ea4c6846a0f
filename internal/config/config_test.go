package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:8787" {
		t.Fatalf("Server.Addr = %q, want default", cfg.Server.Addr)
	}
	if cfg.Calculator.RatePeriod != "per_day" {
		t.Fatalf("RatePeriod = %q, want per_day", cfg.Calculator.RatePeriod)
	}
	if Exists() {
		t.Fatal("Exists() = true before Save")
	}
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.General.Currency = "EUR"
	cfg.Calculator.Initial = 2500
	cfg.Calculator.Weekdays = []int{1, 3}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.General.Currency != "EUR" || got.Calculator.Initial != 2500 {
		t.Fatalf("Load = %+v, want saved values", got)
	}
	if len(got.Calculator.Weekdays) != 2 {
		t.Fatalf("Weekdays = %v, want [1 3]", got.Calculator.Weekdays)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dataDir := filepath.Join(t.TempDir(), "data")
	t.Setenv("MSJ_DATA_DIR", dataDir)
	t.Setenv("MSJ_ADDR", ":9999")

	cfg := DefaultConfig()
	cfg.Server.Addr = ":1111"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Server.Addr != ":9999" {
		t.Fatalf("Server.Addr = %q, want :9999", got.Server.Addr)
	}
	if got.DataDir() != dataDir {
		t.Fatalf("DataDir() = %q, want %q", got.DataDir(), dataDir)
	}
	if got.SitesDir() != filepath.Join(dataDir, "sites") {
		t.Fatalf("SitesDir() = %q", got.SitesDir())
	}
}

func TestParamsFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.Currency = "gbp"
	cfg.Calculator.Reinvest = 0

	p := cfg.Params()
	if p.Currency.Code != "GBP" || p.Currency.Symbol != "£" {
		t.Fatalf("Currency = %+v, want GBP £", p.Currency)
	}
	if p.Reinvest != 1 {
		t.Fatalf("Reinvest = %v, want 1", p.Reinvest)
	}
}
