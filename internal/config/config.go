package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/msj/internal/model"
)

// Config holds all msj configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Calculator CalculatorConfig `toml:"calculator"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds paths and the display currency.
type GeneralConfig struct {
	DataDir  string `toml:"data_dir,omitempty" env:"DATA_DIR"`
	SitesDir string `toml:"sites_dir,omitempty" env:"SITES_DIR"`
	Currency string `toml:"currency" env:"CURRENCY"`
}

// CalculatorConfig holds the values the calculator form starts with.
type CalculatorConfig struct {
	Initial          float64 `toml:"initial"`
	RateValue        float64 `toml:"rate_value"`
	RatePeriod       string  `toml:"rate_period"`
	Years            int     `toml:"years"`
	Months           int     `toml:"months"`
	Days             int     `toml:"days"`
	IncludeWeekends  bool    `toml:"include_weekends"`
	Weekdays         []int   `toml:"weekdays,omitempty"`
	Reinvest         float64 `toml:"reinvest"`
	ContribType      string  `toml:"contrib_type"`
	ContribAmount    float64 `toml:"contrib_amount"`
	ContribFrequency string  `toml:"contrib_frequency"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr          string `toml:"addr" env:"ADDR"`
	RescanSeconds int    `toml:"rescan_seconds" env:"RESCAN_SECONDS"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme" env:"THEME"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	p := model.DefaultParams()
	return Config{
		General: GeneralConfig{
			Currency: p.Currency.Code,
		},
		Calculator: CalculatorConfig{
			Initial:          p.Initial,
			RateValue:        p.RateValue,
			RatePeriod:       p.RatePeriod,
			Years:            p.Years,
			Months:           p.Months,
			Days:             p.Days,
			IncludeWeekends:  p.IncludeWeekends,
			Weekdays:         p.SelectedDays,
			Reinvest:         p.Reinvest,
			ContribType:      p.Contrib.Type,
			ContribAmount:    p.Contrib.Amount,
			ContribFrequency: p.Contrib.Frequency,
		},
		Server: ServerConfig{
			Addr:          "127.0.0.1:8787",
			RescanSeconds: 30,
		},
		Appearance: AppearanceConfig{
			Theme: "violet-rose",
		},
	}
}

// Params returns the calculator defaults as form params.
func (c Config) Params() model.Params {
	p := model.Params{
		Currency:        model.CurrencyFor(c.General.Currency),
		Initial:         c.Calculator.Initial,
		RateValue:       c.Calculator.RateValue,
		RatePeriod:      c.Calculator.RatePeriod,
		Years:           c.Calculator.Years,
		Months:          c.Calculator.Months,
		Days:            c.Calculator.Days,
		IncludeWeekends: c.Calculator.IncludeWeekends,
		SelectedDays:    append([]int(nil), c.Calculator.Weekdays...),
		Reinvest:        c.Calculator.Reinvest,
		Contrib: model.Contribution{
			Type:      c.Calculator.ContribType,
			Amount:    c.Calculator.ContribAmount,
			Frequency: c.Calculator.ContribFrequency,
		},
	}
	p.Normalize()
	return p
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "msj")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "msj")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns where the per-key JSON files and the journal database live.
func (c Config) DataDir() string {
	if c.General.DataDir != "" {
		return c.General.DataDir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "msj")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "msj")
}

// SitesDir returns the directory scanned for sites.
func (c Config) SitesDir() string {
	if c.General.SitesDir != "" {
		return c.General.SitesDir
	}
	return filepath.Join(c.DataDir(), "sites")
}

// Load reads the config file, returning defaults if it doesn't exist.
// MSJ_* environment variables override file values.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
