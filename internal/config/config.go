// Package config loads application configuration from YAML files with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Screening  ScreeningConfig  `mapstructure:"screening"  yaml:"screening"`
	Scoring    ScoringConfig    `mapstructure:"scoring"    yaml:"scoring"`
	Allocation AllocationConfig `mapstructure:"allocation" yaml:"allocation"`
	Universe   UniverseConfig   `mapstructure:"universe"   yaml:"universe"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"   yaml:"pipeline"`
	News       NewsConfig       `mapstructure:"news"       yaml:"news"`
	Report     ReportConfig     `mapstructure:"report"     yaml:"report"`
	Database   DatabaseConfig   `mapstructure:"database"   yaml:"database"`
	API        APIConfig        `mapstructure:"api"        yaml:"api"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"   yaml:"schedule"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"`
}

// ScreeningConfig holds the AAOIFI financial-ratio thresholds.
type ScreeningConfig struct {
	DebtRatioMax    float64 `mapstructure:"debt_ratio_max"    yaml:"debt_ratio_max"`
	LiquidAssetsMax float64 `mapstructure:"liquid_assets_max" yaml:"liquid_assets_max"`
	ReceivablesMax  float64 `mapstructure:"receivables_max"   yaml:"receivables_max"`
	ImpureIncomeMax float64 `mapstructure:"impure_income_max" yaml:"impure_income_max"`
}

// ScoringConfig selects the weight variant.
type ScoringConfig struct {
	Variant        string `mapstructure:"variant"         yaml:"variant"` // "prescreened" or "gated"
	SkipOverpriced bool   `mapstructure:"skip_overpriced" yaml:"skip_overpriced"`
}

// AllocationConfig holds budget settings for allocation plans.
type AllocationConfig struct {
	Budget    float64 `mapstructure:"budget"    yaml:"budget"` // dollars
	Shortlist int     `mapstructure:"shortlist" yaml:"shortlist"`
}

// UniverseConfig selects the stock universe.
type UniverseConfig struct {
	Name     string `mapstructure:"name"      yaml:"name"` // "sp500" or "spus"
	SP500URL string `mapstructure:"sp500_url" yaml:"sp500_url"`
	SPUSURL  string `mapstructure:"spus_url"  yaml:"spus_url"`
}

// PipelineConfig tunes the concurrent fetch-and-score run.
type PipelineConfig struct {
	Concurrency  int `mapstructure:"concurrency"   yaml:"concurrency"`
	HistoryYears int `mapstructure:"history_years" yaml:"history_years"`
}

// NewsConfig tunes report headlines.
type NewsConfig struct {
	Limit int `mapstructure:"limit" yaml:"limit"`
}

// ReportConfig holds report output and email delivery settings.
type ReportConfig struct {
	OutputDir string     `mapstructure:"output_dir" yaml:"output_dir"`
	PDF       bool       `mapstructure:"pdf"        yaml:"pdf"`
	Email     SMTPConfig `mapstructure:"email"      yaml:"email"`
}

// SMTPConfig holds SMTP delivery credentials.
type SMTPConfig struct {
	Host     string   `mapstructure:"host"     yaml:"host"`
	Port     int      `mapstructure:"port"     yaml:"port"`
	Username string   `mapstructure:"username" yaml:"username"`
	Password string   `mapstructure:"password" yaml:"password"`
	From     string   `mapstructure:"from"     yaml:"from"`
	To       []string `mapstructure:"to"       yaml:"to"`
}

// Enabled reports whether email delivery is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && len(c.To) > 0
}

// DatabaseConfig holds the Postgres connection for portfolio and
// watchlist storage. An empty URL disables the store.
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// Addr returns the listen address.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ScheduleConfig holds the cron expression for scheduled runs.
type ScheduleConfig struct {
	Cron string `mapstructure:"cron" yaml:"cron"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
}

// Load reads configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml
//  2. ~/.halalinvest/config.yaml
//  3. /etc/halalinvest/config.yaml
//
// Environment variables override file values, prefixed HALALINVEST_,
// e.g. HALALINVEST_DATABASE_URL.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".halalinvest"))
	v.AddConfigPath("/etc/halalinvest")

	v.SetEnvPrefix("HALALINVEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// No config file is fine; defaults plus env vars apply.
	}

	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("HALALINVEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	overrideFromEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Scoring.Variant != "prescreened" && c.Scoring.Variant != "gated" {
		return fmt.Errorf("scoring.variant must be \"prescreened\" or \"gated\", got %q", c.Scoring.Variant)
	}
	if c.Universe.Name != "sp500" && c.Universe.Name != "spus" {
		return fmt.Errorf("universe.name must be \"sp500\" or \"spus\", got %q", c.Universe.Name)
	}
	if c.Allocation.Budget < 0 {
		return fmt.Errorf("allocation.budget must not be negative, got %v", c.Allocation.Budget)
	}
	if c.Pipeline.Concurrency < 1 {
		return fmt.Errorf("pipeline.concurrency must be at least 1, got %d", c.Pipeline.Concurrency)
	}
	for _, t := range []struct {
		name  string
		value float64
	}{
		{"screening.debt_ratio_max", c.Screening.DebtRatioMax},
		{"screening.liquid_assets_max", c.Screening.LiquidAssetsMax},
		{"screening.receivables_max", c.Screening.ReceivablesMax},
		{"screening.impure_income_max", c.Screening.ImpureIncomeMax},
	} {
		if t.value <= 0 || t.value >= 1 {
			return fmt.Errorf("%s must be in (0, 1), got %v", t.name, t.value)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// AAOIFI thresholds.
	v.SetDefault("screening.debt_ratio_max", 0.33)
	v.SetDefault("screening.liquid_assets_max", 0.33)
	v.SetDefault("screening.receivables_max", 0.33)
	v.SetDefault("screening.impure_income_max", 0.05)

	v.SetDefault("scoring.variant", "gated")
	v.SetDefault("scoring.skip_overpriced", false)

	v.SetDefault("allocation.budget", 10000)
	v.SetDefault("allocation.shortlist", 10)

	v.SetDefault("universe.name", "sp500")

	v.SetDefault("pipeline.concurrency", 8)
	v.SetDefault("pipeline.history_years", 10)

	v.SetDefault("news.limit", 5)

	v.SetDefault("report.output_dir", "reports")
	v.SetDefault("report.pdf", false)
	v.SetDefault("report.email.port", 587)

	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Weekday mornings before US market open (UTC).
	v.SetDefault("schedule.cron", "0 12 * * 1-5")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// overrideFromEnv reads sensitive keys directly from the environment so
// they never have to live in a config file.
func overrideFromEnv(cfg *Config) {
	if url := os.Getenv("HALALINVEST_DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if pw := os.Getenv("HALALINVEST_SMTP_PASSWORD"); pw != "" {
		cfg.Report.Email.Password = pw
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
