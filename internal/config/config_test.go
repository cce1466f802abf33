package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromFileDefaults(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: debug\n")

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	// Everything else falls back to defaults.
	if cfg.Screening.DebtRatioMax != 0.33 {
		t.Errorf("DebtRatioMax = %v, want 0.33", cfg.Screening.DebtRatioMax)
	}
	if cfg.Screening.ImpureIncomeMax != 0.05 {
		t.Errorf("ImpureIncomeMax = %v, want 0.05", cfg.Screening.ImpureIncomeMax)
	}
	if cfg.Scoring.Variant != "gated" {
		t.Errorf("Variant = %q, want gated", cfg.Scoring.Variant)
	}
	if cfg.Allocation.Budget != 10000 {
		t.Errorf("Budget = %v, want 10000", cfg.Allocation.Budget)
	}
	if cfg.Pipeline.Concurrency != 8 {
		t.Errorf("Concurrency = %d, want 8", cfg.Pipeline.Concurrency)
	}
}

func TestLoadFromFileOverrides(t *testing.T) {
	path := writeConfig(t, `
screening:
  debt_ratio_max: 0.30
scoring:
  variant: prescreened
universe:
  name: spus
allocation:
  budget: 25000
  shortlist: 5
`)
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Screening.DebtRatioMax != 0.30 {
		t.Errorf("DebtRatioMax = %v", cfg.Screening.DebtRatioMax)
	}
	if cfg.Scoring.Variant != "prescreened" || cfg.Universe.Name != "spus" {
		t.Errorf("variant/universe = %q/%q", cfg.Scoring.Variant, cfg.Universe.Name)
	}
	if cfg.Allocation.Shortlist != 5 {
		t.Errorf("Shortlist = %d", cfg.Allocation.Shortlist)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"bad variant":    func(c *Config) { c.Scoring.Variant = "aggressive" },
		"bad universe":   func(c *Config) { c.Universe.Name = "nasdaq" },
		"bad threshold":  func(c *Config) { c.Screening.DebtRatioMax = 1.5 },
		"zero threshold": func(c *Config) { c.Screening.ReceivablesMax = 0 },
		"bad budget":     func(c *Config) { c.Allocation.Budget = -1 },
		"bad workers":    func(c *Config) { c.Pipeline.Concurrency = 0 },
	} {
		cfg := validConfig()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate() accepted an invalid config", name)
		}
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDatabaseURLFromEnv(t *testing.T) {
	t.Setenv("HALALINVEST_DATABASE_URL", "postgres://test/halal")

	path := writeConfig(t, "database:\n  url: postgres://file/halal\n")
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Database.URL != "postgres://test/halal" {
		t.Errorf("Database.URL = %q, want the env value", cfg.Database.URL)
	}
}

func TestSMTPEnabled(t *testing.T) {
	var c SMTPConfig
	if c.Enabled() {
		t.Error("empty SMTP config should be disabled")
	}
	c.Host = "smtp.example.com"
	c.To = []string{"me@example.com"}
	if !c.Enabled() {
		t.Error("configured SMTP should be enabled")
	}
}

func validConfig() *Config {
	return &Config{
		Screening: ScreeningConfig{
			DebtRatioMax:    0.33,
			LiquidAssetsMax: 0.33,
			ReceivablesMax:  0.33,
			ImpureIncomeMax: 0.05,
		},
		Scoring:    ScoringConfig{Variant: "gated"},
		Allocation: AllocationConfig{Budget: 10000, Shortlist: 10},
		Universe:   UniverseConfig{Name: "sp500"},
		Pipeline:   PipelineConfig{Concurrency: 8, HistoryYears: 10},
	}
}
