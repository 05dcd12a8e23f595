package analyticsconfig

import (
	"errors"
	"os"
	"testing"

	"github.com/wonny/labtrade/internal/analytics"
)

func TestLoad(t *testing.T) {
	path := "../../config/analytics.yaml"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("config file not found")
	}

	cfg, yamlData, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Ranking.MinDefectSample != analytics.DefaultMinDefectSample {
		t.Errorf("expected min_defect_sample=%d, got %d", analytics.DefaultMinDefectSample, cfg.Ranking.MinDefectSample)
	}

	hash, err := Hash(cfg)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(hash))
	}

	// 동일 설정 → 동일 해시
	hash2, _ := Hash(cfg)
	if hash != hash2 {
		t.Error("hash not deterministic")
	}

	t.Logf("config hash: %s", hash)
	t.Logf("yaml size: %d bytes", len(yamlData))
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	cfg, data, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if data != nil {
		t.Error("expected no raw bytes for default config")
	}
	if cfg.Ranking.TopN != analytics.DefaultTopN {
		t.Errorf("expected top_n=%d, got %d", analytics.DefaultTopN, cfg.Ranking.TopN)
	}
}

func TestParse_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("ranking:\n  top_n: 5\nexport:\n  locale: en\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Ranking.TopN != 5 {
		t.Errorf("expected top_n=5, got %d", cfg.Ranking.TopN)
	}
	if cfg.Ranking.MinDefectSample != analytics.DefaultMinDefectSample {
		t.Errorf("expected default min_defect_sample, got %d", cfg.Ranking.MinDefectSample)
	}
	if cfg.Meta.Timezone != analytics.DefaultTimezone {
		t.Errorf("expected default timezone, got %s", cfg.Meta.Timezone)
	}
}

func TestParse_UnknownFieldFails(t *testing.T) {
	if _, err := Parse([]byte("ranking:\n  topn: 5\n")); err == nil {
		t.Error("expected unknown field error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*Config)
		field string
	}{
		{"missing version", func(c *Config) { c.Meta.Version = "" }, "meta.version"},
		{"bad timezone", func(c *Config) { c.Meta.Timezone = "Mars/Olympus" }, "meta.timezone"},
		{"empty timezone", func(c *Config) { c.Meta.Timezone = "" }, "meta.timezone"},
		{"zero top_n", func(c *Config) { c.Ranking.TopN = 0 }, "ranking.top_n"},
		{"zero defect rate top_n", func(c *Config) { c.Ranking.DefectRateTopN = 0 }, "ranking.defect_rate_top_n"},
		{"zero min sample", func(c *Config) { c.Ranking.MinDefectSample = 0 }, "ranking.min_defect_sample"},
		{"zero defects top_n", func(c *Config) { c.Defects.TopN = 0 }, "defects.top_n"},
		{"unknown locale", func(c *Config) { c.Export.Locale = "jp" }, "export.locale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mut(cfg)

			err := Validate(cfg)
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, verr.Field)
			}
		})
	}

	if err := Validate(Default()); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestEngineConfig(t *testing.T) {
	cfg := Default()
	cfg.Ranking.MinDefectSample = 8

	ec, err := cfg.EngineConfig()
	if err != nil {
		t.Fatalf("EngineConfig failed: %v", err)
	}
	if ec.MinDefectSample != 8 {
		t.Errorf("expected 8, got %d", ec.MinDefectSample)
	}
	if ec.Location.String() != analytics.DefaultTimezone {
		t.Errorf("expected %s, got %s", analytics.DefaultTimezone, ec.Location)
	}
}
