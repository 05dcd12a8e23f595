package analyticsconfig

import (
	"fmt"
	"time"

	"github.com/wonny/labtrade/internal/export"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.Version == "" {
		return ValidationError{"meta.version", "required"}
	}
	if _, err := time.LoadLocation(cfg.Meta.Timezone); err != nil || cfg.Meta.Timezone == "" {
		return ValidationError{"meta.timezone", "must be a valid IANA timezone"}
	}

	// === Ranking ===
	if cfg.Ranking.TopN <= 0 {
		return ValidationError{"ranking.top_n", "must be > 0"}
	}
	if cfg.Ranking.DefectRateTopN <= 0 {
		return ValidationError{"ranking.defect_rate_top_n", "must be > 0"}
	}
	if cfg.Ranking.MinDefectSample < 1 {
		return ValidationError{"ranking.min_defect_sample", "must be >= 1"}
	}

	// === Defects ===
	if cfg.Defects.TopN <= 0 {
		return ValidationError{"defects.top_n", "must be > 0"}
	}

	// === Export ===
	if _, err := export.LabelsFor(export.Locale(cfg.Export.Locale)); err != nil {
		return ValidationError{"export.locale", "must be one of ko, en"}
	}

	return nil
}
