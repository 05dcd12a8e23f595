package analyticsconfig

import (
	"time"

	"github.com/wonny/labtrade/internal/analytics"
	"github.com/wonny/labtrade/internal/export"
)

// Config는 분석 엔진과 내보내기의 전체 설정
type Config struct {
	Meta    Meta    `yaml:"meta" json:"meta"`
	Ranking Ranking `yaml:"ranking" json:"ranking"`
	Defects Defects `yaml:"defects" json:"defects"`
	Export  Export  `yaml:"export" json:"export"`
}

// Meta 메타 정보
type Meta struct {
	Version  string `yaml:"version" json:"version"`
	Timezone string `yaml:"timezone" json:"timezone"` // 달력 버킷 기준 (IANA)
}

// Ranking 거래처 랭킹
type Ranking struct {
	TopN            int `yaml:"top_n" json:"top_n"`
	DefectRateTopN  int `yaml:"defect_rate_top_n" json:"defect_rate_top_n"`
	MinDefectSample int `yaml:"min_defect_sample" json:"min_defect_sample"` // 재제작률 랭킹 최소 항목 수
}

// Defects 재제작 사유 분석
type Defects struct {
	TopN int `yaml:"top_n" json:"top_n"`
}

// Export 내보내기
type Export struct {
	Locale      string `yaml:"locale" json:"locale"` // ko | en
	PDFFontPath string `yaml:"pdf_font_path,omitempty" json:"pdf_font_path,omitempty"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Meta: Meta{
			Version:  "v1",
			Timezone: analytics.DefaultTimezone,
		},
		Ranking: Ranking{
			TopN:            analytics.DefaultTopN,
			DefectRateTopN:  analytics.DefaultDefectRateTopN,
			MinDefectSample: analytics.DefaultMinDefectSample,
		},
		Defects: Defects{TopN: analytics.DefaultDefectReasonTopN},
		Export:  Export{Locale: string(export.LocaleKO)},
	}
}

// Location resolves meta.timezone
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Meta.Timezone)
}

// EngineConfig converts the settings into analytics.Config
func (c *Config) EngineConfig() (analytics.Config, error) {
	loc, err := c.Location()
	if err != nil {
		return analytics.Config{}, err
	}
	return analytics.Config{
		TopN:             c.Ranking.TopN,
		DefectRateTopN:   c.Ranking.DefectRateTopN,
		MinDefectSample:  c.Ranking.MinDefectSample,
		DefectReasonTopN: c.Defects.TopN,
		Location:         loc,
	}, nil
}

// Labels returns the export label set for export.locale
func (c *Config) Labels() (export.Labels, error) {
	return export.LabelsFor(export.Locale(c.Export.Locale))
}
