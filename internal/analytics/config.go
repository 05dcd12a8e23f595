package analytics

import (
	"errors"
	"time"
)

var (
	// ErrInvalidGranularity is returned when the bucketing granularity is unsupported.
	ErrInvalidGranularity = errors.New("analytics: invalid granularity")
	// ErrInvalidScope is returned when the partner direction scope is unsupported.
	ErrInvalidScope = errors.New("analytics: invalid direction scope")
)

// 랭킹 상수 (매직 넘버 금지)
const (
	DefaultTopN             = 10 // 거래처 매출 랭킹 상위 N
	DefaultDefectRateTopN   = 10 // 재제작률 랭킹 상위 N
	DefaultMinDefectSample  = 5  // 재제작률 랭킹 최소 항목 수 (소표본 왜곡 방지)
	DefaultDefectReasonTopN = 10 // 재제작 사유 상위 N
)

// DefaultTimezone 달력 버킷 기준 시간대
const DefaultTimezone = "Asia/Seoul"

// Config 분석 엔진 설정
type Config struct {
	TopN             int
	DefectRateTopN   int
	MinDefectSample  int
	DefectReasonTopN int
	Location         *time.Location
}

// DefaultConfig returns the engine defaults
func DefaultConfig() Config {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	return Config{
		TopN:             DefaultTopN,
		DefectRateTopN:   DefaultDefectRateTopN,
		MinDefectSample:  DefaultMinDefectSample,
		DefectReasonTopN: DefaultDefectReasonTopN,
		Location:         loc,
	}
}

// withDefaults fills zero values
func (c Config) withDefaults() Config {
	if c.TopN <= 0 {
		c.TopN = DefaultTopN
	}
	if c.DefectRateTopN <= 0 {
		c.DefectRateTopN = DefaultDefectRateTopN
	}
	if c.MinDefectSample <= 0 {
		c.MinDefectSample = DefaultMinDefectSample
	}
	if c.DefectReasonTopN <= 0 {
		c.DefectReasonTopN = DefaultDefectReasonTopN
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	return c
}

// Scope 거래처 집계 대상 방향
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeSent     Scope = "sent"
	ScopeReceived Scope = "received"
)

// ParseScope converts a query value to a Scope ("" → all)
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeSent, ScopeReceived:
		return Scope(s), nil
	default:
		return "", ErrInvalidScope
	}
}
