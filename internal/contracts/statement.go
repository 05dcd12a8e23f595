package contracts

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ⭐ SSOT: 거래명세서 정규화 결과 타입은 여기서만 정의

const (
	// UnspecifiedPartner 거래처명이 비어 있을 때 사용하는 표시값
	UnspecifiedPartner = "미지정"

	// UnspecifiedReason 재제작 사유가 없을 때 사용하는 사유 키
	UnspecifiedReason = "unspecified"

	// AllPartners 거래처 필터 미적용을 나타내는 센티넬
	AllPartners = "all"
)

var (
	// ErrInvalidRange is returned when a date range is empty or inverted.
	ErrInvalidRange = errors.New("contracts: invalid date range")
)

// Direction 명세서 방향 (발송/수신)
type Direction string

const (
	DirectionSent     Direction = "sent"     // 소유자가 발행
	DirectionReceived Direction = "received" // 소유자가 수신
)

// Statement 정규화된 거래명세서 (불변)
type Statement struct {
	ID               string          `json:"id"`
	Direction        Direction       `json:"direction"`
	CounterpartyID   string          `json:"counterparty_id"`
	CounterpartyName string          `json:"counterparty_name"`
	OccurredAt       time.Time       `json:"occurred_at"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TotalUnits       int             `json:"total_units"` // 치아 수 등 청구 단위
	Items            []LineItem      `json:"items"`
	Notes            string          `json:"notes,omitempty"`
}

// DefectCount returns the number of items flagged as remakes
func (s Statement) DefectCount() int {
	n := 0
	for _, item := range s.Items {
		if item.IsDefect {
			n++
		}
	}
	return n
}

// LineItem 명세서 세부 항목
type LineItem struct {
	IsDefect     bool   `json:"is_defect"`
	DefectReason string `json:"defect_reason,omitempty"`
}

// Reason returns the defect reason key, falling back to UnspecifiedReason
func (i LineItem) Reason() string {
	if i.DefectReason == "" {
		return UnspecifiedReason
	}
	return i.DefectReason
}

// DateRange 조회 기간 (양 끝 포함)
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate checks the start <= end invariant
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return ErrInvalidRange
	}
	if r.Start.After(r.End) {
		return ErrInvalidRange
	}
	return nil
}

// Contains reports whether t lies in [Start, End]
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Previous returns the immediately preceding window of identical duration
func (r DateRange) Previous() DateRange {
	length := r.End.Sub(r.Start)
	return DateRange{
		Start: r.Start.Add(-length),
		End:   r.Start,
	}
}

// Granularity 시계열 버킷 단위
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// IsValid reports whether g is a supported granularity
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth, GranularityYear:
		return true
	default:
		return false
	}
}
