package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnalyticsSnapshot 분석 엔진 출력
// ⭐ SSOT: 필터 변경 시마다 새로 생성, 호출 간 상태 없음
type AnalyticsSnapshot struct {
	Range             DateRange       `json:"range"`
	CounterpartyID    string          `json:"counterparty_id,omitempty"`
	Granularity       Granularity     `json:"granularity"`
	CoreMetrics       CoreMetrics     `json:"core_metrics"`
	Growth            Growth          `json:"growth"`
	PeriodSeries      []PeriodPoint   `json:"period_series"`
	PartnerRollups    []PartnerRollup `json:"partner_rollups"`     // 전체 랭킹 (보존 법칙 성립)
	TopPartners       []PartnerRollup `json:"top_partners"`        // 상위 N
	DefectRateRanking []PartnerRollup `json:"defect_rate_ranking"` // 최소 표본 이상만
	DefectReasons     []DefectReason  `json:"defect_reasons"`
	DirectionSplit    DirectionSplit  `json:"direction_split"`
}

// CoreMetrics 핵심 지표
type CoreMetrics struct {
	TotalRevenue    decimal.Decimal `json:"total_revenue"` // 정확한 합계 (버킷/거래처 합과 일치)
	TotalStatements int             `json:"total_statements"`
	TotalUnits      int             `json:"total_units"`
	TotalItems      int             `json:"total_items"`
	AverageAmount   float64         `json:"average_amount"`
	AverageUnits    float64         `json:"average_units"`
	RemakeCount     int             `json:"remake_count"`
	RemakeRate      float64         `json:"remake_rate"` // %
}

// Growth 직전 동일 기간 대비 증감률
type Growth struct {
	RevenueGrowth   float64         `json:"revenue_growth"` // %
	CountGrowth     float64         `json:"count_growth"`   // %
	PreviousRange   DateRange       `json:"previous_range"`
	PreviousRevenue decimal.Decimal `json:"previous_revenue"`
	PreviousCount   int             `json:"previous_count"`
}

// PeriodPoint 기간 버킷 하나
type PeriodPoint struct {
	Period  string          `json:"period"`
	Revenue decimal.Decimal `json:"revenue"`
	Count   int             `json:"count"`
	Units   int             `json:"units"`
}

// PartnerRollup 거래처별 집계
type PartnerRollup struct {
	PartnerID   string          `json:"partner_id"`
	PartnerName string          `json:"partner_name"`
	Revenue     decimal.Decimal `json:"revenue"`
	Count       int             `json:"count"`
	Units       int             `json:"units"`
	Items       int             `json:"items"`
	DefectCount int             `json:"defect_count"`
	DefectRate  float64         `json:"defect_rate"` // %
}

// DefectReason 재제작 사유별 집계
type DefectReason struct {
	Reason     string  `json:"reason"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DirectionTotals 방향별 합계
type DirectionTotals struct {
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DirectionSplit 발송/수신 분리 집계
type DirectionSplit struct {
	Sent     DirectionTotals `json:"sent"`
	Received DirectionTotals `json:"received"`
}

// Row 내보내기용 평면 행 (고정 컬럼)
type Row struct {
	Date         string `json:"date"`
	Direction    string `json:"direction"`
	Counterparty string `json:"counterparty"`
	Items        string `json:"items"`
	Units        string `json:"units"`
	Amount       string `json:"amount"`
	Notes        string `json:"notes"`
}

// RowColumns 내보내기 컬럼 수
const RowColumns = 7

// Cells returns the row as an ordered tuple
func (r Row) Cells() []string {
	return []string{r.Date, r.Direction, r.Counterparty, r.Items, r.Units, r.Amount, r.Notes}
}

// IsBlank reports whether every cell is empty
func (r Row) IsBlank() bool {
	for _, c := range r.Cells() {
		if c != "" {
			return false
		}
	}
	return true
}

// ReportWindow formats a range for report headers
func ReportWindow(r DateRange, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return r.Start.In(loc).Format("2006-01-02") + " ~ " + r.End.In(loc).Format("2006-01-02")
}
