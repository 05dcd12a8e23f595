package export

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/labtrade/internal/contracts"
)

// ErrUnknownLocale is returned for an unsupported export locale.
var ErrUnknownLocale = errors.New("export: unknown locale")

// Locale 내보내기 라벨 언어
type Locale string

const (
	LocaleKO Locale = "ko"
	LocaleEN Locale = "en"
)

// Labels 내보내기 라벨 세트
type Labels struct {
	Header         [contracts.RowColumns]string
	Sent           string
	Received       string
	TotalCount     string
	TotalRevenue   string
	TotalUnits     string
	AverageAmount  string
	SummaryTitle   string
	StatementTitle string
}

var labelSets = map[Locale]Labels{
	LocaleKO: {
		Header:         [contracts.RowColumns]string{"날짜", "구분", "거래처", "항목 수", "수량", "금액", "비고"},
		Sent:           "발송",
		Received:       "수신",
		TotalCount:     "총 건수",
		TotalRevenue:   "총 매출",
		TotalUnits:     "총 수량",
		AverageAmount:  "평균 금액",
		SummaryTitle:   "요약",
		StatementTitle: "거래명세서",
	},
	LocaleEN: {
		Header:         [contracts.RowColumns]string{"Date", "Direction", "Counterparty", "Items", "Units", "Amount", "Notes"},
		Sent:           "Sent",
		Received:       "Received",
		TotalCount:     "Total statements",
		TotalRevenue:   "Total revenue",
		TotalUnits:     "Total units",
		AverageAmount:  "Average amount",
		SummaryTitle:   "Summary",
		StatementTitle: "Statements",
	},
}

// LabelsFor returns the label set of a locale ("" → ko)
func LabelsFor(locale Locale) (Labels, error) {
	if locale == "" {
		locale = LocaleKO
	}
	l, ok := labelSets[locale]
	if !ok {
		return Labels{}, ErrUnknownLocale
	}
	return l, nil
}

// DirectionLabel 방향 표시값
func (l Labels) DirectionLabel(d contracts.Direction) string {
	if d == contracts.DirectionReceived {
		return l.Received
	}
	return l.Sent
}

// ToRows implements SummaryExporter
// ⭐ SSOT: 행 모델만 생성, 파일/스트림 I/O 없음
//
// 명세서 한 건당 한 행, 이후 빈 구분 행과 합계 블록(건수, 매출, 수량, 평균 금액).
func ToRows(statements []contracts.Statement, core contracts.CoreMetrics, labels Labels, loc *time.Location) []contracts.Row {
	if loc == nil {
		loc = time.UTC
	}

	rows := make([]contracts.Row, 0, len(statements)+5)
	for _, s := range statements {
		rows = append(rows, contracts.Row{
			Date:         s.OccurredAt.In(loc).Format("2006-01-02"),
			Direction:    labels.DirectionLabel(s.Direction),
			Counterparty: sanitizeCell(s.CounterpartyName),
			Items:        strconv.Itoa(len(s.Items)),
			Units:        strconv.Itoa(s.TotalUnits),
			Amount:       s.TotalAmount.String(),
			Notes:        sanitizeCell(s.Notes),
		})
	}

	rows = append(rows,
		contracts.Row{},
		summaryRow(labels.TotalCount, strconv.Itoa(core.TotalStatements)),
		summaryRow(labels.TotalRevenue, core.TotalRevenue.String()),
		summaryRow(labels.TotalUnits, strconv.Itoa(core.TotalUnits)),
		summaryRow(labels.AverageAmount, formatNumber(core.AverageAmount)),
	)
	return rows
}

// IsSummary reports whether a row belongs to the trailing summary block
func IsSummary(r contracts.Row) bool {
	return r.Date != "" && r.Counterparty == "" && r.Amount == "" && r.Direction != ""
}

func summaryRow(label, value string) contracts.Row {
	return contracts.Row{Date: label, Direction: value}
}

// sanitizeCell 구분자(쉼표)와 줄바꿈을 공백으로 치환 (한 명세서 = 한 행)
func sanitizeCell(s string) string {
	return strings.TrimSpace(cellReplacer.Replace(s))
}

var cellReplacer = strings.NewReplacer(",", " ", "\r\n", " ", "\n", " ", "\r", " ")

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
