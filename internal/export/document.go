package export

import (
	"errors"
	"fmt"
	"time"

	"github.com/wonny/labtrade/internal/contracts"
)

// ErrUnknownFormat is returned for an unsupported export format.
var ErrUnknownFormat = errors.New("export: unknown format")

// Format 내보내기 파일 형식
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat converts a query value to a Format ("" → csv)
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX, FormatPDF:
		return Format(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the HTTP content type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Document 파일 작성기 입력 (행 모델 + 스냅샷)
type Document struct {
	OwnerID  string
	Window   string
	Labels   Labels
	Rows     []contracts.Row
	Snapshot *contracts.AnalyticsSnapshot
	FontPath string // PDF 한글 폰트 (TTF), 비어 있으면 코어 폰트
}

// NewDocument 작업 집합과 스냅샷으로 문서 구성
func NewDocument(ownerID string, working []contracts.Statement, snap *contracts.AnalyticsSnapshot, labels Labels, loc *time.Location) *Document {
	return &Document{
		OwnerID:  ownerID,
		Window:   contracts.ReportWindow(snap.Range, loc),
		Labels:   labels,
		Rows:     ToRows(working, snap.CoreMetrics, labels, loc),
		Snapshot: snap,
	}
}

// FileName report_<owner>_<start>_<end>.<ext>
func FileName(ownerID string, rng contracts.DateRange, loc *time.Location, f Format) string {
	if loc == nil {
		loc = time.UTC
	}
	return fmt.Sprintf("report_%s_%s_%s.%s",
		ownerID,
		rng.Start.In(loc).Format("20060102"),
		rng.End.In(loc).Format("20060102"),
		f,
	)
}

// Render 형식별 작성기 호출
func Render(doc *Document, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return BuildCSV(doc)
	case FormatXLSX:
		return BuildXLSX(doc)
	case FormatPDF:
		return BuildPDF(doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}
