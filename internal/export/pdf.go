package export

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf"
)

const pdfFontFamily = "report"

// pdfColumnWidths 명세서 표 컬럼 폭 (mm)
var pdfColumnWidths = [...]float64{24, 20, 46, 14, 14, 28, 44}

// BuildPDF renders a summary PDF.
// FontPath 가 없으면 코어 폰트(Arial)를 쓰므로 ASCII 외 문자는 '?'로 표시
func BuildPDF(doc *Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")

	family := "Arial"
	text := asciiOnly
	if doc.FontPath != "" {
		pdf.AddUTF8Font(pdfFontFamily, "", doc.FontPath)
		pdf.AddUTF8Font(pdfFontFamily, "B", doc.FontPath)
		family = pdfFontFamily
		text = func(s string) string { return s }
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("load pdf font: %w", err)
	}

	pdf.SetFont(family, "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, text(doc.Labels.SummaryTitle))
	pdf.Ln(10)
	pdf.SetFont(family, "", 10)
	pdf.Cell(0, 6, text(fmt.Sprintf("Owner: %s", doc.OwnerID)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Window: %s", doc.Window))
	pdf.Ln(8)

	if snap := doc.Snapshot; snap != nil {
		core := snap.CoreMetrics
		pdf.Cell(0, 6, fmt.Sprintf("Statements: %d", core.TotalStatements))
		pdf.Ln(5)
		pdf.Cell(0, 6, fmt.Sprintf("Revenue: %s (growth %.1f%%)", core.TotalRevenue.StringFixed(0), snap.Growth.RevenueGrowth))
		pdf.Ln(5)
		pdf.Cell(0, 6, fmt.Sprintf("Units: %d  Average amount: %.1f", core.TotalUnits, core.AverageAmount))
		pdf.Ln(5)
		pdf.Cell(0, 6, fmt.Sprintf("Remakes: %d (%.1f%%)", core.RemakeCount, core.RemakeRate))
		pdf.Ln(8)

		pdf.SetFont(family, "B", 10)
		pdf.CellFormat(70, 6, "Partner", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, "Revenue", "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, "Count", "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, "Defect %", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont(family, "", 10)
		for _, p := range snap.TopPartners {
			pdf.CellFormat(70, 6, text(p.PartnerName), "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, p.Revenue.StringFixed(0), "1", 0, "R", false, 0, "")
			pdf.CellFormat(25, 6, fmt.Sprintf("%d", p.Count), "1", 0, "R", false, 0, "")
			pdf.CellFormat(30, 6, fmt.Sprintf("%.1f", p.DefectRate), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}

	// 명세서 표
	pdf.SetFont(family, "B", 8)
	for i, h := range doc.Labels.Header {
		pdf.CellFormat(pdfColumnWidths[i], 6, text(h), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont(family, "", 8)
	for _, row := range doc.Rows {
		if row.IsBlank() {
			pdf.Ln(3)
			continue
		}
		for i, c := range row.Cells() {
			align := "L"
			if i >= 3 {
				align = "R"
			}
			pdf.CellFormat(pdfColumnWidths[i], 5, text(c), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func asciiOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return '?'
		}
		return r
	}, s)
}
