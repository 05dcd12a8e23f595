package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	statementsSheet = "statements"
	summarySheet    = "summary"
)

var columnLetters = [...]string{"A", "B", "C", "D", "E", "F", "G"}

// BuildXLSX renders statements and aggregate tables into a workbook.
func BuildXLSX(doc *Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", statementsSheet)
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}

	for i, h := range doc.Labels.Header {
		_ = f.SetCellValue(statementsSheet, columnLetters[i]+"1", h)
	}
	for r, row := range doc.Rows {
		for c, cell := range row.Cells() {
			_ = f.SetCellValue(statementsSheet, fmt.Sprintf("%s%d", columnLetters[c], r+2), cell)
		}
	}

	if doc.Snapshot != nil {
		writeSummarySheet(f, doc)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, doc *Document) {
	snap := doc.Snapshot
	core := snap.CoreMetrics
	l := doc.Labels

	cell := func(col string, row int, v interface{}) {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("%s%d", col, row), v)
	}

	cell("A", 1, l.SummaryTitle)
	cell("A", 2, doc.OwnerID)
	cell("B", 2, doc.Window)

	r := 4
	for _, kv := range []struct {
		k string
		v interface{}
	}{
		{l.TotalCount, core.TotalStatements},
		{l.TotalRevenue, core.TotalRevenue.InexactFloat64()},
		{l.TotalUnits, core.TotalUnits},
		{l.AverageAmount, core.AverageAmount},
		{"remake_count", core.RemakeCount},
		{"remake_rate", core.RemakeRate},
		{"revenue_growth", snap.Growth.RevenueGrowth},
		{"count_growth", snap.Growth.CountGrowth},
	} {
		cell("A", r, kv.k)
		cell("B", r, kv.v)
		r++
	}

	// 기간별 시계열
	r++
	cell("A", r, "period")
	cell("B", r, "revenue")
	cell("C", r, "count")
	cell("D", r, "units")
	for _, p := range snap.PeriodSeries {
		r++
		cell("A", r, p.Period)
		cell("B", r, p.Revenue.InexactFloat64())
		cell("C", r, p.Count)
		cell("D", r, p.Units)
	}

	// 거래처 랭킹
	r += 2
	cell("A", r, "partner")
	cell("B", r, "revenue")
	cell("C", r, "count")
	cell("D", r, "units")
	cell("E", r, "items")
	cell("F", r, "defect_rate")
	for _, p := range snap.TopPartners {
		r++
		cell("A", r, p.PartnerName)
		cell("B", r, p.Revenue.InexactFloat64())
		cell("C", r, p.Count)
		cell("D", r, p.Units)
		cell("E", r, p.Items)
		cell("F", r, p.DefectRate)
	}

	// 재제작 사유
	r += 2
	cell("A", r, "defect_reason")
	cell("B", r, "count")
	cell("C", r, "percentage")
	for _, d := range snap.DefectReasons {
		r++
		cell("A", r, d.Reason)
		cell("B", r, d.Count)
		cell("C", r, d.Percentage)
	}
}
