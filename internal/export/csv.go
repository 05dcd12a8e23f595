package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// utf8BOM 엑셀에서 한글이 깨지지 않도록 CSV 앞에 붙임
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// BuildCSV renders the header and rows as UTF-8 CSV.
func BuildCSV(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(doc.Labels.Header[:]); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range doc.Rows {
		if err := w.Write(row.Cells()); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
