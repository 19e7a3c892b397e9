package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/storytellerz/backend/internal/domain"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// XLSXExporter renders a shortlist as a spreadsheet, one row per
// entry in shortlist order.
type XLSXExporter struct {
	now func() time.Time
}

// NewXLSXExporter creates the exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{now: time.Now}
}

// Export builds the workbook in memory and returns its bytes, a
// timestamped filename and the MIME type.
func (e *XLSXExporter) Export(entries []domain.ShortlistEntry) ([]byte, string, string, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"Type", "Title", "Price", "Source", "Link", "Description", "Added At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, entry := range entries {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, string(entry.Type))
		set(2, entry.Title)
		set(3, entry.Price)
		set(4, entry.Source)
		set(5, entry.Link)
		set(6, entry.Description)
		if !entry.AddedAt.IsZero() {
			set(7, entry.AddedAt.Format(time.RFC3339))
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", "", fmt.Errorf("writing workbook: %w", err)
	}

	filename := fmt.Sprintf("shortlist-%s.xlsx", e.now().Format("20060102-150405"))
	return buf.Bytes(), filename, xlsxMIME, nil
}
