package export

import (
	"time"

	"feedback-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Feedbacks"

var excelColumns = []struct {
	header string
	width  float64
}{
	{"Service", 15},
	{"Emoji", 15},
	{"Feedback", 30},
	{"Email", 25},
	{"Phone", 15},
	{"Timestamp", 25},
}

// Excel renders records as an xlsx workbook with a single "Feedbacks" sheet,
// one header row with fixed display widths and one data row per record.
func Excel(feedbacks []models.Feedback) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, col := range excelColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, col.header); err != nil {
			return nil, err
		}
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, colName, colName, col.width); err != nil {
			return nil, err
		}
	}

	for i, fb := range feedbacks {
		row := i + 2
		values := []string{
			fb.Service,
			fb.Emoji,
			fb.Feedback,
			fb.Email,
			fb.Phone,
			fb.Timestamp.Format(time.RFC3339),
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
