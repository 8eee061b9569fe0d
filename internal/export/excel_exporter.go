package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet = "Documents"
	minColWidth  = 10.0
	maxColWidth  = 50.0
)

func writeExcel(w io.Writer, t Table) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := t.Title
	if sheet == "" {
		sheet = defaultSheet
	}
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	dateStyle, err := file.NewStyle(&excelize.Style{NumFmt: 22}) // m/d/yy h:mm
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}

	widths := make([]float64, len(t.Columns))
	for i, col := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := file.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		widths[i] = float64(len(col))
	}
	if len(t.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), 1)
		if err := file.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	for r, row := range t.Rows {
		for c, val := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if ts, ok := val.(time.Time); ok {
				if err := file.SetCellValue(sheet, cell, ts.UTC()); err != nil {
					return fmt.Errorf("failed to set cell value: %w", err)
				}
				if err := file.SetCellStyle(sheet, cell, cell, dateStyle); err != nil {
					return fmt.Errorf("failed to style cell: %w", err)
				}
				continue
			}
			s := formatValue(val)
			if err := file.SetCellValue(sheet, cell, s); err != nil {
				return fmt.Errorf("failed to set cell value: %w", err)
			}
			if c < len(widths) && float64(len(s)) > widths[c] {
				widths[c] = float64(len(s))
			}
		}
	}

	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width = width * 1.2
		if width < minColWidth {
			width = minColWidth
		}
		if width > maxColWidth {
			width = maxColWidth
		}
		if err := file.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	// Freeze header row
	if err := file.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	return file.Write(w)
}
