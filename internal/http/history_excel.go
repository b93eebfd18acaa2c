package httpapi

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"wisefido-vitals-board/internal/domain"
)

// VitalHistoryExportHeader 历史记录导出表头
var VitalHistoryExportHeader = []string{
	"Datetime",
	"Vital Type",
	"Group",
	"Value",
	"Secondary Value",
	"Notes",
}

// GenerateVitalHistoryExport 生成历史记录导出 Excel 文件
// records 为空时只生成表头
func GenerateVitalHistoryExport(records []domain.VitalRecord) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo 需要文件保持打开，不能提前 defer Close

	sheetName := "Vital History"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	// 删除默认的 Sheet1
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	// 表头样式
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	// 写入表头
	for col, header := range VitalHistoryExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	// 列宽
	columnWidths := []float64{
		22, // Datetime
		20, // Vital Type
		16, // Group
		14, // Value
		16, // Secondary Value
		40, // Notes
	}
	for i := range VitalHistoryExportHeader {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, columnWidths[i]); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	// 写入数据
	for rowIdx, rec := range records {
		row := rowIdx + 2 // 从第2行开始（第1行是表头）
		values := []any{
			exportDatetime(rec),
			rec.VitalType,
			rec.Group(),
			rec.DisplayValue(),
			secondaryDisplayValue(rec),
			rec.Notes,
		}
		for col, value := range values {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell value at row %d, col %d: %w", row, col+1, err)
			}
		}
	}

	// 冻结表头
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}

	return buf.Bytes(), nil
}

// exportDatetime 导出用时间格式；无法解析的时间戳原样保留
func exportDatetime(rec domain.VitalRecord) string {
	if t, ok := rec.Time(); ok {
		return t.Format("2006-01-02 15:04:05")
	}
	return rec.Datetime
}

// secondaryDisplayValue 伴随读数的展示值
func secondaryDisplayValue(rec domain.VitalRecord) string {
	if rec.SecondaryValue == nil {
		return ""
	}
	return strconv.FormatFloat(*rec.SecondaryValue, 'f', -1, 64)
}
