// Package spreadsheet renders export workbooks as .xlsx files or as plain
// delimited text.
package spreadsheet

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/export"
	"github.com/xuri/excelize/v2"
)

const (
	FormatXLSX      = "xlsx"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	defaultSheet = "Sheet1"
	maxColWidth  = 40.0
	minColWidth  = 8.0
)

// ExcelWriter produces one .xlsx file holding every table as a sheet.
type ExcelWriter struct{}

func NewExcelWriter() *ExcelWriter {
	return &ExcelWriter{}
}

func (w *ExcelWriter) Format() string { return FormatXLSX }

// Write implements export.Writer.
func (w *ExcelWriter) Write(ctx context.Context, wb export.Workbook) ([]export.File, error) {
	if len(wb.Tables) == 0 {
		return nil, fmt.Errorf("workbook %q has no tables", wb.Name)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	keepDefault := false
	for i, t := range wb.Tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if t.Sheet == defaultSheet {
			keepDefault = true
		}
		index, err := f.NewSheet(t.Sheet)
		if err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", t.Sheet, err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}
		if err := writeSheet(f, t, headerStyle); err != nil {
			return nil, fmt.Errorf("write sheet %q: %w", t.Sheet, err)
		}
	}
	if !keepDefault {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}

	return []export.File{{
		Name:        wb.Name + "." + FormatXLSX,
		ContentType: ContentTypeXLSX,
		Data:        buf.Bytes(),
	}}, nil
}

func writeSheet(f *excelize.File, t export.Table, headerStyle int) error {
	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(t.Sheet, "A1", &header); err != nil {
		return err
	}
	if len(t.Header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(t.Header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(t.Sheet, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	rows := t.Rows
	if len(rows) == 0 && t.PadEmpty {
		blank := make([]any, len(t.Header))
		for i := range blank {
			blank[i] = ""
		}
		rows = [][]any{blank}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(t.Sheet, cell, &values); err != nil {
			return err
		}
	}

	return fitColumns(f, t)
}

// fitColumns sizes each column to its longest value within bounds.
func fitColumns(f *excelize.File, t export.Table) error {
	widths := make([]float64, len(t.Header))
	for i, h := range t.Header {
		widths[i] = float64(utf8.RuneCountInString(h))
	}
	for _, row := range t.Rows {
		for i, v := range row {
			if i >= len(widths) {
				break
			}
			if n := float64(utf8.RuneCountInString(fmt.Sprint(v))); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		w = min(max(w+2, minColWidth), maxColWidth)
		if err := f.SetColWidth(t.Sheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}
