package spreadsheet

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/export"
)

const (
	FormatCSV      = "csv"
	ContentTypeCSV = "text/csv; charset=utf-8"
)

// DelimitedWriter writes one comma-separated file per table. Every field is
// quoted and rows end with a bare newline, with no trailing newline.
type DelimitedWriter struct{}

func NewDelimitedWriter() *DelimitedWriter {
	return &DelimitedWriter{}
}

func (w *DelimitedWriter) Format() string { return FormatCSV }

// Write implements export.Writer.
func (w *DelimitedWriter) Write(ctx context.Context, wb export.Workbook) ([]export.File, error) {
	files := make([]export.File, 0, len(wb.Tables))
	for _, t := range wb.Tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := t.File
		if name == "" {
			name = wb.Name + "_" + t.Sheet
		}
		files = append(files, export.File{
			Name:        name + "." + FormatCSV,
			ContentType: ContentTypeCSV,
			Data:        []byte(Delimited(t.Header, t.Rows)),
		})
	}
	return files, nil
}

// Delimited renders header and rows as quoted comma-separated text.
func Delimited(header []string, rows [][]any) string {
	lines := make([]string, 0, len(rows)+1)

	fields := make([]string, len(header))
	for i, h := range header {
		fields[i] = EscapeField(h)
	}
	lines = append(lines, strings.Join(fields, ","))

	for _, row := range rows {
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = EscapeField(cellString(v))
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\n")
}

// EscapeField wraps v in double quotes and doubles any quote inside it.
func EscapeField(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
