package export

import (
	"context"
	"regexp"
)

// Table is one sheet: a header row followed by data rows. Cells are plain
// values (string, int, float64); writers render them as they see fit.
type Table struct {
	// Sheet is the sheet name inside a workbook.
	Sheet string
	// File is the base name used when the table is written on its own,
	// e.g. as one delimited-text file.
	File   string
	Header []string
	Rows   [][]any
	// PadEmpty adds a single blank row to an empty sheet in workbook output.
	PadEmpty bool
}

// Workbook is an ordered set of tables saved under one base name.
type Workbook struct {
	Name   string
	Tables []Table
}

// File is one rendered output.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Writer renders a workbook. Implementations may produce one file for the
// whole workbook or one file per table.
type Writer interface {
	Format() string
	Write(ctx context.Context, wb Workbook) ([]File, error)
}

// Artifact is a stored export file.
type Artifact struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Size        int    `json:"size"`
	ContentType string `json:"content_type"`
}

type Result struct {
	Format string `json:"format"`
	// Fallback is set when the preferred writer failed and delimited text
	// was produced instead.
	Fallback bool       `json:"fallback"`
	Files    []Artifact `json:"files"`
}

var (
	unsafeRun   = regexp.MustCompile(`[\s/\\:*?"<>|\x00-\x1f]+`)
	leadingDots = regexp.MustCompile(`^\.+`)
)

// SanitizeLabel makes s safe inside a file name: every run of whitespace,
// path separators or other reserved characters becomes one underscore, and
// leading dots are replaced too.
func SanitizeLabel(s string) string {
	s = unsafeRun.ReplaceAllString(s, "_")
	return leadingDots.ReplaceAllString(s, "_")
}

// ScopeTag builds the file-name suffix of an attendance export: the period
// token, then "_<team>" and "_<shift>" when those filters are set.
func ScopeTag(period, teamType, shift string) string {
	tag := period
	if teamType != "" {
		tag += "_" + SanitizeLabel(teamType)
	}
	if shift != "" {
		tag += "_" + SanitizeLabel(shift)
	}
	return tag
}
