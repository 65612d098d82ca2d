package export

import (
	"fmt"
	"strings"
	"time"
)

// Supported output formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// Sheet is a titled table. Every row is expected to have len(Columns) cells.
type Sheet struct {
	Title       string
	Subtitle    string
	Columns     []string
	Rows        [][]string
	GeneratedAt time.Time
}

// Renderer turns a sheet into a downloadable document.
type Renderer interface {
	Render(Sheet) ([]byte, error)
	ContentType() string
	Extension() string
}

// ForFormat returns the renderer for a format name. Matching is case-insensitive.
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV, "":
		return NewCSVRenderer(), nil
	case FormatPDF:
		return NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// Filename builds a safe download name such as "cs101-gradebook.csv".
func Filename(base string, r Renderer) string {
	var b strings.Builder
	for _, ch := range strings.ToLower(base) {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
			b.WriteRune(ch)
		case ch == ' ':
			b.WriteRune('-')
		}
	}
	name := b.String()
	if name == "" {
		name = "export"
	}
	return name + "." + r.Extension()
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
