package tabular

import (
	"regexp"
	"strings"
)

// Table is a parsed pipe-delimited table. Every row holds exactly
// len(Headers) cells; Rows is never empty for a detected table.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

var (
	rowPattern       = regexp.MustCompile(`^\|.*\|$`)
	separatorPattern = regexp.MustCompile(`^\|[-:\s|]+\|$`)
)

// Detect scans raw model output for a markdown-style pipe table.
//
// The first line matching rowPattern becomes the header; a separator line
// immediately after it is consumed. Later matching lines are data rows, kept
// only when their cell count equals the header count — mismatched rows are
// dropped rather than failing the whole parse, to recover as much structure
// as possible from imperfect model output. Non-matching lines never
// terminate the scan. A header with zero accepted rows is not a table.
func Detect(raw string) (*Table, bool) {
	var headers []string
	var rows [][]string

	expectSeparator := false
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if expectSeparator {
			expectSeparator = false
			if separatorPattern.MatchString(line) {
				continue
			}
		}
		if !rowPattern.MatchString(line) {
			continue
		}
		cells := splitCells(line)
		if headers == nil {
			headers = cells
			expectSeparator = true
			continue
		}
		if len(cells) != len(headers) {
			continue
		}
		rows = append(rows, cells)
	}

	if headers == nil || len(rows) == 0 {
		return nil, false
	}
	return &Table{Headers: headers, Rows: rows}, true
}

// splitCells splits a row line on pipes, trimming each cell and dropping the
// empty edge artifacts produced by the leading and trailing delimiter.
// Interior empty cells are preserved.
func splitCells(line string) []string {
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) > 0 && parts[0] == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
