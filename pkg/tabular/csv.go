package tabular

import "strings"

// MIMEType is the content type served with exported documents.
const MIMEType = "text/csv; charset=utf-8"

// Artifact is a ready-to-download export: the encoded bytes plus the
// metadata the transport layer needs to serve them.
type Artifact struct {
	Name string
	MIME string
	Data []byte
}

// EncodeCSV renders t with RFC 4180 minimal quoting: a cell is wrapped in
// double quotes only when it contains a comma, a double quote, or a newline,
// with internal quotes doubled. Rows are joined with "\n". encoding/csv is
// deliberately not used here; its quoting triggers and line endings differ
// from this byte-exact format.
func EncodeCSV(t Table) string {
	var b strings.Builder
	writeRow(&b, t.Headers)
	for _, row := range t.Rows {
		b.WriteByte('\n')
		writeRow(&b, row)
	}
	return b.String()
}

// Export pairs the encoded document with its download metadata. Callers pick
// the base name; the conventional default is "table_<messageIndex>".
func Export(t Table, baseName string) Artifact {
	return Artifact{
		Name: baseName + ".csv",
		MIME: MIMEType,
		Data: []byte(EncodeCSV(t)),
	}
}

func writeRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeCell(cell))
	}
}

func escapeCell(cell string) string {
	if !strings.ContainsAny(cell, ",\"\n") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}
