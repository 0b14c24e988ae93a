package csvenc

import "strings"

// Encode serializes a header plus ordered rows as CSV text: one line for the
// header, one per row, lines joined by a single newline with no trailing
// newline. Fields containing a comma, quote or line break are quoted
// RFC 4180 style; everything else is emitted verbatim so output bytes stay
// deterministic across runs.
func Encode(header []string, rows [][]string) string {
	var b strings.Builder
	writeLine(&b, header)
	for _, row := range rows {
		b.WriteByte('\n')
		writeLine(&b, row)
	}
	return b.String()
}

func writeLine(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escape(f))
	}
}

func escape(field string) string {
	if !strings.ContainsAny(field, ",\"\r\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
