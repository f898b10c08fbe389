package pipeline

import "strings"

// tabWidth is the column width of a leading tab.
const tabWidth = 4

// Line is one logical source line with its indentation separated out.
type Line struct {
	Indent int    // columns of leading whitespace
	Text   string // content without leading whitespace; "" for blank lines
}

// content returns the text without trailing whitespace. Only literal blocks
// see the raw text.
func (l Line) content() string {
	return strings.TrimRight(l.Text, " \t")
}

// Blank reports whether the line has no content.
func (l Line) Blank() bool {
	return l.Text == ""
}

// NormalizeLines splits raw text into lines and measures their indentation.
// Leading spaces count one column each and leading tabs four. Whitespace-only
// lines become blank lines; other lines keep their trailing whitespace. A
// trailing newline does not produce an extra line.
func NormalizeLines(raw string) []Line {
	if raw == "" {
		return []Line{}
	}

	raw = normalizeLineEndings(raw)
	raw = strings.TrimSuffix(raw, "\n")
	parts := strings.Split(raw, "\n")

	lines := make([]Line, 0, len(parts))
	for _, part := range parts {
		lines = append(lines, measureLine(part))
	}
	return lines
}

// measureLine expands leading whitespace into a column count.
func measureLine(s string) Line {
	indent := 0
	i := 0
loop:
	for ; i < len(s); i++ {
		switch s[i] {
		case ' ':
			indent++
		case '\t':
			indent += tabWidth
		default:
			break loop
		}
	}

	if strings.TrimRight(s[i:], " \t") == "" {
		return Line{}
	}
	return Line{Indent: indent, Text: s[i:]}
}
