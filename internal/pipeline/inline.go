package pipeline

import (
	"regexp"
	"strings"
)

// inlineDelimiters are the characters that may open an inline token.
const inlineDelimiters = ":*`"

// rolePattern matches :role:`value` at the start of the input.
var rolePattern = regexp.MustCompile("^:([\\w:]+):`([^`]+)`")

// ParseInline scans text into inline nodes. Newlines are treated as spaces.
// Delimiters without a closing counterpart are kept as plain text.
func ParseInline(text string) []Inline {
	return scanInline(strings.ReplaceAll(text, "\n", " "))
}

func scanInline(s string) []Inline {
	var nodes []Inline

	for pos := 0; pos < len(s); {
		rest := s[pos:]

		if node, width, ok := scanToken(rest); ok {
			nodes = append(nodes, node)
			pos += width
			continue
		}

		// Plain text up to the next delimiter, or the delimiter itself when
		// nothing could be opened with it.
		width := strings.IndexAny(rest, inlineDelimiters)
		switch {
		case width < 0:
			width = len(rest)
		case width == 0:
			width = 1
		}
		nodes = append(nodes, Text{Value: rest[:width]})
		pos += width
	}

	return MergeText(nodes)
}

// scanToken tries, in order, a role, a literal, strong and emphasis at the
// start of s. It returns the node and the number of bytes consumed.
func scanToken(s string) (Inline, int, bool) {
	switch s[0] {
	case ':':
		if m := rolePattern.FindStringSubmatch(s); m != nil {
			return Role{Role: m[1], Value: m[2]}, len(m[0]), true
		}
	case '`':
		if inner, ok := enclosed(s, "``"); ok {
			return Literal{Value: inner}, len(inner) + 4, true
		}
	case '*':
		if inner, ok := enclosed(s, "**"); ok {
			return Strong{Children: scanInline(inner)}, len(inner) + 4, true
		}
		if inner, ok := emphasized(s); ok {
			return Emphasis{Children: scanInline(inner)}, len(inner) + 2, true
		}
	}
	return nil, 0, false
}

// enclosed returns the non-empty content between delim at the start of s and
// the first following occurrence of delim.
func enclosed(s, delim string) (string, bool) {
	if !strings.HasPrefix(s, delim) {
		return "", false
	}
	end := strings.Index(s[len(delim):], delim)
	if end <= 0 {
		return "", false
	}
	return s[len(delim) : len(delim)+end], true
}

// emphasized returns the non-empty content of a single-star span at the start
// of s. Complete strong spans inside it are stepped over while looking for the
// closing star.
func emphasized(s string) (string, bool) {
	if !strings.HasPrefix(s, "*") {
		return "", false
	}
	for i := 1; i < len(s); {
		if inner, ok := enclosed(s[i:], "**"); ok {
			i += len(inner) + 4
			continue
		}
		if s[i] == '*' {
			if i == 1 {
				return "", false
			}
			return s[1:i], true
		}
		i++
	}
	return "", false
}

// MergeText joins consecutive Text nodes. Applying it to an already merged
// sequence returns an equal sequence.
func MergeText(nodes []Inline) []Inline {
	out := make([]Inline, 0, len(nodes))
	for _, n := range nodes {
		t, ok := n.(Text)
		if ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(Text); ok {
				out[len(out)-1] = Text{Value: prev.Value + t.Value}
				continue
			}
		}
		out = append(out, n)
	}
	return out
}
