package pipeline

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// headingLevels maps adornment characters to heading levels. The first
// character is level 1, the second level 2, and so on.
var headingLevels = [6]byte{'=', '-', '~', '^', '"', '\''}

// Precompiled block patterns.
var (
	// ".. name" or ".. name:: argument"
	directivePattern = regexp.MustCompile(`^\.\.[ \t]+([A-Za-z][\w-]*)(?:(::)(?:[ \t]+(.*))?)?$`)

	// "- item", "+ item", "* item"
	bulletPattern = regexp.MustCompile(`^([-+*])(?:[ \t]+(.*))?$`)

	// "1. item", "2) item"
	orderedPattern = regexp.MustCompile(`^(\d+)([.)])(?:[ \t]+(.*))?$`)

	// "name : type" with optional dotted or hyphenated continuation
	fieldPattern = regexp.MustCompile(`^(\*{0,2}[A-Za-z_]\w*(?:[.-]\w+)*)[ \t]+:(?:[ \t]+(.*))?$`)
)

// Parse builds a document tree from raw markup. It never fails: input that
// matches no block grammar becomes a paragraph.
func Parse(text string) *Document {
	lines := NormalizeLines(text)
	children, _ := parseBlocks(lines, 0, 0)
	return &Document{Children: children}
}

// parseBlocks segments lines starting at start into blocks belonging to the
// context whose baseline indentation is base. It returns the blocks and the
// index of the first line that was not consumed.
func parseBlocks(lines []Line, start, base int) ([]Block, int) {
	var nodes []Block
	i := start

	for i < len(lines) {
		line := lines[i]
		if line.Blank() {
			i++
			continue
		}
		if line.Indent < base {
			break
		}

		if line.Indent > base {
			quote, next := parseBlockQuote(lines, i)
			nodes = append(nodes, quote)
			i = next
			continue
		}

		if heading, next, ok := parseHeading(lines, i, base); ok {
			nodes = append(nodes, heading)
			i = next
			continue
		}
		if admonition, next, ok := parseDirective(lines, i, base); ok {
			nodes = append(nodes, admonition)
			i = next
			continue
		}
		if list, next, ok := parseList(lines, i, base); ok {
			nodes = append(nodes, list)
			i = next
			continue
		}
		if fields, next, ok := parseFieldList(lines, i, base); ok {
			nodes = append(nodes, fields)
			i = next
			continue
		}

		blocks, next := parseParagraph(lines, i, base)
		nodes = append(nodes, blocks...)
		i = next
	}

	return nodes, i
}

// startsBlock reports whether the line at i opens a heading, directive, list
// or field list. Used to end paragraphs.
func startsBlock(lines []Line, i, base int) bool {
	return isHeading(lines, i, base) ||
		startsDirective(lines, i, base) ||
		matchMarker(lines[i].content()) != nil ||
		fieldPattern.MatchString(lines[i].content())
}

// ---------------------------------------------------------------------------
// Headings
// ---------------------------------------------------------------------------

// underlineLevel returns the heading level for an adornment made of a single
// repeated character from headingLevels.
func underlineLevel(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	level := strings.IndexByte(string(headingLevels[:]), s[0]) + 1
	if level == 0 {
		return 0, false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return 0, false
		}
	}
	return level, true
}

// adornmentFits reports whether an adornment is long enough for its title.
// A single character only adorns a title one column wide.
func adornmentFits(adornment, title string) bool {
	return len(adornment) >= 2 || utf8.RuneCountInString(title) <= 1
}

// matchHeading recognizes a title with an underline, or a title between an
// overline and an identical underline, starting at i. The title line is
// always at next-2. Overlined titles may be inset.
func matchHeading(lines []Line, i, base int) (level, next int, ok bool) {
	if i+1 >= len(lines) {
		return 0, i, false
	}
	first, second := lines[i], lines[i+1]
	if first.Blank() || second.Blank() || first.Indent != base || second.Indent < base {
		return 0, i, false
	}

	if over, ok := underlineLevel(first.content()); ok && i+2 < len(lines) {
		under := lines[i+2]
		if under.Indent == base && under.content() == first.content() &&
			adornmentFits(first.content(), second.content()) {
			return over, i + 3, true
		}
	}

	if second.Indent != base {
		return 0, i, false
	}
	level, ok = underlineLevel(second.content())
	if !ok || !adornmentFits(second.content(), first.content()) {
		return 0, i, false
	}
	return level, i + 2, true
}

func isHeading(lines []Line, i, base int) bool {
	_, _, ok := matchHeading(lines, i, base)
	return ok
}

func parseHeading(lines []Line, i, base int) (Heading, int, bool) {
	level, next, ok := matchHeading(lines, i, base)
	if !ok {
		return Heading{}, i, false
	}
	return Heading{Level: level, Content: ParseInline(lines[next-2].content())}, next, true
}

// ---------------------------------------------------------------------------
// Directives
// ---------------------------------------------------------------------------

// nextNonBlank returns the index of the first non-blank line at or after i.
func nextNonBlank(lines []Line, i int) int {
	for i < len(lines) && lines[i].Blank() {
		i++
	}
	return i
}

// startsDirective reports whether a directive can be built at i without
// segmenting its body.
func startsDirective(lines []Line, i, base int) bool {
	m := directivePattern.FindStringSubmatch(lines[i].content())
	if m == nil {
		return false
	}
	if m[2] != "" {
		return true
	}
	j := nextNonBlank(lines, i+1)
	return j < len(lines) && lines[j].Indent > base
}

func parseDirective(lines []Line, i, base int) (Admonition, int, bool) {
	m := directivePattern.FindStringSubmatch(lines[i].content())
	if m == nil {
		return Admonition{}, i, false
	}
	name, hasMarker, arg := m[1], m[2] != "", strings.TrimSpace(m[3])

	admonition := Admonition{Name: name, Title: admonitionTitle(name, arg)}

	j := nextNonBlank(lines, i+1)
	if j < len(lines) && lines[j].Indent > base {
		body, next := parseBlocks(lines, j, lines[j].Indent)
		admonition.Body = body
		return admonition, next, true
	}

	// ".. name" with neither "::" nor a body is left to the paragraph case.
	if !hasMarker {
		return Admonition{}, i, false
	}
	return admonition, i + 1, true
}

// admonitionTitle turns "version-added" and "0.9" into "Version Added: 0.9".
func admonitionTitle(name, arg string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}

	title := strings.Join(words, " ")
	if arg != "" {
		title += ": " + arg
	}
	return title
}

// ---------------------------------------------------------------------------
// Lists
// ---------------------------------------------------------------------------

// listMarker describes the marker that opened a list item.
type listMarker struct {
	ordered bool
	char    byte // bullet character, or delimiter for ordered markers
	width   int  // marker length in columns
	rest    string
}

// matches reports whether other can continue a list opened by m.
func (m *listMarker) matches(other *listMarker) bool {
	return other != nil && other.ordered == m.ordered && other.char == m.char
}

func matchMarker(text string) *listMarker {
	if m := bulletPattern.FindStringSubmatch(text); m != nil {
		return &listMarker{char: m[1][0], width: 1, rest: m[2]}
	}
	if m := orderedPattern.FindStringSubmatch(text); m != nil {
		return &listMarker{ordered: true, char: m[2][0], width: len(m[1]) + 1, rest: m[3]}
	}
	return nil
}

func parseList(lines []Line, i, base int) (List, int, bool) {
	first := matchMarker(lines[i].content())
	if first == nil {
		return List{}, i, false
	}

	list := List{Ordered: first.ordered}
	for i < len(lines) {
		if lines[i].Blank() {
			j := nextNonBlank(lines, i)
			if j >= len(lines) || lines[j].Indent != base || !first.matches(matchMarker(lines[j].content())) {
				break
			}
			i = j
		}

		line := lines[i]
		if line.Indent != base {
			break
		}
		marker := matchMarker(line.content())
		if !first.matches(marker) {
			break
		}

		itemBase := base + marker.width + 1
		end := indentedEnd(lines, i+1, itemBase)

		sub := make([]Line, 0, end-i)
		if marker.rest != "" {
			sub = append(sub, Line{Indent: itemBase, Text: marker.rest})
		}
		sub = append(sub, lines[i+1:end]...)

		children, _ := parseBlocks(sub, 0, itemBase)
		list.Items = append(list.Items, ListItem{Children: children})
		i = end
	}

	return list, i, true
}

// indentedEnd returns the end of the run of lines starting at i that are
// blank or indented at least floor columns. Trailing blank lines are excluded.
func indentedEnd(lines []Line, i, floor int) int {
	j := i
	for j < len(lines) && (lines[j].Blank() || lines[j].Indent >= floor) {
		j++
	}
	for j > i && lines[j-1].Blank() {
		j--
	}
	return j
}

// ---------------------------------------------------------------------------
// Field lists
// ---------------------------------------------------------------------------

func parseFieldList(lines []Line, i, base int) (FieldList, int, bool) {
	if !fieldPattern.MatchString(lines[i].content()) {
		return FieldList{}, i, false
	}

	var fields FieldList
	for i < len(lines) {
		if lines[i].Blank() {
			j := nextNonBlank(lines, i)
			if j >= len(lines) || lines[j].Indent != base || !fieldPattern.MatchString(lines[j].content()) {
				break
			}
			i = j
		}

		line := lines[i]
		if line.Indent != base {
			break
		}
		m := fieldPattern.FindStringSubmatch(line.content())
		if m == nil {
			break
		}

		item := FieldItem{Name: m[1], TypeText: strings.TrimSpace(m[2])}
		end := indentedEnd(lines, i+1, base+1)
		if end > i+1 {
			item.Body, _ = parseBlocks(lines[:end], i+1, minIndent(lines[i+1:end]))
		}

		fields.Items = append(fields.Items, item)
		i = end
	}

	return fields, i, true
}

// minIndent returns the smallest indentation among non-blank lines.
func minIndent(lines []Line) int {
	lowest := -1
	for _, l := range lines {
		if l.Blank() {
			continue
		}
		if lowest < 0 || l.Indent < lowest {
			lowest = l.Indent
		}
	}
	if lowest < 0 {
		return 0
	}
	return lowest
}

// ---------------------------------------------------------------------------
// Block quotes, paragraphs and literal blocks
// ---------------------------------------------------------------------------

func parseBlockQuote(lines []Line, i int) (BlockQuote, int) {
	children, next := parseBlocks(lines, i, lines[i].Indent)
	return BlockQuote{Children: children}, next
}

// parseParagraph consumes the line at i and the following lines at the same
// baseline. A paragraph ending in "::" is followed by a literal block.
func parseParagraph(lines []Line, i, base int) ([]Block, int) {
	texts := []string{lines[i].content()}
	j := i + 1
	for j < len(lines) {
		line := lines[j]
		if line.Blank() || line.Indent != base || startsBlock(lines, j, base) {
			break
		}
		texts = append(texts, line.content())
		j++
	}

	last := len(texts) - 1
	if !strings.HasSuffix(texts[last], "::") {
		return []Block{Paragraph{Content: ParseInline(strings.Join(texts, "\n"))}}, j
	}

	texts[last] = strings.TrimSuffix(texts[last], "::") + ":"
	blocks := []Block{Paragraph{Content: ParseInline(strings.Join(texts, "\n"))}}

	if code, next, ok := parseLiteralBlock(lines, j, base); ok {
		blocks = append(blocks, code)
		j = next
	}
	return blocks, j
}

// parseLiteralBlock collects the lines indented deeper than base that follow
// position i, skipping leading blank lines, and strips their common indentation.
func parseLiteralBlock(lines []Line, i, base int) (CodeBlock, int, bool) {
	start := nextNonBlank(lines, i)
	if start >= len(lines) || lines[start].Indent <= base {
		return CodeBlock{}, i, false
	}

	end := indentedEnd(lines, start, base+1)
	block := lines[start:end]
	strip := minIndent(block)

	out := make([]string, len(block))
	for k, l := range block {
		if l.Blank() {
			continue
		}
		out[k] = strings.Repeat(" ", l.Indent-strip) + l.Text
	}

	return CodeBlock{Text: strings.Join(out, "\n")}, end, true
}
