package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strconv"
	"strings"
)

// ErrPageRender indicates the page template failed to execute.
var ErrPageRender = errors.New("page template rendering failed")

// ---------------------------------------------------------------------------
// Page wrapping
// ---------------------------------------------------------------------------

// PageData is the input of the page template.
type PageData struct {
	Title string
	Lang  string
	Body  template.HTML // rendered fragment, trusted
}

// PageRenderer wraps a fragment in a complete HTML document.
type PageRenderer struct {
	tmpl *template.Template
}

// NewPageRenderer parses the page template.
func NewPageRenderer(tmplContent string) (*PageRenderer, error) {
	tmpl, err := template.New("page").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return &PageRenderer{tmpl: tmpl}, nil
}

// RenderPage executes the template with data. Lang defaults to "en".
func (p *PageRenderer) RenderPage(ctx context.Context, data PageData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if data.Lang == "" {
		data.Lang = "en"
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.String(), nil
}

// ---------------------------------------------------------------------------
// CSS injection
// ---------------------------------------------------------------------------

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, else right after the
// opening <body> tag, else at the start of the content.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	block := "<style>" + sanitizeCSS(cssContent) + "</style>"
	if idx := strings.Index(strings.ToLower(htmlContent), "</head>"); idx != -1 {
		return htmlContent[:idx] + block + htmlContent[idx:]
	}
	if pos, ok := afterOpenTag(htmlContent, "body"); ok {
		return htmlContent[:pos] + block + htmlContent[pos:]
	}
	return block + htmlContent
}

// sanitizeCSS escapes "</" so the stylesheet cannot close its <style> element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// afterOpenTag returns the position just past the first <tag ...> in s.
func afterOpenTag(s, tag string) (int, bool) {
	lower := strings.ToLower(s)
	open := "<" + tag
	for from := 0; ; {
		idx := strings.Index(lower[from:], open)
		if idx == -1 {
			return 0, false
		}
		idx += from
		next := idx + len(open)
		// Reject prefixes of longer names such as <bodyx>.
		if next < len(s) && (s[next] == '>' || s[next] == ' ' || s[next] == '\t' || s[next] == '\n') {
			end := strings.IndexByte(s[next:], '>')
			if end == -1 {
				return 0, false
			}
			return next + end + 1, true
		}
		from = next
	}
}

// ---------------------------------------------------------------------------
// Table of contents
// ---------------------------------------------------------------------------

// TOCOptions selects the headings listed in a table of contents.
type TOCOptions struct {
	Title    string
	MinDepth int // first heading level listed, 1-6
	MaxDepth int // last heading level listed, 1-6
}

// TOCInjector defines the contract for TOC injection into HTML.
type TOCInjector interface {
	InjectTOC(ctx context.Context, htmlContent string, opts *TOCOptions) (string, error)
}

// tocEntry is a heading found in rendered HTML.
type tocEntry struct {
	Level int
	ID    string
	Text  string
}

// headingPattern matches h1-h6 elements carrying an id.
// Captures: 1=level, 2=id, 3=inner HTML
var headingPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)

// htmlTagPattern matches any tag, used to flatten heading content.
var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// headingText flattens heading markup to plain text. Entities are decoded so
// that the TOC does not double-escape them.
func headingText(s string) string {
	return strings.TrimSpace(html.UnescapeString(htmlTagPattern.ReplaceAllString(s, "")))
}

// collectHeadings returns the headings with an id between minDepth and
// maxDepth, in document order.
func collectHeadings(htmlContent string, minDepth, maxDepth int) []tocEntry {
	var entries []tocEntry
	for _, m := range headingPattern.FindAllStringSubmatch(htmlContent, -1) {
		level, _ := strconv.Atoi(m[1])
		if level < minDepth || level > maxDepth {
			continue
		}
		entries = append(entries, tocEntry{Level: level, ID: m[2], Text: headingText(m[3])})
	}
	return entries
}

// outline assigns hierarchical numbers such as "2.1." to headings. Depth is
// the number of shallower headings still open, so skipped levels collapse:
// h1 followed by two h3s numbers both h3s as children of the h1.
type outline struct {
	counters [6]int
	open     []int // raw levels of the enclosing headings, shallowest first
}

func (o *outline) next(level int) (string, int) {
	for len(o.open) > 0 && o.open[len(o.open)-1] >= level {
		o.open = o.open[:len(o.open)-1]
	}
	o.open = append(o.open, level)
	depth := len(o.open)

	o.counters[depth-1]++
	for i := depth; i < len(o.counters); i++ {
		o.counters[i] = 0
	}

	var b strings.Builder
	for i := 0; i < depth; i++ {
		b.WriteString(strconv.Itoa(o.counters[i]))
		b.WriteByte('.')
	}
	return b.String(), depth
}

// buildTOC renders entries as a numbered <nav>. Nesting is expressed with
// padding so the list is independent of list-style rules in page CSS.
func buildTOC(entries []tocEntry, title string) string {
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<nav class="toc">`)
	if title != "" {
		b.WriteString(`<p class="toc-title">` + escapeHTML(title) + `</p>`)
	}
	b.WriteString(`<div class="toc-list">`)

	var o outline
	for _, e := range entries {
		num, depth := o.next(e.Level)
		b.WriteString(`<div class="toc-item"`)
		if depth > 1 {
			fmt.Fprintf(&b, ` style="padding-left:%.1fem"`, float64(depth-1)*1.5)
		}
		b.WriteString(`><a href="#` + escapeHTML(e.ID) + `">` + num + " " + escapeHTML(e.Text) + `</a></div>`)
	}

	b.WriteString(`</div></nav>`)
	return b.String()
}

// TOCInjection implements TOCInjector.
type TOCInjection struct{}

// NewTOCInjection creates a TOC injector.
func NewTOCInjection() *TOCInjection {
	return &TOCInjection{}
}

// InjectTOC builds a numbered table of contents from headings that carry an
// id and inserts it at the start of <main>, else after <body>, else at the
// start of the content. Nil options or a document without matching headings
// leave the content unchanged.
func (t *TOCInjection) InjectTOC(ctx context.Context, htmlContent string, opts *TOCOptions) (string, error) {
	if opts == nil {
		return htmlContent, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	toc := buildTOC(collectHeadings(htmlContent, opts.MinDepth, opts.MaxDepth), opts.Title)
	if toc == "" {
		return htmlContent, nil
	}

	for _, tag := range []string{"main", "body"} {
		if pos, ok := afterOpenTag(htmlContent, tag); ok {
			return htmlContent[:pos] + toc + htmlContent[pos:], nil
		}
	}
	return toc + htmlContent, nil
}
