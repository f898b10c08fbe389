package pipeline

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-slug"
)

// RoleTarget is a resolved role reference. Text replaces the role value as
// the label when non-empty. A target without Href renders its label as code.
type RoleTarget struct {
	Href string
	Text string
}

// RoleResolver turns a role reference into a link target. Returning nil
// leaves the reference unresolved.
type RoleResolver interface {
	ResolveRole(role, value string) *RoleTarget
}

// RoleResolverFunc adapts a plain function to RoleResolver.
type RoleResolverFunc func(role, value string) *RoleTarget

// ResolveRole calls f. A nil func resolves nothing.
func (f RoleResolverFunc) ResolveRole(role, value string) *RoleTarget {
	if f == nil {
		return nil
	}
	return f(role, value)
}

// CodeHighlighter renders a literal block as highlighted HTML. It returns
// false when the code should be emitted as plain escaped text instead.
type CodeHighlighter interface {
	Highlight(code string) (string, bool)
}

// RenderOptions configures Render. The zero value renders a plain fragment
// with unresolved roles.
type RenderOptions struct {
	RoleResolver RoleResolver
	Highlighter  CodeHighlighter

	// HeadingIDs adds a unique slug id attribute to every heading.
	HeadingIDs bool
}

// htmlEscaper escapes the five characters significant in HTML text and
// attribute values.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// escapeHTML escapes s for use in HTML text or a quoted attribute.
func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Render walks doc and returns an HTML fragment. It does not modify doc and
// its output depends only on doc, opts and the resolver's answers.
func Render(doc *Document, opts RenderOptions) string {
	if doc == nil {
		return ""
	}
	r := &renderer{opts: opts}
	if opts.HeadingIDs {
		r.ids = make(map[string]bool)
	}
	return r.blocks(doc.Children)
}

// renderer carries per-call state. The id table is the only mutable part
// and lives for a single Render call.
type renderer struct {
	opts RenderOptions
	ids  map[string]bool
}

func (r *renderer) blocks(nodes []Block) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, r.block(n))
	}
	return strings.Join(parts, "\n")
}

func (r *renderer) block(node Block) string {
	switch n := node.(type) {
	case Paragraph:
		return "<p>" + r.inlines(n.Content) + "</p>"

	case Heading:
		tag := "h" + strconv.Itoa(n.Level)
		open := "<" + tag
		if r.ids != nil {
			open += ` id="` + escapeHTML(r.headingID(n.Content)) + `"`
		}
		return open + ">" + r.inlines(n.Content) + "</" + tag + ">"

	case CodeBlock:
		if r.opts.Highlighter != nil {
			if out, ok := r.opts.Highlighter.Highlight(n.Text); ok {
				return out
			}
		}
		return "<pre><code>" + escapeHTML(n.Text) + "</code></pre>"

	case List:
		tag := "ul"
		if n.Ordered {
			tag = "ol"
		}
		var b strings.Builder
		b.WriteString("<" + tag + ">\n")
		for _, item := range n.Items {
			b.WriteString(r.block(item))
			b.WriteByte('\n')
		}
		b.WriteString("</" + tag + ">")
		return b.String()

	case ListItem:
		return "<li>" + r.blocks(n.Children) + "</li>"

	case FieldList:
		var b strings.Builder
		b.WriteString("<dl>\n")
		for _, item := range n.Items {
			b.WriteString(r.block(item))
			b.WriteByte('\n')
		}
		b.WriteString("</dl>")
		return b.String()

	case FieldItem:
		term := n.Name
		if n.TypeText != "" {
			term += " : " + n.TypeText
		}
		return "<dt>" + escapeHTML(term) + "</dt>\n<dd>" + r.blocks(n.Body) + "</dd>"

	case Admonition:
		var b strings.Builder
		b.WriteString(`<aside class="admonition ` + escapeHTML(admonitionClass(n.Name)) + `">`)
		b.WriteString("\n" + `<p class="admonition-title">` + escapeHTML(n.Title) + "</p>")
		if len(n.Body) > 0 {
			b.WriteString("\n" + r.blocks(n.Body))
		}
		b.WriteString("\n</aside>")
		return b.String()

	case BlockQuote:
		return "<blockquote>\n" + r.blocks(n.Children) + "\n</blockquote>"
	}
	return ""
}

func (r *renderer) inlines(nodes []Inline) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(r.inline(n))
	}
	return b.String()
}

func (r *renderer) inline(node Inline) string {
	switch n := node.(type) {
	case Text:
		return escapeHTML(n.Value)
	case Literal:
		return "<code>" + escapeHTML(n.Value) + "</code>"
	case Emphasis:
		return "<em>" + r.inlines(n.Children) + "</em>"
	case Strong:
		return "<strong>" + r.inlines(n.Children) + "</strong>"
	case Role:
		return r.role(n)
	}
	return ""
}

// role emits a link when the resolver knows the reference and a code span
// otherwise. A target without an href cannot be linked.
func (r *renderer) role(n Role) string {
	label := n.Value
	if r.opts.RoleResolver != nil {
		if target := r.opts.RoleResolver.ResolveRole(n.Role, n.Value); target != nil {
			if target.Text != "" {
				label = target.Text
			}
			if target.Href != "" {
				return `<a href="` + escapeHTML(target.Href) + `">` + escapeHTML(label) + "</a>"
			}
		}
	}
	return "<code>" + escapeHTML(label) + "</code>"
}

// headingID returns a slug for the heading text, suffixed with -1, -2, ...
// when the same slug was already handed out in this render.
func (r *renderer) headingID(content []Inline) string {
	base := slugify(PlainText(content))
	if base == "" {
		base = "section"
	}

	id := base
	for n := 1; r.ids[id]; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	r.ids[id] = true
	return id
}

// admonitionClass turns a directive name into a CSS class.
func admonitionClass(name string) string {
	if s := slugify(name); s != "" {
		return s
	}
	return strings.ToLower(name)
}

func slugify(s string) string {
	out, err := slug.Normalize(s)
	if err != nil {
		return ""
	}
	return out
}
