package rst2html

import "github.com/alnah/go-rst2html/internal/pipeline"

// Parse builds the document tree for text. It never fails: constructs that
// do not match a rule fall back to paragraphs or plain text.
func Parse(text string) *Document {
	return pipeline.Parse(text)
}

// Render turns doc into an HTML fragment. Roles are resolved through
// opts.RoleResolver; unresolved ones render as <code>.
func Render(doc *Document, opts RenderOptions) string {
	return pipeline.Render(doc, opts)
}

// ParseInline scans a single run of inline markup.
func ParseInline(text string) []Inline {
	return pipeline.ParseInline(text)
}

// ToHTML parses and renders text in one step.
func ToHTML(text string, resolver RoleResolver) string {
	return pipeline.Render(pipeline.Parse(text), RenderOptions{RoleResolver: resolver})
}
