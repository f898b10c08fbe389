package rst2html

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-rst2html/internal/pipeline"
)

// Format identifies the markup language of a source.
type Format string

// Supported source formats.
const (
	FormatRST      Format = "rst"
	FormatMarkdown Format = "markdown"
)

// extensionFormats maps source file extensions to formats.
var extensionFormats = map[string]Format{
	".rst":      FormatRST,
	".rest":     FormatRST,
	".txt":      FormatRST,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
}

// SourceExtensions lists the file extensions FormatForPath recognizes.
func SourceExtensions() []string {
	return []string{".rst", ".rest", ".txt", ".md", ".markdown"}
}

// FormatForPath returns the format implied by the extension of path.
func FormatForPath(path string) (Format, bool) {
	f, ok := extensionFormats[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// TOC depth bounds.
const (
	DefaultTOCMinDepth = 2
	DefaultTOCMaxDepth = 3
)

// TOC configures the table of contents. Zero depths use the defaults.
type TOC struct {
	Title    string
	MinDepth int // 1-6, 0 = DefaultTOCMinDepth
	MaxDepth int // 1-6, 0 = DefaultTOCMaxDepth
}

// Validate checks the depth range. A nil TOC is valid.
func (t *TOC) Validate() error {
	if t == nil {
		return nil
	}
	if t.MinDepth < 0 || t.MinDepth > 6 {
		return fmt.Errorf("%w: minDepth %d (must be 0-6)", ErrInvalidTOCDepth, t.MinDepth)
	}
	if t.MaxDepth < 0 || t.MaxDepth > 6 {
		return fmt.Errorf("%w: maxDepth %d (must be 0-6)", ErrInvalidTOCDepth, t.MaxDepth)
	}
	if lo, hi := t.depths(); lo > hi {
		return fmt.Errorf("%w: minDepth %d exceeds maxDepth %d", ErrInvalidTOCDepth, lo, hi)
	}
	return nil
}

func (t *TOC) depths() (int, int) {
	lo, hi := t.MinDepth, t.MaxDepth
	if lo == 0 {
		lo = DefaultTOCMinDepth
	}
	if hi == 0 {
		hi = DefaultTOCMaxDepth
	}
	return lo, hi
}

func (t *TOC) options() *pipeline.TOCOptions {
	if t == nil {
		return nil
	}
	lo, hi := t.depths()
	return &pipeline.TOCOptions{Title: t.Title, MinDepth: lo, MaxDepth: hi}
}

// Input is a single conversion request.
type Input struct {
	Source     string // markup text
	Format     Format // "" = FormatRST
	Title      string // page title; falls back to front matter, then the first heading
	Lang       string // page language; falls back to front matter, then "en"
	Standalone bool   // wrap the fragment in a full HTML page
	CSS        string // extra CSS appended after the style (standalone only)
	TOC        *TOC   // table of contents (nil = none)
	LinkBase   string // overrides WithLinkBase for this input
}

// Result is the outcome of a conversion.
type Result struct {
	HTML     []byte
	Title    string
	Document *Document // nil for Markdown sources
}

// Document tree types.
type (
	Document   = pipeline.Document
	Block      = pipeline.Block
	Inline     = pipeline.Inline
	Paragraph  = pipeline.Paragraph
	Heading    = pipeline.Heading
	CodeBlock  = pipeline.CodeBlock
	List       = pipeline.List
	ListItem   = pipeline.ListItem
	FieldList  = pipeline.FieldList
	FieldItem  = pipeline.FieldItem
	Admonition = pipeline.Admonition
	BlockQuote = pipeline.BlockQuote
	Text       = pipeline.Text
	Emphasis   = pipeline.Emphasis
	Strong     = pipeline.Strong
	Literal    = pipeline.Literal
	Role       = pipeline.Role
)

// Rendering types.
type (
	RenderOptions    = pipeline.RenderOptions
	RoleTarget       = pipeline.RoleTarget
	RoleResolver     = pipeline.RoleResolver
	RoleResolverFunc = pipeline.RoleResolverFunc
	CodeHighlighter  = pipeline.CodeHighlighter
)
