package pipeline

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// Sentinel errors for highlighter construction.
var (
	ErrUnknownLanguage       = errors.New("unknown highlight language")
	ErrUnknownHighlightStyle = errors.New("unknown highlight style")
)

// ChromaHighlighter highlights literal blocks with chroma. It emits CSS
// classes rather than inline styles; CSS returns the matching stylesheet.
// It is safe for concurrent use.
type ChromaHighlighter struct {
	lexer     chroma.Lexer // nil means detect per block
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChromaHighlighter creates a highlighter for language using the named
// style. An empty language detects the language of every block and falls
// back to plain output when detection fails.
func NewChromaHighlighter(language, style string) (*ChromaHighlighter, error) {
	if style == "" {
		style = DefaultHighlightStyle
	}
	s, ok := styles.Registry[style]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHighlightStyle, style)
	}

	h := &ChromaHighlighter{
		style:     s,
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
	}
	if language != "" {
		lexer := lexers.Get(language)
		if lexer == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
		}
		h.lexer = chroma.Coalesce(lexer)
	}
	return h, nil
}

// Highlight implements CodeHighlighter.
func (h *ChromaHighlighter) Highlight(code string) (string, bool) {
	lexer := h.lexer
	if lexer == nil {
		lexer = lexers.Analyse(code)
		if lexer == nil {
			return "", false
		}
		lexer = chroma.Coalesce(lexer)
	}

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", false
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, it); err != nil {
		return "", false
	}
	return buf.String(), true
}

// CSS returns the stylesheet for the classes Highlight emits.
func (h *ChromaHighlighter) CSS() (string, error) {
	var buf bytes.Buffer
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return "", fmt.Errorf("writing highlight css: %w", err)
	}
	return buf.String(), nil
}
