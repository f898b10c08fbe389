package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrMarkdownConversion indicates Markdown conversion failed.
var ErrMarkdownConversion = errors.New("markdown conversion failed")

// FragmentConverter turns source text into an HTML fragment.
type FragmentConverter interface {
	ToFragment(ctx context.Context, content string) (string, error)
}

// MarkdownOptions configures GoldmarkConverter.
type MarkdownOptions struct {
	HeadingIDs     bool
	Highlight      bool
	HighlightStyle string // chroma style name, DefaultHighlightStyle when empty
}

// GoldmarkConverter converts Markdown sources with goldmark, so that mixed
// documentation trees produce fragments of the same shape.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a converter with GFM extensions.
func NewGoldmarkConverter(opts MarkdownOptions) *GoldmarkConverter {
	extensions := []goldmark.Extender{extension.GFM}
	if opts.Highlight {
		style := opts.HighlightStyle
		if style == "" {
			style = DefaultHighlightStyle
		}
		extensions = append(extensions, highlighting.NewHighlighting(
			highlighting.WithStyle(style),
			highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
		))
	}

	var parserOpts []parser.Option
	if opts.HeadingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(parserOpts...),
		// Raw HTML in sources stays escaped.
		goldmark.WithRendererOptions(html.WithXHTML()),
	)
	return &GoldmarkConverter{md: md}
}

// ToFragment converts Markdown to an HTML fragment. Goldmark has no context
// support, so the conversion runs in a goroutine and the call returns early
// on cancellation.
func (c *GoldmarkConverter) ToFragment(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrMarkdownConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
