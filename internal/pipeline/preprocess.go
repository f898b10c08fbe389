package pipeline

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/goccy/go-yaml"
)

// ErrFrontMatter indicates a front matter block could not be decoded.
var ErrFrontMatter = errors.New("invalid front matter")

// crlfOrCR matches Windows and classic Mac line endings.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// yamlKeyLine matches the first line of a YAML mapping ("title: x").
var yamlKeyLine = regexp.MustCompile(`^[A-Za-z_][\w-]*:(\s|$)`)

// FrontMatter holds the metadata recognised in a leading front matter block.
// Other keys are ignored.
type FrontMatter struct {
	Title string `yaml:"title"`
	Lang  string `yaml:"lang"`
}

// yamlFrontMatter is the only recognised front matter format. The other
// defaults of the frontmatter package ("{", "+++") collide with prose.
var yamlFrontMatter = frontmatter.NewFormat("---", "---", func(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
})

// Preprocessed is the source after preprocessing.
type Preprocessed struct {
	Body        string
	FrontMatter FrontMatter
}

// SourcePreprocessor defines the contract for source preprocessing.
type SourcePreprocessor interface {
	Preprocess(ctx context.Context, content string) (*Preprocessed, error)
}

// TextPreprocessor prepares raw source text for parsing.
type TextPreprocessor struct {
	// FrontMatter enables stripping a leading "---" YAML block.
	FrontMatter bool
}

// Preprocess normalizes line endings, drops a leading byte order mark and,
// when enabled, extracts the front matter block.
func (p *TextPreprocessor) Preprocess(ctx context.Context, content string) (*Preprocessed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content = strings.TrimPrefix(content, "\uFEFF")
	content = normalizeLineEndings(content)

	out := &Preprocessed{Body: content}
	if !p.FrontMatter {
		return out, nil
	}

	if !hasFrontMatter(content) {
		return out, nil
	}

	var meta FrontMatter
	body, err := frontmatter.Parse(strings.NewReader(content), &meta, yamlFrontMatter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}
	out.Body = string(body)
	out.FrontMatter = meta
	return out, nil
}

// hasFrontMatter reports whether content opens with a "---" block whose
// first line is a YAML key. Other blocks, such as a reStructuredText
// overline title, are markup.
func hasFrontMatter(content string) bool {
	rest, ok := strings.CutPrefix(content, "---\n")
	if !ok {
		return false
	}
	first, _, _ := strings.Cut(strings.TrimLeft(rest, "\n"), "\n")
	return yamlKeyLine.MatchString(first)
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}
