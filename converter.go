package rst2html

import (
	"context"
	"fmt"
	"html"
	"html/template"
	"os"
	"regexp"
	"strings"

	"github.com/alnah/go-rst2html/internal/assets"
	"github.com/alnah/go-rst2html/internal/fileutil"
	"github.com/alnah/go-rst2html/internal/inventory"
	"github.com/alnah/go-rst2html/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.SourcePreprocessor = (*pipeline.TextPreprocessor)(nil)
	_ pipeline.FragmentConverter  = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector        = (*pipeline.CSSInjection)(nil)
	_ pipeline.TOCInjector        = (*pipeline.TOCInjection)(nil)
	_ pipeline.CodeHighlighter    = (*pipeline.ChromaHighlighter)(nil)
	_ pipeline.RoleResolver       = (*inventory.Inventory)(nil)
)

// Converter turns reStructuredText or Markdown sources into HTML.
// It is immutable after NewConverter and safe for concurrent use.
type Converter struct {
	cfg          converterConfig
	assetLoader  assets.AssetLoader
	preprocessor pipeline.SourcePreprocessor
	markdown     pipeline.FragmentConverter
	markdownIDs  pipeline.FragmentConverter // heading ids forced for TOCs
	cssInjector  pipeline.CSSInjector
	tocInjector  pipeline.TOCInjector
	page         *pipeline.PageRenderer
	renderOpts   pipeline.RenderOptions
	style        string // resolved page CSS
	highlightCSS string
}

// NewConverter creates a Converter. Asset, style, inventory and
// highlighter problems are reported here rather than on every Convert.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		assetLoader: assets.NewEmbeddedLoader(),
		cssInjector: &pipeline.CSSInjection{},
		tocInjector: pipeline.NewTOCInjection(),
		cfg:         converterConfig{styleInput: assets.DefaultStyleName},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.preprocessor == nil {
		c.preprocessor = &pipeline.TextPreprocessor{FrontMatter: c.cfg.frontMatter}
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	tmpl, err := c.assetLoader.LoadTemplate(assets.PageTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading page template: %w", err)
	}
	if c.page, err = pipeline.NewPageRenderer(tmpl); err != nil {
		return nil, err
	}

	resolver, err := c.buildRoleResolver()
	if err != nil {
		return nil, err
	}
	c.renderOpts = pipeline.RenderOptions{
		RoleResolver: resolver,
		HeadingIDs:   c.cfg.headingIDs,
	}

	mdOpts := pipeline.MarkdownOptions{HeadingIDs: c.cfg.headingIDs}
	if c.cfg.highlight {
		h, err := pipeline.NewChromaHighlighter(c.cfg.highlightLang, c.cfg.highlightStyle)
		if err != nil {
			return nil, err
		}
		if c.highlightCSS, err = h.CSS(); err != nil {
			return nil, err
		}
		c.renderOpts.Highlighter = h
		mdOpts.Highlight = true
		mdOpts.HighlightStyle = c.cfg.highlightStyle
	}
	c.markdown = pipeline.NewGoldmarkConverter(mdOpts)
	mdOpts.HeadingIDs = true
	c.markdownIDs = pipeline.NewGoldmarkConverter(mdOpts)

	return c, nil
}

// Convert runs the pipeline for one input.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrConversion, r)
		}
	}()

	format, err := c.validateInput(input)
	if err != nil {
		return nil, err
	}

	pre, err := c.preprocessor.Preprocess(ctx, input.Source)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	var fragment string
	headingIDs := c.cfg.headingIDs || input.TOC != nil

	switch format {
	case FormatRST:
		doc := pipeline.Parse(pre.Body)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		opts := c.renderOpts
		opts.HeadingIDs = headingIDs
		fragment = pipeline.Render(doc, opts)
		res.Document = doc
		res.Title = documentTitle(doc)
	case FormatMarkdown:
		md := c.markdown
		if headingIDs {
			md = c.markdownIDs
		}
		if fragment, err = md.ToFragment(ctx, pre.Body); err != nil {
			return nil, err
		}
		res.Title = fragmentTitle(fragment)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if base := firstNonEmpty(input.LinkBase, c.cfg.linkBase); base != "" {
		if fragment, err = pipeline.RewriteLinkBase(fragment, base); err != nil {
			return nil, err
		}
	}

	res.Title = firstNonEmpty(input.Title, pre.FrontMatter.Title, res.Title)

	out := fragment
	if input.Standalone {
		out, err = c.page.RenderPage(ctx, pipeline.PageData{
			Title: res.Title,
			Lang:  firstNonEmpty(input.Lang, pre.FrontMatter.Lang),
			Body:  template.HTML(fragment), // #nosec G203 -- rendered and escaped by the pipeline
		})
		if err != nil {
			return nil, err
		}
		out = c.cssInjector.InjectCSS(ctx, out, c.pageCSS(input.CSS))
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	if out, err = c.tocInjector.InjectTOC(ctx, out, input.TOC.options()); err != nil {
		return nil, fmt.Errorf("injecting TOC: %w", err)
	}

	res.HTML = []byte(out)
	return res, nil
}

// HighlightCSS returns the stylesheet for highlighted code, or "" when
// highlighting is off. Standalone pages embed it automatically.
func (c *Converter) HighlightCSS() string {
	return c.highlightCSS
}

// StyleNames lists the styles WithStyle accepts by name.
func (c *Converter) StyleNames() []string {
	return c.assetLoader.StyleNames()
}

func (c *Converter) validateInput(input Input) (Format, error) {
	format := input.Format
	if format == "" {
		format = FormatRST
	}
	if format != FormatRST && format != FormatMarkdown {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, input.Format)
	}
	if err := input.TOC.Validate(); err != nil {
		return "", err
	}
	return format, nil
}

// pageCSS joins the style, the highlight stylesheet and per-input CSS in
// that order so later rules win.
func (c *Converter) pageCSS(extra string) string {
	var parts []string
	for _, css := range []string{c.style, c.highlightCSS, extra} {
		if strings.TrimSpace(css) != "" {
			parts = append(parts, css)
		}
	}
	return strings.Join(parts, "\n")
}

// resolveStyle loads the configured style from a file path or by name.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	if input == "" {
		return nil
	}
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.style = string(content)
		return nil
	}
	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	c.style = css
	return nil
}

// buildRoleResolver chains the custom resolver, the inventory file and
// the templates. The first non-nil target wins.
func (c *Converter) buildRoleResolver() (RoleResolver, error) {
	var chain resolverChain
	if c.cfg.roleResolver != nil {
		chain = append(chain, c.cfg.roleResolver)
	}
	if c.cfg.inventoryPath != "" {
		inv, err := inventory.Load(c.cfg.inventoryPath)
		if err != nil {
			return nil, err
		}
		chain = append(chain, inv)
	}
	if len(c.cfg.roleTemplates) > 0 {
		inv, err := inventory.New(c.cfg.roleTemplates, nil)
		if err != nil {
			return nil, err
		}
		chain = append(chain, inv)
	}
	switch len(chain) {
	case 0:
		return nil, nil
	case 1:
		return chain[0], nil
	}
	return chain, nil
}

type resolverChain []RoleResolver

func (rc resolverChain) ResolveRole(role, value string) *RoleTarget {
	for _, r := range rc {
		if t := r.ResolveRole(role, value); t != nil {
			return t
		}
	}
	return nil
}

// documentTitle returns the text of the first heading of doc.
func documentTitle(doc *Document) string {
	for _, b := range doc.Children {
		if h, ok := b.(pipeline.Heading); ok {
			return pipeline.PlainText(h.Content)
		}
	}
	return ""
}

var (
	firstHeadingPattern = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	tagPattern          = regexp.MustCompile(`<[^>]*>`)
)

// fragmentTitle returns the text of the first <h1> in an HTML fragment.
func fragmentTitle(fragment string) string {
	m := firstHeadingPattern.FindStringSubmatch(fragment)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(m[1], "")))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
