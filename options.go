package rst2html

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds the settings collected from options.
type converterConfig struct {
	roleResolver   RoleResolver
	inventoryPath  string
	roleTemplates  map[string]string
	highlight      bool
	highlightLang  string
	highlightStyle string
	headingIDs     bool
	styleInput     string
	assetPath      string
	frontMatter    bool
	linkBase       string
}

// WithRoleResolver resolves roles with r before any inventory.
func WithRoleResolver(r RoleResolver) Option {
	return func(c *Converter) {
		c.cfg.roleResolver = r
	}
}

// WithInventory resolves roles against the YAML link table at path.
func WithInventory(path string) Option {
	return func(c *Converter) {
		c.cfg.inventoryPath = path
	}
}

// WithRoleTemplates resolves roles without an inventory entry through
// URL templates keyed by role name, where "{value}" stands for the role value.
func WithRoleTemplates(templates map[string]string) Option {
	return func(c *Converter) {
		c.cfg.roleTemplates = templates
	}
}

// WithHighlighting highlights literal blocks and fenced code. An empty
// language detects it per block; an empty style uses "github".
func WithHighlighting(language, style string) Option {
	return func(c *Converter) {
		c.cfg.highlight = true
		c.cfg.highlightLang = language
		c.cfg.highlightStyle = style
	}
}

// WithHeadingIDs adds slug ids to headings. A TOC enables them regardless.
func WithHeadingIDs() Option {
	return func(c *Converter) {
		c.cfg.headingIDs = true
	}
}

// WithStyle sets the page stylesheet for standalone output: a style name
// ("default", "plain", or one from the asset path) or a CSS file path.
// The default is "default"; an empty value disables the stylesheet.
func WithStyle(nameOrPath string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = nameOrPath
	}
}

// WithAssetPath loads styles and the page template from dir first,
// falling back to the embedded assets.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithFrontMatter strips a leading "---" YAML block and uses its title
// and lang keys.
func WithFrontMatter() Option {
	return func(c *Converter) {
		c.cfg.frontMatter = true
	}
}

// WithLinkBase resolves relative link targets against base, an absolute
// URL or a path starting with "/".
func WithLinkBase(base string) Option {
	return func(c *Converter) {
		c.cfg.linkBase = base
	}
}
