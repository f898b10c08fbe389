// Package config loads rst2html configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/alnah/go-rst2html/internal/fileutil"
	"github.com/alnah/go-rst2html/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigInvalid   = errors.New("invalid config")
)

// Validation errors are keyed by the YAML names users write.
func init() {
	validation.ErrorTag = "yaml"
}

// Field length limits.
const (
	MaxPathLength     = 4096
	MaxURLLength      = 2048
	MaxNameLength     = 100
	MaxTOCTitleLength = 100
)

// AppDir is the directory name under the user config directory.
const AppDir = "go-rst2html"

var (
	roleName     = regexp.MustCompile(`^[\w:]+$`)
	languageName = regexp.MustCompile(`^[\w+#.-]+$`)
)

// Config holds all configuration for document conversion.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	CSS       CSSConfig       `yaml:"css"`
	Highlight HighlightConfig `yaml:"highlight"`
	Headings  HeadingsConfig  `yaml:"headings"`
	TOC       TOCConfig       `yaml:"toc"`
	Roles     RolesConfig     `yaml:"roles"`
	Assets    AssetsConfig    `yaml:"assets"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir  string `yaml:"defaultDir"`  // Default input directory (empty = must specify)
	FrontMatter bool   `yaml:"frontMatter"` // Strip a leading "---" YAML block
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Standalone bool   `yaml:"standalone"` // Wrap fragments in a full HTML page
}

// CSSConfig defines page styling options.
type CSSConfig struct {
	Style string `yaml:"style"` // Embedded style name or CSS file path (empty = no CSS)
}

// HighlightConfig defines syntax highlighting of literal blocks.
type HighlightConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Language string `yaml:"language"` // Empty = detect per block
	Style    string `yaml:"style"`    // Chroma style name
}

// HeadingsConfig defines heading rendering options.
type HeadingsConfig struct {
	IDs bool `yaml:"ids"` // Slug id attribute on every heading
}

// TOCConfig defines table of contents options.
type TOCConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Title    string `yaml:"title"`    // Empty = no title above TOC
	MinDepth int    `yaml:"minDepth"` // 1-6, default 2
	MaxDepth int    `yaml:"maxDepth"` // 1-6, default 3
}

// RolesConfig defines cross-reference resolution.
type RolesConfig struct {
	Inventory string            `yaml:"inventory"` // YAML link table path
	Templates map[string]string `yaml:"templates"` // role -> URL with {value}
	BaseURL   string            `yaml:"baseURL"`   // Base for relative links
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// Validate checks every section. Called automatically by LoadConfig, but
// available for callers that build a Config by hand.
func (c *Config) Validate() error {
	err := validation.Errors{
		"input":     c.Input.validate(),
		"output":    c.Output.validate(),
		"css":       c.CSS.validate(),
		"highlight": c.Highlight.validate(),
		"toc":       c.TOC.validate(),
		"roles":     c.Roles.validate(),
		"assets":    c.Assets.validate(),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	return nil
}

func (c InputConfig) validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DefaultDir, validation.Length(0, MaxPathLength)),
	)
}

func (c OutputConfig) validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DefaultDir, validation.Length(0, MaxPathLength)),
	)
}

func (c CSSConfig) validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Style, validation.Length(0, MaxPathLength)),
	)
}

func (c HighlightConfig) validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Language, validation.Length(0, MaxNameLength), validation.Match(languageName)),
		validation.Field(&c.Style, validation.Length(0, MaxNameLength), validation.By(knownHighlightStyle)),
	)
}

func knownHighlightStyle(value any) error {
	name, _ := value.(string)
	if name == "" {
		return nil
	}
	if _, ok := styles.Registry[name]; !ok {
		return validation.NewError("config.highlight_style_unknown", fmt.Sprintf("unknown style %q", name))
	}
	return nil
}

func (c TOCConfig) validate() error {
	depth := []validation.Rule{validation.Min(0), validation.Max(6)}
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Title, validation.Length(0, MaxTOCTitleLength)),
		validation.Field(&c.MinDepth, depth...),
		validation.Field(&c.MaxDepth, depth...),
	)
	if err != nil {
		return err
	}
	if c.MinDepth > 0 && c.MaxDepth > 0 && c.MinDepth > c.MaxDepth {
		return validation.Errors{
			"minDepth": validation.NewError("config.toc_depth_order",
				fmt.Sprintf("must not exceed maxDepth (%d > %d)", c.MinDepth, c.MaxDepth)),
		}
	}
	return nil
}

func (c RolesConfig) validate() error {
	errs := validation.Errors{
		"inventory": validation.Validate(c.Inventory, validation.Length(0, MaxPathLength)),
		"baseURL":   validation.Validate(c.BaseURL, validation.Length(0, MaxURLLength), validation.By(linkBase)),
	}
	for role, tmpl := range c.Templates {
		field := "templates." + role
		switch {
		case !roleName.MatchString(role):
			errs[field] = validation.NewError("config.role_invalid", "role names may only contain letters, digits, '_' and ':'")
		case !strings.Contains(tmpl, "{value}"):
			errs[field] = validation.NewError("config.template_placeholder", "template must contain {value}")
		case len(tmpl) > MaxURLLength:
			errs[field] = validation.NewError("config.template_length", fmt.Sprintf("exceeds %d chars", MaxURLLength))
		}
	}
	return errs.Filter()
}

func linkBase(value any) error {
	s, _ := value.(string)
	if s == "" || fileutil.IsURL(s) || strings.HasPrefix(s, "/") {
		return nil
	}
	return validation.NewError("config.base_url_invalid", "must be an http(s) URL or start with /")
}

func (c AssetsConfig) validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BasePath, validation.Length(0, MaxPathLength)),
	)
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Input:     InputConfig{FrontMatter: true},
		CSS:       CSSConfig{Style: "default"},
		Highlight: HighlightConfig{Style: "github"},
		TOC:       TOCConfig{MinDepth: 2, MaxDepth: 3},
	}
}

// NotFoundError reports the locations searched for a named config.
type NotFoundError struct {
	Name  string
	Paths []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q (tried %s)", ErrConfigNotFound, e.Name, strings.Join(e.Paths, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrConfigNotFound
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys absent from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Name: nameOrPath, Paths: []string{configPath}}
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists the candidate files for a config name, in lookup order:
// the current directory, then the user config directory.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppDir, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", &NotFoundError{Name: name, Paths: paths}
}
