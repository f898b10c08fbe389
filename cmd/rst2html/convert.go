package main

import (
	"context"
	"fmt"
	"strings"

	rst2html "github.com/alnah/go-rst2html"
	"github.com/alnah/go-rst2html/internal/config"
)

// runConvertCmd parses flags and runs the convert command.
func runConvertCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	return runConvert(ctx, positional, flags, env)
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	if len(positionalArgs) > 1 {
		return fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(positionalArgs))
	}

	for _, name := range unknownEnvVars() {
		printWarning(env, "unknown environment variable %s (typo?)", name)
	}
	envCfg := loadEnvConfig()

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	format, err := parseFormat(flags.document.format)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoSources, inputPath)
	}

	conv, err := rst2html.NewConverter(converterOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("initializing converter: %w", err)
	}

	params := &conversionParams{
		format:     format,
		standalone: cfg.Output.Standalone,
		title:      flags.document.title,
		lang:       flags.document.lang,
		toc:        buildTOC(cfg),
	}

	workers := resolveWorkers(flags.workers, envCfg.Workers, len(files))
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Workers: %d\n", workers)
	}

	start := env.Now()
	results := convertBatch(ctx, conv, files, params, workers, env.Now)
	elapsed := env.Now().Sub(start)

	failed := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, elapsed, env)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrConversionsFailed, failed, len(results))
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

// loadConfig loads the config named by the flag, else by RST2HTML_CONFIG,
// else returns the defaults.
func loadConfig(flagConfig string, envCfg *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	// Document flags
	if flags.document.standalone {
		cfg.Output.Standalone = true
	}
	if flags.document.noFront {
		cfg.Input.FrontMatter = false
	}

	// Style flags
	if flags.style.style != "" {
		cfg.CSS.Style = flags.style.style
	}
	if flags.style.assetPath != "" {
		cfg.Assets.BasePath = flags.style.assetPath
	}

	// Highlight flags
	if flags.highlight.language != "" {
		cfg.Highlight.Enabled = true
		if flags.highlight.language != highlightAuto {
			cfg.Highlight.Language = flags.highlight.language
		}
	}
	if flags.highlight.style != "" {
		cfg.Highlight.Style = flags.highlight.style
	}

	// Heading and TOC flags
	if flags.headingIDs {
		cfg.Headings.IDs = true
	}
	if flags.toc.enabled {
		cfg.TOC.Enabled = true
	}
	if flags.toc.title != "" {
		cfg.TOC.Title = flags.toc.title
	}
	if flags.toc.minDepth > 0 {
		cfg.TOC.MinDepth = flags.toc.minDepth
	}
	if flags.toc.maxDepth > 0 {
		cfg.TOC.MaxDepth = flags.toc.maxDepth
	}

	// Role flags
	if flags.roles.inventory != "" {
		cfg.Roles.Inventory = flags.roles.inventory
	}
	if flags.roles.linkBase != "" {
		cfg.Roles.BaseURL = flags.roles.linkBase
	}

	// Disable flags
	if flags.style.disabled {
		cfg.CSS.Style = ""
	}
	if flags.highlight.disabled {
		cfg.Highlight.Enabled = false
	}
	if flags.toc.disabled {
		cfg.TOC.Enabled = false
	}
}

// converterOptions translates cfg into Converter options.
func converterOptions(cfg *config.Config) []rst2html.Option {
	opts := []rst2html.Option{rst2html.WithStyle(cfg.CSS.Style)}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, rst2html.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Input.FrontMatter {
		opts = append(opts, rst2html.WithFrontMatter())
	}
	if cfg.Highlight.Enabled {
		opts = append(opts, rst2html.WithHighlighting(cfg.Highlight.Language, cfg.Highlight.Style))
	}
	if cfg.Headings.IDs {
		opts = append(opts, rst2html.WithHeadingIDs())
	}
	if cfg.Roles.Inventory != "" {
		opts = append(opts, rst2html.WithInventory(cfg.Roles.Inventory))
	}
	if len(cfg.Roles.Templates) > 0 {
		opts = append(opts, rst2html.WithRoleTemplates(cfg.Roles.Templates))
	}
	if cfg.Roles.BaseURL != "" {
		opts = append(opts, rst2html.WithLinkBase(cfg.Roles.BaseURL))
	}
	return opts
}

// buildTOC creates the TOC request from config, or nil when disabled.
func buildTOC(cfg *config.Config) *rst2html.TOC {
	if !cfg.TOC.Enabled {
		return nil
	}
	return &rst2html.TOC{
		Title:    cfg.TOC.Title,
		MinDepth: cfg.TOC.MinDepth,
		MaxDepth: cfg.TOC.MaxDepth,
	}
}

// parseFormat validates a --format value. Empty means per-file detection.
func parseFormat(value string) (rst2html.Format, error) {
	switch strings.ToLower(value) {
	case "":
		return "", nil
	case "rst", "rest":
		return rst2html.FormatRST, nil
	case "markdown", "md":
		return rst2html.FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q (use rst or markdown)", rst2html.ErrUnsupportedFormat, value)
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// resolveWorkers picks the worker count: flag > env > GOMAXPROCS, never
// more than there are files.
func resolveWorkers(flagWorkers, envWorkers, files int) int {
	n := flagWorkers
	if n == 0 {
		n = envWorkers
	}
	return max(min(rst2html.ResolveWorkers(n), files), 1)
}
