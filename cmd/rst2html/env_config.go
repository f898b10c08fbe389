package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-rst2html/internal/config"
)

// envPrefix is the prefix of every recognized environment variable.
const envPrefix = "RST2HTML_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string // RST2HTML_CONFIG: config file name or path
	Style      string // RST2HTML_STYLE: CSS style name or path

	// Tier 2 - I/O
	InputDir  string // RST2HTML_INPUT_DIR: default input directory
	OutputDir string // RST2HTML_OUTPUT_DIR: default output directory
	Workers   int    // RST2HTML_WORKERS: parallel workers

	// Tier 3 - Rendering
	Inventory      string // RST2HTML_INVENTORY: role link table
	LinkBase       string // RST2HTML_LINK_BASE: base URL for relative links
	HighlightStyle string // RST2HTML_HIGHLIGHT_STYLE: chroma style
	AssetPath      string // RST2HTML_ASSET_PATH: custom asset directory
}

// knownEnvVars lists valid RST2HTML_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"RST2HTML_CONFIG":          true,
	"RST2HTML_STYLE":           true,
	"RST2HTML_INPUT_DIR":       true,
	"RST2HTML_OUTPUT_DIR":      true,
	"RST2HTML_WORKERS":         true,
	"RST2HTML_INVENTORY":       true,
	"RST2HTML_LINK_BASE":       true,
	"RST2HTML_HIGHLIGHT_STYLE": true,
	"RST2HTML_ASSET_PATH":      true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:     os.Getenv("RST2HTML_CONFIG"),
		Style:          os.Getenv("RST2HTML_STYLE"),
		InputDir:       os.Getenv("RST2HTML_INPUT_DIR"),
		OutputDir:      os.Getenv("RST2HTML_OUTPUT_DIR"),
		Inventory:      os.Getenv("RST2HTML_INVENTORY"),
		LinkBase:       os.Getenv("RST2HTML_LINK_BASE"),
		HighlightStyle: os.Getenv("RST2HTML_HIGHLIGHT_STYLE"),
		AssetPath:      os.Getenv("RST2HTML_ASSET_PATH"),
	}

	// Invalid or non-positive values fall back to auto sizing.
	if workers := os.Getenv("RST2HTML_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// unknownEnvVars returns the RST2HTML_* variables that are not recognized,
// such as RST2HTML_STYEL.
func unknownEnvVars() []string {
	var unknown []string
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the config file; CLI flags are applied later via
// mergeFlags. Result: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" {
		cfg.CSS.Style = env.Style
	}
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Inventory != "" {
		cfg.Roles.Inventory = env.Inventory
	}
	if env.LinkBase != "" {
		cfg.Roles.BaseURL = env.LinkBase
	}
	if env.HighlightStyle != "" {
		cfg.Highlight.Style = env.HighlightStyle
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
}
