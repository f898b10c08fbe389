package main

// Notes:
// - runConvert tests use real files in t.TempDir and the real converter.
//   They read RST2HTML_* variables, so they only assert on behavior that
//   no variable in the test environment can change.

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	rst2html "github.com/alnah/go-rst2html"
	"github.com/alnah/go-rst2html/internal/config"
)

// ---------------------------------------------------------------------------
// TestMergeFlags - CLI flags over config
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags convertFlags
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name:  "no flags keep config",
			flags: convertFlags{},
			check: func(t *testing.T, cfg *config.Config) {
				if diff := cmp.Diff(config.DefaultConfig(), cfg); diff != "" {
					t.Errorf("config changed (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "document flags",
			flags: convertFlags{document: documentFlags{
				standalone: true,
				noFront:    true,
			}},
			check: func(t *testing.T, cfg *config.Config) {
				if !cfg.Output.Standalone {
					t.Error("Output.Standalone = false, want true")
				}
				if cfg.Input.FrontMatter {
					t.Error("Input.FrontMatter = true, want false")
				}
			},
		},
		{
			name:  "style override",
			flags: convertFlags{style: styleFlags{style: "plain", assetPath: "assets"}},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.CSS.Style != "plain" || cfg.Assets.BasePath != "assets" {
					t.Errorf("CSS.Style = %q, Assets.BasePath = %q", cfg.CSS.Style, cfg.Assets.BasePath)
				}
			},
		},
		{
			name:  "no-style wins over style",
			flags: convertFlags{style: styleFlags{style: "plain", disabled: true}},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.CSS.Style != "" {
					t.Errorf("CSS.Style = %q, want empty", cfg.CSS.Style)
				}
			},
		},
		{
			name:  "highlight auto detects",
			flags: convertFlags{highlight: highlightFlags{language: highlightAuto, style: "monokai"}},
			check: func(t *testing.T, cfg *config.Config) {
				if !cfg.Highlight.Enabled || cfg.Highlight.Language != "" || cfg.Highlight.Style != "monokai" {
					t.Errorf("Highlight = %+v", cfg.Highlight)
				}
			},
		},
		{
			name:  "highlight forced language",
			flags: convertFlags{highlight: highlightFlags{language: "python"}},
			check: func(t *testing.T, cfg *config.Config) {
				if !cfg.Highlight.Enabled || cfg.Highlight.Language != "python" {
					t.Errorf("Highlight = %+v", cfg.Highlight)
				}
			},
		},
		{
			name:  "no-highlight wins",
			flags: convertFlags{highlight: highlightFlags{language: "go", disabled: true}},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Highlight.Enabled {
					t.Error("Highlight.Enabled = true, want false")
				}
			},
		},
		{
			name: "toc flags",
			flags: convertFlags{headingIDs: true, toc: tocFlags{
				enabled: true, title: "Contents", minDepth: 1, maxDepth: 4,
			}},
			check: func(t *testing.T, cfg *config.Config) {
				want := config.TOCConfig{Enabled: true, Title: "Contents", MinDepth: 1, MaxDepth: 4}
				if cfg.TOC != want {
					t.Errorf("TOC = %+v, want %+v", cfg.TOC, want)
				}
				if !cfg.Headings.IDs {
					t.Error("Headings.IDs = false, want true")
				}
			},
		},
		{
			name:  "no-toc wins",
			flags: convertFlags{toc: tocFlags{enabled: true, disabled: true}},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.TOC.Enabled {
					t.Error("TOC.Enabled = true, want false")
				}
			},
		},
		{
			name:  "role flags",
			flags: convertFlags{roles: roleFlags{inventory: "inv.yaml", linkBase: "/docs/"}},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Roles.Inventory != "inv.yaml" || cfg.Roles.BaseURL != "/docs/" {
					t.Errorf("Roles = %+v", cfg.Roles)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			mergeFlags(&tt.flags, cfg)
			tt.check(t, cfg)
		})
	}
}

// ---------------------------------------------------------------------------
// TestConverterOptions - Config to converter
// ---------------------------------------------------------------------------

func TestConverterOptions(t *testing.T) {
	t.Parallel()

	t.Run("defaults build a converter", func(t *testing.T) {
		t.Parallel()

		if _, err := rst2html.NewConverter(converterOptions(config.DefaultConfig())...); err != nil {
			t.Fatalf("NewConverter() error = %v", err)
		}
	})

	t.Run("every section becomes an option", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Assets.BasePath = t.TempDir()
		cfg.Highlight.Enabled = true
		cfg.Headings.IDs = true
		cfg.Roles.Inventory = "inv.yaml"
		cfg.Roles.Templates = map[string]string{"issue": "https://example.com/{value}"}
		cfg.Roles.BaseURL = "/docs/"

		// style, asset path, front matter, highlighting, heading ids,
		// inventory, templates, link base
		if got := len(converterOptions(cfg)); got != 8 {
			t.Errorf("len(options) = %d, want 8", got)
		}
	})

	t.Run("bad highlight style surfaces", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Highlight.Enabled = true
		cfg.Highlight.Style = "no-such-style"
		_, err := rst2html.NewConverter(converterOptions(cfg)...)
		if !errors.Is(err, rst2html.ErrUnknownHighlightStyle) {
			t.Errorf("NewConverter() error = %v, want ErrUnknownHighlightStyle", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestBuildTOC
// ---------------------------------------------------------------------------

func TestBuildTOC(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	if got := buildTOC(cfg); got != nil {
		t.Errorf("buildTOC(disabled) = %+v, want nil", got)
	}

	cfg.TOC = config.TOCConfig{Enabled: true, Title: "On this page", MinDepth: 2, MaxDepth: 4}
	want := &rst2html.TOC{Title: "On this page", MinDepth: 2, MaxDepth: 4}
	if diff := cmp.Diff(want, buildTOC(cfg)); diff != "" {
		t.Errorf("buildTOC() mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestParseFormat
// ---------------------------------------------------------------------------

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		want    rst2html.Format
		wantErr bool
	}{
		{"", "", false},
		{"rst", rst2html.FormatRST, false},
		{"ReST", rst2html.FormatRST, false},
		{"md", rst2html.FormatMarkdown, false},
		{"markdown", rst2html.FormatMarkdown, false},
		{"asciidoc", "", true},
	}

	for _, tt := range tests {
		got, err := parseFormat(tt.value)
		if tt.wantErr {
			if !errors.Is(err, rst2html.ErrUnsupportedFormat) {
				t.Errorf("parseFormat(%q) error = %v, want ErrUnsupportedFormat", tt.value, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("parseFormat(%q) = %q, %v, want %q", tt.value, got, err, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestResolveInputPath / TestResolveOutputDir / TestResolveWorkers
// ---------------------------------------------------------------------------

func TestResolveInputPath(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	if _, err := resolveInputPath(nil, cfg); !errors.Is(err, ErrNoInput) {
		t.Errorf("no input: error = %v, want ErrNoInput", err)
	}

	cfg.Input.DefaultDir = "docs"
	if got, _ := resolveInputPath(nil, cfg); got != "docs" {
		t.Errorf("config dir: got %q, want docs", got)
	}
	if got, _ := resolveInputPath([]string{"guide.rst"}, cfg); got != "guide.rst" {
		t.Errorf("argument: got %q, want guide.rst", got)
	}
}

func TestResolveOutputDir(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Output.DefaultDir = "site"
	if got := resolveOutputDir("", cfg); got != "site" {
		t.Errorf("got %q, want site", got)
	}
	if got := resolveOutputDir("out", cfg); got != "out" {
		t.Errorf("got %q, want out", got)
	}
}

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		flag, env, nfiles int
		want              int
	}{
		{"flag wins", 3, 8, 10, 3},
		{"env used without flag", 0, 2, 10, 2},
		{"capped by file count", 8, 0, 2, 2},
		{"single file", 0, 0, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := resolveWorkers(tt.flag, tt.env, tt.nfiles); got != tt.want {
				t.Errorf("resolveWorkers(%d, %d, %d) = %d, want %d", tt.flag, tt.env, tt.nfiles, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunConvert - End to end
// ---------------------------------------------------------------------------

func TestRunConvert(t *testing.T) {
	t.Parallel()

	t.Run("fragment next to source", func(t *testing.T) {
		t.Parallel()

		dir := setupTestDir(t, map[string]string{
			"guide.rst": "Guide\n=====\n\nHello *world*.\n",
		})
		env, stdout, _ := testEnv()

		err := runConvert(context.Background(), []string{filepath.Join(dir, "guide.rst")}, &convertFlags{}, env)
		if err != nil {
			t.Fatalf("runConvert() error = %v", err)
		}

		got := readFile(t, filepath.Join(dir, "guide.html"))
		if !strings.Contains(got, "<p>Hello <em>world</em>.</p>") {
			t.Errorf("output = %q", got)
		}
		if strings.Contains(got, "<html") {
			t.Errorf("fragment should not be a page: %q", got)
		}
		if !strings.Contains(stdout.String(), "Created") {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("standalone directory with toc", func(t *testing.T) {
		t.Parallel()

		dir := setupTestDir(t, map[string]string{
			"index.rst":    "---\ntitle: Home\n---\nHome\n====\n\nSetup\n-----\n\nText.\n",
			"api/ref.md":   "# Reference\n\n## Calls\n",
			"skipped.txt":  "not converted\n",
			".cache/x.rst": "hidden\n",
		})
		out := filepath.Join(t.TempDir(), "site")
		env, _, _ := testEnv()
		flags := &convertFlags{
			output:   out,
			workers:  2,
			document: documentFlags{standalone: true},
			toc:      tocFlags{enabled: true},
			common:   commonFlags{quiet: true},
		}

		if err := runConvert(context.Background(), []string{dir}, flags, env); err != nil {
			t.Fatalf("runConvert() error = %v", err)
		}

		index := readFile(t, filepath.Join(out, "index.html"))
		for _, want := range []string{"<!DOCTYPE html>", "<title>Home</title>", `href="#setup"`} {
			if !strings.Contains(index, want) {
				t.Errorf("index.html missing %q:\n%s", want, index)
			}
		}
		ref := readFile(t, filepath.Join(out, "api", "ref.html"))
		if !strings.Contains(ref, "<title>Reference</title>") {
			t.Errorf("ref.html title missing:\n%s", ref)
		}
		if fileExists(filepath.Join(out, "skipped.html")) || fileExists(filepath.Join(out, ".cache", "x.html")) {
			t.Error("txt or hidden sources should be skipped")
		}
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()

		dir := setupTestDir(t, map[string]string{"a.rst": "x\n", "b.png": "x"})
		tests := []struct {
			name  string
			args  []string
			flags convertFlags
			want  error
		}{
			{"bad workers", []string{dir}, convertFlags{workers: 99}, ErrInvalidWorkerCount},
			{"two inputs", []string{dir, dir}, convertFlags{}, ErrUsage},
			{"bad format", []string{dir}, convertFlags{document: documentFlags{format: "tex"}}, rst2html.ErrUnsupportedFormat},
			{"unsupported file", []string{filepath.Join(dir, "b.png")}, convertFlags{}, ErrUnsupportedInput},
			{"empty directory", []string{t.TempDir()}, convertFlags{}, ErrNoSources},
			{"bad toc depth", []string{dir}, convertFlags{toc: tocFlags{enabled: true, minDepth: 5, maxDepth: 2}}, config.ErrConfigInvalid},
			{"unknown style", []string{dir}, convertFlags{style: styleFlags{style: "neon"}}, rst2html.ErrStyleNotFound},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				env, _, _ := testEnv()
				err := runConvert(context.Background(), tt.args, &tt.flags, env)
				if !errors.Is(err, tt.want) {
					t.Errorf("runConvert() error = %v, want %v", err, tt.want)
				}
			})
		}
	})

	t.Run("failed conversions reported", func(t *testing.T) {
		t.Parallel()

		dir := setupTestDir(t, map[string]string{
			"a.rst": "---\ntitle: [broken\n---\nBody\n",
			"b.rst": "Fine\n",
		})
		env, _, stderr := testEnv()

		err := runConvert(context.Background(), []string{dir}, &convertFlags{}, env)
		if !errors.Is(err, ErrConversionsFailed) {
			t.Fatalf("runConvert() error = %v, want ErrConversionsFailed", err)
		}
		if !strings.Contains(err.Error(), "1 of 2") {
			t.Errorf("error = %q, want count", err)
		}
		if !strings.Contains(stderr.String(), "FAILED") {
			t.Errorf("stderr = %q", stderr.String())
		}
		if !fileExists(filepath.Join(dir, "b.html")) {
			t.Error("successful file should still be written")
		}
	})
}
