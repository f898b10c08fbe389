package pipeline

import (
	"context"
	"errors"
	"html/template"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
)

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"no escape needed", "p { color: red; }", "p { color: red; }"},
		{"escapes style close", "</style>", `<\/style>`},
		{"mixed case", "</StYlE>", `<\/StYlE>`},
		{"multiple occurrences", "</a></b>", `<\/a><\/b>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := sanitizeCSS(tt.input); got != tt.expected {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		css      string
		expected string
	}{
		{
			name:     "empty css leaves html unchanged",
			html:     "<p>x</p>",
			css:      "",
			expected: "<p>x</p>",
		},
		{
			name:     "before closing head",
			html:     "<html><head><title>t</title></head><body></body></html>",
			css:      "p{}",
			expected: "<html><head><title>t</title><style>p{}</style></head><body></body></html>",
		},
		{
			name:     "uppercase head",
			html:     "<HTML><HEAD></HEAD></HTML>",
			css:      "p{}",
			expected: "<HTML><HEAD><style>p{}</style></HEAD></HTML>",
		},
		{
			name:     "after body with attributes",
			html:     `<body class="doc"><p>x</p></body>`,
			css:      "p{}",
			expected: `<body class="doc"><style>p{}</style><p>x</p></body>`,
		},
		{
			name:     "fragment is prefixed",
			html:     "<p>x</p>",
			css:      "p{}",
			expected: "<style>p{}</style><p>x</p>",
		},
		{
			name:     "css is sanitized",
			html:     "<p>x</p>",
			css:      "</style><script>",
			expected: `<style><\/style><script></style><p>x</p>`,
		},
	}

	injector := &CSSInjection{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := injector.InjectCSS(context.Background(), tt.html, tt.css)
			if got != tt.expected {
				t.Errorf("InjectCSS() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestInjectCSS_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	injector := &CSSInjection{}
	if got := injector.InjectCSS(ctx, "<p>x</p>", "p{}"); got != "<p>x</p>" {
		t.Errorf("cancelled InjectCSS() = %q, want input unchanged", got)
	}
}

func TestAfterOpenTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		html    string
		tag     string
		wantPos int
		wantOK  bool
	}{
		{"simple", "<body>x", "body", 6, true},
		{"attributes", `<body id="a">x`, "body", 13, true},
		{"longer name skipped", "<bodyx><body>", "body", 13, true},
		{"missing", "<p>x</p>", "body", 0, false},
		{"unterminated", "<body", "body", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pos, ok := afterOpenTag(tt.html, tt.tag)
			if pos != tt.wantPos || ok != tt.wantOK {
				t.Errorf("afterOpenTag(%q, %q) = (%d, %v), want (%d, %v)", tt.html, tt.tag, pos, ok, tt.wantPos, tt.wantOK)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Page wrapping
// ---------------------------------------------------------------------------

const testPageTemplate = `<!DOCTYPE html><html lang="{{.Lang}}"><head><title>{{.Title}}</title></head><body><main>{{.Body}}</main></body></html>`

func TestRenderPage(t *testing.T) {
	t.Parallel()

	renderer, err := NewPageRenderer(testPageTemplate)
	if err != nil {
		t.Fatalf("NewPageRenderer() error = %v", err)
	}

	got, err := renderer.RenderPage(context.Background(), PageData{
		Title: "A <b> title",
		Body:  template.HTML("<p>body</p>"),
	})
	if err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}

	want := `<!DOCTYPE html><html lang="en"><head><title>A &lt;b&gt; title</title></head><body><main><p>body</p></main></body></html>`
	if got != want {
		t.Errorf("RenderPage() =\n%s\nwant:\n%s", got, want)
	}
}

func TestNewPageRenderer_ParseError(t *testing.T) {
	t.Parallel()

	if _, err := NewPageRenderer("{{.Title"); err == nil {
		t.Fatal("expected parse error for unterminated action")
	}
}

func TestRenderPage_ExecuteError(t *testing.T) {
	t.Parallel()

	renderer, err := NewPageRenderer("{{.Missing}}")
	if err != nil {
		t.Fatal(err)
	}

	_, err = renderer.RenderPage(context.Background(), PageData{})
	if !errors.Is(err, ErrPageRender) {
		t.Errorf("RenderPage() error = %v, want ErrPageRender", err)
	}
}

func TestRenderPage_ContextCancellation(t *testing.T) {
	t.Parallel()

	renderer, err := NewPageRenderer(testPageTemplate)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderer.RenderPage(ctx, PageData{}); !errors.Is(err, context.Canceled) {
		t.Errorf("RenderPage() error = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// Table of contents
// ---------------------------------------------------------------------------

func TestCollectHeadings(t *testing.T) {
	t.Parallel()

	input := `<h1 id="top">Top</h1>` +
		`<h2 id="a">A &amp; <code>b</code></h2>` +
		`<h2>No id</h2>` +
		`<H3 class="x" id="c">C</H3>` +
		`<h4 id="d">D</h4>`

	got := collectHeadings(input, 2, 3)
	want := []tocEntry{
		{Level: 2, ID: "a", Text: "A & b"},
		{Level: 3, ID: "c", Text: "C"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("collectHeadings() mismatch (-want +got):\n%s", diff)
	}
}

func TestOutline_Next(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		levels    []int
		wantNums  []string
		wantDepth []int
	}{
		{
			name:      "flat",
			levels:    []int{2, 2, 2},
			wantNums:  []string{"1.", "2.", "3."},
			wantDepth: []int{1, 1, 1},
		},
		{
			name:      "nested",
			levels:    []int{2, 3, 3, 2, 3},
			wantNums:  []string{"1.", "1.1.", "1.2.", "2.", "2.1."},
			wantDepth: []int{1, 2, 2, 1, 2},
		},
		{
			name:      "skipped level collapses",
			levels:    []int{1, 3, 3},
			wantNums:  []string{"1.", "1.1.", "1.2."},
			wantDepth: []int{1, 2, 2},
		},
		{
			name:      "skipped level siblings after return",
			levels:    []int{1, 3, 3, 1, 3},
			wantNums:  []string{"1.", "1.1.", "1.2.", "2.", "2.1."},
			wantDepth: []int{1, 2, 2, 1, 2},
		},
		{
			name:      "intermediate level under skipped one",
			levels:    []int{1, 3, 2, 3},
			wantNums:  []string{"1.", "1.1.", "1.2.", "1.2.1."},
			wantDepth: []int{1, 2, 2, 3},
		},
		{
			name:      "shallower than first heading",
			levels:    []int{2, 1},
			wantNums:  []string{"1.", "2."},
			wantDepth: []int{1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var o outline
			for i, level := range tt.levels {
				num, depth := o.next(level)
				if num != tt.wantNums[i] || depth != tt.wantDepth[i] {
					t.Errorf("next(%d) #%d = (%q, %d), want (%q, %d)", level, i, num, depth, tt.wantNums[i], tt.wantDepth[i])
				}
			}
		})
	}
}

func TestBuildTOC(t *testing.T) {
	t.Parallel()

	if got := buildTOC(nil, "Contents"); got != "" {
		t.Errorf("buildTOC(nil) = %q, want empty", got)
	}

	got := buildTOC([]tocEntry{
		{Level: 2, ID: "intro", Text: "Intro"},
		{Level: 3, ID: "a&b", Text: "A <b>"},
	}, "Contents")
	want := `<nav class="toc"><p class="toc-title">Contents</p><div class="toc-list">` +
		`<div class="toc-item"><a href="#intro">1. Intro</a></div>` +
		`<div class="toc-item" style="padding-left:1.5em"><a href="#a&amp;b">1.1. A &lt;b&gt;</a></div>` +
		`</div></nav>`
	if got != want {
		t.Errorf("buildTOC() =\n%s\nwant:\n%s", got, want)
	}
}

func TestInjectTOC(t *testing.T) {
	t.Parallel()

	body := `<h2 id="one">One</h2><p>x</p><h3 id="two">Two</h3>`
	opts := &TOCOptions{Title: "Contents", MinDepth: 2, MaxDepth: 3}
	injector := NewTOCInjection()

	t.Run("inside main", func(t *testing.T) {
		t.Parallel()

		page := `<html><body><header>h</header><main class="doc">` + body + `</main></body></html>`
		got, err := injector.InjectTOC(context.Background(), page, opts)
		if err != nil {
			t.Fatal(err)
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(got))
		if err != nil {
			t.Fatal(err)
		}
		if doc.Find("main > nav.toc:first-child").Length() != 1 {
			t.Errorf("TOC should be the first child of main:\n%s", got)
		}
		links := doc.Find("nav.toc a")
		if links.Length() != 2 {
			t.Fatalf("expected 2 TOC links, got %d", links.Length())
		}
		if href, _ := links.Eq(1).Attr("href"); href != "#two" {
			t.Errorf("second link href = %q, want %q", href, "#two")
		}
	})

	t.Run("after body", func(t *testing.T) {
		t.Parallel()

		got, err := injector.InjectTOC(context.Background(), "<body>"+body+"</body>", opts)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(got, `<body><nav class="toc">`) {
			t.Errorf("TOC should follow <body>: %s", got)
		}
	})

	t.Run("fragment", func(t *testing.T) {
		t.Parallel()

		got, err := injector.InjectTOC(context.Background(), body, opts)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(got, `<nav class="toc">`) || !strings.HasSuffix(got, body) {
			t.Errorf("TOC should prefix the fragment: %s", got)
		}
	})

	t.Run("nil options", func(t *testing.T) {
		t.Parallel()

		got, err := injector.InjectTOC(context.Background(), body, nil)
		if err != nil || got != body {
			t.Errorf("InjectTOC(nil) = (%q, %v), want input unchanged", got, err)
		}
	})

	t.Run("no matching headings", func(t *testing.T) {
		t.Parallel()

		got, err := injector.InjectTOC(context.Background(), body, &TOCOptions{MinDepth: 5, MaxDepth: 6})
		if err != nil || got != body {
			t.Errorf("InjectTOC() = (%q, %v), want input unchanged", got, err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := injector.InjectTOC(ctx, body, opts); !errors.Is(err, context.Canceled) {
			t.Errorf("InjectTOC() error = %v, want context.Canceled", err)
		}
	})
}
