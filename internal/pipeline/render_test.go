package pipeline

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty document",
			input: "",
			want:  "",
		},
		{
			name:  "heading",
			input: "Title\n-----\n",
			want:  "<h2>Title</h2>",
		},
		{
			name:  "paragraphs joined by newline",
			input: "one\n\ntwo\n",
			want:  "<p>one</p>\n<p>two</p>",
		},
		{
			name:  "nested list",
			input: "- a\n  - b\n- c\n",
			want:  "<ul>\n<li><p>a</p>\n<ul>\n<li><p>b</p></li>\n</ul></li>\n<li><p>c</p></li>\n</ul>",
		},
		{
			name:  "ordered list",
			input: "1. one\n",
			want:  "<ol>\n<li><p>one</p></li>\n</ol>",
		},
		{
			name:  "literal block",
			input: "Example::\n\n    code line\n",
			want:  "<p>Example:</p>\n<pre><code>code line</code></pre>",
		},
		{
			name:  "code is escaped verbatim",
			input: "Code::\n\n    if a < b && c:\n        print(\"x\")\n",
			want:  "<p>Code:</p>\n<pre><code>if a &lt; b &amp;&amp; c:\n    print(&quot;x&quot;)</code></pre>",
		},
		{
			name:  "unresolved role",
			input: "See :class:`Foo`.",
			want:  "<p>See <code>Foo</code>.</p>",
		},
		{
			name:  "unmatched asterisk",
			input: "a * b",
			want:  "<p>a * b</p>",
		},
		{
			name:  "inline markup",
			input: "**b** *i* ``c``",
			want:  "<p><strong>b</strong> <em>i</em> <code>c</code></p>",
		},
		{
			name:  "text escaping",
			input: `<b> & "q" 'x'`,
			want:  "<p>&lt;b&gt; &amp; &quot;q&quot; &#39;x&#39;</p>",
		},
		{
			name:  "field list",
			input: "x : int\n    The value.\nflag :\n    A flag.\n",
			want:  "<dl>\n<dt>x : int</dt>\n<dd><p>The value.</p></dd>\n<dt>flag</dt>\n<dd><p>A flag.</p></dd>\n</dl>",
		},
		{
			name:  "field without body",
			input: "x : int\n",
			want:  "<dl>\n<dt>x : int</dt>\n<dd></dd>\n</dl>",
		},
		{
			name:  "block quote",
			input: "Intro\n\n    quoted text\n",
			want:  "<p>Intro</p>\n<blockquote>\n<p>quoted text</p>\n</blockquote>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Render(Parse(tt.input), RenderOptions{})
			if got != tt.want {
				t.Errorf("Render(Parse(%q)) =\n%s\nwant:\n%s", tt.input, got, tt.want)
			}
		})
	}
}

func TestRender_NilDocument(t *testing.T) {
	t.Parallel()

	if got := Render(nil, RenderOptions{}); got != "" {
		t.Errorf("Render(nil) = %q, want empty", got)
	}
}

// ---------------------------------------------------------------------------
// Roles
// ---------------------------------------------------------------------------

func TestRender_RoleResolver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		resolver RoleResolver
		input    string
		want     string
	}{
		{
			name: "resolved role uses value as label",
			resolver: RoleResolverFunc(func(role, value string) *RoleTarget {
				return &RoleTarget{Href: "/x"}
			}),
			input: "See :class:`Foo`.",
			want:  `<p>See <a href="/x">Foo</a>.</p>`,
		},
		{
			name: "resolver text replaces label",
			resolver: RoleResolverFunc(func(role, value string) *RoleTarget {
				return &RoleTarget{Href: "/api#" + value, Text: "the Foo class"}
			}),
			input: ":class:`Foo`",
			want:  `<p><a href="/api#Foo">the Foo class</a></p>`,
		},
		{
			name: "resolver miss falls back to code",
			resolver: RoleResolverFunc(func(role, value string) *RoleTarget {
				return nil
			}),
			input: ":func:`bar`",
			want:  "<p><code>bar</code></p>",
		},
		{
			name: "target without href renders its label as code",
			resolver: RoleResolverFunc(func(role, value string) *RoleTarget {
				return &RoleTarget{Text: "label"}
			}),
			input: ":func:`bar`",
			want:  "<p><code>label</code></p>",
		},
		{
			name: "empty target falls back to code",
			resolver: RoleResolverFunc(func(role, value string) *RoleTarget {
				return &RoleTarget{}
			}),
			input: ":func:`bar`",
			want:  "<p><code>bar</code></p>",
		},
		{
			name:     "nil func resolves nothing",
			resolver: RoleResolverFunc(nil),
			input:    ":func:`bar`",
			want:     "<p><code>bar</code></p>",
		},
		{
			name: "href and label are escaped",
			resolver: RoleResolverFunc(func(role, value string) *RoleTarget {
				return &RoleTarget{Href: `/q?a=1&b="2"`}
			}),
			input: ":func:`a<b`",
			want:  `<p><a href="/q?a=1&amp;b=&quot;2&quot;">a&lt;b</a></p>`,
		},
		{
			name: "resolver receives role and value",
			resolver: RoleResolverFunc(func(role, value string) *RoleTarget {
				if role == "py:meth" && value == "Foo.bar" {
					return &RoleTarget{Href: "ok"}
				}
				return nil
			}),
			input: ":py:meth:`Foo.bar`",
			want:  `<p><a href="ok">Foo.bar</a></p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Render(Parse(tt.input), RenderOptions{RoleResolver: tt.resolver})
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Structure
// ---------------------------------------------------------------------------

func TestRender_Admonition(t *testing.T) {
	t.Parallel()

	html := Render(Parse(".. deprecated:: 0.9\n\n   Use *other* instead.\n"), RenderOptions{})
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing rendered HTML: %v", err)
	}

	aside := doc.Find("aside.admonition")
	if aside.Length() != 1 {
		t.Fatalf("expected one aside.admonition, got %d in %s", aside.Length(), html)
	}
	if !aside.HasClass("deprecated") {
		class, _ := aside.Attr("class")
		t.Errorf("aside class = %q, want it to contain %q", class, "deprecated")
	}
	if got := aside.Find("p.admonition-title").Text(); got != "Deprecated: 0.9" {
		t.Errorf("admonition title = %q, want %q", got, "Deprecated: 0.9")
	}
	if got := aside.Find("p em").Text(); got != "other" {
		t.Errorf("body emphasis = %q, want %q", got, "other")
	}
}

func TestRender_HeadingIDs(t *testing.T) {
	t.Parallel()

	input := "Getting Started\n===============\n\nUsage\n-----\n\nUsage\n-----\n\nUsage\n-----\n"
	html := Render(Parse(input), RenderOptions{HeadingIDs: true})

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing rendered HTML: %v", err)
	}

	var ids []string
	doc.Find("h1, h2").Each(func(_ int, s *goquery.Selection) {
		id, ok := s.Attr("id")
		if !ok || id == "" {
			t.Errorf("heading %q has no id", s.Text())
		}
		ids = append(ids, id)
	})
	if len(ids) != 4 {
		t.Fatalf("expected 4 headings, got %d in %s", len(ids), html)
	}

	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate heading id %q in %v", id, ids)
		}
		seen[id] = true
	}
	if ids[2] != ids[1]+"-1" || ids[3] != ids[1]+"-2" {
		t.Errorf("duplicate headings should be suffixed: got %v", ids)
	}
}

func TestRender_HeadingIDsDisabled(t *testing.T) {
	t.Parallel()

	html := Render(Parse("Title\n=====\n"), RenderOptions{})
	if strings.Contains(html, "id=") {
		t.Errorf("heading ids rendered without HeadingIDs: %s", html)
	}
}

// stubHighlighter upper-cases code in a marker element and declines "skip".
type stubHighlighter struct{}

func (stubHighlighter) Highlight(code string) (string, bool) {
	if code == "skip" {
		return "", false
	}
	return `<pre class="hl">` + strings.ToUpper(code) + `</pre>`, true
}

func TestRender_Highlighter(t *testing.T) {
	t.Parallel()

	opts := RenderOptions{Highlighter: stubHighlighter{}}

	got := Render(Parse("Run::\n\n    go test\n"), opts)
	if want := "<p>Run:</p>\n<pre class=\"hl\">GO TEST</pre>"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	got = Render(Parse("Run::\n\n    skip\n"), opts)
	if want := "<p>Run:</p>\n<pre><code>skip</code></pre>"; got != want {
		t.Errorf("declined highlight: Render() = %q, want %q", got, want)
	}
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	doc := Parse("A\n==\n\nA\n==\n\n:class:`X` and *y*\n\n.. note:: z\n")
	opts := RenderOptions{
		HeadingIDs: true,
		RoleResolver: RoleResolverFunc(func(role, value string) *RoleTarget {
			return &RoleTarget{Href: "#" + value}
		}),
	}

	first := Render(doc, opts)
	for i := 0; i < 10; i++ {
		if got := Render(doc, opts); got != first {
			t.Fatalf("Render not deterministic:\n%s\nvs\n%s", first, got)
		}
	}
}
