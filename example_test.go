package rst2html_test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alnah/go-rst2html"
)

// Example renders a docstring fragment with the bare engine.
func Example() {
	doc := rst2html.Parse("Parameters\n----------\n\nvalue : int\n    The *input* value.\n")
	fmt.Println(rst2html.Render(doc, rst2html.RenderOptions{}))
	// Output:
	// <h2>Parameters</h2>
	// <dl>
	// <dt>value : int</dt>
	// <dd><p>The <em>input</em> value.</p></dd>
	// </dl>
}

// Example_roleResolver links roles through a custom resolver.
func Example_roleResolver() {
	resolver := rst2html.RoleResolverFunc(func(role, value string) *rst2html.RoleTarget {
		if role == "class" {
			return &rst2html.RoleTarget{Href: "/api/" + value + ".html"}
		}
		return nil
	})

	fmt.Println(rst2html.ToHTML("See :class:`Client` and :func:`connect`.", resolver))
	// Output: <p>See <a href="/api/Client.html">Client</a> and <code>connect</code>.</p>
}

// Example_literalBlock shows the "::" literal block trigger.
func Example_literalBlock() {
	fmt.Println(rst2html.ToHTML("Example::\n\n    x = 1\n", nil))
	// Output:
	// <p>Example:</p>
	// <pre><code>x = 1</code></pre>
}

// Example_admonition shows a versioned directive.
func Example_admonition() {
	fmt.Println(rst2html.ToHTML(".. deprecated:: 0.9\n\n   Use :func:`load` instead.\n", nil))
	// Output:
	// <aside class="admonition deprecated">
	// <p class="admonition-title">Deprecated: 0.9</p>
	// <p>Use <code>load</code> instead.</p>
	// </aside>
}

// ExampleConverter_Convert produces a standalone page with a table of contents.
func ExampleConverter_Convert() {
	conv, err := rst2html.NewConverter(
		rst2html.WithRoleTemplates(map[string]string{"class": "/api/{value}.html"}),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	source := "Guide\n=====\n\nInstall\n-------\n\nUse :class:`Client`.\n\nRun\n---\n"
	result, err := conv.Convert(context.Background(), rst2html.Input{
		Source:     source,
		Standalone: true,
		TOC:        &rst2html.TOC{Title: "Contents"},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	html := string(result.HTML)
	fmt.Println(result.Title)
	fmt.Println(strings.Contains(html, `<nav class="toc">`))
	fmt.Println(strings.Contains(html, `<a href="/api/Client.html">Client</a>`))
	// Output:
	// Guide
	// true
	// true
}

// ExampleConverter_Convert_markdown converts a Markdown source.
func ExampleConverter_Convert_markdown() {
	conv, err := rst2html.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	result, err := conv.Convert(context.Background(), rst2html.Input{
		Source: "# Notes\n\nPlain *markdown*.",
		Format: rst2html.FormatMarkdown,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(result.Title)
	// Output: Notes
}

// Example_concurrent shares one Converter between goroutines.
func Example_concurrent() {
	conv, err := rst2html.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	sources := []string{"One\n===\n", "Two\n===\n", "Three\n=====\n"}
	titles := make([]string, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src string) {
			defer wg.Done()
			result, err := conv.Convert(context.Background(), rst2html.Input{Source: src})
			if err != nil {
				titles[i] = "error: " + err.Error()
				return
			}
			titles[i] = result.Title
		}(i, src)
	}
	wg.Wait()

	fmt.Println(strings.Join(titles, ", "))
	// Output: One, Two, Three
}
