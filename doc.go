// Package rst2html converts reStructuredText documentation into HTML.
//
// # Quick Start
//
// Render a fragment with the bare engine:
//
//	doc := rst2html.Parse("Title\n=====\n\nSome *emphasis* and :class:`Foo`.\n")
//	html := rst2html.Render(doc, rst2html.RenderOptions{})
//
// Or use a Converter for full pages, highlighting and role inventories:
//
//	conv, err := rst2html.NewConverter(
//	    rst2html.WithInventory("links.yaml"),
//	    rst2html.WithHighlighting("python", "github"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, rst2html.Input{
//	    Source:     text,
//	    Standalone: true,
//	    TOC:        &rst2html.TOC{Title: "Contents"},
//	})
//
// # Conversion Pipeline
//
//  1. Preprocessing (byte order mark, line endings, optional front matter)
//  2. Line normalization and block segmentation into a document tree
//  3. Inline scanning of paragraph, heading and field text
//  4. Rendering to an HTML fragment, resolving roles at render time
//  5. Optional link rebasing, page wrapping, CSS and TOC injection
//
// Markdown sources (Input.Format = FormatMarkdown) skip steps 2 to 4 and go
// through Goldmark instead.
//
// # Supported Markup
//
// Section headings with an underline or a matching overline and underline,
// paragraphs, bullet and enumerated lists, "name : type" field lists, literal
// blocks introduced by "::", directives such as note, warning and deprecated
// rendered as admonitions, and block quotes. Inline markup covers emphasis,
// strong text, double-backquoted literals and roles:
//
//	*emphasis* **strong** ``literal`` :role:`target`
//
// Tables, footnotes, substitutions and hyperlink targets are not supported.
//
// # Roles
//
// Roles resolve through a RoleResolver. WithInventory loads a YAML table:
//
//	templates:
//	  class: https://docs.example.com/api/{value}.html
//	entries:
//	  - role: func
//	    name: pkg.io.load
//	    href: https://docs.example.com/api/io.html#load
//
// A "~" prefix shortens the label to the last dotted component and a "!"
// prefix suppresses the link. Unresolved roles render as <code>.
//
// # Concurrency
//
// Parse and Render share no state. A Converter is immutable after
// NewConverter and safe for concurrent use; ResolveWorkers sizes a batch.
package rst2html
