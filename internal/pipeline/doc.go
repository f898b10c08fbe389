// Package pipeline implements the markup-to-HTML conversion stages.
//
// The engine itself is a pure function pair:
//   - Parse: line normalization, block segmentation and inline scanning
//     into a Document tree
//   - Render: the Document tree to an HTML fragment, with roles resolved
//     through an injected RoleResolver
//
// Around the engine the package provides the stages used to build complete
// outputs: source preprocessing (line endings, front matter), Markdown
// conversion via Goldmark, code highlighting via Chroma, tree
// serialization, link base rewriting, page wrapping, CSS injection and
// table of contents generation.
//
// Parse and Render never fail and share no state between calls; they are
// safe for concurrent use.
package pipeline
