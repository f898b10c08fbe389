package pipeline

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrInvalidBaseURL indicates the link base is not an absolute URL or path.
var ErrInvalidBaseURL = errors.New("invalid link base URL")

// RewriteLinkBase resolves relative a[href] values against base. Anchors,
// absolute URLs and rooted paths are left alone. An empty base returns the
// HTML unchanged.
//
// Relative hrefs typically come from role inventories written relative to a
// documentation root that differs from where the page is published.
func RewriteLinkBase(htmlContent, base string) (string, error) {
	if base == "" {
		return htmlContent, nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if !baseURL.IsAbs() && !strings.HasPrefix(baseURL.Path, "/") {
		return "", fmt.Errorf("%w: %q is neither absolute nor rooted", ErrInvalidBaseURL, base)
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}
	rewriteLinks(doc, baseURL)
	return renderHTML(doc, isFragment)
}

// parseHTML parses a full page or a fragment. Fragments are parsed in body
// context and collected under a document node.
func parseHTML(content string) (*html.Node, bool, error) {
	lower := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders doc back to text. Fragments render their children only.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder
	if !isFragment {
		if err := html.Render(&buf, doc); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func rewriteLinks(n *html.Node, base *url.URL) {
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		for i, attr := range n.Attr {
			if attr.Key != "href" || !isRelativeLink(attr.Val) {
				continue
			}
			ref, err := url.Parse(attr.Val)
			if err != nil {
				continue
			}
			n.Attr[i].Val = base.ResolveReference(ref).String()
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteLinks(c, base)
	}
}

// isRelativeLink reports whether href is a document-relative reference.
func isRelativeLink(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "/") {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}
