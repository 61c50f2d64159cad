// Package text flattens rich-text fragments from the dashboard into plain
// strings suitable for table cells and paragraphs.
package text

import (
	"strings"

	"golang.org/x/net/html"
)

// Flatten strips markup from s and collapses whitespace. Input without
// markup passes through with whitespace collapsed only.
func Flatten(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapse(s)
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return collapse(s)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n == nil {
			return
		}
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			// Skip non-content subtrees entirely
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		// Block-level boundaries become single spaces so adjacent
		// paragraphs do not run together
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "div", "br", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
				b.WriteString(" ")
			}
		}
	}
	walk(doc)
	return collapse(b.String())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
