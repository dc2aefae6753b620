package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// FindAll returns the descendants of n matching pred, in document order.
func FindAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(x *html.Node) {
			if pred(x) {
				out = append(out, x)
			}
		})
	}
	return out
}

// Find returns the first descendant of n matching pred, or nil.
func Find(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if all := FindAll(n, pred); len(all) > 0 {
		return all[0]
	}
	return nil
}

// ByTag matches elements with the given tag.
func ByTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

// ByID matches the element whose id attribute is id.
func ByID(id string) func(*html.Node) bool {
	return ByAttr("id", id)
}

// ByAttr matches elements whose attribute key equals val.
func ByAttr(key, val string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		v, ok := Attr(n, key)
		return ok && v == val
	}
}

// ByText matches elements whose text content equals text.
func ByText(text string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && TextContent(n) == text
	}
}

// TextContent concatenates the text nodes under n.
func TextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	walk(n, func(x *html.Node) {
		if x.Type == html.TextNode {
			sb.WriteString(x.Data)
		}
	})
	return sb.String()
}
