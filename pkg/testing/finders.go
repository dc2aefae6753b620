package testing

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/dom"
	"github.com/go-drift/fiber/pkg/element"
)

// Finder locates host nodes in a document.
type Finder interface {
	// Evaluate returns all matching element nodes under root (depth-first
	// pre-order). doc resolves nodes back to their fibers.
	Evaluate(doc *dom.Document, root *html.Node) []*html.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*html.Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *html.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.describe()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *html.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *html.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.describe()))
	}
	return r.nodes[index]
}

// All returns all matches in document order.
func (r FinderResult) All() []*html.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

// Text returns the text content of the first match. Panics if no matches.
func (r FinderResult) Text() string {
	return dom.TextContent(r.First())
}

// Texts returns the text content of every match.
func (r FinderResult) Texts() []string {
	out := make([]string, len(r.nodes))
	for i, n := range r.nodes {
		out[i] = dom.TextContent(n)
	}
	return out
}

// Attr returns an attribute of the first match. Panics if no matches.
func (r FinderResult) Attr(key string) (string, bool) {
	return dom.Attr(r.First(), key)
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// --- Concrete finders ---

// predicateFinder matches element nodes satisfying a predicate.
type predicateFinder struct {
	fn   func(*html.Node) bool
	desc string
}

func (f *predicateFinder) Evaluate(_ *dom.Document, root *html.Node) []*html.Node {
	return dom.FindAll(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByTag returns a finder that matches elements with the given tag.
func ByTag(tag string) Finder {
	return &predicateFinder{fn: dom.ByTag(tag), desc: fmt.Sprintf("ByTag(%s)", tag)}
}

// ByID returns a finder that matches the element with the given id attribute.
func ByID(id string) Finder {
	return &predicateFinder{fn: dom.ByID(id), desc: fmt.Sprintf("ByID(%q)", id)}
}

// ByAttr returns a finder that matches elements whose attribute key is val.
func ByAttr(key, val string) Finder {
	return &predicateFinder{fn: dom.ByAttr(key, val), desc: fmt.Sprintf("ByAttr(%s=%q)", key, val)}
}

// ByText returns a finder that matches the innermost elements whose text
// content equals text.
func ByText(text string) Finder {
	return &predicateFinder{
		fn:   innermost(dom.ByText(text)),
		desc: fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining returns a finder that matches the innermost elements
// whose text content contains substring.
func ByTextContaining(substring string) Finder {
	return &predicateFinder{
		fn: innermost(func(n *html.Node) bool {
			return n.Type == html.ElementNode && strings.Contains(dom.TextContent(n), substring)
		}),
		desc: fmt.Sprintf("ByTextContaining(%q)", substring),
	}
}

// ByPredicate returns a finder that matches element nodes satisfying fn.
func ByPredicate(fn func(*html.Node) bool) Finder {
	return &predicateFinder{
		fn: func(n *html.Node) bool {
			return n.Type == html.ElementNode && fn(n)
		},
		desc: "ByPredicate(...)",
	}
}

// innermost narrows pred to nodes with no element child matching pred, so
// text finders report the element that holds the text.
func innermost(pred func(*html.Node) bool) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if !pred(n) {
			return false
		}
		return dom.Find(n, pred) == nil
	}
}

// fiberFinder matches host nodes through the fibers that own them.
type fiberFinder struct {
	fn   func(*core.Fiber) bool
	desc string
}

func (f *fiberFinder) Evaluate(doc *dom.Document, root *html.Node) []*html.Node {
	return dom.FindAll(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		fiber, ok := doc.Handle(n).(*core.Fiber)
		return ok && f.fn(fiber)
	})
}

func (f *fiberFinder) Description() string {
	return f.desc
}

// ByKey returns a finder that matches host elements created from an element
// with the given key.
func ByKey(key string) Finder {
	return &fiberFinder{
		fn:   func(f *core.Fiber) bool { return f.Key() == key },
		desc: fmt.Sprintf("ByKey(%q)", key),
	}
}

// ByComponent returns a finder that matches the top-level host elements
// rendered by components with the given display name.
func ByComponent(name string) Finder {
	return &fiberFinder{
		fn: func(f *core.Fiber) bool {
			for p := f.Return(); p != nil; p = p.Return() {
				switch p.Tag() {
				case core.HostComponent, core.HostRoot:
					return false
				case core.FunctionComponent:
					if c, ok := p.Type().(*element.Component); ok && c.DisplayName() == name {
						return true
					}
				}
			}
			return false
		},
		desc: fmt.Sprintf("ByComponent(%s)", name),
	}
}

// descendantFinder finds nodes matching 'matching' that are descendants of
// nodes matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(doc *dom.Document, root *html.Node) []*html.Node {
	var results []*html.Node
	seen := make(map[*html.Node]bool)
	for _, ancestor := range f.of.Evaluate(doc, root) {
		for _, match := range f.matching.Evaluate(doc, ancestor) {
			if !seen[match] {
				seen[match] = true
				results = append(results, match)
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches nodes satisfying 'matching' that
// are descendants of nodes matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// ancestorFinder finds nodes matching 'matching' that are ancestors of nodes
// matching 'of'.
type ancestorFinder struct {
	of       Finder
	matching Finder
}

func (f *ancestorFinder) Evaluate(doc *dom.Document, root *html.Node) []*html.Node {
	descendants := f.of.Evaluate(doc, root)
	if len(descendants) == 0 {
		return nil
	}
	var results []*html.Node
	for _, candidate := range f.matching.Evaluate(doc, root) {
		for _, desc := range descendants {
			if isAncestorOf(candidate, desc) {
				results = append(results, candidate)
				break
			}
		}
	}
	return results
}

func (f *ancestorFinder) Description() string {
	return fmt.Sprintf("Ancestor(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Ancestor returns a finder that matches nodes satisfying 'matching' that
// are ancestors of nodes matching 'of'.
func Ancestor(of, matching Finder) Finder {
	return &ancestorFinder{of: of, matching: matching}
}

func isAncestorOf(ancestor, descendant *html.Node) bool {
	for p := descendant.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}
