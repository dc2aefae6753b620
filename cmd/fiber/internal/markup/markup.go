// Package markup decodes YAML element-tree documents for the render command.
//
// A document looks like:
//
//	version: v1
//	root:
//	  tag: ul
//	  props: {id: list}
//	  children:
//	    - {tag: li, key: a, text: one}
//	    - {tag: li, key: b, text: two}
//
// A node with a tag is a host element. Its text, when set, becomes the
// element's text content. A node without a tag is a text node when it has
// text and a fragment when it has children. A "null" entry renders nothing.
package markup

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/fiber/pkg/config"
	"github.com/go-drift/fiber/pkg/element"
)

// Document is one markup file.
type Document struct {
	Version string `yaml:"version" validate:"required"`
	Root    *Node  `yaml:"root"`
}

// Node is an element, text or fragment entry.
type Node struct {
	Tag      string         `yaml:"tag" validate:"omitempty,lowercase,excludesall=<>/ \"'="`
	Key      string         `yaml:"key" validate:"omitempty,printascii"`
	Props    map[string]any `yaml:"props"`
	Text     *string        `yaml:"text"`
	Children []*Node        `yaml:"children" validate:"dive"`
}

var validate = validator.New()

// ParseFile reads and decodes the document at path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes and validates a document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("invalid markup: %w", err)
	}
	if err := config.CheckVersion(doc.Version); err != nil {
		return nil, fmt.Errorf("invalid markup: %w", err)
	}
	if err := doc.Root.check("root"); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Element converts the document to the node passed to Root.Render. An
// empty root yields nil.
func (d *Document) Element() element.Node {
	return d.Root.Element()
}

// Element converts n and its subtree.
func (n *Node) Element() element.Node {
	if n == nil {
		return nil
	}
	if n.Tag == "" {
		if n.Text != nil {
			return *n.Text
		}
		if n.Key != "" {
			return element.H(element.Fragment, element.Props{element.KeyProp: n.Key}, n.children()...)
		}
		return element.Frag(n.children()...)
	}

	props := make(element.Props, len(n.Props)+1)
	for k, v := range n.Props {
		props[k] = v
	}
	if n.Key != "" {
		props[element.KeyProp] = n.Key
	}
	if n.Text != nil {
		return element.H(n.Tag, props, *n.Text)
	}
	return element.H(n.Tag, props, n.children()...)
}

func (n *Node) children() []element.Node {
	out := make([]element.Node, len(n.Children))
	for i, c := range n.Children {
		out[i] = c.Element()
	}
	return out
}

var errMixedContent = errors.New("text and children are mutually exclusive")

func (n *Node) check(path string) error {
	if n == nil {
		return nil
	}
	if n.Text != nil && len(n.Children) > 0 {
		return fmt.Errorf("invalid markup: %s: %w", path, errMixedContent)
	}
	if n.Tag == "" && len(n.Props) > 0 {
		return fmt.Errorf("invalid markup: %s: props need a tag", path)
	}
	for k := range n.Props {
		if k == element.ChildrenProp || k == element.KeyProp {
			return fmt.Errorf("invalid markup: %s: prop %q is reserved", path, k)
		}
	}
	for i, c := range n.Children {
		if err := c.check(fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}
