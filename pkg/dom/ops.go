package dom

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// OpKind names a host mutation.
type OpKind string

const (
	OpCreate     OpKind = "create"
	OpCreateText OpKind = "create-text"
	OpAppend     OpKind = "append"
	OpInsert     OpKind = "insert"
	OpRemove     OpKind = "remove"
	OpSetAttr    OpKind = "set-attr"
	OpRemoveAttr OpKind = "remove-attr"
	OpSetText    OpKind = "set-text"
	OpResetText  OpKind = "reset-text"
)

// Op is one recorded mutation. Nodes are described as <tag id=...> or as a
// quoted text.
type Op struct {
	Kind   OpKind
	Node   string
	Parent string
	Name   string
	Value  string
}

func (o Op) String() string {
	var sb strings.Builder
	sb.WriteString(string(o.Kind))
	sb.WriteByte(' ')
	sb.WriteString(o.Node)
	if o.Parent != "" {
		sb.WriteString(" in ")
		sb.WriteString(o.Parent)
	}
	switch o.Kind {
	case OpInsert:
		sb.WriteString(" before ")
		sb.WriteString(o.Value)
	case OpSetAttr:
		fmt.Fprintf(&sb, " %s=%q", o.Name, o.Value)
	case OpRemoveAttr:
		sb.WriteString(" " + o.Name)
	case OpSetText:
		sb.WriteString(" " + strconv.Quote(o.Value))
	}
	return sb.String()
}

// Ops returns the recorded mutations since the last ResetOps.
func (d *Document) Ops() []Op {
	return append([]Op(nil), d.ops...)
}

// OpStrings returns Ops formatted with Op.String.
func (d *Document) OpStrings() []string {
	out := make([]string, len(d.ops))
	for i, op := range d.ops {
		out[i] = op.String()
	}
	return out
}

// ResetOps clears the op log.
func (d *Document) ResetOps() {
	d.ops = nil
}

// CountOps returns how many recorded ops have one of the given kinds.
func (d *Document) CountOps(kinds ...OpKind) int {
	n := 0
	for _, op := range d.ops {
		for _, k := range kinds {
			if op.Kind == k {
				n++
				break
			}
		}
	}
	return n
}

func (d *Document) record(op Op) {
	d.ops = append(d.ops, op)
	d.log.Trace().Str("op", string(op.Kind)).Str("node", op.Node).Msg("mutation")
}

// describe names n for the op log.
func describe(n *html.Node) string {
	if n == nil {
		return "<nil>"
	}
	switch n.Type {
	case html.TextNode:
		return strconv.Quote(n.Data)
	case html.ElementNode:
		if id, ok := Attr(n, "id"); ok {
			return fmt.Sprintf("<%s id=%s>", n.Data, id)
		}
		return "<" + n.Data + ">"
	}
	return fmt.Sprintf("node(%d)", n.Type)
}
