package dom

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/go-drift/fiber/pkg/element"
)

// PropChange is one entry of an UpdatePayload.
type PropChange struct {
	Name   string
	Value  any
	Remove bool
}

// UpdatePayload lists the props to apply in CommitUpdate, in name order.
type UpdatePayload []PropChange

const styleProp = "style"

// diffProperties compares two prop sets. Children only contribute when the
// new children are text; element children are reconciled separately.
func diffProperties(oldProps, newProps element.Props) UpdatePayload {
	var payload UpdatePayload
	for _, name := range sortedKeys(oldProps) {
		if name == element.ChildrenProp || name == element.KeyProp {
			continue
		}
		if _, ok := newProps[name]; !ok {
			payload = append(payload, PropChange{Name: name, Remove: true})
		}
	}
	for _, name := range sortedKeys(newProps) {
		if name == element.KeyProp {
			continue
		}
		next := newProps[name]
		prev, had := oldProps[name]
		switch {
		case name == element.ChildrenProp:
			nextText, ok := textContent(next)
			if !ok {
				continue
			}
			if prevText, wasText := textContent(prev); !wasText || prevText != nextText {
				payload = append(payload, PropChange{Name: name, Value: nextText})
			}
		case name == styleProp:
			if !had || styleString(prev) != styleString(next) {
				payload = append(payload, PropChange{Name: name, Value: next})
			}
		case !had || !element.Is(prev, next):
			payload = append(payload, PropChange{Name: name, Value: next})
		}
	}
	return payload
}

// setProp applies one prop to n.
func (d *Document) setProp(n *html.Node, name string, value any, remove bool) {
	switch {
	case name == element.ChildrenProp:
		if text, ok := textContent(value); ok && !remove {
			setText(n, text)
			d.record(Op{Kind: OpSetText, Node: describe(n), Value: text})
		}
	case isEventProp(name):
		event := eventName(name)
		if remove || value == nil {
			if hs := d.handlers[n]; hs != nil {
				delete(hs, event)
			}
			return
		}
		hs := d.handlers[n]
		if hs == nil {
			hs = make(map[string]any)
			d.handlers[n] = hs
		}
		hs[event] = value
	default:
		attr := attrName(name)
		if name == styleProp && !remove {
			value = styleString(value)
		}
		val, ok := attrValue(value)
		if remove || !ok {
			if removeAttr(n, attr) {
				d.record(Op{Kind: OpRemoveAttr, Node: describe(n), Name: attr})
			}
			return
		}
		setAttr(n, attr, val)
		d.record(Op{Kind: OpSetAttr, Node: describe(n), Name: attr, Value: val})
	}
}

// isEventProp reports whether name looks like onClick.
func isEventProp(name string) bool {
	return len(name) > 2 && strings.HasPrefix(name, "on") && unicode.IsUpper(rune(name[2]))
}

// eventName maps onClick to click and onMouseDown to mousedown.
func eventName(prop string) string {
	return strings.ToLower(prop[2:])
}

func attrName(prop string) string {
	switch prop {
	case "className":
		return "class"
	case "htmlFor":
		return "for"
	}
	return prop
}

// attrValue converts a prop value to its attribute text. ok is false when
// the attribute should be absent.
func attrValue(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case bool:
		return "", t
	case string:
		return t, true
	case fmt.Stringer:
		return t.String(), true
	}
	if text, ok := textContent(v); ok {
		return text, true
	}
	return fmt.Sprint(v), true
}

// textContent returns the text of a string or numeric children value.
func textContent(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int:
		return strconv.Itoa(t), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32), true
	}
	return "", false
}

// styleString renders a style prop. Maps are written as "name: value;"
// pairs sorted by name; strings are used as is.
func styleString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, v := range t {
			m[k] = v
		}
		return styleString(m)
	case element.Props:
		return styleString(map[string]any(t))
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var sb strings.Builder
		for _, k := range keys {
			if t[k] == nil {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%s: %v;", cssName(k), t[k])
		}
		return sb.String()
	}
	return fmt.Sprint(v)
}

// cssName maps backgroundColor to background-color.
func cssName(name string) string {
	var sb strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func sortedKeys(props element.Props) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) bool {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return true
		}
	}
	return false
}
