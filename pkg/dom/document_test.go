package dom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/platform"
)

func newTestDocument() *Document {
	return NewDocument(platform.NewQueue(0))
}

func TestFinalizeInitialChildren(t *testing.T) {
	d := newTestDocument()
	props := element.Props{
		"id":        "greeting",
		"className": "big",
		"hidden":    false,
		"disabled":  true,
		"tabIndex":  2,
		"style":     map[string]any{"backgroundColor": "red", "fontSize": "12px"},
		"children":  "hi",
		"onClick":   func() {},
	}
	n := d.CreateInstance("p", props, nil).(*html.Node)
	assert.False(t, d.FinalizeInitialChildren(n, "p", props))
	d.AppendChild(d.Body(), n)

	assert.Equal(t,
		`<p class="big" disabled="" id="greeting" style="background-color: red; font-size: 12px;" tabIndex="2">hi</p>`,
		d.HTML())
	assert.True(t, d.HasHandler(n, "click"))
}

func TestShouldSetTextContent(t *testing.T) {
	d := newTestDocument()
	tests := []struct {
		name  string
		typ   string
		props element.Props
		want  bool
	}{
		{"string child", "span", element.Props{"children": "x"}, true},
		{"number child", "span", element.Props{"children": 3}, true},
		{"element child", "div", element.Props{"children": element.H("b", nil)}, false},
		{"no children", "div", element.Props{}, false},
		{"textarea", "textarea", element.Props{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.ShouldSetTextContent(tt.typ, tt.props))
		})
	}
}

func TestPrepareUpdate(t *testing.T) {
	d := newTestDocument()
	n := d.CreateInstance("div", nil, nil)

	same := element.Props{"id": "a", "children": "x"}
	assert.Nil(t, d.PrepareUpdate(n, "div", same, element.Props{"id": "a", "children": "x"}))

	payload := d.PrepareUpdate(n, "div",
		element.Props{"id": "a", "title": "t", "children": "x", "style": map[string]any{"color": "red"}},
		element.Props{"id": "b", "children": "y", "style": map[string]any{"color": "red"}},
	)
	want := UpdatePayload{
		{Name: "title", Remove: true},
		{Name: "children", Value: "y"},
		{Name: "id", Value: "b"},
	}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestCommitUpdate(t *testing.T) {
	d := newTestDocument()
	oldProps := element.Props{"id": "a", "title": "t", "children": "x"}
	n := d.CreateInstance("div", oldProps, nil).(*html.Node)
	d.FinalizeInitialChildren(n, "div", oldProps)
	d.AppendChild(d.Body(), n)
	d.ResetOps()

	newProps := element.Props{"id": "b", "children": "y", "onClick": func() {}}
	payload := d.PrepareUpdate(n, "div", oldProps, newProps)
	require.NotNil(t, payload)
	d.CommitUpdate(n, payload, "div", oldProps, newProps, nil)

	assert.Equal(t, `<div id="b">y</div>`, d.HTML())
	assert.True(t, d.HasHandler(n, "click"))
	assert.Equal(t, []string{
		`remove-attr <div id=a> title`,
		`set-text <div id=a> "y"`,
		`set-attr <div id=b> id="b"`,
	}, d.OpStrings())
}

func TestInsertAndRemove(t *testing.T) {
	d := newTestDocument()
	a := d.CreateInstance("li", element.Props{"id": "a"}, nil).(*html.Node)
	b := d.CreateInstance("li", element.Props{"id": "b"}, nil).(*html.Node)
	d.FinalizeInitialChildren(a, "li", element.Props{"id": "a"})
	d.FinalizeInitialChildren(b, "li", element.Props{"id": "b"})
	d.ResetOps()

	d.AppendChildToContainer(d.Body(), a)
	d.InsertInContainerBefore(d.Body(), b, a)
	assert.Equal(t, `<li id="b"></li><li id="a"></li>`, d.HTML())

	// Moving an attached node detaches it first.
	d.AppendChild(d.Body(), b)
	assert.Equal(t, `<li id="a"></li><li id="b"></li>`, d.HTML())

	d.RemoveChild(d.Body(), a)
	assert.Equal(t, `<li id="b"></li>`, d.HTML())
	assert.Equal(t, 3, d.CountOps(OpAppend, OpInsert))
	assert.Equal(t, 1, d.CountOps(OpRemove))

	assert.Panics(t, func() { d.RemoveChild(d.Body(), a) })
}

func TestTextNodes(t *testing.T) {
	d := newTestDocument()
	p := d.CreateInstance("p", nil, nil).(*html.Node)
	text := d.CreateTextInstance("a < b", nil)
	d.AppendInitialChild(p, text)
	d.AppendChildToContainer(d.Body(), p)
	assert.Equal(t, `<p>a &lt; b</p>`, d.HTML())

	d.CommitTextUpdate(text, "a < b", "done")
	assert.Equal(t, "done", TextContent(p))

	d.ResetTextContent(p)
	assert.Equal(t, `<p></p>`, d.HTML())
}

func TestDispatchBubbles(t *testing.T) {
	d := newTestDocument()
	var calls []string

	outerProps := element.Props{"onClick": func(e *Event) { calls = append(calls, "outer:"+e.Target.Data) }}
	outer := d.CreateInstance("div", outerProps, nil).(*html.Node)
	d.FinalizeInitialChildren(outer, "div", outerProps)

	innerProps := element.Props{"onClick": func() { calls = append(calls, "inner") }}
	inner := d.CreateInstance("button", innerProps, nil).(*html.Node)
	d.FinalizeInitialChildren(inner, "button", innerProps)

	d.AppendInitialChild(outer, inner)
	d.AppendChildToContainer(d.Body(), outer)

	assert.Equal(t, 2, d.Click(inner))
	assert.Equal(t, []string{"inner", "outer:button"}, calls)

	calls = nil
	stopProps := element.Props{"onClick": func(e *Event) {
		calls = append(calls, "stop")
		e.StopPropagation()
	}}
	d.CommitUpdate(inner, d.PrepareUpdate(inner, "button", innerProps, stopProps), "button", innerProps, stopProps, nil)
	assert.Equal(t, 1, d.Click(inner))
	assert.Equal(t, []string{"stop"}, calls)

	assert.Equal(t, 0, d.Dispatch(inner, "keydown"))
}

func TestRemoveForgetsHandlers(t *testing.T) {
	d := newTestDocument()
	props := element.Props{"onClick": func() {}}
	n := d.CreateInstance("button", props, "handle").(*html.Node)
	d.FinalizeInitialChildren(n, "button", props)
	d.AppendChildToContainer(d.Body(), n)
	assert.Equal(t, "handle", d.Handle(n))

	d.RemoveChild(d.Body(), n)
	assert.False(t, d.HasHandler(n, "click"))
	assert.Nil(t, d.Handle(n))
}

func TestQueries(t *testing.T) {
	d := newTestDocument()
	ul := d.CreateInstance("ul", nil, nil).(*html.Node)
	for _, id := range []string{"a", "b"} {
		props := element.Props{"id": id, "data-kind": "item", "children": "item " + id}
		li := d.CreateInstance("li", props, nil).(*html.Node)
		d.FinalizeInitialChildren(li, "li", props)
		d.AppendInitialChild(ul, li)
	}
	d.AppendChildToContainer(d.Body(), ul)

	assert.Len(t, FindAll(d.Body(), ByTag("li")), 2)
	assert.Len(t, FindAll(d.Body(), ByAttr("data-kind", "item")), 2)
	b := Find(d.Body(), ByID("b"))
	require.NotNil(t, b)
	assert.Equal(t, "item b", TextContent(b))
	assert.Equal(t, b, Find(d.Body(), ByText("item b")))
	assert.Nil(t, Find(d.Body(), ByTag("table")))
	assert.Equal(t, `<li data-kind="item" id="b">item b</li>`, OuterHTML(b))
}

func TestEventName(t *testing.T) {
	assert.True(t, isEventProp("onClick"))
	assert.False(t, isEventProp("one"))
	assert.False(t, isEventProp("on"))
	assert.Equal(t, "mousedown", eventName("onMouseDown"))
	assert.Equal(t, "background-color", cssName("backgroundColor"))
}
