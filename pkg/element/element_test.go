package element

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHExtractsKeyAndCopiesProps(t *testing.T) {
	props := Props{"key": 7, "id": "x"}
	el := H("li", props, "text")

	assert.Equal(t, "li", el.Type)
	assert.Equal(t, "7", el.Key)
	assert.Equal(t, "x", el.Props["id"])
	assert.NotContains(t, el.Props, "key")
	assert.Equal(t, "text", el.Children())

	el.Props["id"] = "changed"
	assert.Equal(t, "x", props["id"], "H must not alias the caller's props")
}

func TestHChildrenShapes(t *testing.T) {
	none := H("div", nil)
	assert.Nil(t, none.Children())
	assert.NotContains(t, none.Props, ChildrenProp)

	one := H("div", nil, H("span", nil))
	_, isElement := one.Children().(*Element)
	assert.True(t, isElement)

	many := H("div", nil, "a", 1, nil)
	list, ok := many.Children().([]Node)
	require.True(t, ok)
	assert.Len(t, list, 3)
}

func TestHNilKeyIsUnkeyed(t *testing.T) {
	el := H("div", Props{"key": nil})
	assert.Equal(t, "", el.Key)
}

func TestTypeName(t *testing.T) {
	c := NewComponent("Counter", nil)
	tests := []struct {
		typ  any
		want string
	}{
		{"div", "div"},
		{c, "Counter"},
		{&Component{}, "Anonymous"},
		{Fragment, "Fragment"},
		{nil, "nil"},
		{42, "int"},
	}
	for _, tt := range tests {
		if got := TypeName(tt.typ); got != tt.want {
			t.Errorf("TypeName(%v) = %q, want %q", tt.typ, got, tt.want)
		}
	}
	assert.Equal(t, `<li key="a">`, H("li", Props{"key": "a"}).String())
	assert.Equal(t, "<Fragment>", Frag().String())
}

func TestMap(t *testing.T) {
	items := []string{"a", "b"}
	nodes := Map(items, func(s string, i int) Node {
		return H("li", Props{"key": s})
	})
	require.Len(t, nodes, 2)
	assert.Equal(t, "b", nodes[1].(*Element).Key)
}

func TestIs(t *testing.T) {
	m := map[string]any{}
	p := &struct{}{}
	s := []int{1, 2, 3}
	fn := func() {}
	type point struct{ X, Y int }
	type withFunc struct{ F func() }

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"nil nil", nil, nil, true},
		{"nil vs value", nil, 0, false},
		{"equal ints", 3, 3, true},
		{"int vs int64", 3, int64(3), false},
		{"strings", "a", "a", true},
		{"bools", true, false, false},
		{"nan", math.NaN(), math.NaN(), true},
		{"signed zero", 0.0, math.Copysign(0, -1), false},
		{"same map", m, m, true},
		{"different maps", map[string]any{}, map[string]any{}, false},
		{"same pointer", p, p, true},
		{"same slice", s, s, true},
		{"resliced", s, s[:2], false},
		{"funcs", fn, fn, false},
		{"nil funcs", (func())(nil), (func())(nil), true},
		{"structs", point{1, 2}, point{1, 2}, true},
		{"uncomparable struct", withFunc{}, withFunc{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.a, tt.b); got != tt.want {
				t.Errorf("Is(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
