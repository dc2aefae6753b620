// Package testbed provides internal test components for the testing framework.
package testbed

import (
	"strconv"

	"github.com/go-drift/fiber/pkg/element"
)

// Counter renders a button showing a count that increments on click. Props:
// "initial" (int) and "onClick" (func(int)), called with the new count.
var Counter = element.NewComponent("Counter", func(h element.Hooks, p element.Props) element.Node {
	initial, _ := p["initial"].(int)
	count, set := element.UseState(h, initial)
	onClick, _ := p["onClick"].(func(int))
	return element.H("button", element.Props{
		"class": "counter",
		"onClick": func() {
			set.Set(count + 1)
			if onClick != nil {
				onClick(count + 1)
			}
		},
	}, strconv.Itoa(count))
})
