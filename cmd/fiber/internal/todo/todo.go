// Package todo is the demo application of the fiber command: a list that
// grows by one item per tick.
package todo

import (
	"fmt"
	"slices"
	"time"

	"github.com/go-drift/fiber/pkg/element"
)

// Todo is one list entry.
type Todo struct {
	ID      int
	Content string
}

// Schedule runs fn once after d and returns a function cancelling it.
type Schedule func(d time.Duration, fn func()) (cancel func())

// Props keys of List.
const (
	// PropEvery is the tick interval (time.Duration).
	PropEvery = "every"
	// PropSchedule starts the tick timer (Schedule).
	PropSchedule = "schedule"
	// PropLimit stops adding items once the list holds this many (int).
	// Zero means no limit.
	PropLimit = "limit"
)

// Item renders a single todo.
var Item = element.NewComponent("Todo", func(h element.Hooks, p element.Props) element.Node {
	todo, _ := p["todo"].(Todo)
	return element.H("li", nil, todo.Content)
})

// List renders a heading followed by the todos. Each tick appends an item;
// the timer is rearmed after every commit that changed the next id.
var List = element.NewComponent("TodoList", func(h element.Hooks, p element.Props) element.Node {
	every, _ := p[PropEvery].(time.Duration)
	schedule, _ := p[PropSchedule].(Schedule)
	limit, _ := p[PropLimit].(int)

	nextID, setNextID := element.UseState(h, 0)
	todos, setTodos := element.UseState(h, []Todo(nil))

	element.UseEffect(h, func() func() {
		if schedule == nil || every <= 0 || (limit > 0 && nextID >= limit) {
			return nil
		}
		return schedule(every, func() {
			setTodos.Update(func(prev []Todo) []Todo {
				return append(slices.Clip(prev), Todo{ID: nextID, Content: fmt.Sprintf("todo %d", nextID)})
			})
			setNextID.Update(func(n int) int { return n + 1 })
		})
	}, element.Deps(nextID))

	return element.H("div", element.Props{"class": "todos"},
		"Things to do:",
		element.Map(todos, func(t Todo, _ int) element.Node {
			return element.H(Item, element.Props{"key": t.ID, "todo": t})
		}),
	)
})
