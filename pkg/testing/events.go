package testing

import "fmt"

// Click dispatches a click on the first node matched by finder and pumps.
func (t *Tester) Click(finder Finder) error {
	return t.Fire(finder, "click")
}

// Fire dispatches an event of type typ on the first node matched by finder,
// bubbling to the body, then pumps so the resulting updates are committed.
func (t *Tester) Fire(finder Finder, typ string) error {
	result := t.Find(finder)
	if !result.Exists() {
		return fmt.Errorf("Fire(%s): finder matched no nodes: %s", typ, finder.Description())
	}
	if n := t.doc.Dispatch(result.First(), typ); n == 0 {
		return fmt.Errorf("Fire(%s): no handler along the path of %s", typ, finder.Description())
	}
	return t.Pump()
}
