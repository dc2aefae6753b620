// Package dom is an in-memory HTML host for the reconciler.
//
// A Document creates golang.org/x/net/html nodes for host elements and text,
// applies property updates computed by a diff of old and new props, and
// records every mutation in an op log. Event handler props such as onClick
// are kept per node and invoked by Dispatch, bubbling from the target up
// through its ancestors.
//
// Rendered content can be serialized with HTML or inspected with the query
// helpers:
//
//	doc := dom.NewDocument(queue)
//	r := core.New(doc, core.Options{})
//	root := r.CreateRoot(doc.Body())
//	root.Render(element.H("p", nil, "hello"))
//	queue.Flush()
//	doc.HTML() // "<p>hello</p>"
package dom
