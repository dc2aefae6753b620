// Package testing provides a component testing harness for the reconciler.
//
// # Quick Start
//
// Create a tester, render an element tree, and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    tester := fibertest.NewTesterWithT(t)
//	    tester.Render(element.H(Counter, nil))
//
//	    // Find host nodes
//	    button := tester.Find(fibertest.ByTag("button")).First()
//
//	    // Simulate events
//	    tester.Click(fibertest.ByText("0"))
//
//	    // Assert state
//	    if !tester.Find(fibertest.ByText("1")).Exists() {
//	        t.Error("expected '1' text")
//	    }
//	}
//
// Render, Click and Pump flush the microtask queue, so every render, commit
// and passive effect has run when they return.
//
// # Snapshot Testing
//
// Capture and compare the host HTML and fiber tree:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/counter.snapshot.json")
//
// Update snapshots with:
//
//	FIBER_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Time
//
// Components that start timers can take the tester's FakeClock:
//
//	tester.Clock().AfterFunc(time.Second, tick)
//	tester.Advance(time.Second)
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import fibertest "github.com/go-drift/fiber/pkg/testing"
package testing
