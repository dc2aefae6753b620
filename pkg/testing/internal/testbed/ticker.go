package testbed

import (
	"strconv"
	"time"

	"github.com/go-drift/fiber/pkg/element"
)

// Stopper cancels a pending timer.
type Stopper interface {
	Stop() bool
}

// Scheduler starts timers. The testing FakeClock satisfies it through a
// small adapter.
type Scheduler func(d time.Duration, fn func()) Stopper

// Ticker counts ticks of "every" (time.Duration) using the "after"
// (Scheduler) prop. The timer is rearmed after every tick and stopped on
// unmount.
var Ticker = element.NewComponent("Ticker", func(h element.Hooks, p element.Props) element.Node {
	every, _ := p["every"].(time.Duration)
	after, _ := p["after"].(Scheduler)
	ticks, set := element.UseState(h, 0)

	element.UseEffect(h, func() func() {
		if after == nil || every <= 0 {
			return nil
		}
		timer := after(every, func() { set.Update(func(n int) int { return n + 1 }) })
		return func() { timer.Stop() }
	}, element.Deps(ticks))

	return element.H("span", element.Props{"class": "ticks"}, strconv.Itoa(ticks))
})
