package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-drift/fiber/cmd/fiber/internal/todo"
	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/dom"
	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/platform"
)

func newDemoCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a demo application",
	}
	cmd.AddCommand(newTodoCommand(opts))
	return cmd
}

func newTodoCommand(opts *globalOptions) *cobra.Command {
	var (
		every time.Duration
		count int
	)

	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Grow a todo list by one item per tick",
		Long: `Todo mounts a list whose effect starts a timer. Each tick is handed to
the UI loop with platform.Dispatch, appends an item, and rearms the timer
from the next passive effect. The document is printed after every change.`,
		Example: `  fiber demo todo --every 200ms --count 5`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			rt, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.closeInto(context.Background(), cmd.OutOrStdout(), &err)

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, cancel := context.WithCancel(parent)
			defer cancel()

			loop := platform.NewLoop(rt.newQueue())
			loop.Install()
			defer platform.RegisterDispatch(nil)

			doc := dom.NewDocument(loop)
			doc.SetLogger(rt.log)
			root := core.New(doc, rt.reconcilerOptions()).CreateRoot(doc.Body())
			out := cmd.OutOrStdout()

			var last string
			report := func() {
				if html := doc.HTML(); html != last {
					last = html
					fmt.Fprintln(out, html)
				}
				if count > 0 && len(dom.FindAll(doc.Body(), dom.ByTag("li"))) >= count {
					cancel()
				}
			}
			schedule := func(d time.Duration, fn func()) func() {
				t := time.AfterFunc(d, func() {
					platform.Dispatch(fn)
					platform.Dispatch(report)
				})
				return func() { t.Stop() }
			}

			loop.Dispatch(func() {
				root.Render(element.H(todo.List, element.Props{
					todo.PropEvery:    every,
					todo.PropSchedule: todo.Schedule(schedule),
					todo.PropLimit:    count,
				}))
			})
			loop.Dispatch(report)

			err = loop.Run(ctx)
			if errors.Is(err, context.Canceled) && parent.Err() == nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&every, "every", time.Second, "tick interval")
	cmd.Flags().IntVar(&count, "count", 5, "stop after this many items (0 runs until interrupted)")

	return cmd
}
