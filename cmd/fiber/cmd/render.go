package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/fiber/cmd/fiber/internal/markup"
	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/dom"
)

func newRenderCommand(opts *globalOptions) *cobra.Command {
	var (
		showOps    bool
		showFibers bool
	)

	cmd := &cobra.Command{
		Use:   "render FILE...",
		Short: "Render YAML markup documents into an in-memory DOM",
		Long: `Render reconciles each markup document into the same root, in order, and
prints the resulting HTML. With --ops the host mutations of each commit are
listed, which shows how keyed children were moved, inserted or removed.`,
		Example: `  # Render one document
  fiber render page.yaml

  # Reconcile a second version of the page and show the mutations
  fiber render --ops before.yaml after.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			rt, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.closeInto(cmd.Context(), cmd.OutOrStdout(), &err)

			queue := rt.newQueue()
			doc := dom.NewDocument(queue)
			doc.SetLogger(rt.log)
			root := core.New(doc, rt.reconcilerOptions()).CreateRoot(doc.Body())
			out := cmd.OutOrStdout()

			for _, path := range args {
				md, err := markup.ParseFile(path)
				if err != nil {
					return err
				}
				doc.ResetOps()
				root.Render(md.Element())
				if err := queue.Flush(); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				rt.log.Info().Str("file", path).Int("ops", len(doc.Ops())).Msg("rendered")

				fmt.Fprintf(out, "==> %s\n%s\n", path, doc.HTML())
				if showOps {
					for _, op := range doc.OpStrings() {
						fmt.Fprintf(out, "  %s\n", op)
					}
				}
				if showFibers {
					if err := core.Dump(out, root.Current()); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showOps, "ops", false, "print the host mutations of each commit")
	cmd.Flags().BoolVar(&showFibers, "fibers", false, "print the committed fiber tree after each document")

	return cmd
}
