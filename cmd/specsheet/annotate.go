package main

import (
	"fmt"

	"github.com/spf13/cobra"

	specsheet "github.com/anxuanzi/specsheet-go"
	"github.com/anxuanzi/specsheet-go/browser"
)

func newAnnotateCmd(a *app) *cobra.Command {
	var pageName string

	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Capture one configured page and write its numbered screenshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := a.cfg.Page(pageName)
			if !ok {
				return fmt.Errorf("page %q is not configured", pageName)
			}

			return a.withBrowser(cmd.Context(), func(b *browser.Browser) error {
				g, err := specsheet.New(a.cfg, b, specsheet.WithLogger(a.logger))
				if err != nil {
					return err
				}
				page, err := g.Inspect(cmd.Context(), p)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Annotated: %s (%dx%d)\n", page.AnnotatedPath, page.Screenshot.Width, page.Screenshot.Height)
				for i, rec := range page.Inventory {
					fmt.Fprintf(out, "%3d  %-6s %-40s %s\n", page.Annotations[i].Number, rec.Kind, rec.Selector, rec.Label)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&pageName, "page", "p", "", "configured page to annotate")
	_ = cmd.MarkFlagRequired("page")
	return cmd
}
