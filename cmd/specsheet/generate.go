package main

import (
	"fmt"

	"github.com/spf13/cobra"

	specsheet "github.com/anxuanzi/specsheet-go"
	"github.com/anxuanzi/specsheet-go/browser"
)

func newGenerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Capture every configured page and write the spec workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var res *specsheet.Result
			err := a.withBrowser(cmd.Context(), func(b *browser.Browser) error {
				g, err := specsheet.New(a.cfg, b, specsheet.WithLogger(a.logger))
				if err != nil {
					return err
				}
				res, err = g.Run(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Workbook:    %s\n", res.OutputPath)
			fmt.Fprintf(out, "Screenshots: %s\n", res.ScreenshotDir)
			for _, p := range res.Pages {
				if p.Err != nil {
					fmt.Fprintf(out, "  x %s: %v\n", p.Name, p.Err)
					continue
				}
				fmt.Fprintf(out, "  + %s -> sheet %q (%d elements)\n", p.Name, p.Sheet, p.Elements)
			}
			fmt.Fprintf(out, "Succeeded: %d, Failed: %d\n", res.Succeeded, res.Failed)

			if res.Failed > 0 {
				return fmt.Errorf("%d of %d pages failed", res.Failed, len(res.Pages))
			}
			return nil
		},
	}
}
