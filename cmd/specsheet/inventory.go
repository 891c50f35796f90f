package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	specsheet "github.com/anxuanzi/specsheet-go"
	"github.com/anxuanzi/specsheet-go/browser"
	"github.com/anxuanzi/specsheet-go/dom"
	"github.com/anxuanzi/specsheet-go/workbook"
)

type inventoryOutput struct {
	URL       string        `json:"url"`
	Meta      dom.PageMeta  `json:"meta"`
	Inventory dom.Inventory `json:"inventory"`
}

func newInventoryCmd(a *app) *cobra.Command {
	var htmlFile, pageName, pageURL string

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Print the interactive element inventory of a page as JSON",
		Long: "Print the interactive element inventory of a configured page rendered live (--page),\n" +
			"or of a saved HTML file (--html). Saved files carry no geometry, so boxes are empty.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{configOptional: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var out inventoryOutput
			switch {
			case htmlFile != "":
				fh, err := os.Open(htmlFile)
				if err != nil {
					return err
				}
				defer fh.Close()
				snap, err := dom.ParseHTML(fh, pageURL)
				if err != nil {
					return err
				}
				inv, err := specsheet.Inventory(snap, nil, workbook.LabelsFor(a.cfg.SpecSheet.Locale))
				if err != nil {
					return err
				}
				out = inventoryOutput{URL: snap.URL(), Meta: dom.ExtractPageMeta(snap), Inventory: inv}

			case pageName != "":
				p, ok := a.cfg.Page(pageName)
				if !ok {
					return fmt.Errorf("page %q is not configured", pageName)
				}
				err := a.withBrowser(cmd.Context(), func(b *browser.Browser) error {
					g, err := specsheet.New(a.cfg, b, specsheet.WithLogger(a.logger))
					if err != nil {
						return err
					}
					page, err := g.Inspect(cmd.Context(), p)
					if err != nil {
						return err
					}
					out = inventoryOutput{URL: page.URL, Meta: page.Meta, Inventory: page.Inventory}
					return nil
				})
				if err != nil {
					return err
				}

			default:
				return errors.New("one of --html or --page is required")
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&htmlFile, "html", "", "saved HTML file to inventory")
	cmd.Flags().StringVar(&pageURL, "url", "", "URL recorded for --html input")
	cmd.Flags().StringVarP(&pageName, "page", "p", "", "configured page to render live")
	cmd.MarkFlagsMutuallyExclusive("html", "page")
	return cmd
}
