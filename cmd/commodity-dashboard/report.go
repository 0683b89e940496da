package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/i474232898/commodity-dashboard/internal/common"
	"github.com/i474232898/commodity-dashboard/internal/market"
	"github.com/i474232898/commodity-dashboard/internal/market/sources"
	"github.com/i474232898/commodity-dashboard/internal/report"
	"github.com/i474232898/commodity-dashboard/internal/store"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a synthesis note for one product",
		Long: `report builds the filtered view for a product and writes it as a PDF
note (default) or as the plain-text commentary. Data comes from --input when
given, otherwise from a freshly generated dataset.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			input, _ := flags.GetString("input")
			seed, _ := flags.GetInt64("seed")
			product, _ := flags.GetString("product")
			regionList, _ := flags.GetString("regions")
			commentary, _ := flags.GetString("commentary")
			format, _ := flags.GetString("format")
			out, _ := flags.GetString("out")

			if format != string(report.FormatPDF) && format != string(report.FormatText) {
				return fmt.Errorf("invalid --format %q: want pdf or txt", format)
			}

			var source market.Source = market.NewGenerator(market.DefaultCatalog(), seed, clockwork.NewRealClock())
			if input != "" {
				source = sources.NewFileSource(input)
			}
			service := market.NewService(store.NewMemoryStore(1, 0), source, nil, nil)
			if _, err := service.Refresh(context.Background()); err != nil {
				return err
			}

			sel, err := service.Selection()
			if err != nil {
				return err
			}
			if product == "" {
				if len(sel.Products) == 0 {
					return fmt.Errorf("dataset has no products")
				}
				product = sel.Products[0]
			}
			regions := sel.Regions
			if flags.Changed("regions") {
				regions = common.SplitList(regionList)
			}

			view, err := service.View(product, regions)
			if err != nil {
				return err
			}

			f := report.Format(format)
			if out == "" {
				out = report.Filename(f)
			}
			note := report.NewNote(view, commentary, view.GeneratedAt)
			return withOutput(out, cmd.OutOrStdout(), func(w io.Writer) error {
				return report.Write(w, f, note)
			})
		},
	}

	cmd.Flags().String("input", "", "ministry CSV file to read instead of generating data")
	cmd.Flags().Int64("seed", 0, "random seed for generated data (0 = unseeded)")
	cmd.Flags().String("product", "", "product to report on (default: first product)")
	cmd.Flags().String("regions", "", "comma separated regions (default: all)")
	cmd.Flags().String("commentary", "", "cabinet observations")
	cmd.Flags().String("format", string(report.FormatPDF), "pdf or txt")
	cmd.Flags().String("out", "", "output file, - for stdout (default: note_synthese.<format>)")
	return cmd
}
