package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/i474232898/commodity-dashboard/internal/market"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write one synthetic dataset as ministry CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetInt64("seed")
			out, _ := cmd.Flags().GetString("out")

			gen := market.NewGenerator(market.DefaultCatalog(), seed, clockwork.NewRealClock())
			return withOutput(out, cmd.OutOrStdout(), func(w io.Writer) error {
				return market.WriteCSV(w, gen.Generate())
			})
		},
	}
	cmd.Flags().Int64("seed", 0, "random seed (0 = unseeded)")
	cmd.Flags().String("out", "-", "output file, - for stdout")
	return cmd
}

// withOutput calls write with the named file, or with stdout when path is "-".
func withOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "-" || path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
