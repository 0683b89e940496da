package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "commodity-dashboard",
		Short: "Commodity price and stock dashboard for the Ministry of Trade",
		Long: `commodity-dashboard serves prices, stock levels and weekly needs of
staple commodities across regions, either simulated or loaded from the
ministry CSV, with filtered views, charts and exportable notes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(); err != nil {
				logrus.WithError(err).Debug("no .env file loaded")
			}
		},
	}
	root.AddCommand(newServeCmd(), newGenerateCmd(), newReportCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
