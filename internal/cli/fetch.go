package cli

import (
	"github.com/spf13/cobra"

	"nationaldynamics/internal/fetch"
)

var fetchDataDir string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch real indicator datasets from public sources",
}

var fetchMarriageCmd = &cobra.Command{
	Use:   "marriage",
	Short: "Prepare CDC/NCHS national marriage rates (marriage_rate_real.csv)",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir := cfg.DataDir
		if fetchDataDir != "" {
			dataDir = fetchDataDir
		}
		fetcher := fetch.NewMarriageFetcher(logger)
		return fetcher.Run(dataDir)
	},
}

func init() {
	fetchCmd.PersistentFlags().StringVar(&fetchDataDir, "data-dir", "", "output directory (overrides config)")
	fetchCmd.AddCommand(fetchMarriageCmd)
	rootCmd.AddCommand(fetchCmd)
}
