package cli

import (
	"github.com/spf13/cobra"

	"nationaldynamics/internal/demo"
)

var (
	seedDataDir string
	seedValue   int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write synthetic demo indicator CSVs to the data directory",
	Long: `Seed regenerates the nine synthetic demo datasets (marriage, income,
unemployment, CPI, violent crime, mass incidents, mental health, household
types, religion) for 2000 through 2024. Output is deterministic for a given
seed so demo charts are reproducible.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedDataDir, "data-dir", "", "output directory (overrides config)")
	seedCmd.Flags().Int64Var(&seedValue, "seed", demo.DefaultSeed, "random seed")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	dataDir := cfg.DataDir
	if seedDataDir != "" {
		dataDir = seedDataDir
	}
	return demo.NewGenerator(seedValue, logger).WriteAll(dataDir)
}
