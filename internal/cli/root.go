package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nationaldynamics/internal/config"
)

var (
	cfgFile string
	debug   bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "nationaldynamics",
	Short: "National Dynamics: U.S. social, economic, and public-health indicator backend",
	Long: `National Dynamics serves indicator trends from a directory of CSV datasets:
a variable catalog, pairwise comparisons (correlation, regression, outliers),
and overview KPIs for the browser dashboard. It also ships a synthetic
demo-data generator and a CDC marriage-rate fetcher.`,
}

// Execute is the entry point called by main.main().
func Execute() {
	cobra.OnInitialize(initialize)
	defer func() {
		if logger != nil {
			logger.Sync()
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./nationaldynamics.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func initialize() {
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	cfg, err = config.Load(cfgFile)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
}
