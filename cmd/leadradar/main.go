package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "leadradar",
		Short: "Score, classify, and track scraped content for business leads",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(scanCmd())
	root.AddCommand(trendsCmd())
	root.AddCommand(runCmd())

	return root
}

func scanCmd() *cobra.Command {
	var (
		inputs     []string
		useRSS     bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run the pipeline once over scraper output batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(inputs, useRSS, jsonOutput)
		},
	}

	cmd.Flags().StringSliceVar(&inputs, "input", nil, "raw item JSON batch files (default: from config)")
	cmd.Flags().BoolVar(&useRSS, "rss", false, "also fetch configured RSS feeds")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func trendsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Evaluate lead trends over recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrends(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start daemon with periodic scans and trend evaluation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon()
		},
	}
	return cmd
}
