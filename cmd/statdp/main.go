// Command statdp drives the counterexample-detection pipeline from the
// command line: choose a candidate mechanism by name, sweep a list of
// test epsilons against it, and write a JSONL result log plus an
// interactive HTML chart.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "statdp",
	Short:   "Statistical counterexample detector for differentially private mechanisms",
	Long:    `statdp searches for empirical evidence that a candidate randomized mechanism violates its claimed epsilon-differential-privacy bound, via Monte-Carlo sampling, event search, and hypergeometric hypothesis testing.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./statdp.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
