package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "evplan",
	Short: "EV charging infrastructure planner",
	Long: `evplan selects charging station sites and charger counts that
maximize demand coverage under a budget, and sweeps budget levels to
find the most profitable one.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
