package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var catalogPath string

var rootCmd = &cobra.Command{
	Use:           "trackerctl",
	Short:         "trackerctl reads the meal plan and edits the household diary",
	Long:          "trackerctl works on the same store as the API: Postgres when DATABASE_URL is set, memory otherwise.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Path to a catalog YAML file (default: CATALOG_PATH or built-in)")
}
