package main

import (
	"github.com/angelofallars/rentbill/internal/config"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "rentbill",
	Short: "Rental invoice management",
	Long: `rentbill serves the rental invoice pages, with live invoice totals
and in-place status changes, and can change invoice statuses from the
command line.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var envFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "dotenv file to load before reading the environment")
}

// loadConfig tolerates a missing default .env, but not a missing file
// named with --env-file.
func loadConfig() (*config.Config, error) {
	if !rootCmd.PersistentFlags().Changed("env-file") {
		return config.Load()
	}
	return config.Load(envFile)
}
