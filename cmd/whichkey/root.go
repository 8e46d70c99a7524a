package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config.toml (default: $WHICHKEY_CONFIG or ~/.config/whichkey/config.toml)")
}

var rootCmd = &cobra.Command{
	Use:   "whichkey",
	Short: "Leader key launcher for macOS",
	Long: `whichkey listens for a leader key tap followed by a short key sequence
and opens an application or runs a shell command for it.

  whichkey install   # write a default config and a launch agent
  whichkey start     # run the listener in the foreground`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
