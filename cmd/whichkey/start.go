package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bezmoradi/whichkey/internal/app"
	"github.com/bezmoradi/whichkey/internal/version"
)

var skipVersionCheck bool

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Listen for leader key sequences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !skipVersionCheck {
			if ok, newVersion := version.CheckVersion(context.Background()); !ok {
				fmt.Printf("💡 whichkey %s is available (installed: %s). %s\n\n", newVersion, version.VERSION, version.UPDATE_MESSAGE)
			}
		}

		daemon := app.NewDaemon(configPath)
		if err := daemon.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize daemon: %w", err)
		}

		return daemon.Run()
	},
}

func init() {
	startCmd.Flags().BoolVar(&skipVersionCheck, "no-update-check", false, "Do not check for a newer release on startup")
	rootCmd.AddCommand(startCmd)
}
