package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bezmoradi/whichkey/internal/version"
)

var checkLatest bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the installed version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("whichkey %s\n", version.VERSION)

		if !checkLatest {
			return
		}
		if ok, newVersion := version.CheckVersion(context.Background()); !ok {
			fmt.Printf("The newest version is %s.\n\n%s\n\nInstall it with 'go install github.com/bezmoradi/whichkey/cmd/whichkey@main'.\n", newVersion, version.UPDATE_MESSAGE)
		} else {
			fmt.Println("You are on the latest version.")
		}
	},
}

func init() {
	versionCmd.Flags().BoolVar(&checkLatest, "check", false, "Compare with the latest release")
	rootCmd.AddCommand(versionCmd)
}
