package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bezmoradi/whichkey/internal/config"
	"github.com/bezmoradi/whichkey/internal/install"
)

var skipService bool

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Write a default config and a launch agent that starts whichkey at login",
	Args:  cobra.NoArgs,
	RunE:  runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&skipService, "config-only", false, "Only write the config file")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	path := config.ResolvePath(configPath)

	switch err := config.Install(path); {
	case errors.Is(err, config.ErrConfigExists):
		fmt.Printf("📁 Config already exists at %s, leaving it untouched\n", path)
	case err != nil:
		return fmt.Errorf("failed to generate configuration at %s: %w", path, err)
	default:
		fmt.Printf("✅ Configuration file generated at %s\n", path)
	}

	if skipService {
		return nil
	}

	service, err := install.NewService()
	if err != nil {
		return err
	}
	plistPath, err := install.DefaultPlistPath()
	if err != nil {
		return fmt.Errorf("failed to locate LaunchAgents: %w", err)
	}

	switch err := service.Write(plistPath); {
	case errors.Is(err, install.ErrServiceExists):
		fmt.Printf("📁 Launch agent already installed at %s\n", plistPath)
	case err != nil:
		return fmt.Errorf("service installation failed: %w", err)
	default:
		fmt.Printf("✅ Launch agent installed at %s\n", plistPath)
		fmt.Printf("💡 Load it now with: launchctl load %s\n", plistPath)
	}

	return nil
}
