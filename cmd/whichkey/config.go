package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bezmoradi/whichkey/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the config file location, contents and any problems in it",
	Args:  cobra.NoArgs,
	RunE:  runShowConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runShowConfig(cmd *cobra.Command, args []string) error {
	path := config.ResolvePath(configPath)

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		fmt.Printf("📝 Config file does not exist yet (expected at %s)\n", path)
		fmt.Println("💡 Run 'whichkey install' to generate one")
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	fmt.Printf("📁 Config file location: %s\n", path)
	fmt.Println()
	fmt.Println("📋 Config file contents:")
	fmt.Println(string(content))

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return err
	}

	fmt.Printf("✅ Leader key %q with %d mappings in %d groups\n", cfg.LeaderKey, cfg.MappingCount(), len(cfg.Groups))
	for _, w := range cfg.Warnings() {
		fmt.Printf("⚠️  %s\n", w)
	}
	return nil
}
