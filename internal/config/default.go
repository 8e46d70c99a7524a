package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfig is written by Install.
const DefaultConfig = `leader_key = "option"

[[groups]]
name = "Open Applications"

  [[groups.mappings]]
  keys = "of"
  kind = "Application"
  command = "Finder"

[[groups]]
name = "Commands"

  [[groups.mappings]]
  keys = "ot"
  kind = "Command"
  command = "open -a Terminal ~"
`

// Install writes DefaultConfig to path, creating parent directories.
// It never overwrites an existing file.
func Install(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s: %w", path, ErrConfigExists)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(DefaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
