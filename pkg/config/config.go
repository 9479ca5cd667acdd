// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// Configuration
	EnvPrefix        = "CRUCIBLE" // Environment variable prefix for Viper
	ConfigFileName   = "config"   // Config file name for XDG config dir (without extension)
	LocalConfigFile  = "crucible" // Config file name for current directory (without extension)
	ConfigType       = "yaml"     // Config file type
	DefaultConfigExt = ".yaml"    // Default config file extension

	WorkspaceFileName = "workspace.yaml"
	LogFileName       = "debug.log"
)

// Paths holds all XDG-compliant directory paths
type Paths struct {
	DataDir   string
	ConfigDir string
}

var (
	// GlobalPaths is the global paths instance
	GlobalPaths *Paths
)

func init() {
	GlobalPaths = GetPaths()
}

// GetPaths returns XDG-compliant directory paths
func GetPaths() *Paths {
	home, homeErr := os.UserHomeDir()
	xdg := func(env string, fallback ...string) string {
		if dir := os.Getenv(env); dir != "" {
			return dir
		}
		if homeErr != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to get home directory: %v\n", homeErr)
			os.Exit(1)
		}
		return filepath.Join(append([]string{home}, fallback...)...)
	}

	return &Paths{
		DataDir:   filepath.Join(xdg("XDG_DATA_HOME", ".local", "share"), "crucible"),
		ConfigDir: filepath.Join(xdg("XDG_CONFIG_HOME", ".config"), "crucible"),
	}
}

// LogFile returns the path of the debug log
func (p *Paths) LogFile() string {
	return filepath.Join(p.DataDir, LogFileName)
}

// HasLocalConfig returns true when a crucible.yaml exists in the current
// working directory.
func HasLocalConfig() bool {
	_, err := os.Stat(filepath.Join(".", LocalConfigFile+DefaultConfigExt))
	return err == nil
}

// InitDirs creates all necessary directories
func InitDirs() error {
	for _, dir := range []string{GlobalPaths.ConfigDir, GlobalPaths.DataDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
