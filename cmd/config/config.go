// SPDX-License-Identifier: Apache-2.0
package config

import (
	"github.com/Work-Fort/Crucible/pkg/config"
	"github.com/spf13/cobra"
)

var (
	// globalFlag determines whether to operate on user config vs directory config
	globalFlag bool
)

// NewConfigCmd creates the config command and its subcommands
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage crucible configuration",
		Long: `Manage crucible configuration settings.

Configuration precedence (highest to lowest):
  1. Environment variables (CRUCIBLE_*)
  2. Directory config (./crucible.yaml)
  3. User config (~/.config/crucible/config.yaml)
  4. Defaults

By default, config commands operate on the directory config (./crucible.yaml).
Use --global to operate on user config instead.`,
		Example: `  # Default template for projects created from this directory
  crucible config set project.template kotlin-library

  # Machine-specific settings go in user config
  crucible config set --global build-tool.java-home /usr/lib/jvm/java-17
  crucible config set --global wizard.show-welcome false

  # Inspect configuration
  crucible config get build-tool.command
  crucible config list

  # Remove a value
  crucible config unset --global build-tool.java-home`,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newUnsetCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newSchemaCmd())

	return cmd
}

// addGlobalFlag adds the --global flag to a command
func addGlobalFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&globalFlag, "global", false, "Operate on user config instead of directory config")
}

// selectedScope returns the scope chosen by --global with a label and file for messages
func selectedScope() (config.ConfigScope, string, string) {
	if globalFlag {
		return config.ScopeUser, "global", config.DisplayConfigPath(config.ScopeUser)
	}
	return config.ScopeLocal, "directory", config.DisplayConfigPath(config.ScopeLocal)
}
