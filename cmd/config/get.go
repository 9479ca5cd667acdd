// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"
	"sort"

	"github.com/Work-Fort/Crucible/pkg/config"
	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get configuration value",
		Long: `Get a configuration value and show its source.

The source indicates where the value comes from in precedence order:
  - ENV: Environment variable (CRUCIBLE_*)
  - Directory: Directory config file (./crucible.yaml)
  - User: User config file (~/.config/crucible/config.yaml)
  - Default: Built-in default value`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return registryKeys(), cobra.ShellCompDirectiveNoFileComp
		},
		Example: `  crucible config get build-tool.command

  # Output shows value and source:
  # build-tool.command = ./gradlew (from ./crucible.yaml)
  # use-tui = false (from ENV: CRUCIBLE_USE_TUI)
  # project.template = java-library (default)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configValue, err := config.GetConfigValue(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s = %v (%s)\n", configValue.Key, configValue.Value, configValue.Source)
			return nil
		},
	}

	return cmd
}

func registryKeys() []string {
	keys := make([]string, 0, len(config.ConfigRegistry))
	for key := range config.ConfigRegistry {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
