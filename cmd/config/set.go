// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"

	"github.com/Work-Fort/Crucible/pkg/config"
	"github.com/spf13/cobra"
)

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set configuration value",
		Long: `Set a configuration key to a value.

Keys use dot notation for nested values (e.g., build-tool.command).

Boolean values support natural language:
  - true:  true, yes, on, enable, enabled
  - false: false, no, off, disable, disabled

Durations use Go syntax: 30s, 10m, 1h30m. Use 0 to disable caching.`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return registryKeys(), cobra.ShellCompDirectiveNoFileComp
			}
			if def := config.GetKeyDefinition(args[0]); def != nil && len(def.EnumValues) > 0 {
				return def.EnumValues, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		Example: `  # Booleans (multiple formats supported)
  crucible config set use-tui off
  crucible config set --global wizard.show-welcome no

  # Build tool
  crucible config set build-tool.command ./gradlew
  crucible config set --global build-tool.user-home ~/.gradle-alt

  # Template used when --template is not given
  crucible config set project.template java-application

  # Cache the tool version for an hour
  crucible config set preview.environment-cache-ttl 1h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			scope, scopeName, configFile := selectedScope()

			if err := config.SetConfigValue(key, value, scope); err != nil {
				return err
			}

			fmt.Printf("Set %s = %s (%s: %s)\n", key, value, scopeName, configFile)
			return nil
		},
	}

	addGlobalFlag(cmd)
	return cmd
}
