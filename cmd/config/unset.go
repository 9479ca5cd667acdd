// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"

	"github.com/Work-Fort/Crucible/pkg/config"
	"github.com/spf13/cobra"
)

func newUnsetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unset [key]",
		Short: "Remove configuration value",
		Long: `Remove a configuration key from a config file.

Removing a parent key (e.g. build-tool) removes all nested values.
Environment variables and defaults still apply after removal.`,
		Args: cobra.ExactArgs(1),
		Example: `  crucible config unset project.template
  crucible config unset --global build-tool.java-home`,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			scope, scopeName, configFile := selectedScope()

			if err := config.UnsetConfigValue(key, scope); err != nil {
				return err
			}

			fmt.Printf("Removed %s from %s config (%s)\n", key, scopeName, configFile)
			return nil
		},
	}

	addGlobalFlag(cmd)
	return cmd
}
