// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"

	"github.com/Work-Fort/Crucible/pkg/config"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all configuration values",
		Long: `List all configuration values with their sources.

Output format: key = value (source)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := config.ListConfigValues()
			if err != nil {
				return err
			}

			if len(values) == 0 {
				fmt.Println("No configuration set")
				return nil
			}

			for _, cv := range values {
				fmt.Printf("%s = %v (%s)\n", cv.Key, cv.Value, cv.Source)
			}

			subtle := config.CurrentTheme.SubtleStyle()
			if config.HasLocalConfig() {
				fmt.Println("\n" + subtle.Render("Directory config: "+config.DisplayConfigPath(config.ScopeLocal)))
			}
			fmt.Println(subtle.Render("Configuration precedence: ENV > directory config > user config > defaults"))
			return nil
		},
	}

	return cmd
}
