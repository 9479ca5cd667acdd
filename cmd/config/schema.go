// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"
	"os"

	"github.com/Work-Fort/Crucible/pkg/config"
	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	var outputFile string
	var scopeFlag string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Export configuration schema",
		Long: `Export the configuration schema in JSON Schema Draft 2020-12 format
for editor completion and validation of crucible.yaml files.

By default, the schema includes all keys. Use --scope to filter by user or directory keys.`,
		Example: `  crucible config schema --scope directory --output crucible.schema.json

  # In .vscode/settings.json:
  {
    "yaml.schemas": {
      "./crucible.schema.json": "crucible.yaml"
    }
  }`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var scope *config.ConfigScope
			switch scopeFlag {
			case "":
			case "user":
				s := config.ScopeUser
				scope = &s
			case "directory":
				s := config.ScopeLocal
				scope = &s
			default:
				return fmt.Errorf("invalid scope: %s (must be 'user' or 'directory')", scopeFlag)
			}

			schema, err := config.JSONSchema(scope)
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}

			if outputFile != "" {
				if err := os.WriteFile(outputFile, schema, 0644); err != nil {
					return fmt.Errorf("failed to write schema to file: %w", err)
				}
				fmt.Printf("Schema written to %s\n", outputFile)
			} else {
				fmt.Println(string(schema))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write schema to file instead of stdout")
	cmd.Flags().StringVar(&scopeFlag, "scope", "", "Filter by scope: user or directory (default: all)")

	return cmd
}
