// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"time"

	"github.com/Work-Fort/Crucible/pkg/project"
)

// ScopeConstraints defines per-scope validation rules for a configuration key
type ScopeConstraints struct {
	Forbidden  bool     // If true, this key cannot be set in this scope
	EnumValues []string // Valid enum values for this scope (overrides global EnumValues if set)
	Pattern    string   // Regex pattern for this scope (overrides global Pattern if set)
}

// ConfigKeyDefinition defines metadata for a configuration key
type ConfigKeyDefinition struct {
	Key         string      // Configuration key (dot notation)
	Type        string      // "string", "bool", "enum", "duration"
	Default     interface{} // Default value
	Description string      // Help text

	// Global constraints (apply unless overridden by scope-specific constraints)
	EnumValues []string // Valid values for enum type (if Type="enum")
	Pattern    string   // Regex pattern for validation (if Type="string")

	// Per-scope constraints (optional - if nil, key is allowed in scope with global constraints)
	UserConstraints  *ScopeConstraints // Constraints when setting in user config
	LocalConstraints *ScopeConstraints // Constraints when setting in ./crucible.yaml
}

// machineSpecific keys describe this computer and do not belong in a
// directory config that may be shared.
var machineSpecific = &ScopeConstraints{Forbidden: true}

// ConfigRegistry holds all known configuration keys with per-scope constraints.
//
// Constraint System:
//   - No constraints: Key can be set in any scope with same validation rules
//   - Forbidden constraint: Key cannot be set in the specified scope
//   - Scope-specific EnumValues: Different allowed values per scope
//   - Scope-specific Pattern: Different regex validation per scope
var ConfigRegistry = map[string]ConfigKeyDefinition{
	"use-tui": {
		Key:         "use-tui",
		Type:        "bool",
		Default:     true,
		Description: "Use the tabbed TUI wizard for interactive sessions",
	},

	"log-level": {
		Key:         "log-level",
		Type:        "enum",
		Default:     "info",
		Description: "Log verbosity level",
		EnumValues:  []string{"disabled", "debug", "info", "warn", "error"},
	},

	"build-tool.command": {
		Key:         "build-tool.command",
		Type:        "string",
		Default:     project.DefaultToolCommand,
		Description: "Build tool executable (name on PATH or absolute path, e.g. ./gradlew)",
		Pattern:     `^\S+$`,
	},

	"build-tool.java-home": {
		Key:              "build-tool.java-home",
		Type:             "string",
		Default:          "",
		Description:      "JDK used to run the build tool (exported as JAVA_HOME)",
		LocalConstraints: machineSpecific,
	},

	"build-tool.user-home": {
		Key:              "build-tool.user-home",
		Type:             "string",
		Default:          "",
		Description:      "Build tool user home (exported as GRADLE_USER_HOME)",
		LocalConstraints: machineSpecific,
	},

	"project.template": {
		Key:         "project.template",
		Type:        "enum",
		Default:     string(project.DefaultTemplate),
		Description: "Default project template passed to 'init --type'",
		EnumValues:  project.TemplateNames(),
	},

	"wizard.show-welcome": {
		Key:         "wizard.show-welcome",
		Type:        "bool",
		Default:     true,
		Description: "Open the wizard on the welcome page",
	},

	"workspace.file": {
		Key:              "workspace.file",
		Type:             "string",
		Default:          "", // Set in InitViper() using GlobalPaths.DataDir
		Description:      "File recording imported projects",
		LocalConstraints: machineSpecific,
	},

	"preview.environment-cache-ttl": {
		Key:         "preview.environment-cache-ttl",
		Type:        "duration",
		Default:     "10m",
		Description: "How long the build tool version is cached between previews (0 disables)",
	},
}

// GetKeyDefinition returns the definition for a key, or nil if not found
func GetKeyDefinition(key string) *ConfigKeyDefinition {
	if def, ok := ConfigRegistry[key]; ok {
		return &def
	}
	return nil
}

func scopeConstraints(def *ConfigKeyDefinition, scope ConfigScope) *ScopeConstraints {
	if scope == ScopeUser {
		return def.UserConstraints
	}
	return def.LocalConstraints
}

// ValidateKeyScope checks if a key can be set in the given scope
// Returns an error if the key is forbidden in the specified scope
func ValidateKeyScope(key string, scope ConfigScope) error {
	def := GetKeyDefinition(key)
	if def == nil {
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	constraints := scopeConstraints(def, scope)
	if constraints == nil || !constraints.Forbidden {
		return nil
	}

	if scope == ScopeUser {
		return fmt.Errorf(
			"key '%s' cannot be set in user config\n\n"+
				"Hint: Remove --global flag:\n"+
				"  crucible config set %s <value>\n\n"+
				"This key must be set in directory config: ./%s%s",
			key, key, LocalConfigFile, DefaultConfigExt,
		)
	}
	return fmt.Errorf(
		"key '%s' cannot be set in directory config (machine-specific setting)\n\n"+
			"Hint: Use --global flag:\n"+
			"  crucible config set --global %s <value>\n\n"+
			"User config: %s",
		key, key, DisplayConfigPath(ScopeUser),
	)
}

// ValidateValue checks if a value is valid for the given key in the specified scope
// Applies per-scope constraints if defined, otherwise uses global constraints
func ValidateValue(key string, value interface{}, scope ConfigScope) error {
	def := GetKeyDefinition(key)
	if def == nil {
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	constraints := scopeConstraints(def, scope)

	switch def.Type {
	case "bool":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("key '%s' must be a boolean", key)
		}

	case "duration":
		str, ok := value.(string)
		if !ok {
			// A bare 0 parses as an integer
			if i, isInt := value.(int); isInt && i == 0 {
				return nil
			}
			return fmt.Errorf("key '%s' must be a duration such as 30s or 10m", key)
		}
		d, err := time.ParseDuration(str)
		if err != nil {
			return fmt.Errorf("key '%s' must be a duration such as 30s or 10m: %w", key, err)
		}
		if d < 0 {
			return fmt.Errorf("key '%s' must not be negative", key)
		}

	case "string":
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("key '%s' must be a string", key)
		}

		pattern := def.Pattern
		if constraints != nil && constraints.Pattern != "" {
			pattern = constraints.Pattern
		}
		if pattern != "" {
			matched, err := regexp.MatchString(pattern, str)
			if err != nil {
				return fmt.Errorf("pattern validation error: %w", err)
			}
			if !matched {
				return fmt.Errorf(
					"key '%s' value '%s' does not match required format for %s scope",
					key, str, getScopeName(scope),
				)
			}
		}

	case "enum":
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("key '%s' must be a string", key)
		}

		enumValues := def.EnumValues
		if constraints != nil && constraints.EnumValues != nil {
			enumValues = constraints.EnumValues
		}
		if !slices.Contains(enumValues, str) {
			return fmt.Errorf(
				"key '%s' must be one of %v in %s scope (got '%s')",
				key, enumValues, getScopeName(scope), str,
			)
		}
	}

	switch key {
	case "build-tool.java-home":
		if err := validateExistingDir(value.(string)); err != nil {
			return fmt.Errorf("key '%s': %w", key, err)
		}
	case "build-tool.user-home":
		if err := validateDirOrMissing(value.(string)); err != nil {
			return fmt.Errorf("key '%s': %w", key, err)
		}
	}

	return nil
}

// validateExistingDir requires path to be empty or an existing directory
func validateExistingDir(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", path)
		}
		return fmt.Errorf("cannot access path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path points to a file; must be a directory")
	}
	return nil
}

// validateDirOrMissing accepts an existing directory or a path that will be created
func validateDirOrMissing(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cannot access path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path points to an existing file; must be a directory or non-existent path")
	}
	return nil
}
