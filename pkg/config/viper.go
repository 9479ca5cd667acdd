// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Work-Fort/Crucible/pkg/project"
)

// InitViper initializes Viper configuration with defaults and search paths
// Precedence order: ENV > dir-conf > user-conf > defaults
func InitViper() {
	viper.SetConfigType(ConfigType)

	// Defaults come from the registry (lowest precedence)
	for key, def := range ConfigRegistry {
		viper.SetDefault(key, def.Default)
	}
	viper.SetDefault("workspace.file", filepath.Join(GlobalPaths.DataDir, WorkspaceFileName))

	// Enable environment variable support (highest precedence)
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

// LoadConfig reads config files in precedence order
// Precedence: ENV > ./crucible.yaml > ~/.config/crucible/config.yaml > defaults
func LoadConfig() error {
	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(GlobalPaths.ConfigDir)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read user config file: %w", err)
		}
	} else {
		warnMisplacedKeys(GlobalPaths.ConfigDir, ScopeUser)
	}

	// Directory config overrides user config
	viper.SetConfigName(LocalConfigFile)
	viper.AddConfigPath(".")

	if err := viper.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read local config file: %w", err)
		}
	} else {
		if err := validateConfigFile(".", ScopeLocal); err != nil {
			return err
		}
		warnMisplacedKeys(".", ScopeLocal)
	}

	return nil
}

// GetUseTUI returns the use-tui configuration value
func GetUseTUI() bool {
	return viper.GetBool("use-tui")
}

// GetLogLevel returns the log-level configuration value
func GetLogLevel() string {
	return viper.GetString("log-level")
}

// GetToolCommand returns the build tool executable
func GetToolCommand() string {
	if cmd := viper.GetString("build-tool.command"); cmd != "" {
		return cmd
	}
	return project.DefaultToolCommand
}

// GetJavaHome returns the JDK used to run the build tool, or "" for the tool's default
func GetJavaHome() string {
	return viper.GetString("build-tool.java-home")
}

// GetToolUserHome returns the build tool's user home, or "" for the tool's default
func GetToolUserHome() string {
	return viper.GetString("build-tool.user-home")
}

// GetTemplate returns the default project template. An invalid value from
// the environment falls back to the built-in default.
func GetTemplate() project.TemplateKind {
	kind, err := project.ParseTemplateKind(viper.GetString("project.template"))
	if err != nil {
		log.Warnf("config: %v", err)
		return project.DefaultTemplate
	}
	return kind
}

// GetShowWelcome reports whether the wizard opens on the welcome page
func GetShowWelcome() bool {
	return viper.GetBool("wizard.show-welcome")
}

// GetWorkspaceFile returns the workspace registry path
func GetWorkspaceFile() string {
	return viper.GetString("workspace.file")
}

// GetEnvironmentCacheTTL returns how long build tool versions are cached
func GetEnvironmentCacheTTL() time.Duration {
	return viper.GetDuration("preview.environment-cache-ttl")
}

// validateConfigFile checks every key in a config file against the registry
func validateConfigFile(configDir string, scope ConfigScope) error {
	var configPath string
	if scope == ScopeUser {
		configPath = filepath.Join(configDir, ConfigFileName+DefaultConfigExt)
	} else {
		configPath = filepath.Join(".", LocalConfigFile+DefaultConfigExt)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	// Read just this file so values from other layers do not interfere
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType(ConfigType)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file for validation: %w", err)
	}

	for _, key := range flattenKeys(v.AllSettings(), "") {
		if err := ValidateKeyScope(key, scope); err != nil {
			return fmt.Errorf("invalid key in config file %s: %w", configPath, err)
		}
		if err := ValidateValue(key, v.Get(key), scope); err != nil {
			return fmt.Errorf("invalid value in config file %s: %w", configPath, err)
		}
	}

	return nil
}

// warnMisplacedKeys logs keys that usually live in the other scope.
// Placement is informational only; precedence decides the effective value.
func warnMisplacedKeys(configDir string, scope ConfigScope) {
	configPath := filepath.Join(".", LocalConfigFile+DefaultConfigExt)
	if scope == ScopeUser {
		configPath = filepath.Join(configDir, ConfigFileName+DefaultConfigExt)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType(ConfigType)
	if err := v.ReadInConfig(); err != nil {
		return
	}

	for _, key := range flattenKeys(v.AllSettings(), "") {
		def := GetKeyDefinition(key)
		if def == nil {
			continue
		}

		recommended := scope
		if def.LocalConstraints != nil && def.LocalConstraints.Forbidden {
			recommended = ScopeUser
		} else if def.UserConstraints != nil && def.UserConstraints.Forbidden {
			recommended = ScopeLocal
		}

		if recommended != scope {
			log.Debugf("Key '%s' in %s config (typically in %s config: %s)",
				key, getScopeName(scope), getScopeName(recommended), DisplayConfigPath(recommended))
		}
	}
}

// BindFlags binds all relevant cobra flags to Viper
func BindFlags(flags *pflag.FlagSet) error {
	flagsToBind := []string{
		"use-tui",
		"log-level",
	}

	for _, flagName := range flagsToBind {
		if err := viper.BindPFlag(flagName, flags.Lookup(flagName)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flagName, err)
		}
	}

	return nil
}
