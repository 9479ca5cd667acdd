// SPDX-License-Identifier: Apache-2.0
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// ConfigScope selects the file `crucible config` writes to
type ConfigScope int

const (
	ScopeLocal ConfigScope = iota // ./crucible.yaml, defaults for projects created here
	ScopeUser                     // ~/.config/crucible/config.yaml
)

// ConfigValue is a resolved key with a description of where it came from
type ConfigValue struct {
	Key    string
	Value  interface{}
	Source string
}

func getConfigPath(scope ConfigScope) string {
	if scope == ScopeUser {
		return filepath.Join(GlobalPaths.ConfigDir, ConfigFileName+DefaultConfigExt)
	}
	return filepath.Join(".", LocalConfigFile+DefaultConfigExt)
}

func getScopeName(scope ConfigScope) string {
	if scope == ScopeUser {
		return "user"
	}
	return "directory"
}

// DisplayConfigPath returns the config path for messages, with $HOME shortened
func DisplayConfigPath(scope ConfigScope) string {
	if scope != ScopeUser {
		return "./" + LocalConfigFile + DefaultConfigExt
	}
	path := getConfigPath(ScopeUser)
	if home, err := os.UserHomeDir(); err == nil {
		if rel, err := filepath.Rel(home, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.Join("~", rel)
		}
	}
	return path
}

// scopeFile loads one scope's file into its own viper instance, leaving the
// merged global configuration alone. A missing file yields an empty instance
// and exists=false.
func scopeFile(scope ConfigScope) (v *viper.Viper, path string, exists bool, err error) {
	path = getConfigPath(scope)
	v = viper.New()
	v.SetConfigType(ConfigType)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return v, path, false, nil
		}
		return nil, path, false, fmt.Errorf("read %s config: %w", getScopeName(scope), err)
	}
	return v, path, true, nil
}

func writeScopeFile(v *viper.Viper, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// SetConfigValue validates value for key in scope and stores it in that scope's file
func SetConfigValue(key, valueStr string, scope ConfigScope) error {
	if err := ValidateKeyScope(key, scope); err != nil {
		return err
	}

	// Only bool keys are converted; "1234" stays a string for a string key
	var value interface{} = valueStr
	if def := GetKeyDefinition(key); def == nil || def.Type == "bool" {
		value = parseValue(valueStr)
	}
	if err := ValidateValue(key, value, scope); err != nil {
		return err
	}

	v, path, _, err := scopeFile(scope)
	if err != nil {
		return err
	}
	v.Set(key, value)
	return writeScopeFile(v, path)
}

// GetConfigValue looks key up in the merged configuration
func GetConfigValue(key string) (*ConfigValue, error) {
	if !viper.IsSet(key) {
		if GetKeyDefinition(key) == nil {
			return nil, fmt.Errorf("unknown configuration key: %s", key)
		}
		return nil, fmt.Errorf("configuration key not set: %s", key)
	}
	return &ConfigValue{Key: key, Value: viper.Get(key), Source: getConfigSource(key)}, nil
}

// UnsetConfigValue removes key from the scope's file
func UnsetConfigValue(key string, scope ConfigScope) error {
	v, path, exists, err := scopeFile(scope)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%s config file does not exist: %s", getScopeName(scope), path)
	}
	if !v.IsSet(key) {
		return fmt.Errorf("key '%s' not found in %s config", key, getScopeName(scope))
	}

	// viper cannot delete keys, so the remaining settings are copied to a fresh instance
	settings := v.AllSettings()
	if err := deleteNestedKey(settings, key); err != nil {
		return err
	}
	out := viper.New()
	out.SetConfigType(ConfigType)
	for k, val := range settings {
		out.Set(k, val)
	}
	return writeScopeFile(out, path)
}

// ListConfigValues returns every set key in the merged configuration, sorted
func ListConfigValues() ([]ConfigValue, error) {
	keys := flattenKeys(viper.AllSettings(), "")
	sort.Strings(keys)

	values := make([]ConfigValue, 0, len(keys))
	for _, key := range keys {
		values = append(values, ConfigValue{Key: key, Value: viper.Get(key), Source: getConfigSource(key)})
	}
	return values, nil
}

// parseValue reads on/off style words as booleans and numbers as numbers
func parseValue(s string) interface{} {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "enable", "enabled":
		return true
	case "false", "no", "off", "disable", "disabled":
		return false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// keyToEnvVar maps preview.environment-cache-ttl to CRUCIBLE_PREVIEW_ENVIRONMENT_CACHE_TTL
func keyToEnvVar(key string) string {
	return strings.ToUpper(EnvPrefix + "_" + strings.NewReplacer("-", "_", ".", "_").Replace(key))
}

func getConfigSource(key string) string {
	if env := keyToEnvVar(key); os.Getenv(env) != "" {
		return "from ENV: " + env
	}

	switch file := viper.ConfigFileUsed(); {
	case file == "":
		return "default"
	case filepath.Base(file) == LocalConfigFile+DefaultConfigExt:
		return "from ./" + LocalConfigFile + DefaultConfigExt
	case strings.Contains(file, GlobalPaths.ConfigDir):
		return "from " + DisplayConfigPath(ScopeUser)
	default:
		return "from " + file
	}
}

// deleteNestedKey removes a dotted key from a settings tree
func deleteNestedKey(m map[string]interface{}, key string) error {
	parts := strings.Split(key, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]interface{})
		if !ok {
			return fmt.Errorf("key not found: %s", key)
		}
		m = next
	}
	last := parts[len(parts)-1]
	if _, ok := m[last]; !ok {
		return fmt.Errorf("key not found: %s", key)
	}
	delete(m, last)
	return nil
}

// flattenKeys lists the leaf keys of a settings tree in dotted form
func flattenKeys(m map[string]interface{}, prefix string) []string {
	var keys []string
	for k, v := range m {
		if prefix != "" {
			k = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			keys = append(keys, flattenKeys(nested, k)...)
		} else {
			keys = append(keys, k)
		}
	}
	return keys
}
