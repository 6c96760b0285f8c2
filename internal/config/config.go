// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "tasks"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"

	// EnvKeepModulePrefix keeps module-name prefixes when set truthy.
	EnvKeepModulePrefix = "TASKS_KEEP_MODULE_NAME_PREFIX"
	// EnvLoadPlugins toggles the plugin phase.
	EnvLoadPlugins = "TASKS_LOAD_PLUGINS"
	// EnvPluginDirs is a colon-separated list of absolute plugin roots.
	EnvPluginDirs = "TASKS_PLUGIN_DIRS"
	// EnvTasksRoot overrides the built-in task library directory.
	EnvTasksRoot = "TASKS_ROOT"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the tasks configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// DefaultTasksRoot returns the per-user task library directory, used when
// neither the config file nor TASKS_ROOT names one. The library is a plain
// directory of *.star modules, typically a cloned task repository.
func DefaultTasksRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".tasks", "taskfiles"), nil
}

// Load reads the configuration: built-in defaults, then the CUE config
// file when one exists, then TASKS_* environment overrides. Malformed
// environment values fall back to safe defaults rather than failing.
func Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("keep_module_prefix", defaults.KeepModulePrefix)
	v.SetDefault("load_plugins", defaults.LoadPlugins)
	v.SetDefault("plugin_dirs", defaults.PluginDirs)
	v.SetDefault("tasks_root", defaults.TasksRoot)

	cfgDir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if fileExists(cuePath) {
		if err := loadCUEIntoViper(v, cuePath); err != nil {
			return nil, fmt.Errorf("load configuration %s: %w", cuePath, err)
		}
	}
	// If no config file found, defaults plus environment apply (no error).

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(&cfg, os.Getenv)
	return &cfg, nil
}

// applyEnvOverrides layers the TASKS_* environment variables over cfg.
// Parse failures degrade to the documented safe defaults: prefixing stays
// off, and a malformed plugin toggle disables plugin loading outright.
func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	if raw := getenv(EnvKeepModulePrefix); raw != "" {
		cfg.KeepModulePrefix = parseBoolSetting(raw, false)
	}
	if raw := getenv(EnvLoadPlugins); raw != "" {
		cfg.LoadPlugins = parseBoolSetting(raw, false)
	}
	if raw, ok := lookup(getenv, EnvPluginDirs); ok {
		cfg.PluginDirs = splitDirList(raw)
	}
	if raw := getenv(EnvTasksRoot); raw != "" {
		cfg.TasksRoot = raw
	}
}

// lookup distinguishes "unset" from "set to empty": an explicitly empty
// plugin dir list clears the configured one.
func lookup(getenv func(string) string, key string) (string, bool) {
	raw := getenv(key)
	if raw == "" {
		// getenv cannot distinguish unset from empty; treat empty as unset.
		return "", false
	}
	return raw, true
}

// parseBoolSetting parses a boolean environment value, returning onError
// when it cannot be parsed.
func parseBoolSetting(raw string, onError bool) bool {
	val, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return onError
	}
	return val
}

// splitDirList splits a colon-separated directory list, dropping empty
// elements.
func splitDirList(raw string) []string {
	var dirs []string
	for _, dir := range strings.Split(raw, ":") {
		if dir = strings.TrimSpace(dir); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config
// schema, and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return fmt.Errorf("invalid CUE in %s: %w", path, userValue.Err())
	}

	// Unify with the schema to validate against the #Config definition.
	// Concrete(false) because every config field is optional.
	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return fmt.Errorf("config %s does not match schema: %w", path, err)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
