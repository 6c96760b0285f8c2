// SPDX-License-Identifier: MPL-2.0

package config

type (
	// Config holds every process-wide setting the discovery engine reads.
	// It is constructed once at process start and treated as immutable for
	// the duration of a run.
	Config struct {
		// KeepModulePrefix groups tasks under their originating module's
		// name instead of merging everything into one flat namespace.
		// Off by default: the flat namespace is the documented default.
		KeepModulePrefix bool `mapstructure:"keep_module_prefix"`

		// LoadPlugins enables the plugin discovery phase. Enabled by
		// default; a malformed override disables it.
		LoadPlugins bool `mapstructure:"load_plugins"`

		// PluginDirs lists additional absolute plugin search roots.
		PluginDirs []string `mapstructure:"plugin_dirs"`

		// TasksRoot is the built-in task library directory. Empty means
		// the per-user default library location.
		TasksRoot string `mapstructure:"tasks_root"`
	}
)

// DefaultConfig returns the documented defaults: flat namespace, plugins
// enabled, no extra plugin roots.
func DefaultConfig() *Config {
	return &Config{
		KeepModulePrefix: false,
		LoadPlugins:      true,
		PluginDirs:       nil,
		TasksRoot:        "",
	}
}
