// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"taskfiles-cli/internal/config"

	"github.com/spf13/cobra"
)

// configCmd is the `tasks config` command tree.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tasks configuration",
	Long: `Manage tasks configuration.

Configuration is stored in:
  - Linux: ~/.config/tasks/config.cue
  - macOS: ~/Library/Application Support/tasks/config.cue
  - Windows: %APPDATA%\tasks\config.cue

Environment variables override file settings:
  TASKS_KEEP_MODULE_NAME_PREFIX  keep module names as task prefixes
  TASKS_LOAD_PLUGINS             enable or disable plugin loading
  TASKS_PLUGIN_DIRS              colon-separated extra plugin roots
  TASKS_ROOT                     built-in task library directory`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})
}

// showConfig prints the effective configuration, env overrides included.
func showConfig() error {
	app := newApp()
	cfg := app.Config

	root, err := app.tasksRoot()
	if err != nil {
		root = fmt.Sprintf("<unresolvable: %v>", err)
	}

	fmt.Fprintln(app.Stdout, TitleStyle.Render("Current configuration:"))
	fmt.Fprintf(app.Stdout, "  keep_module_prefix: %v\n", cfg.KeepModulePrefix)
	fmt.Fprintf(app.Stdout, "  load_plugins:       %v\n", cfg.LoadPlugins)
	if len(cfg.PluginDirs) > 0 {
		fmt.Fprintf(app.Stdout, "  plugin_dirs:        %s\n", strings.Join(cfg.PluginDirs, ":"))
	} else {
		fmt.Fprintf(app.Stdout, "  plugin_dirs:        %s\n", SubtitleStyle.Render("(none)"))
	}
	fmt.Fprintf(app.Stdout, "  tasks_root:         %s\n", root)
	return nil
}

// showConfigPath prints where the config file is expected to live.
func showConfigPath() error {
	dir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to resolve config directory: %w", err)
	}
	fmt.Println(filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}
