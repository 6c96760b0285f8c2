// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"taskfiles-cli/internal/config"
	"taskfiles-cli/internal/discovery"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: all Cobra command handlers go through an App to
	// load configuration, run discovery, and render diagnostics, so tests can
	// redirect the streams.
	App struct {
		Config *config.Config
		Stdout io.Writer
		Stderr io.Writer
	}
)

// newApp loads configuration and builds the production App. A config load
// failure degrades to defaults with a warning on stderr rather than aborting:
// a broken config file should never lock the user out of their tasks.
func newApp() *App {
	app := &App{Stdout: os.Stdout, Stderr: os.Stderr}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(app.Stderr, "%s: failed to load config, using defaults: %v\n",
			WarningStyle.Render("warning"), err)
		cfg = config.DefaultConfig()
	}
	app.Config = cfg
	return app
}

// tasksRoot resolves the built-in task library directory: the configured
// root when set, the per-user default location otherwise.
func (a *App) tasksRoot() (string, error) {
	if a.Config.TasksRoot != "" {
		return a.Config.TasksRoot, nil
	}
	return config.DefaultTasksRoot()
}

// discover runs the full discovery pipeline and renders its diagnostics on
// stderr. The returned namespace is never nil.
func (a *App) discover() (*discovery.Namespace, error) {
	root, err := a.tasksRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve task library root: %w", err)
	}

	res := discovery.New(a.Config, root).Discover()
	a.renderDiagnostics(res.Diagnostics)
	return res.Namespace, nil
}

// renderDiagnostics writes structured discovery diagnostics to stderr with
// lipgloss styling. Discovery itself never prints; this is the single place
// the rendering policy lives.
func (a *App) renderDiagnostics(diags []discovery.Diagnostic) {
	for _, diag := range diags {
		prefix := WarningStyle.Render("warning")
		if diag.Severity == discovery.SeverityError {
			prefix = ErrorStyle.Render("error")
		}

		if diag.Path != "" {
			fmt.Fprintf(a.Stderr, "%s: %s (%s)\n", prefix, diag.Message, diag.Path)
			continue
		}
		fmt.Fprintf(a.Stderr, "%s: %s\n", prefix, diag.Message)
	}
}

// newLogger builds the stderr logger that backs the process-wide slog
// default. Verbose mode lowers the level to debug.
func newLogger(verboseMode bool) *log.Logger {
	level := log.WarnLevel
	if verboseMode {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: false,
	})
}
