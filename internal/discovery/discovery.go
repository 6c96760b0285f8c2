// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"taskfiles-cli/internal/config"
	"taskfiles-cli/pkg/taskfile"
)

// LocalTasksFile is the well-known project-local override module, resolved
// against the working directory (or the enclosing git toplevel).
const LocalTasksFile = "local_tasks.star"

type (
	// Discovery drives the four-phase composition of the task namespace:
	// built-in library, local override, plugin registration, plugin walk.
	// A Discovery is cheap; create one per run.
	Discovery struct {
		cfg    *config.Config
		loader *taskfile.Loader
		// root is the built-in task library directory.
		root string
		// baseDir is the working directory local overrides resolve against.
		baseDir string
	}
)

// New creates a Discovery for the given configuration and task library root.
func New(cfg *config.Config, root string) *Discovery {
	baseDir, err := os.Getwd()
	if err != nil {
		// Deleted working directory; local-override phase will be skipped.
		baseDir = ""
	}
	return &Discovery{
		cfg:     cfg,
		loader:  taskfile.NewLoader(),
		root:    root,
		baseDir: baseDir,
	}
}

// Discover runs all phases and returns the composed namespace plus the
// diagnostics produced along the way. The returned namespace is never nil;
// a total failure of the built-in phase degrades to an empty namespace with
// a single error diagnostic, and the process carries on without built-in
// tasks rather than aborting.
func (d *Discovery) Discover() *Result {
	res := &Result{Namespace: NewNamespace()}

	if !d.builtinPhase(res) {
		return res
	}
	d.localOverridePhase(res)
	if d.cfg.LoadPlugins {
		d.pluginPhase(res)
	}
	return res
}

// builtinPhase enumerates every source module inside the task library,
// recursively, and merges each into the namespace with the configured
// flatten setting. It reports false only on total failure (the library
// cannot be introspected at all), in which case the namespace is reset to
// empty and one diagnostic is recorded.
func (d *Discovery) builtinPhase(res *Result) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			res.Namespace = NewNamespace()
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: SeverityError,
				Code:     "discovery_failed",
				Message:  fmt.Sprintf("task discovery failed, continuing without built-in tasks: %v", r),
				Path:     d.root,
			})
			ok = false
		}
	}()

	if _, err := os.ReadDir(d.root); err != nil {
		res.Namespace = NewNamespace()
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Severity: SeverityError,
			Code:     "discovery_failed",
			Message:  fmt.Sprintf("cannot read task library %s, continuing without built-in tasks: %v", d.root, err),
			Path:     d.root,
			Cause:    err,
		})
		return false
	}

	d.walkLibrary(res, d.root, "tasks")
	return true
}

// walkLibrary merges every eligible module under dir, descending into
// nested sub-packages. prefix is the dotted identifier of dir, used in
// diagnostics only.
func (d *Discovery) walkLibrary(res *Result, dir, prefix string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Code:     "library_scan_failed",
			Message:  fmt.Sprintf("failed to list %s while scanning task modules: %v", dir, err),
			Path:     dir,
			Cause:    err,
		})
		return
	}

	flatten := !d.cfg.KeepModulePrefix
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		if isDir(path) {
			if strings.HasPrefix(name, privatePrefix) {
				continue
			}
			if IsPackageDir(path) {
				if mod, lerr := d.load(d.loader.LoadPackage, path, name); lerr != nil {
					res.Diagnostics = append(res.Diagnostics, loadDiagnostic("module_load_skipped", lerr))
				} else {
					res.Namespace.Merge(mod, name, flatten)
				}
			}
			d.walkLibrary(res, path, prefix+"."+name)
			continue
		}

		if !isFile(path) || name == packageMarker {
			continue
		}
		if ClassifyFile(name) != KindTaskModule {
			continue
		}

		stem := moduleStem(name)
		mod, lerr := d.load(d.loader.Load, path, stem)
		if lerr != nil {
			res.Diagnostics = append(res.Diagnostics, loadDiagnostic("module_load_skipped", lerr))
			continue
		}
		res.Namespace.Merge(mod, stem, flatten)
	}
}

// localOverridePhase imports the project-local override module. Its tasks
// always merge flat, regardless of the global flatten setting, so overrides
// stay reachable unqualified. Import failures are reported but non-fatal;
// a missing file is not worth a diagnostic.
func (d *Discovery) localOverridePhase(res *Result) {
	path, ok := d.findLocalTasks()
	if !ok {
		slog.Debug("no local override module found", "file", LocalTasksFile)
		return
	}

	mod, lerr := d.load(d.loader.Load, path, "local_tasks")
	if lerr != nil {
		res.Diagnostics = append(res.Diagnostics, loadDiagnostic("local_tasks_load_failed", lerr))
		return
	}
	res.Namespace.Merge(mod, "local_tasks", true)
}

// findLocalTasks resolves local_tasks.star against the working directory,
// falling back to the enclosing git toplevel so the override works from any
// subdirectory of a repository.
func (d *Discovery) findLocalTasks() (string, bool) {
	if d.baseDir == "" {
		return "", false
	}
	path := filepath.Join(d.baseDir, LocalTasksFile)
	if isFile(path) {
		return path, true
	}

	out, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", false
	}
	toplevel := strings.TrimSpace(string(out))
	if toplevel == "" {
		return "", false
	}
	path = filepath.Join(toplevel, LocalTasksFile)
	if isFile(path) {
		return path, true
	}
	return "", false
}

// load invokes a loader function and normalizes its failure into a
// *taskfile.LoadError, which is the only error shape diagnostics consume.
func (d *Discovery) load(fn func(path, name string) (*taskfile.Module, error), path, name string) (*taskfile.Module, *taskfile.LoadError) {
	mod, err := fn(path, name)
	if err == nil {
		return mod, nil
	}
	var lerr *taskfile.LoadError
	if !errors.As(err, &lerr) {
		lerr = &taskfile.LoadError{Name: name, Path: path, Err: err}
	}
	return nil, lerr
}
