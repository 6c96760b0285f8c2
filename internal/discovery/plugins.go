// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// internalPluginDir is the subdirectory of the task library reserved for
// bundled plugins. It is private-prefixed so the built-in walk skips it;
// only the plugin phase looks inside.
const internalPluginDir = "_plugins"

type (
	// pluginShape distinguishes the two plugin layouts plus the single-file
	// case.
	pluginShape int

	// pluginUnit is one discovered plugin: a single importable file or a
	// directory. It only lives for the duration of the walk; its tasks are
	// folded into the namespace and the unit is discarded.
	pluginUnit struct {
		// name is derived from the file or directory name, with a stable
		// mangling: the final path segment is taken and non-identifier
		// characters are replaced.
		name string
		// shape is the plugin layout.
		shape pluginShape
		// path is the plugin's origin location.
		path string
		// identifier is the dotted display identifier used in diagnostics.
		identifier string
	}

	// pluginRoot is one registered plugin search root.
	pluginRoot struct {
		dir        string
		identifier string
	}
)

const (
	shapeFile pluginShape = iota
	shapePackage
	shapeLooseFiles
)

// pluginPhase registers plugin roots and walks each one. The internal
// _plugins directory of the task library is registered first (when it is an
// importable package), then every configured absolute plugin directory.
func (d *Discovery) pluginPhase(res *Result) {
	for _, root := range d.pluginRoots(res) {
		d.walkPluginRoot(res, root)
	}
}

// pluginRoots determines the plugin search roots from the task library
// layout and configuration.
func (d *Discovery) pluginRoots(res *Result) []pluginRoot {
	var roots []pluginRoot

	internal := filepath.Join(d.root, internalPluginDir)
	if isDir(internal) && IsPackageDir(internal) {
		roots = append(roots, pluginRoot{dir: internal, identifier: "tasks." + internalPluginDir})
	}

	for _, dir := range d.cfg.PluginDirs {
		if dir == "" {
			continue
		}
		if !filepath.IsAbs(dir) {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     "plugin_dir_not_absolute",
				Message:  fmt.Sprintf("configured plugin directory is not absolute, skipping: %s", dir),
				Path:     dir,
			})
			continue
		}
		if !isDir(dir) {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     "plugin_dir_missing",
				Message:  fmt.Sprintf("configured plugin directory does not exist, skipping: %s", dir),
				Path:     dir,
			})
			continue
		}
		roots = append(roots, pluginRoot{dir: dir, identifier: derivePluginName(dir)})
	}

	return roots
}

// walkPluginRoot folds every plugin directly inside root into the namespace.
// Files with the task suffix are single-file plugins. Directories go the
// package route first; a package contributing zero tasks falls back to a
// loose collection, as does a directory with no package marker at all.
// The package marker itself and unrecognized entries are skipped.
func (d *Discovery) walkPluginRoot(res *Result, root pluginRoot) {
	entries, err := os.ReadDir(root.dir)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Code:     "plugin_scan_failed",
			Message:  fmt.Sprintf("failed to list plugin directory %s: %v", root.dir, err),
			Path:     root.dir,
			Cause:    err,
		})
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(root.dir, name)

		switch {
		case name == packageMarker:
			continue

		case isFile(path) && strings.HasSuffix(name, TaskFileSuffix):
			unit := pluginUnit{
				name:       derivePluginName(name),
				shape:      shapeFile,
				path:       path,
				identifier: root.identifier + "." + derivePluginName(name),
			}
			d.mergePluginFile(res, unit)

		case isDir(path):
			d.mergePluginDir(res, root, path, name)
		}
	}
}

// mergePluginDir handles a directory-shaped plugin.
func (d *Discovery) mergePluginDir(res *Result, root pluginRoot, path, name string) {
	unit := pluginUnit{
		name:       derivePluginName(name),
		path:       path,
		identifier: root.identifier + "." + derivePluginName(name),
	}

	if IsPackageDir(path) {
		unit.shape = shapePackage
		mod, lerr := d.load(d.loader.LoadPackage, path, unit.name)
		if lerr != nil {
			res.Diagnostics = append(res.Diagnostics, loadDiagnostic("plugin_load_skipped", lerr))
			return
		}
		if res.Namespace.Merge(mod, unit.name, !d.cfg.KeepModulePrefix) {
			return
		}
		// The directory claims to be a package but defines zero tasks:
		// fall back to loading its files individually.
	}

	unit.shape = shapeLooseFiles
	d.mergeLooseCollection(res, unit)
}

// mergePluginFile loads a single-file plugin and merges it like a built-in
// module.
func (d *Discovery) mergePluginFile(res *Result, unit pluginUnit) {
	mod, lerr := d.load(d.loader.Load, unit.path, unit.name)
	if lerr != nil {
		res.Diagnostics = append(res.Diagnostics, loadDiagnostic("plugin_load_skipped", lerr))
		return
	}
	res.Namespace.Merge(mod, unit.name, !d.cfg.KeepModulePrefix)
}

// mergeLooseCollection imports every task file directly inside the plugin
// directory as a standalone module (one level, non-recursive).
func (d *Discovery) mergeLooseCollection(res *Result, unit pluginUnit) {
	entries, err := os.ReadDir(unit.path)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Code:     "plugin_scan_failed",
			Message:  fmt.Sprintf("failed to list plugin collection %s: %v", unit.path, err),
			Path:     unit.path,
			Cause:    err,
		})
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == packageMarker || !strings.HasSuffix(name, TaskFileSuffix) {
			continue
		}
		path := filepath.Join(unit.path, name)
		if !isFile(path) {
			continue
		}
		stem := derivePluginName(name)
		mod, lerr := d.load(d.loader.Load, path, stem)
		if lerr != nil {
			res.Diagnostics = append(res.Diagnostics, loadDiagnostic("plugin_load_skipped", lerr))
			continue
		}
		res.Namespace.Merge(mod, stem, !d.cfg.KeepModulePrefix)
	}
}

// derivePluginName produces a stable module name from a file, directory or
// URL-ish origin: the final path segment with the task suffix stripped and
// non-identifier characters replaced by underscores.
func derivePluginName(s string) string {
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(s, TaskFileSuffix)

	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
