// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"os"
	"path/filepath"
	"strings"

	"taskfiles-cli/pkg/taskfile"
)

// packageMarker is the file whose presence makes a directory an importable
// package rather than a loose collection of task files.
const packageMarker = taskfile.PackageMarker

const (
	// TaskFileSuffix is the source suffix task modules must carry.
	TaskFileSuffix = ".star"
	// privatePrefix marks modules reserved for internal wiring; such files
	// never contribute tasks.
	privatePrefix = "_"
	// cacheDirName is the loader cache directory, never a module.
	cacheDirName = ".tasks-cache"
)

// reservedNames are filenames excluded regardless of prefix: the root
// namespace file (importing it from discovery would cycle) and the test
// fixture configuration file.
var reservedNames = map[string]bool{
	"tasks.star":    true,
	"conftest.star": true,
}

// Kind classifies a filesystem entry in a task-search directory.
type Kind int

const (
	// KindTaskModule is an eligible *.star task module.
	KindTaskModule Kind = iota
	// KindExcluded is a deliberately skipped entry (private prefix or
	// reserved filename). The skip is silent, not a diagnostic.
	KindExcluded
	// KindNotModule is anything that is not a task module at all
	// (directories, cache artifacts, non-source files).
	KindNotModule
)

// ClassifyFile decides whether a file name is an eligible task module.
func ClassifyFile(name string) Kind {
	if !strings.HasSuffix(name, TaskFileSuffix) {
		return KindNotModule
	}
	if reservedNames[name] {
		return KindExcluded
	}
	if strings.HasPrefix(name, privatePrefix) {
		return KindExcluded
	}
	return KindTaskModule
}

// isFile reports whether path is a regular file, resolving symlinks so a
// linked-in shared task library counts as its target kind.
func isFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// isDir reports whether path is a directory (symlinks resolved). The loader
// cache directory is never treated as one.
func isDir(path string) bool {
	if filepath.Base(path) == cacheDirName {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsPackageDir reports whether dir is an importable package, i.e. carries
// the package marker file.
func IsPackageDir(dir string) bool {
	return isFile(filepath.Join(dir, packageMarker))
}

// moduleStem strips the task file suffix from a file name.
func moduleStem(name string) string {
	return strings.TrimSuffix(name, TaskFileSuffix)
}
