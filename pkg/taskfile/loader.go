// SPDX-License-Identifier: MPL-2.0

package taskfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// PackageMarker is the file that makes a directory an importable package.
const PackageMarker = "init.star"

type (
	// LoadError describes a failed module load with enough diagnostic
	// context for a single human-readable line: the failing file, the line
	// number and the offending source line, when they can be determined.
	LoadError struct {
		// Name is the module display name.
		Name string
		// Path is the file that failed.
		Path string
		// Line is the failing line number (0 when unknown).
		Line int
		// Snippet is the trimmed source line at Line (empty when unknown).
		Snippet string
		// Err is the underlying starlark or I/O error.
		Err error
	}

	// Loader executes task modules. It is stateless and safe to reuse
	// across an entire discovery run.
	Loader struct {
		opts        *syntax.FileOptions
		predeclared starlark.StringDict
	}
)

// Error implements the error interface with the same shape the discovery
// diagnostics emit: failing file, line, snippet, message.
func (e *LoadError) Error() string {
	if e.Line > 0 && e.Snippet != "" {
		return fmt.Sprintf("module %s failed to load (%s, line %d %q): %v", e.Name, e.Path, e.Line, e.Snippet, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("module %s failed to load (%s, line %d): %v", e.Name, e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("module %s failed to load (%s): %v", e.Name, e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *LoadError) Unwrap() error { return e.Err }

// NewLoader creates a module loader with the standard predeclared
// environment and permissive file options (set, while, top-level control).
func NewLoader() *Loader {
	return &Loader{
		opts: &syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
			GlobalReassign:  true,
		},
		predeclared: Predeclared(),
	}
}

// Load executes the task module at path under the given display name.
// On success it returns the module handle; on any failure (unreadable file,
// syntax defect, runtime error in top-level code) it returns a *LoadError
// and no module. Load never panics and never aborts the caller.
func (l *Loader) Load(path, name string) (*Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Name: name, Path: path, Err: err}
	}
	return l.exec(path, name, src)
}

// LoadPackage executes a package directory: its init.star is the package
// body, and load() of sibling files is resolved within the directory.
func (l *Loader) LoadPackage(dir, name string) (*Module, error) {
	marker := filepath.Join(dir, PackageMarker)
	src, err := os.ReadFile(marker)
	if err != nil {
		return nil, &LoadError{Name: name, Path: marker, Err: err}
	}
	return l.exec(marker, name, src)
}

func (l *Loader) exec(path, name string, src []byte) (mod *Module, lerr error) {
	mod = newModule(name, path)
	dir := filepath.Dir(path)

	thread := &starlark.Thread{
		Name: name,
		Load: func(thread *starlark.Thread, module string) (starlark.StringDict, error) {
			return l.loadSibling(thread, dir, module)
		},
	}
	thread.SetLocal(moduleLocalKey, mod)

	// Top-level code in a module is arbitrary; a panic there must degrade
	// to a load failure, not take down the discovery run.
	defer func() {
		if r := recover(); r != nil {
			mod = nil
			lerr = &LoadError{Name: name, Path: path, Err: fmt.Errorf("panic during module load: %v", r)}
		}
	}()

	if _, err := starlark.ExecFileOptions(l.opts, thread, path, src, l.predeclared); err != nil {
		return nil, l.describe(name, path, src, err)
	}
	return mod, nil
}

// loadSibling resolves load("file.star") within a package directory. Only
// relative sibling paths are allowed; the loaded file shares the thread so
// its task() calls register on the same module.
func (l *Loader) loadSibling(thread *starlark.Thread, dir, module string) (starlark.StringDict, error) {
	if filepath.IsAbs(module) || strings.Contains(module, "..") {
		return nil, fmt.Errorf("load(%q): only sibling files may be loaded", module)
	}
	path := filepath.Join(dir, module)
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return starlark.ExecFileOptions(l.opts, thread, path, src, l.predeclared)
}

// describe turns a starlark error into a LoadError with position detail.
func (l *Loader) describe(name, path string, src []byte, err error) *LoadError {
	le := &LoadError{Name: name, Path: path, Err: err}

	var evalErr *starlark.EvalError
	var syntaxErr syntax.Error
	var resolveErrs resolve.ErrorList
	switch {
	case errors.As(err, &evalErr):
		// Innermost frame with a real position; top-level code reports the
		// failing statement, errors inside helpers report the helper line.
		for i := len(evalErr.CallStack) - 1; i >= 0; i-- {
			if fr := evalErr.CallStack[i]; fr.Pos.Line > 0 {
				le.Path = fr.Pos.Filename()
				le.Line = int(fr.Pos.Line)
				break
			}
		}
		le.Err = errors.New(evalErr.Msg)
	case errors.As(err, &resolveErrs):
		if len(resolveErrs) > 0 {
			le.Path = resolveErrs[0].Pos.Filename()
			le.Line = int(resolveErrs[0].Pos.Line)
			le.Err = errors.New(resolveErrs[0].Msg)
		}
	case errors.As(err, &syntaxErr):
		le.Path = syntaxErr.Pos.Filename()
		le.Line = int(syntaxErr.Pos.Line)
		le.Err = errors.New(syntaxErr.Msg)
	}

	if le.Line > 0 {
		le.Snippet = sourceLine(src, le.Path, path, le.Line)
	}
	return le
}

// sourceLine returns the trimmed source line at lineno. When the failing
// file is not the module file itself (load()ed sibling), it is re-read.
func sourceLine(src []byte, failingPath, modulePath string, lineno int) string {
	if failingPath != modulePath {
		data, err := os.ReadFile(failingPath)
		if err != nil {
			return ""
		}
		src = data
	}
	lines := strings.Split(string(src), "\n")
	if lineno < 1 || lineno > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[lineno-1])
}
