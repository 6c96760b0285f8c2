// SPDX-License-Identifier: MPL-2.0

package taskfile

import (
	"fmt"
	"os"
	"runtime"

	"github.com/reusee/starlarkutil"
	"go.starlark.net/starlark"
)

const (
	// moduleLocalKey is the thread-local slot holding the *Module under
	// construction while its top-level code runs.
	moduleLocalKey = "taskfile.module"
	// shRunnerLocalKey is the thread-local slot holding the ShRunner used by
	// the sh() builtin. It is only populated at invocation time.
	shRunnerLocalKey = "taskfile.shRunner"
)

// ShRunner executes a shell script fragment on behalf of a task body and
// returns its exit code. The runtime layer installs one on the thread before
// calling a task function.
type ShRunner func(script string) (int, error)

// SetShRunner installs the shell runner used by sh() calls on this thread.
func SetShRunner(thread *starlark.Thread, run ShRunner) {
	thread.SetLocal(shRunnerLocalKey, run)
}

// Predeclared returns the environment visible to every task module:
// task(), sh(), and a couple of read-only host helpers.
func Predeclared() starlark.StringDict {
	return starlark.StringDict{
		"task":     starlark.NewBuiltin("task", taskBuiltin),
		"sh":       starlark.NewBuiltin("sh", shBuiltin),
		"getenv":   starlarkutil.MakeFunc("getenv", os.Getenv),
		"platform": starlark.String(runtime.GOOS),
	}
}

// taskBuiltin implements task(name, help="", cmd="", fn=None, deps=[], aliases=[]).
// Every call registers a Task on the module currently being loaded; the
// returned value may be assigned or discarded, registration already happened.
func taskBuiltin(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		name    string
		help    string
		cmd     string
		fn      starlark.Value = starlark.None
		deps    *starlark.List
		aliases *starlark.List
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"name", &name,
		"help?", &help,
		"cmd?", &cmd,
		"fn?", &fn,
		"deps?", &deps,
		"aliases?", &aliases,
	); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("task: name must not be empty")
	}
	if cmd != "" && fn != starlark.None {
		return nil, fmt.Errorf("task %q: cmd and fn are mutually exclusive", name)
	}

	t := &Task{
		Name: name,
		Help: help,
		Cmd:  cmd,
	}
	if fn != starlark.None {
		callable, ok := fn.(starlark.Callable)
		if !ok {
			return nil, fmt.Errorf("task %q: fn must be callable, got %s", name, fn.Type())
		}
		t.Fn = callable
	}
	var err error
	if t.Deps, err = stringList(name, "deps", deps); err != nil {
		return nil, err
	}
	if t.Aliases, err = stringList(name, "aliases", aliases); err != nil {
		return nil, err
	}

	mod, ok := thread.Local(moduleLocalKey).(*Module)
	if !ok {
		return nil, fmt.Errorf("task %q: task() may only be called while a module is loading", name)
	}
	mod.add(t)
	return t, nil
}

// shBuiltin implements sh(script). It delegates to the runner installed by
// the runtime layer; calling it at module load time is an error because
// discovery must never execute task side effects.
func shBuiltin(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var script string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "script", &script); err != nil {
		return nil, err
	}
	run, ok := thread.Local(shRunnerLocalKey).(ShRunner)
	if !ok {
		return nil, fmt.Errorf("sh() may only be called from a task body, not at module load time")
	}
	code, err := run(script)
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt(code), nil
}

func stringList(task, field string, l *starlark.List) ([]string, error) {
	if l == nil {
		return nil, nil
	}
	out := make([]string, 0, l.Len())
	for i := 0; i < l.Len(); i++ {
		s, ok := starlark.AsString(l.Index(i))
		if !ok {
			return nil, fmt.Errorf("task %q: %s[%d] must be a string, got %s", task, field, i, l.Index(i).Type())
		}
		out = append(out, s)
	}
	return out, nil
}
