// SPDX-License-Identifier: MPL-2.0

package taskfile

import (
	"fmt"

	"go.starlark.net/starlark"
)

type (
	// Task is the atomic unit of the system: a named, callable task with an
	// implementation body. A task body is either a shell script (Cmd, run by
	// the virtual shell runtime) or a starlark function (Fn, called with the
	// positional CLI arguments). Tasks are created by module code at load
	// time and are immutable afterwards.
	Task struct {
		// Name is the task name, unique within its owning module.
		Name string
		// Help is a one-line description shown in listings.
		Help string
		// Aliases are alternate names the dispatcher may register.
		Aliases []string
		// Deps names tasks that must run before this one.
		Deps []string
		// Cmd is the shell script body (mvdan/sh syntax). Empty when Fn is set.
		Cmd string
		// Fn is the starlark function body. Nil when Cmd is set.
		Fn starlark.Callable
		// Module is the name of the defining module, set by the loader.
		Module string
	}
)

// String implements starlark.Value.
func (t *Task) String() string { return fmt.Sprintf("<task %s>", t.Name) }

// Type implements starlark.Value.
func (t *Task) Type() string { return "task" }

// Freeze implements starlark.Value. Tasks are immutable after load, so
// there is nothing to do; the embedded Fn is frozen with its module.
func (t *Task) Freeze() {}

// Truth implements starlark.Value.
func (t *Task) Truth() starlark.Bool { return starlark.True }

// Hash implements starlark.Value. Tasks are not hashable.
func (t *Task) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: task")
}

// HasBody reports whether the task has an executable body.
func (t *Task) HasBody() bool { return t.Cmd != "" || t.Fn != nil }
