// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"taskfiles-cli/internal/dag"
	"taskfiles-cli/internal/discovery"
	"taskfiles-cli/pkg/taskfile"

	"go.starlark.net/starlark"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

type (
	// IO bundles the streams task bodies read and write.
	IO struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Runner executes tasks against a composed namespace. Task modules are
	// trusted, locally authored code: there is no timeout or sandboxing,
	// by design.
	Runner struct {
		// IO is the stream set passed to every task body.
		IO IO
		// Dir is the working directory for shell scripts. Empty means the
		// process working directory.
		Dir string
		// Env is extra environment entries (KEY=VALUE) layered over the
		// process environment.
		Env []string
	}
)

// NewRunner creates a Runner wired to the process streams.
func NewRunner() *Runner {
	return &Runner{
		IO: IO{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr},
	}
}

// Run resolves name in the namespace, orders its declared dependencies,
// and executes them followed by the task itself. Execution stops at the
// first failing step.
func (r *Runner) Run(ctx context.Context, ns *discovery.Namespace, name string, args []string) *Result {
	t, ok := ns.Lookup(name)
	if !ok {
		return NewErrorResult(1, fmt.Errorf("task %q not found", name))
	}

	order, err := r.dependencyOrder(ns, t)
	if err != nil {
		return NewErrorResult(1, err)
	}

	for _, step := range order {
		// Positional arguments only reach the requested task; dependency
		// steps run bare.
		stepArgs := args
		if step != t {
			stepArgs = nil
		}
		if res := r.runOne(ctx, step, stepArgs); !res.Success() {
			return res
		}
	}
	return NewSuccessResult()
}

// dependencyOrder walks deps transitively and topologically sorts them,
// ending with t itself. Unknown dependencies and cycles are errors.
func (r *Runner) dependencyOrder(ns *discovery.Namespace, t *taskfile.Task) ([]*taskfile.Task, error) {
	graph := dag.New()
	tasks := map[string]*taskfile.Task{t.Name: t}

	var visit func(cur *taskfile.Task) error
	visit = func(cur *taskfile.Task) error {
		graph.AddNode(cur.Name)
		for _, depName := range cur.Deps {
			dep, ok := ns.Lookup(depName)
			if !ok {
				return fmt.Errorf("task %q depends on unknown task %q", cur.Name, depName)
			}
			graph.AddEdge(dep.Name, cur.Name)
			if _, seen := tasks[dep.Name]; seen {
				continue
			}
			tasks[dep.Name] = dep
			if err := visit(dep); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(t); err != nil {
		return nil, err
	}

	names, err := graph.TopologicalSort()
	if err != nil {
		return nil, err
	}
	order := make([]*taskfile.Task, 0, len(names))
	for _, name := range names {
		order = append(order, tasks[name])
	}
	return order, nil
}

// runOne dispatches a single task body.
func (r *Runner) runOne(ctx context.Context, t *taskfile.Task, args []string) *Result {
	switch {
	case t.Cmd != "":
		return r.runScript(ctx, t.Cmd, args)
	case t.Fn != nil:
		return r.runFunction(ctx, t, args)
	default:
		// A bodyless task is a pure aggregation point for its deps.
		return NewSuccessResult()
	}
}

// runScript executes a shell fragment in the embedded interpreter.
func (r *Runner) runScript(ctx context.Context, script string, args []string) *Result {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "script")
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("failed to parse script: %w", err))
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(append(os.Environ(), r.Env...)...)),
		interp.StdIO(r.IO.Stdin, r.IO.Stdout, r.IO.Stderr),
	}
	if r.Dir != "" {
		opts = append(opts, interp.Dir(r.Dir))
	}
	// Prepend "--" to signal end of options; without this, args like "-v"
	// are interpreted as shell options by interp.Params.
	if len(args) > 0 {
		opts = append(opts, interp.Params(append([]string{"--"}, args...)...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("failed to create interpreter: %w", err))
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return NewExitCodeResult(int(exitStatus))
		}
		return NewErrorResult(1, fmt.Errorf("script execution failed: %w", err))
	}
	return NewSuccessResult()
}

// runFunction calls a starlark task body with the positional arguments.
// The body's sh() calls are routed through runScript on this runner.
func (r *Runner) runFunction(ctx context.Context, t *taskfile.Task, args []string) *Result {
	thread := &starlark.Thread{Name: t.Name}
	taskfile.SetShRunner(thread, func(script string) (int, error) {
		res := r.runScript(ctx, script, nil)
		if res.Error != nil {
			return res.ExitCode, res.Error
		}
		return res.ExitCode, nil
	})

	starArgs := make(starlark.Tuple, 0, len(args))
	for _, arg := range args {
		starArgs = append(starArgs, starlark.String(arg))
	}

	if _, err := starlark.Call(thread, t.Fn, starArgs, nil); err != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			return NewErrorResult(1, fmt.Errorf("task %q failed:\n%s", t.Name, evalErr.Backtrace()))
		}
		return NewErrorResult(1, fmt.Errorf("task %q failed: %w", t.Name, err))
	}
	return NewSuccessResult()
}
