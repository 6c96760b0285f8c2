// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"taskfiles-cli/internal/dag"
	"taskfiles-cli/internal/issue"
	"taskfiles-cli/internal/runtime"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <task> [args...]",
	Short: "Run a task with its dependencies",
	Long: `Run a task with its dependencies.

Dependencies declared via deps are ordered topologically and run before
the task itself. Positional arguments after the task name are passed to
the task's body; dependency steps run bare.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		ns, err := app.discover()
		if err != nil {
			return err
		}

		name := args[0]
		if _, ok := ns.Lookup(name); !ok {
			renderIssue(app, issue.TaskNotFoundId)
			return &ExitError{
				Code: 1,
				Err:  fmt.Errorf("task %q not found", name),
			}
		}

		res := runtime.NewRunner().Run(cmd.Context(), ns, name, args[1:])
		if res.Error != nil {
			fmt.Fprintf(app.Stderr, "%s: %s\n",
				ErrorStyle.Render("error"), formatErrorForDisplay(res.Error, verbose))

			var cycleErr *dag.CycleError
			if errors.As(res.Error, &cycleErr) {
				renderIssue(app, issue.DependencyCycleId)
			}
		}
		if !res.Success() {
			code := res.ExitCode
			if code == 0 {
				code = 1
			}
			return &ExitError{Code: code, Err: res.Error}
		}
		return nil
	},
	// Errors are rendered above; suppress cobra's duplicate reporting.
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	// Everything after the task name belongs to the task, including
	// flag-looking arguments.
	runCmd.Flags().SetInterspersed(false)
}

// renderIssue writes the remediation card for a known issue to stderr.
// Rendering failures are swallowed; the plain error line already went out.
func renderIssue(app *App, id issue.Id) {
	i := issue.Get(id)
	if i == nil {
		return
	}
	if out, err := i.Render("auto"); err == nil {
		fmt.Fprint(app.Stderr, out)
	}
}
