// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"taskfiles-cli/pkg/taskfile"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe <task>",
	Short: "Show a task's documentation",
	Long: `Show a task's documentation: its help text, aliases, dependencies,
and body kind, rendered as markdown.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		ns, err := app.discover()
		if err != nil {
			return err
		}

		name := args[0]
		t, ok := ns.Lookup(name)
		if !ok {
			return &ExitError{
				Code: 1,
				Err:  fmt.Errorf("task %q not found; run 'tasks list' to see what is available", name),
			}
		}

		out, err := glamour.Render(describeMarkdown(name, t), "auto")
		if err != nil {
			// Fall back to the raw markdown if the terminal renderer fails.
			out = describeMarkdown(name, t)
		}
		fmt.Fprint(app.Stdout, out)
		return nil
	},
}

// describeMarkdown builds the markdown document for a single task.
func describeMarkdown(name string, t *taskfile.Task) string {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", name)

	if t.Help != "" {
		md.WriteString(t.Help + "\n\n")
	}
	if t.Module != "" {
		fmt.Fprintf(&md, "Defined in module `%s`.\n\n", t.Module)
	}
	if len(t.Aliases) > 0 {
		fmt.Fprintf(&md, "**Aliases:** %s\n\n", strings.Join(t.Aliases, ", "))
	}
	if len(t.Deps) > 0 {
		md.WriteString("**Dependencies:**\n\n")
		for _, dep := range t.Deps {
			fmt.Fprintf(&md, "- `%s`\n", dep)
		}
		md.WriteString("\n")
	}

	switch {
	case t.Cmd != "":
		md.WriteString("**Script:**\n\n~~~sh\n" + t.Cmd + "\n~~~\n")
	case t.Fn != nil:
		md.WriteString("**Body:** starlark function\n")
	default:
		md.WriteString("**Body:** none (aggregates its dependencies)\n")
	}
	return md.String()
}
