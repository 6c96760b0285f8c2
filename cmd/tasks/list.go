// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"taskfiles-cli/internal/discovery"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available tasks",
	Long: `List all available tasks in the composed namespace.

Tasks from the built-in library, the project-local override, and plugins
are shown together. With keep_module_prefix enabled, tasks are grouped
under their module's name and addressed by dotted paths.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		ns, err := app.discover()
		if err != nil {
			return err
		}

		if ns.Empty() {
			fmt.Fprintln(app.Stdout, SubtitleStyle.Render("No tasks found."))
			return nil
		}

		fmt.Fprintln(app.Stdout, TitleStyle.Render("Available tasks:"))
		printNamespace(app.Stdout, ns, "")
		return nil
	},
}

// printNamespace writes the tasks of ns, then recurses into its
// sub-namespaces, printing dotted names throughout.
func printNamespace(w io.Writer, ns *discovery.Namespace, prefix string) {
	for _, name := range ns.TaskNames() {
		t, _ := ns.Task(name)
		full := prefix + name
		line := "  " + TaskStyle.Render(full)
		if t.Help != "" {
			line += "  " + SubtitleStyle.Render(t.Help)
		}
		fmt.Fprintln(w, line)
	}
	for _, name := range ns.SubNames() {
		sub, _ := ns.Sub(name)
		printNamespace(w, sub, prefix+name+".")
	}
}
