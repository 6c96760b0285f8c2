// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	TasksRootNotFoundId
	TaskModuleLoadFailedId
	TaskNotFoundId
	DiscoveryFailedId
	ScriptExecutionFailedId
	DependencyCycleId
	PluginDirInvalidId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the tasks configuration file.

## Configuration file locations:
- Linux: ~/.config/tasks/config.cue
- macOS: ~/Library/Application Support/tasks/config.cue
- Windows: %APPDATA%\tasks\config.cue

## Things you can try:
- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/tasks/config.cue
~~~

## Example configuration:
~~~cue
keep_module_prefix: false
load_plugins:       true
plugin_dirs: [
    "/home/user/task-plugins"
]
~~~`,
	}

	tasksRootNotFoundIssue = &Issue{
		id: TasksRootNotFoundId,
		mdMsg: `
# No task library found!

We searched for a task library but couldn't find one in the expected location.

## Search locations (in order of precedence):
1. TASKS_ROOT environment variable
2. tasks_root in your config file
3. ~/.tasks/taskfiles/

## Things you can try:
- Create the default library directory and a first module:
~~~
$ mkdir -p ~/.tasks/taskfiles
$ cat > ~/.tasks/taskfiles/core.star <<'EOF'
task(name = "hello", cmd = "echo hello")
EOF
~~~

- Or point TASKS_ROOT at an existing library:
~~~
$ export TASKS_ROOT=/path/to/taskfiles
$ tasks list
~~~`,
	}

	taskModuleLoadFailedIssue = &Issue{
		id: TaskModuleLoadFailedId,
		mdMsg: `
# Failed to load a task module!

One of your task modules contains a syntax error or failed while executing
its top-level code. The rest of the library was loaded normally, but none of
the tasks defined in the broken module are available.

## Things you can try:
- Check the error message above for the file, line, and offending statement
- Fix the module and re-run:
~~~
$ tasks list
~~~

- Rename the module with a leading underscore to exclude it temporarily:
~~~
$ mv broken.star _broken.star
~~~`,
	}

	taskNotFoundIssue = &Issue{
		id: TaskNotFoundId,
		mdMsg: `
# Task not found!

The task you specified was not found in the composed namespace.

## Things you can try:
- List all available tasks:
~~~
$ tasks list
~~~

- Check for typos in the task name; nested tasks use dotted names:
~~~
$ tasks run release.publish
~~~

- If the task lives in a module that failed to load, fix that module first`,
	}

	discoveryFailedIssue = &Issue{
		id: DiscoveryFailedId,
		mdMsg: `
# Task discovery failed!

Something went wrong while scanning your task library. No tasks are
available until the problem is fixed.

## Things you can try:
- Check the error message above for details
- Verify the library root exists and is readable
- Disable plugin loading to narrow the problem down:
~~~
$ TASKS_LOAD_PLUGINS=false tasks list
~~~`,
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Script execution failed!

The task's script failed to execute properly.

## Common causes:
- Command not found in PATH
- Permission denied
- Syntax error in the script
- A dependency task failed first

## Things you can try:
- Run with verbose mode for more details:
~~~
$ tasks --verbose run <task>
~~~

- Test the script manually in your shell
- Check file permissions and PATH settings`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

Your task dependencies form a cycle, which would cause infinite execution.

## Example of a cycle:
~~~python
task(name = "a", deps = ["b"], cmd = "true")
task(name = "b", deps = ["a"], cmd = "true")  # cycle: a -> b -> a
~~~

## Things you can try:
- Review the deps lists named in the error message
- Remove the circular dependency
- Use a linear dependency chain instead`,
	}

	pluginDirInvalidIssue = &Issue{
		id: PluginDirInvalidId,
		mdMsg: `
# Plugin directory skipped!

A configured plugin directory could not be used. Plugin dirs must be
absolute paths to existing directories; anything else is skipped with a
warning so the rest of discovery can continue.

## Things you can try:
- Check the TASKS_PLUGIN_DIRS environment variable (colon-separated):
~~~
$ export TASKS_PLUGIN_DIRS=/opt/task-plugins:/srv/shared-tasks
~~~

- Or fix plugin_dirs in your config file:
~~~cue
plugin_dirs: [
    "/opt/task-plugins"
]
~~~`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		tasksRootNotFoundIssue.Id():     tasksRootNotFoundIssue,
		taskModuleLoadFailedIssue.Id():  taskModuleLoadFailedIssue,
		taskNotFoundIssue.Id():          taskNotFoundIssue,
		discoveryFailedIssue.Id():       discoveryFailedIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		dependencyCycleIssue.Id():       dependencyCycleIssue,
		pluginDirInvalidIssue.Id():      pluginDirInvalidIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
