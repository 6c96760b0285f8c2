// SPDX-License-Identifier: MPL-2.0

package main

import cmd "taskfiles-cli/cmd/tasks"

func main() {
	cmd.Execute()
}
