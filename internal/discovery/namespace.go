// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"sort"
	"strings"

	"taskfiles-cli/pkg/taskfile"
)

// coreModuleName is the one documented exception to strict prefixing: a
// module declaring this name hosts tasks that appear unqualified even when
// namespaces are kept.
const coreModuleName = "core"

type (
	// Namespace is the mutable accumulator a discovery run populates and
	// hands to the dispatcher. In flat mode all tasks share the root task
	// table; in prefixed mode each module gets a sub-namespace keyed by its
	// name. It is rebuilt from scratch on every discovery run.
	Namespace struct {
		tasks map[string]*taskfile.Task
		subs  map[string]*Namespace
	}
)

// NewNamespace creates an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		tasks: make(map[string]*taskfile.Task),
		subs:  make(map[string]*Namespace),
	}
}

// Merge folds a loaded module into the namespace under name.
//
// With flatten true, every task is added to the root task table under its
// own name; a later task silently replaces an earlier one with the same
// name. This last-write-wins behavior is the documented contract, not an
// accident: the merge order (built-ins, then local override, then plugins)
// is what makes overriding work.
//
// With flatten false, the module's tasks form a sub-namespace registered
// under name, except for the designated core module, whose tasks always
// merge flat so they stay reachable unqualified.
//
// The return value reports whether any task was actually added; an empty
// module is a valid, silent outcome and reports false.
func (ns *Namespace) Merge(mod *taskfile.Module, name string, flatten bool) bool {
	if mod == nil {
		return false
	}
	if flatten || name == coreModuleName {
		added := false
		for _, t := range mod.Tasks() {
			ns.tasks[t.Name] = t
			added = true
		}
		return added
	}

	if mod.Empty() {
		return false
	}
	sub := NewNamespace()
	for _, t := range mod.Tasks() {
		sub.tasks[t.Name] = t
	}
	ns.subs[name] = sub
	return true
}

// Lookup resolves a task name. Dotted names ("sub.task") descend into
// sub-namespaces; plain names hit the root table first and then fall back
// to alias resolution.
func (ns *Namespace) Lookup(name string) (*taskfile.Task, bool) {
	if t, ok := ns.tasks[name]; ok {
		return t, true
	}
	if sub, rest, found := strings.Cut(name, "."); found {
		if child, ok := ns.subs[sub]; ok {
			return child.Lookup(rest)
		}
	}
	for _, t := range ns.tasks {
		for _, alias := range t.Aliases {
			if alias == name {
				return t, true
			}
		}
	}
	return nil, false
}

// TaskNames returns the sorted names reachable at the root level.
func (ns *Namespace) TaskNames() []string {
	names := make([]string, 0, len(ns.tasks))
	for name := range ns.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SubNames returns the sorted names of registered sub-namespaces.
func (ns *Namespace) SubNames() []string {
	names := make([]string, 0, len(ns.subs))
	for name := range ns.subs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sub returns the named sub-namespace.
func (ns *Namespace) Sub(name string) (*Namespace, bool) {
	sub, ok := ns.subs[name]
	return sub, ok
}

// Task returns the root-level task with the given exact name.
func (ns *Namespace) Task(name string) (*taskfile.Task, bool) {
	t, ok := ns.tasks[name]
	return t, ok
}

// Len returns the number of root-level tasks.
func (ns *Namespace) Len() int { return len(ns.tasks) }

// Empty reports whether the namespace holds no tasks and no sub-namespaces.
func (ns *Namespace) Empty() bool { return len(ns.tasks) == 0 && len(ns.subs) == 0 }
