// SPDX-License-Identifier: MPL-2.0

package taskfile

type (
	// Module is the result of executing one task module: an opaque handle
	// exposing the tasks its top-level code registered, in registration
	// order. A module with zero tasks is valid.
	Module struct {
		// Name is the module's display name (file stem or package dir name).
		Name string
		// Path is the filesystem path the module was loaded from.
		Path string

		tasks  []*Task
		byName map[string]*Task
	}
)

func newModule(name, path string) *Module {
	return &Module{
		Name:   name,
		Path:   path,
		byName: make(map[string]*Task),
	}
}

// add registers a task on the module. A later task with the same name
// replaces the earlier one silently, consistent with the namespace-level
// last-write-wins contract.
func (m *Module) add(t *Task) {
	if _, exists := m.byName[t.Name]; exists {
		for i, prev := range m.tasks {
			if prev.Name == t.Name {
				m.tasks[i] = t
				break
			}
		}
	} else {
		m.tasks = append(m.tasks, t)
	}
	m.byName[t.Name] = t
	t.Module = m.Name
}

// Tasks returns the module's tasks in registration order.
func (m *Module) Tasks() []*Task {
	out := make([]*Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// Lookup finds a task by name.
func (m *Module) Lookup(name string) (*Task, bool) {
	t, ok := m.byName[name]
	return t, ok
}

// Empty reports whether the module registered no tasks.
func (m *Module) Empty() bool { return len(m.tasks) == 0 }

// Len returns the number of registered tasks.
func (m *Module) Len() int { return len(m.tasks) }
