// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	// Verify all IDs are unique and sequential
	ids := []Id{
		ConfigLoadFailedId,
		TasksRootNotFoundId,
		TaskModuleLoadFailedId,
		TaskNotFoundId,
		DiscoveryFailedId,
		ScriptExecutionFailedId,
		DependencyCycleId,
		PluginDirInvalidId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	// Verify IDs start at 1 (iota + 1)
	if ConfigLoadFailedId != 1 {
		t.Errorf("ConfigLoadFailedId = %d, want 1", ConfigLoadFailedId)
	}
}

func TestIssue_Id(t *testing.T) {
	issue := Get(TaskNotFoundId)
	if issue == nil {
		t.Fatal("Get(TaskNotFoundId) returned nil")
	}

	if issue.Id() != TaskNotFoundId {
		t.Errorf("issue.Id() = %d, want %d", issue.Id(), TaskNotFoundId)
	}
}

func TestIssue_MarkdownMsg(t *testing.T) {
	issue := Get(TaskModuleLoadFailedId)
	if issue == nil {
		t.Fatal("Get(TaskModuleLoadFailedId) returned nil")
	}

	msg := issue.MarkdownMsg()
	if msg == "" {
		t.Error("MarkdownMsg() returned empty string")
	}

	if !strings.Contains(string(msg), "Failed to load a task module") {
		t.Error("MarkdownMsg() should contain 'Failed to load a task module'")
	}
}

func TestIssue_DocLinks(t *testing.T) {
	issue := Get(TaskNotFoundId)
	if issue == nil {
		t.Fatal("Get(TaskNotFoundId) returned nil")
	}

	// DocLinks returns a clone; mutating it must not affect the registry.
	links := issue.DocLinks()
	links = append(links, HttpLink("https://example.com"))
	if len(issue.DocLinks()) == len(links) {
		t.Error("DocLinks() should return a defensive copy")
	}
}

func TestGet_UnknownId(t *testing.T) {
	if issue := Get(Id(9999)); issue != nil {
		t.Errorf("Get(9999) = %v, want nil", issue)
	}
}

func TestValues_CoversAllIds(t *testing.T) {
	values := Values()
	if len(values) != len(issues) {
		t.Errorf("Values() returned %d issues, want %d", len(values), len(issues))
	}
	for _, issue := range values {
		if Get(issue.Id()) != issue {
			t.Errorf("Get(%d) does not round-trip", issue.Id())
		}
	}
}

func TestAllIssues_HaveMarkdownMsg(t *testing.T) {
	for _, issue := range Values() {
		if strings.TrimSpace(string(issue.MarkdownMsg())) == "" {
			t.Errorf("issue %d has an empty markdown message", issue.Id())
		}
	}
}
