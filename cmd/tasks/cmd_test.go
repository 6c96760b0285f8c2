// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"taskfiles-cli/internal/config"
	"taskfiles-cli/internal/discovery"
	"taskfiles-cli/internal/issue"
	"taskfiles-cli/pkg/taskfile"
)

func TestExitError(t *testing.T) {
	t.Parallel()
	bare := &ExitError{Code: 3}
	if bare.Error() != "exit status 3" {
		t.Errorf("Error() = %q", bare.Error())
	}

	cause := errors.New("script blew up")
	wrapped := &ExitError{Code: 1, Err: cause}
	if wrapped.Error() != "script blew up" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()
	plain := errors.New("plain failure")
	if got := formatErrorForDisplay(plain, false); got != "plain failure" {
		t.Errorf("plain error = %q", got)
	}

	ae := issue.NewErrorContext().
		WithOperation("load task module").
		WithSuggestion("Check the module for syntax errors").
		Wrap(errors.New("boom")).
		Build()
	got := formatErrorForDisplay(ae, false)
	if !strings.Contains(got, "failed to load task module") {
		t.Errorf("actionable error = %q", got)
	}
	if !strings.Contains(got, "Check the module for syntax errors") {
		t.Errorf("suggestions missing from %q", got)
	}
}

func TestRenderDiagnostics(t *testing.T) {
	t.Parallel()
	var stderr bytes.Buffer
	app := &App{Config: config.DefaultConfig(), Stdout: &bytes.Buffer{}, Stderr: &stderr}

	app.renderDiagnostics([]discovery.Diagnostic{
		{Severity: discovery.SeverityWarning, Code: "plugin_dir_missing", Message: "dir gone", Path: "/x"},
		{Severity: discovery.SeverityError, Code: "module_load_skipped", Message: "module broke"},
	})

	out := stderr.String()
	if !strings.Contains(out, "dir gone") || !strings.Contains(out, "(/x)") {
		t.Errorf("warning line malformed: %q", out)
	}
	if !strings.Contains(out, "module broke") {
		t.Errorf("error line missing: %q", out)
	}
}

func TestDescribeMarkdown(t *testing.T) {
	t.Parallel()
	task := &taskfile.Task{
		Name:    "deploy",
		Help:    "Ship it",
		Module:  "release",
		Aliases: []string{"d"},
		Deps:    []string{"build", "test"},
		Cmd:     "kubectl apply -f deploy/",
	}

	md := describeMarkdown("release.deploy", task)
	for _, want := range []string{
		"# release.deploy",
		"Ship it",
		"`release`",
		"**Aliases:** d",
		"- `build`",
		"- `test`",
		"kubectl apply",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	bodyless := describeMarkdown("all", &taskfile.Task{Name: "all"})
	if !strings.Contains(bodyless, "aggregates its dependencies") {
		t.Errorf("bodyless markdown = %q", bodyless)
	}
}
