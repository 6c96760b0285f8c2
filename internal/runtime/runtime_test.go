// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"taskfiles-cli/internal/dag"
	"taskfiles-cli/internal/discovery"
	"taskfiles-cli/internal/testutil"
	"taskfiles-cli/pkg/taskfile"
)

// namespaceFrom loads src as a single flat-merged task module.
func namespaceFrom(t *testing.T, src string) *discovery.Namespace {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mod.star")
	testutil.MustWriteFile(t, path, src)
	mod, err := taskfile.NewLoader().Load(path, "mod")
	if err != nil {
		t.Fatalf("failed to load fixture module: %v", err)
	}
	ns := discovery.NewNamespace()
	ns.Merge(mod, "mod", true)
	return ns
}

// newTestRunner returns a Runner capturing stdout and stderr.
func newTestRunner() (*Runner, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	r := NewRunner()
	r.IO = IO{Stdin: strings.NewReader(""), Stdout: &stdout, Stderr: &stderr}
	return r, &stdout, &stderr
}

func TestRun_ScriptWithArgs(t *testing.T) {
	t.Parallel()
	ns := namespaceFrom(t, `task(name = "greet", cmd = "echo hello $1")`)
	r, stdout, _ := newTestRunner()

	res := r.Run(context.Background(), ns, "greet", []string{"world"})
	if !res.Success() {
		t.Fatalf("Run failed: code=%d err=%v", res.ExitCode, res.Error)
	}
	if got := stdout.String(); got != "hello world\n" {
		t.Errorf("stdout = %q, want hello world", got)
	}
}

func TestRun_NonZeroExitIsNotAnError(t *testing.T) {
	t.Parallel()
	ns := namespaceFrom(t, `task(name = "flaky", cmd = "exit 7")`)
	r, _, _ := newTestRunner()

	res := r.Run(context.Background(), ns, "flaky", nil)
	if res.ExitCode != 7 {
		t.Errorf("ExitCode = %d, want 7", res.ExitCode)
	}
	if res.Error != nil {
		t.Errorf("Error = %v, want nil for a clean non-zero exit", res.Error)
	}
	if res.Success() {
		t.Error("Success() should be false")
	}
}

func TestRun_UnknownTask(t *testing.T) {
	t.Parallel()
	ns := namespaceFrom(t, `task(name = "only", cmd = "true")`)
	r, _, _ := newTestRunner()

	res := r.Run(context.Background(), ns, "nope", nil)
	if res.Error == nil || !strings.Contains(res.Error.Error(), "not found") {
		t.Errorf("Error = %v, want not-found", res.Error)
	}
}

func TestRun_DependencyOrdering(t *testing.T) {
	t.Parallel()
	ns := namespaceFrom(t, `
task(name = "generate", cmd = "echo generate")
task(name = "lint", cmd = "echo lint")
task(name = "build", deps = ["generate", "lint"], cmd = "echo build $1")
`)
	r, stdout, _ := newTestRunner()

	res := r.Run(context.Background(), ns, "build", []string{"--fast"})
	if !res.Success() {
		t.Fatalf("Run failed: code=%d err=%v", res.ExitCode, res.Error)
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %q", len(lines), lines)
	}
	if lines[2] != "build --fast" {
		t.Errorf("last line = %q, want 'build --fast' (args reach only the requested task)", lines[2])
	}
	// Dependency steps run bare and before the requested task.
	if lines[0] != "generate" && lines[0] != "lint" {
		t.Errorf("first line = %q, want a dependency", lines[0])
	}
}

func TestRun_DependencyFailureStops(t *testing.T) {
	t.Parallel()
	ns := namespaceFrom(t, `
task(name = "precheck", cmd = "exit 1")
task(name = "deploy", deps = ["precheck"], cmd = "echo deployed")
`)
	r, stdout, _ := newTestRunner()

	res := r.Run(context.Background(), ns, "deploy", nil)
	if res.Success() {
		t.Fatal("expected failure")
	}
	if res.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", res.ExitCode)
	}
	if strings.Contains(stdout.String(), "deployed") {
		t.Error("requested task ran despite a failing dependency")
	}
}

func TestRun_UnknownDependency(t *testing.T) {
	t.Parallel()
	ns := namespaceFrom(t, `task(name = "build", deps = ["ghost"], cmd = "true")`)
	r, _, _ := newTestRunner()

	res := r.Run(context.Background(), ns, "build", nil)
	if res.Error == nil || !strings.Contains(res.Error.Error(), "unknown task") {
		t.Errorf("Error = %v, want unknown-dependency", res.Error)
	}
}

func TestRun_DependencyCycle(t *testing.T) {
	t.Parallel()
	ns := namespaceFrom(t, `
task(name = "a", deps = ["b"], cmd = "true")
task(name = "b", deps = ["a"], cmd = "true")
`)
	r, _, _ := newTestRunner()

	res := r.Run(context.Background(), ns, "a", nil)
	var cycleErr *dag.CycleError
	if !errors.As(res.Error, &cycleErr) {
		t.Errorf("Error = %v, want *dag.CycleError", res.Error)
	}
}

func TestRun_SharedDependencyRunsOnce(t *testing.T) {
	t.Parallel()
	ns := namespaceFrom(t, `
task(name = "generate", cmd = "echo generate")
task(name = "build", deps = ["generate"], cmd = "echo build")
task(name = "release", deps = ["generate", "build"], cmd = "echo release")
`)
	r, stdout, _ := newTestRunner()

	res := r.Run(context.Background(), ns, "release", nil)
	if !res.Success() {
		t.Fatalf("Run failed: code=%d err=%v", res.ExitCode, res.Error)
	}
	if strings.Count(stdout.String(), "generate") != 1 {
		t.Errorf("generate ran more than once:\n%s", stdout.String())
	}
}

func TestRun_BodylessAggregator(t *testing.T) {
	t.Parallel()
	ns := namespaceFrom(t, `
task(name = "unit", cmd = "echo unit")
task(name = "integration", cmd = "echo integration")
task(name = "test-all", deps = ["unit", "integration"])
`)
	r, stdout, _ := newTestRunner()

	res := r.Run(context.Background(), ns, "test-all", nil)
	if !res.Success() {
		t.Fatalf("Run failed: code=%d err=%v", res.ExitCode, res.Error)
	}
	for _, want := range []string{"unit", "integration"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestRun_FunctionBodyWithSh(t *testing.T) {
	t.Parallel()
	ns := namespaceFrom(t, `
def _announce(*args):
    code = sh("echo from-function")
    if code != 0:
        fail("sh returned %d" % code)

task(name = "announce", fn = _announce)
`)
	r, stdout, _ := newTestRunner()

	res := r.Run(context.Background(), ns, "announce", nil)
	if !res.Success() {
		t.Fatalf("Run failed: code=%d err=%v", res.ExitCode, res.Error)
	}
	if !strings.Contains(stdout.String(), "from-function") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRun_FunctionReceivesArgs(t *testing.T) {
	t.Parallel()
	ns := namespaceFrom(t, `
def _echo_args(*args):
    for arg in args:
        sh("echo arg:" + arg)

task(name = "echo-args", fn = _echo_args)
`)
	r, stdout, _ := newTestRunner()

	res := r.Run(context.Background(), ns, "echo-args", []string{"one", "two"})
	if !res.Success() {
		t.Fatalf("Run failed: code=%d err=%v", res.ExitCode, res.Error)
	}
	out := stdout.String()
	if !strings.Contains(out, "arg:one") || !strings.Contains(out, "arg:two") {
		t.Errorf("stdout = %q", out)
	}
}

func TestRun_FunctionFailureHasBacktrace(t *testing.T) {
	t.Parallel()
	ns := namespaceFrom(t, `
def _explode(*args):
    fail("kaboom")

task(name = "explode", fn = _explode)
`)
	r, _, _ := newTestRunner()

	res := r.Run(context.Background(), ns, "explode", nil)
	if res.Error == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(res.Error.Error(), "kaboom") {
		t.Errorf("Error = %v, want the failure message", res.Error)
	}
}

func TestRun_ScriptParseError(t *testing.T) {
	t.Parallel()
	ns := namespaceFrom(t, `task(name = "bad", cmd = "if then fi (")`)
	r, _, _ := newTestRunner()

	res := r.Run(context.Background(), ns, "bad", nil)
	if res.Error == nil || !strings.Contains(res.Error.Error(), "parse") {
		t.Errorf("Error = %v, want parse failure", res.Error)
	}
}

func TestResult_Success(t *testing.T) {
	t.Parallel()
	if !NewSuccessResult().Success() {
		t.Error("NewSuccessResult should succeed")
	}
	if NewExitCodeResult(2).Success() {
		t.Error("non-zero exit should not succeed")
	}
	if NewErrorResult(1, errors.New("x")).Success() {
		t.Error("error result should not succeed")
	}
	if !NewExitCodeResult(0).Success() {
		t.Error("zero exit with nil error should succeed")
	}
}
