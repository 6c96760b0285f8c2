// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"

	"taskfiles-cli/pkg/taskfile"
)

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic represents a structured discovery diagnostic that is
	// returned to callers (rather than written to stderr) for consistent
	// rendering policy. The CLI layer renders diagnostics on the error
	// stream; discovery itself never consumes them.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "module_load_skipped").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}

	// Result bundles the composed namespace with the diagnostics produced
	// while building it. The namespace is never nil: a total failure of the
	// built-in phase yields an empty namespace plus one error diagnostic.
	Result struct {
		Namespace   *Namespace
		Diagnostics []Diagnostic
	}
)

// loadDiagnostic converts a module load failure into the single
// human-readable diagnostic line the error channel shows for it.
func loadDiagnostic(code string, err *taskfile.LoadError) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message: fmt.Sprintf("%v. You will not see any of the tasks defined in it until you fix the problem.",
			err),
		Path:  err.Path,
		Cause: err,
	}
}
