// SPDX-License-Identifier: MPL-2.0

package runtime

type (
	// Result is the outcome of one task invocation.
	Result struct {
		// ExitCode is the process-style exit status (0 on success).
		ExitCode int
		// Error is the infrastructure failure, if any. A non-zero exit
		// from a well-behaved script leaves Error nil.
		Error error
	}
)

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code int, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult creates a Result with the given exit code and no error.
// Use this for non-zero exits that represent normal process termination
// rather than infrastructure failures.
func NewExitCodeResult(code int) *Result {
	return &Result{ExitCode: code}
}

// Success reports whether the invocation succeeded.
func (r *Result) Success() bool { return r.Error == nil && r.ExitCode == 0 }
