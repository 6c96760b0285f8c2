// SPDX-License-Identifier: MPL-2.0

// Package taskfile defines the task module format and its loader.
//
// A task module is a starlark source file (*.star) whose top-level code is
// executed once at load time. Tasks are declared with the predeclared
// task(...) builtin; every call registers a Task on the module being loaded.
// Anything else defined by the file is ignored by discovery.
//
// Loading is failure-isolated by design: a syntax error or a runtime error
// in one module's top-level code is captured as a LoadError carrying the
// failing file, line and source snippet, and never propagates to the caller.
package taskfile
