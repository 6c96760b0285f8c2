// SPDX-License-Identifier: MPL-2.0

// Package runtime executes tasks from a composed namespace.
//
// A task body is either a shell script, run in the embedded mvdan/sh
// interpreter, or a starlark function, called with the positional CLI
// arguments and an sh() builtin backed by the same interpreter. Declared
// dependencies are resolved transitively and ordered with a topological
// sort before the requested task runs.
//
// The discovery core deliberately knows nothing about execution; this
// package is the command dispatcher's collaborator, consuming the
// namespace discovery hands over.
package runtime
