// SPDX-License-Identifier: MPL-2.0

// Package discovery locates task modules and composes them into a single
// namespace.
//
// This package intentionally combines two related concerns:
//   - Module discovery: classifying and loading *.star task modules from the
//     task library, the project-local override file, and plugin directories
//   - Namespace composition: folding each loaded module's tasks into one
//     accumulating namespace in a fixed precedence order
//
// These concerns are tightly coupled because the merge result depends
// directly on discovery ordering. Splitting them would create unnecessary
// indirection without meaningful abstraction benefit.
//
// File organization:
//   - classify.go: filesystem entry classification (private prefix, reserved
//     names, package markers, symlink resolution)
//   - namespace.go: the Namespace accumulator and its merge operation
//   - diagnostic.go: the Diagnostic value type and the Result bundle
//   - discovery.go: the orchestrator (built-in, local-override and plugin
//     phases)
//   - plugins.go: plugin root resolution and the package-vs-loose-files walk
package discovery
