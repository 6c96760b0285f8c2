// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for tasks.
//
// This package implements the Cobra command hierarchy for the tasks CLI:
// the root command, task listing and execution, task descriptions, and
// configuration inspection.
package cmd
