// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as
// the file format.
//
// Configuration is loaded from ~/.config/tasks/config.cue (or the XDG
// equivalent on Linux, ~/Library/Application Support/tasks/config.cue on
// macOS, %APPDATA%\tasks\config.cue on Windows) and then overridden by the
// TASKS_* environment variables. The resulting Config is an immutable value
// object: it is read once at the start of a discovery run and passed by
// reference into the orchestrator.
//
// Malformed settings never abort the program. A boolean that fails to parse
// falls back to the documented safe default (module-name prefixing stays
// off; plugin loading is disabled), and a malformed directory list becomes
// empty.
package config
