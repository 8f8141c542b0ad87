// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.1.0"

// Milestones:
// 0.1.0 - Batch queue, runner and terminal browser
// 0.2.0 - (planned) Per-file progress for copy fallback
