// Package diag defines the diagnostic model shared by the analysis phases.
//
// Producers emit through a diag.Reporter so emission stays decoupled from
// storage and formatting. BagReporter aggregates into a Bag; NopReporter
// discards. Point queries report soft misses (no node, no scope, no
// reference at an offset) as informational diagnostics — they accompany an
// absent result, they never replace it.
package diag
