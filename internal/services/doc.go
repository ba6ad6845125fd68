// Package services holds the error taxonomy and context plumbing shared by
// every pipeline stage. Fatal failures carry a sentinel marker so callers can
// map them to an exit status; recoverable per-line issues are not errors and
// travel as report warnings instead.
package services
