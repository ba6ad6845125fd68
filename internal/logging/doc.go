// Package logging builds the slog loggers used across the pipeline and
// standardizes structured field keys so stage output stays greppable:
// component, run_id, stage, line_key, and pack appear with the same names
// everywhere.
package logging
