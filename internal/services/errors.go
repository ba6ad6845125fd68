package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPrecondition marks catalog load failures. Nothing has been mutated yet.
	ErrPrecondition = errors.New("precondition error")
	// ErrPlan marks an ambiguous or incomplete substitution plan.
	ErrPlan = errors.New("plan inconsistency")
	// ErrAssembly marks a failed post-merge cross-check.
	ErrAssembly = errors.New("assembly incomplete")
	// ErrConfiguration marks invalid user configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later exit-status classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrPrecondition
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps a pipeline error to the process exit code contract:
// 0 success, 1 aborted, 2 configuration problem.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrConfiguration):
		return 2
	default:
		return 1
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
