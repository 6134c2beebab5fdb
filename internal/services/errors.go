package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks semantic or schema validation failures.
	ErrValidation = errors.New("validation error")
	// ErrPolicy marks transliteration policy violations.
	ErrPolicy = errors.New("transliteration policy violation")
	// ErrCoverage marks generated content that under-serves a coverage requirement.
	ErrCoverage = errors.New("coverage violation")
	// ErrMissingPrerequisite marks an absent upstream artifact a stage needs.
	ErrMissingPrerequisite = errors.New("missing prerequisite")
	// ErrMalformedInput marks a file that failed to parse.
	ErrMalformedInput = errors.New("malformed input")
	// ErrConfiguration marks invalid or incomplete configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrExternalTool marks a subprocess failure from an optional external tool.
	ErrExternalTool = errors.New("external tool error")
	// ErrTimeout marks a bounded operation that exceeded its deadline.
	ErrTimeout = errors.New("timeout")
	// ErrTransient marks unexpected system failures.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps an error to the process exit code contract: 0 success,
// 1 validation/QA/policy/coverage failure, 2 missing prerequisite,
// 3 unexpected error.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrMissingPrerequisite):
		return 2
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrPolicy),
		errors.Is(err, ErrCoverage),
		errors.Is(err, ErrMalformedInput):
		return 1
	default:
		return 3
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
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
