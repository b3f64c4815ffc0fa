package analysis

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDecode marks corrupt or unsupported media input.
	ErrDecode = errors.New("decode error")
	// ErrTimeout marks a task that exceeded its wall-clock budget.
	ErrTimeout = errors.New("timeout")
	// ErrCancelled marks a task cancelled before dispatch.
	ErrCancelled = errors.New("cancelled")
	// ErrCleared marks a task dropped by a bulk clear of the waiting list.
	ErrCleared = errors.New("cleared")
	// ErrContextCrash marks an execution context terminated with tasks outstanding.
	ErrContextCrash = errors.New("execution context terminated")
	// ErrValidation marks a structurally invalid result produced by an analyzer.
	ErrValidation = errors.New("validation error")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsExpected reports whether an error represents an anticipated outcome
// (cancellation or clearing) rather than an anomaly worth alerting on.
func IsExpected(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, ErrCleared)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "analysis failure"
	}
	return strings.Join(parts, ": ")
}
