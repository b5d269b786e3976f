package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/cleanstreak/internal/logger"
)

var (
	// ErrValidation marks a caller error: bad input, wrong owner, inactive habit
	ErrValidation = stderrors.New("validation failed")
	// ErrNotFound marks a reference to a habit, entry, user or achievement that does not exist
	ErrNotFound = stderrors.New("not found")
	// ErrForbidden marks an ownership mismatch
	ErrForbidden = fmt.Errorf("%w: resource belongs to another user", ErrValidation)
	// ErrInactiveHabit is returned when logging progress against an inactive habit
	ErrInactiveHabit = fmt.Errorf("%w: cannot log progress for inactive habit", ErrValidation)
	// ErrUnauthenticated is returned when no user session is active
	ErrUnauthenticated = stderrors.New("not logged in")
)

// Validation wraps a formatted message with ErrValidation
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound wraps a formatted message with ErrNotFound
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

func IsValidation(err error) bool {
	return stderrors.Is(err, ErrValidation)
}

func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrNotFound)
}

func IsForbidden(err error) bool {
	return stderrors.Is(err, ErrForbidden)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
