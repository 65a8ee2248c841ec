package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/tokmark/internal/configloader"
	"github.com/yaklabco/tokmark/pkg/runner"
)

// Exit codes for tokmark.
const (
	// ExitSuccess indicates every input was highlighted.
	ExitSuccess = 0

	// ExitFailure indicates that some inputs could not be highlighted, or
	// an error without a more specific code.
	ExitFailure = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrFilesFailed is returned when some files could not be highlighted.
// The failures have already been reported.
var ErrFilesFailed = errors.New("some files could not be highlighted")

// ErrUsage marks invalid command-line usage.
var ErrUsage = errors.New("invalid usage")

// ExitCodeFromResult determines the exit code of a completed run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasErrors() {
		return ExitFailure
	}
	return ExitSuccess
}

// ExitCodeFromError maps a command error to an exit code.
func ExitCodeFromError(err error) int {
	var validationErr *configloader.ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrFilesFailed):
		return ExitFailure
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return ExitIOError
	default:
		return ExitFailure
	}
}
