package cli

import "fmt"

// ExitCode is a process exit status.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0
	// ExitError indicates a fatal error: an unresolvable path, an
	// unparseable sver.toml, or a failed validation run.
	ExitError ExitCode = 1
	// ExitUsage indicates the CLI was invoked incorrectly: an unknown
	// flag, a bad argument count, or a flag value that fails validation
	// (spec.md §7, UsageError).
	ExitUsage ExitCode = 2
)

// ExitError carries a process exit code alongside the usual error chain, so
// Execute can report a specific code back to main without every command
// needing to know about os.Exit.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewError wraps err as an ExitError with ExitCode 1.
func NewError(msg string, err error) *ExitError {
	return &ExitError{Code: int(ExitError), Message: msg, Err: err}
}

// NewUsageError wraps err as an ExitError with ExitCode 2, for invalid CLI
// invocations (bad flag values, wrong argument counts, unknown flags).
func NewUsageError(msg string, err error) *ExitError {
	return &ExitError{Code: int(ExitUsage), Message: msg, Err: err}
}
