package output

import (
	"errors"
	"fmt"
)

// CLIError is a user-facing error with an optional suggested fix.
type CLIError struct {
	Message string
	Cause   error
	Fix     string
}

func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewErrorWithFix creates a CLIError with a message and suggested fix.
func NewErrorWithFix(message, fix string) *CLIError {
	return &CLIError{Message: message, Fix: fix}
}

// WrapError wraps err under message.
func WrapError(err error, message string) *CLIError {
	return &CLIError{Message: message, Cause: err}
}

// WrapErrorWithFix wraps err under message with a suggested fix.
func WrapErrorWithFix(err error, message, fix string) *CLIError {
	return &CLIError{Message: message, Cause: err, Fix: fix}
}

// PrintError reports err on stderr, or as a JSON error envelope in JSON mode.
func PrintError(err error) {
	if err == nil {
		return
	}
	if JSONMode {
		JSONError(err)
		return
	}

	var cliErr *CLIError
	if !errors.As(err, &cliErr) {
		Error(err.Error())
		return
	}
	if cliErr.Cause != nil {
		Error(cliErr.Message, "cause", cliErr.Cause.Error())
	} else {
		Error(cliErr.Message)
	}
	if cliErr.Fix != "" {
		Info(prefix("Fix: ", "💡 ") + cliErr.Fix)
	}
}
