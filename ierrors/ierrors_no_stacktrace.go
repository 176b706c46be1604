//go:build !stacktrace

package ierrors

import (
	"fmt"
)

// Wrap prepends an error with a message and wraps it into a new error.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf prepends an error with a message format specifier and arguments
// and wraps it into a new error.
func Wrapf(err error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
