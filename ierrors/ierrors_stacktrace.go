//go:build stacktrace

package ierrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Wrap prepends an error with a message and wraps it into a new error.
// The stacktrace of the caller is attached.
func Wrap(err error, message string) error {
	return errors.WithStack(fmt.Errorf("%s: %w", message, err))
}

// Wrapf prepends an error with a message format specifier and arguments
// and wraps it into a new error. The stacktrace of the caller is attached.
func Wrapf(err error, format string, args ...any) error {
	return errors.WithStack(fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err))
}
