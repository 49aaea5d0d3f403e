package numfmt

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument indicates a missing or unusable value passed to a format call.
var ErrInvalidArgument = errors.New("numfmt: invalid argument")

// ErrUnknownFormat is returned for unregistered preset names when strict formats are enabled.
var ErrUnknownFormat = errors.New("numfmt: unknown format")

// ErrFormat marks failures reported by the underlying number formatter.
var ErrFormat = errors.New("numfmt: format error")

// FormatError wraps a formatter failure together with the inputs that caused it.
type FormatError struct {
	Locale  string
	Options Options
	Cause   error
}

func (e *FormatError) Error() string {
	if e == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(ErrFormat.Error())
	if e.Locale != "" {
		fmt.Fprintf(&b, " [%s]", e.Locale)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes the formatter error for errors.Is / errors.As.
func (e *FormatError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is reports ErrFormat so callers can match any formatter failure.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

func newFormatError(locale string, opts Options, cause error) error {
	var existing *FormatError
	if errors.As(cause, &existing) {
		return cause
	}
	return &FormatError{
		Locale:  locale,
		Options: opts.Clone(),
		Cause:   cause,
	}
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
