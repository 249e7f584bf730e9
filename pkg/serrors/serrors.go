package serrors

import (
	"errors"
	"fmt"
)

// Base is an error with a stable machine-readable code. Codes are part of the
// read-side contract: they end up in row outcomes and API envelopes.
type Base struct {
	Code    string
	Message string
	Details string
}

func NewError(code, message, details string) *Base {
	return &Base{
		Code:    code,
		Message: message,
		Details: details,
	}
}

func (e *Base) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Details)
}

// WithDetails returns a copy carrying extra context. The code is preserved so
// errors.Is against the base sentinel still matches.
func (e *Base) WithDetails(format string, args ...any) *Base {
	return &Base{
		Code:    e.Code,
		Message: e.Message,
		Details: fmt.Sprintf(format, args...),
	}
}

func (e *Base) Is(target error) bool {
	t, ok := target.(*Base)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Code extracts the machine-readable code from err, or "" when err carries none.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var b *Base
	if errors.As(err, &b) {
		return b.Code
	}
	return ""
}
