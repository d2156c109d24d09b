package dashboard

import (
	"errors"
	"fmt"

	"github.com/y-exe/ymkw-top/internal/upstream"
)

// FatalError marks an activation that aborted because a required source
// failed. No view model is published alongside it; deciding what the
// viewer sees next (error page, retry hint) is the caller's business.
type FatalError struct {
	Source string
	Err    error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("required source %s failed: %v", e.Source, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err is an aborted activation.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

// IsOverload reports whether a fatal activation failed on an overloaded
// upstream (HTTP 429 or 5xx), which may drive a "try again later" message
// instead of a generic failure.
func IsOverload(err error) bool {
	kind, ok := upstream.KindOf(err)
	return ok && kind == upstream.KindOverload
}
