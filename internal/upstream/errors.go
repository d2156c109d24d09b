package upstream

import (
	"errors"
	"fmt"
)

// ErrorKind follows the failure taxonomy of the statistics API boundary.
type ErrorKind int

const (
	// KindTransport is a network-level failure, no HTTP status received.
	KindTransport ErrorKind = iota
	// KindOverload is HTTP 429 or any 5xx, a "try again later" condition.
	KindOverload
	// KindClient is any other 4xx. No required source may legitimately
	// 4xx in normal operation.
	KindClient
	// KindDecode is a 2xx whose body does not parse as the expected shape.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindOverload:
		return "overload"
	case KindClient:
		return "client"
	case KindDecode:
		return "decode"
	default:
		return "transport"
	}
}

// Error is any failed upstream fetch. Whether it is fatal is decided by
// the orchestrator, depending on the endpoint being required or optional.
type Error struct {
	Endpoint string
	Status   int
	Kind     ErrorKind
	Err      error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("upstream %s: %s (status %d)", e.Endpoint, e.Kind, e.Status)
	}
	return fmt.Sprintf("upstream %s: %s: %v", e.Endpoint, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from an error chain. The second return
// is false when the error did not originate here.
func KindOf(err error) (ErrorKind, bool) {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind, true
	}
	return KindTransport, false
}

func statusKind(status int) ErrorKind {
	if status == 429 || status >= 500 {
		return KindOverload
	}
	return KindClient
}
