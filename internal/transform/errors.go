package transform

import "fmt"

// OpError reports an operation whose parameters are invalid for the
// image it was applied to. The engine treats it as a transactional
// abort: the canvas and history are left untouched.
type OpError struct {
	Kind   Kind
	Reason string
}

func (e *OpError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// opErrorf builds an OpError with a formatted reason.
func opErrorf(kind Kind, format string, args ...any) *OpError {
	return &OpError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}
