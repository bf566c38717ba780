package article

import (
	"errors"
	"fmt"
)

var (
	ErrIncorrectMetadata   = errors.New("incorrect metadata")
	ErrMissingTitle        = errors.New("article does not have a title")
	ErrResourceOutsideBase = errors.New("relative resource escapes base URL")
)

// ResourceError reports a relative reference that could not be resolved
// against the base resource URL.
type ResourceError struct {
	Line int // 1-based, within the block it was found in
	Path string
	Base string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("line %d: cannot resolve %q against %q: %v", e.Line, e.Path, e.Base, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}
