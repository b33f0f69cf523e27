package gravity

import (
	"errors"
	"fmt"
)

var (
	// Parameter errors

	ErrMissingParameter = errors.New("missing area parameter")
	ErrInvalidParameter = errors.New("invalid area parameter")

	// Resolution errors

	ErrEmptySelection     = errors.New("no gravity area selected")
	ErrDegenerateGeometry = errors.New("degenerate gravity geometry")
	ErrUnknownKind        = errors.New("unknown gravity area kind")

	// Configuration errors

	ErrInvalidConfig = errors.New("invalid gravity config")
)

// ParamError reports a required parameter that is absent or unusable.
type ParamError struct {
	Area  string
	Kind  Kind
	Param string
	Err   error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s area %q: %s: %v", e.Kind, e.Area, e.Param, e.Err)
}

func (e *ParamError) Unwrap() error { return e.Err }
