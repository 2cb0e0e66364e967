package pricing

import (
	"errors"
	"fmt"
)

// ErrUnknownPlayType is matched (via errors.Is) by every
// *UnknownPlayTypeError.
var ErrUnknownPlayType = errors.New("unknown play type")

// UnknownPlayTypeError reports a play whose type tag has no pricing rule.
// It indicates bad catalog data and aborts the statement being built.
type UnknownPlayTypeError struct {
	Type string
}

func (e *UnknownPlayTypeError) Error() string {
	return fmt.Sprintf("unknown type: %s", e.Type)
}

func (e *UnknownPlayTypeError) Is(target error) bool {
	return target == ErrUnknownPlayType
}
