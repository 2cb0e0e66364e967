package statement

import (
	"errors"
	"fmt"
)

// ErrUnresolvedPlayReference is matched (via errors.Is) by every
// *UnresolvedPlayReferenceError.
var ErrUnresolvedPlayReference = errors.New("unresolved play reference")

// UnresolvedPlayReferenceError reports a performance whose play id is not
// in the catalog.
type UnresolvedPlayReferenceError struct {
	PlayID string
}

func (e *UnresolvedPlayReferenceError) Error() string {
	return fmt.Sprintf("no play found for id: %s", e.PlayID)
}

func (e *UnresolvedPlayReferenceError) Is(target error) bool {
	return target == ErrUnresolvedPlayReference
}
