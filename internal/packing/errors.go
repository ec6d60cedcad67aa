package packing

import (
	"fmt"

	"github.com/starford/packapp/internal/apperr"
)

var (
	// ErrInvalidName is returned when a name is empty after trimming.
	ErrInvalidName = fmt.Errorf("%w: name must not be empty", apperr.ErrInvalidInput)
	// ErrRootImmutable is returned when an operation would remove or displace the root.
	ErrRootImmutable = fmt.Errorf("%w: the root list cannot be deleted or moved", apperr.ErrInvalidInput)
	// ErrInvalidNode is returned for malformed nodes or arguments.
	ErrInvalidNode = fmt.Errorf("%w: invalid node", apperr.ErrInvalidInput)
)

// NotFoundError reports that no node of the wanted kind carries ID.
// Kind is "node" when any kind would have matched.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// Is lets callers match with errors.Is(err, apperr.ErrNotFound).
func (e *NotFoundError) Is(target error) bool {
	return target == apperr.ErrNotFound
}

// DuplicateIDError reports an inserted node whose id already exists in the tree.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate node id: %s", e.ID)
}

func (e *DuplicateIDError) Is(target error) bool {
	return target == apperr.ErrAlreadyExists
}
