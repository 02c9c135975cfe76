package mutate

import (
	"errors"
	"fmt"
)

var (
	ErrRootOperation = errors.New("operation not allowed on the root item")
	ErrMoveIntoSelf  = errors.New("cannot move an item below itself")
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}
