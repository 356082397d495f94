package journal

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyText     = errors.New("entry text cannot be empty")
	ErrInvalidMood   = errors.New("invalid mood")
	ErrQuotaExceeded = errors.New("daily entry limit reached")
)

// PersistError reports that the store rejected a write. The in-memory
// collection is unchanged when it is returned.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
