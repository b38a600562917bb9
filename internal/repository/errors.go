package repository

import (
	"errors"
	"fmt"
)

// Sentinels matched by errors.Is against a *PersistenceError.
var (
	ErrPersistenceRead  = errors.New("persistence read failed")
	ErrPersistenceWrite = errors.New("persistence write failed")

	// ErrMalformedValue marks a read that reached the store but could not
	// decode what it found.
	ErrMalformedValue = errors.New("malformed stored value")
)

// Persistence operations.
const (
	OpRead  = "read"
	OpWrite = "write"
)

// PersistenceError describes a failed KVStore access or a stored value that
// could not be decoded.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is lets errors.Is match the operation sentinels.
func (e *PersistenceError) Is(target error) bool {
	switch target {
	case ErrPersistenceRead:
		return e.Op == OpRead
	case ErrPersistenceWrite:
		return e.Op == OpWrite
	}
	return false
}

func readError(key string, err error) error {
	return &PersistenceError{Op: OpRead, Key: key, Err: err}
}

func writeError(key string, err error) error {
	return &PersistenceError{Op: OpWrite, Key: key, Err: err}
}
