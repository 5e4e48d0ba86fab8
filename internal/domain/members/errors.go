package members

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateEmail = errors.New("a member with this email already exists")
	ErrMemberNotFound = errors.New("member not found")
	ErrStoreNotReady  = errors.New("member store not initialized")
	ErrRequiredField  = errors.New("name, email and phone are required")
)

// StorageWriteError wraps any write-path failure other than a duplicate email.
type StorageWriteError struct {
	Op  string
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("members %s: %v", e.Op, e.Err)
}

func (e *StorageWriteError) Unwrap() error {
	return e.Err
}

// StorageInitError reports that the store could not be prepared.
type StorageInitError struct {
	Op  string
	Err error
}

func (e *StorageInitError) Error() string {
	return fmt.Sprintf("members init %s: %v", e.Op, e.Err)
}

func (e *StorageInitError) Unwrap() error {
	return e.Err
}
