package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by backends when a key has no record.
var ErrNotFound = errors.New("record not found")

// Backend is a flat key to bytes record store. Each entity kind (rooms, items,
// accounts) gets its own Backend.
type Backend interface {
	Exists(key string) (bool, error)
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
	Delete(key string) error
	Keys() ([]string, error)
}

// MalformedError reports a record that exists but could not be decoded or
// failed validation.
type MalformedError struct {
	Key string
	Err error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed record %q: %s", e.Key, e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}
