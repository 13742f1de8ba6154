package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

type ValidatingSpec interface {
	Validate() error
}

// Collection is a typed JSON view over a Backend.
type Collection[T ValidatingSpec] struct {
	backend Backend
}

func NewCollection[T ValidatingSpec](b Backend) *Collection[T] {
	return &Collection[T]{backend: b}
}

func (c *Collection[T]) Exists(key string) (bool, error) {
	return c.backend.Exists(key)
}

// Load reads and decodes the record at key. A missing record yields
// ErrNotFound; one that cannot be decoded or fails validation yields a
// *MalformedError.
func (c *Collection[T]) Load(key string) (T, error) {
	var rec T

	data, err := c.backend.Read(key)
	if err != nil {
		return rec, err
	}

	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, &MalformedError{Key: key, Err: err}
	}
	if reflect.ValueOf(rec).IsNil() {
		return rec, &MalformedError{Key: key, Err: errors.New("empty record")}
	}
	if err := rec.Validate(); err != nil {
		return rec, &MalformedError{Key: key, Err: err}
	}

	return rec, nil
}

func (c *Collection[T]) Save(key string, rec T) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling %q: %w", key, err)
	}
	return c.backend.Write(key, data)
}

func (c *Collection[T]) Delete(key string) error {
	return c.backend.Delete(key)
}

func (c *Collection[T]) Keys() ([]string, error) {
	return c.backend.Keys()
}
