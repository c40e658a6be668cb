package eval

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// Fields is a free-form named-field mapping used for example inputs and
// outputs when no fixed schema applies. Examples in the same store may carry
// heterogeneous field sets; evaluators check for the fields they need at
// invocation time.
type Fields map[string]any

// String returns the named field as a string.
// It returns an error wrapping ErrSchema if the field is missing or not a string.
func (f Fields) String(key string) (string, error) {
	v, ok := f[key]
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", ErrSchema, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q is %T, not a string", ErrSchema, key, v)
	}
	return s, nil
}

// Example represents a single labeled example in an evaluation.
type Example[I, R any] struct {
	// ID uniquely identifies the example within a store.
	// Optional. Store.Add assigns one when empty.
	ID string

	// Input is the input to the target function.
	Input I

	// Expected is the expected output (for scoring).
	// Optional.
	Expected R

	// Tags are labels to attach to this example.
	// Optional.
	Tags []string

	// Metadata is additional metadata for this example.
	// Optional.
	Metadata Metadata
}

// Examples is an iterator interface for labeled examples.
// This allows lazy loading of examples without requiring them all in memory.
// Implementations must return io.EOF when iteration is complete.
type Examples[I, R any] interface {
	// Next returns the next example, or io.EOF if there are no more examples.
	Next() (Example[I, R], error)
}

// Metadata is a map of strings to a JSON-encodable value. It is used to store
// arbitrary metadata about an example or a run.
type Metadata map[string]any

// NewExamples creates an Examples iterator from a slice.
// This is a convenience function for the common case of having all examples in memory.
func NewExamples[I, R any](examples []Example[I, R]) Examples[I, R] {
	return &sliceExamples[I, R]{
		examples: examples,
		index:    0,
	}
}

// sliceExamples implements the Examples interface for a slice.
type sliceExamples[I, R any] struct {
	examples []Example[I, R]
	index    int
}

// Next returns the next example, or io.EOF if there are no more examples.
func (s *sliceExamples[I, R]) Next() (Example[I, R], error) {
	if s.index >= len(s.examples) {
		var zero Example[I, R]
		return zero, io.EOF
	}

	e := s.examples[s.index]
	s.index++
	return e, nil
}

// Store holds labeled examples in insertion order with unique IDs.
// It is safe for concurrent use.
type Store[I, R any] struct {
	mu       sync.Mutex
	examples []Example[I, R]
	ids      map[string]struct{}
}

// NewStore creates an empty example store.
func NewStore[I, R any]() *Store[I, R] {
	return &Store[I, R]{
		ids: make(map[string]struct{}),
	}
}

// Add appends an example to the store and returns its ID.
// An ID is assigned when the example doesn't carry one. Adding an example
// whose ID is already present returns an error wrapping ErrDuplicateID and
// leaves the store unchanged.
func (s *Store[I, R]) Add(example Example[I, R]) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if example.ID == "" {
		example.ID = uuid.NewString()
	}
	if _, exists := s.ids[example.ID]; exists {
		return "", fmt.Errorf("%w: %q", ErrDuplicateID, example.ID)
	}

	s.ids[example.ID] = struct{}{}
	s.examples = append(s.examples, example)
	return example.ID, nil
}

// Len returns the number of examples in the store.
func (s *Store[I, R]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.examples)
}

// Examples returns a fresh iterator over the store's examples in insertion
// order. Each call yields an independent iterator, so iteration is restartable.
func (s *Store[I, R]) Examples() Examples[I, R] {
	s.mu.Lock()
	snapshot := make([]Example[I, R], len(s.examples))
	copy(snapshot, s.examples)
	s.mu.Unlock()

	return NewExamples(snapshot)
}
