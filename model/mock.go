package model

import (
	"context"
	"sync"
)

// Mock is a Completer test double that returns canned responses.
// It records every call for later inspection and is safe for concurrent use.
type Mock struct {
	mu        sync.Mutex
	responses []string
	index     int
	err       error
	calls     [][]Message
}

// NewMock creates a mock that cycles through the given responses.
// With no responses it returns the empty string.
func NewMock(responses ...string) *Mock {
	return &Mock{responses: responses}
}

// NewMockError creates a mock that always fails with err.
func NewMockError(err error) *Mock {
	return &Mock{err: err}
}

// Complete returns the next canned response.
func (m *Mock) Complete(_ context.Context, messages []Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, messages)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	resp := m.responses[m.index%len(m.responses)]
	m.index++
	return resp, nil
}

// Calls returns the message lists from every Complete invocation.
func (m *Mock) Calls() [][]Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([][]Message, len(m.calls))
	copy(calls, m.calls)
	return calls
}
