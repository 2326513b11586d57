package gitsource

import (
	"context"
	"strings"
	"sync"
)

// MockRunner is a test double for the git CLI entry point. It matches
// invocations against registered argument prefixes and counts every call,
// so tests can assert cache behavior without spawning processes.
type MockRunner struct {
	mu        sync.Mutex
	responses []mockResponse
	calls     []string
	// Err is returned for any invocation with no matching response.
	Err error
}

type mockResponse struct {
	prefix string
	out    string
	err    error
}

// NewMockRunner creates an empty mock runner. Unmatched invocations return
// Err (or a default failure when Err is nil).
func NewMockRunner() *MockRunner {
	return &MockRunner{Err: errToolUnavailable}
}

// Respond registers output for invocations whose joined arguments start
// with prefix.
func (m *MockRunner) Respond(prefix, out string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{prefix: prefix, out: out})
}

// Fail registers an error for invocations whose joined arguments start
// with prefix.
func (m *MockRunner) Fail(prefix string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{prefix: prefix, err: err})
}

// Run implements CommandRunner.
func (m *MockRunner) Run(_ context.Context, _ string, args ...string) (string, error) {
	joined := strings.Join(args, " ")

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, joined)

	for _, resp := range m.responses {
		if strings.HasPrefix(joined, resp.prefix) {
			return resp.out, resp.err
		}
	}
	return "", m.Err
}

// Calls returns the joined argument strings of every invocation so far.
func (m *MockRunner) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many invocations matched the given prefix.
func (m *MockRunner) CallCount(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, call := range m.calls {
		if strings.HasPrefix(call, prefix) {
			n++
		}
	}
	return n
}

// Compile-time interface conformance check.
var _ CommandRunner = (*MockRunner)(nil)
