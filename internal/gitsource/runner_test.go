package gitsource

import (
	"context"
	"errors"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"fatal: Unable to create '/repo/.git/index.lock': File exists.", true},
		{"error: cannot lock ref 'refs/heads/main'", true},
		{"fork: Resource temporarily unavailable", true},
		{"fatal: bad revision 'nope'", false},
		{"fatal: not a git repository", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isRetryable(errors.New(tt.msg)); got != tt.want {
			t.Errorf("isRetryable(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestIsRetryableNil(t *testing.T) {
	if isRetryable(nil) {
		t.Error("nil error must not be retryable")
	}
}

func TestDefaultRunnerOptions(t *testing.T) {
	opts := DefaultRunnerOptions()
	if opts.MaxProcesses != 6 {
		t.Errorf("MaxProcesses = %d, want 6", opts.MaxProcesses)
	}
	if opts.MaxRetries <= 0 {
		t.Error("expected at least one retry")
	}
	if opts.RetryBaseDelay <= 0 {
		t.Error("expected a positive base delay")
	}
}

func TestMockRunnerMatchesPrefixes(t *testing.T) {
	runner := NewMockRunner()
	runner.Respond("log", "output")
	runner.Fail("diff", errors.New("boom"))

	out, err := runner.Run(context.Background(), "/repo", "log", "-1")
	if err != nil || out != "output" {
		t.Errorf("Run(log) = %q, %v", out, err)
	}

	if _, err := runner.Run(context.Background(), "/repo", "diff", "HEAD"); err == nil {
		t.Error("expected registered failure")
	}

	if _, err := runner.Run(context.Background(), "/repo", "blame"); !errors.Is(err, errToolUnavailable) {
		t.Errorf("unmatched invocation error = %v, want errToolUnavailable", err)
	}

	if n := runner.CallCount("log"); n != 1 {
		t.Errorf("CallCount(log) = %d, want 1", n)
	}
	if len(runner.Calls()) != 3 {
		t.Errorf("Calls() = %v, want 3 entries", runner.Calls())
	}
}
