package gitsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// CommandRunner is the process-spawn entry point for all git CLI
// strategies. It exists as an interface so tests can count and stub
// invocations without spawning processes.
type CommandRunner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// RunnerOptions configures the git CLI runner.
type RunnerOptions struct {
	// MaxProcesses bounds simultaneous git spawns across the whole handle.
	MaxProcesses int
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int
	// RetryBaseDelay is the initial backoff delay; it doubles per attempt.
	RetryBaseDelay time.Duration
}

// DefaultRunnerOptions returns the runner defaults.
func DefaultRunnerOptions() RunnerOptions {
	return RunnerOptions{
		MaxProcesses:   6,
		MaxRetries:     2,
		RetryBaseDelay: 100 * time.Millisecond,
	}
}

// retryablePattern matches git stderr text for transient failures worth
// retrying. Git emits no structured error codes, so string matching is the
// contract here.
var retryablePattern = regexp.MustCompile(
	`(?i)index\.lock|cannot lock ref|resource temporarily unavailable|could not read from remote|connection reset`,
)

type gitRunner struct {
	log  *zap.Logger
	sem  *semaphore.Weighted
	opts RunnerOptions
}

// NewRunner creates a CommandRunner that invokes the git binary with a
// bounded process pool and bounded retry on transient failures.
func NewRunner(log *zap.Logger, opts RunnerOptions) CommandRunner {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MaxProcesses <= 0 {
		opts.MaxProcesses = DefaultRunnerOptions().MaxProcesses
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = DefaultRunnerOptions().RetryBaseDelay
	}
	return &gitRunner{
		log:  log,
		sem:  semaphore.NewWeighted(int64(opts.MaxProcesses)),
		opts: opts,
	}
}

// Run executes git with the given arguments in dir and returns stdout.
// Transient failures are retried with multiplicative backoff; the loop is
// explicit and bounded.
func (r *gitRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer r.sem.Release(1)

	delay := r.opts.RetryBaseDelay
	var lastErr error

	for attempt := 0; attempt <= r.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			r.log.Debug("retrying git command",
				zap.Int("attempt", attempt),
				zap.Strings("args", args),
				zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		out, err := r.runOnce(ctx, dir, args)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if errors.Is(err, errToolUnavailable) || !isRetryable(err) {
			return "", err
		}
	}

	return "", lastErr
}

func (r *gitRunner) runOnce(ctx context.Context, dir string, args []string) (string, error) {
	full := append([]string{"-C", dir}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", fmt.Errorf("%w: %v", errToolUnavailable, err)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s failed: %w: %s", args[0], err, msg)
	}

	return stdout.String(), nil
}

func isRetryable(err error) bool {
	return err != nil && retryablePattern.MatchString(err.Error())
}
