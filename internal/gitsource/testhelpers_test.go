package gitsource

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// newMockRepo creates a bound Repository whose CLI entry point is a
// MockRunner and whose go-git strategy is unavailable. The fake .git
// directory satisfies Bind validation without needing the git binary.
func newMockRepo(t *testing.T) (*Repository, *MockRunner) {
	t.Helper()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	runner := NewMockRunner()
	repo := New(Options{Runner: runner})
	if err := repo.Bind(dir); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	return repo, runner
}

// osMkdirGit creates the bare .git marker that satisfies Bind validation.
func osMkdirGit(dir string) error {
	return os.Mkdir(filepath.Join(dir, ".git"), 0o755)
}

// requireGit skips the test when the git binary is not installed.
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

// initTestRepo creates a real git repository in a temp directory and
// returns its path together with a runGit helper.
func initTestRepo(t *testing.T) (string, func(args ...string) string) {
	t.Helper()
	requireGit(t)

	dir := t.TempDir()

	runGit := func(args ...string) string {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Test",
			"GIT_AUTHOR_EMAIL=test@test.com",
			"GIT_COMMITTER_NAME=Test",
			"GIT_COMMITTER_EMAIL=test@test.com",
		)
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("git %v failed: %v: %s", args, err, string(out))
		}
		return string(out)
	}

	runGit("init", "-b", "main")
	return dir, runGit
}

// writeTestFile writes content to a file inside the repository.
func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
