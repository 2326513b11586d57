package gitsource

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	gogit "github.com/go-git/go-git/v5"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// ReferenceDiffer is an optional host-provided fast path that can produce a
// diff of a file path against the current reference. A nil differ or a nil
// result means "absent", not "failed".
type ReferenceDiffer interface {
	DiffWithRef(ctx context.Context, path string) (string, error)
}

// Options configures a Repository handle.
type Options struct {
	Logger       *zap.Logger
	Runner       CommandRunner // defaults to NewRunner
	RunnerOpts   RunnerOptions
	RefDiffer    ReferenceDiffer // optional host API hook
	DiffCacheLen int             // entries in the content-addressed diff cache

	// Diff synthesis tunables. Zero values take the documented defaults.
	ContextLines        int     // unified diff context, default 3
	LookaheadLines      int     // reconstruction lookahead window, default 5
	RegionMergeDistance int     // merge regions this close, default 3
	LargeChangeRatio    float64 // whole-file fallback threshold, default 0.1
	LargeChangeMinLines int     // smallest file the fallback applies to, default 20
	DiffFilter          string  // optional --diff-filter value for range diffs

	DefaultMaxCount int // commit listing default, 50
}

func (o *Options) applyDefaults() {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.RunnerOpts.MaxProcesses == 0 && o.RunnerOpts.MaxRetries == 0 && o.RunnerOpts.RetryBaseDelay == 0 {
		o.RunnerOpts = DefaultRunnerOptions()
	}
	if o.Runner == nil {
		o.Runner = NewRunner(o.Logger, o.RunnerOpts)
	}
	if o.DiffCacheLen <= 0 {
		o.DiffCacheLen = 512
	}
	if o.ContextLines <= 0 {
		o.ContextLines = 3
	}
	if o.LookaheadLines <= 0 {
		o.LookaheadLines = 5
	}
	if o.RegionMergeDistance <= 0 {
		o.RegionMergeDistance = 3
	}
	if o.LargeChangeRatio <= 0 {
		o.LargeChangeRatio = 0.1
	}
	if o.LargeChangeMinLines <= 0 {
		o.LargeChangeMinLines = 20
	}
	if o.DefaultMaxCount <= 0 {
		o.DefaultMaxCount = 50
	}
}

// Repository is a handle bound to one repository root at a time. It owns
// the commit and diff caches; rebinding to a different path clears them,
// rebinding to the same path is a no-op.
//
// Read operations may run concurrently against a bound handle. Bind itself
// must be serialized by the caller.
type Repository struct {
	log    *zap.Logger
	runner CommandRunner
	opts   Options

	mu     sync.RWMutex
	path   string
	bound  bool
	gogit  *gogit.Repository // nil when the library strategy is unavailable

	commitMu     sync.Mutex
	commitCache  []Commit
	activeFilter CommitFilter

	diffCache *lru.Cache[diffCacheKey, string]
}

type diffCacheKey struct {
	path        string
	fingerprint uint64
}

// New creates an unbound repository handle.
func New(opts Options) *Repository {
	opts.applyDefaults()

	cache, _ := lru.New[diffCacheKey, string](opts.DiffCacheLen)

	return &Repository{
		log:       opts.Logger,
		runner:    opts.Runner,
		opts:      opts,
		diffCache: cache,
	}
}

// Bind attaches the handle to the repository at path.
//
// It fails with ErrRepositoryNotFound when the path does not exist and with
// ErrNotAVersionControlledDirectory when the .git metadata directory is
// absent. Binding the currently bound path again returns immediately with
// no side effects; binding a different path resets the commit cache, the
// active filter, and the diff cache.
func (r *Repository) Bind(path string) error {
	if _, err := os.Stat(path); err != nil {
		return ErrRepositoryNotFound
	}
	if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
		return ErrNotAVersionControlledDirectory
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bound && r.path == path {
		return nil
	}

	repo, err := gogit.PlainOpen(path)
	if err != nil {
		// The CLI strategies may still work; the library strategy is
		// simply unavailable for this binding.
		r.log.Warn("go-git open failed, library strategy disabled",
			zap.String("path", path), zap.Error(err))
		repo = nil
	}

	r.path = path
	r.bound = true
	r.gogit = repo

	r.commitMu.Lock()
	r.commitCache = nil
	r.activeFilter = CommitFilter{}
	r.commitMu.Unlock()

	r.diffCache.Purge()

	return nil
}

// Path returns the currently bound repository root.
func (r *Repository) Path() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.path
}

// Bound reports whether the handle is attached to a repository.
func (r *Repository) Bound() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bound
}

// libRepo returns the go-git repository, or nil when the library strategy
// is unavailable.
func (r *Repository) libRepo() *gogit.Repository {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gogit
}
