package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"weftworks/weft/pkg/config"
	"weftworks/weft/pkg/playbook/include"
)

// CommitInfo contains metadata about the library's checked-out commit.
type CommitInfo struct {
	SHA        string    `json:"sha"`
	Author     string    `json:"author"`
	Email      string    `json:"email"`
	Timestamp  time.Time `json:"timestamp"`
	Message    string    `json:"message"`
	Branch     string    `json:"branch"`
	Repository string    `json:"repository"`
}

// SyncResult describes what a pull changed.
type SyncResult struct {
	FromSHA string
	ToSHA   string

	// ChangedFiles holds repository-relative paths of files that differ
	// between FromSHA and ToSHA.
	ChangedFiles []string
	HadChanges   bool
}

// SyncMetrics tracks Git operation metrics for the library checkout.
type SyncMetrics struct {
	CloneDuration   time.Duration
	PullDuration    time.Duration
	LastCommitSHA   string
	LastSyncTime    time.Time
	FailedPulls     int64
	SuccessfulPulls int64
}

// Library manages the shared playbook-module repository checked out inside
// the workspace. Keeping the checkout under the workspace root matters: the
// include resolver confines reads to the workspace, so modules are only
// includable from there.
type Library struct {
	config    *config.LibraryConfig
	localPath string
	auth      AuthProvider
	repo      *gogit.Repository
	mu        sync.RWMutex
	metrics   *SyncMetrics
}

// NewLibrary creates a library manager rooted at workspaceRoot. The checkout
// directory comes from the config's dir field and must resolve to a proper
// subdirectory of the workspace.
func NewLibrary(workspaceRoot string, cfg *config.LibraryConfig) (*Library, error) {
	if cfg == nil {
		return nil, fmt.Errorf("library config cannot be nil")
	}
	if cfg.Repository == "" {
		return nil, fmt.Errorf("library repository URL cannot be empty")
	}
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	dir := cfg.Dir
	if dir == "" {
		dir = "modules"
	}

	absRoot, err := filepath.Abs(workspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	localPath := filepath.Join(absRoot, dir)
	if localPath == absRoot || !strings.HasPrefix(localPath, absRoot+string(filepath.Separator)) {
		return nil, fmt.Errorf("library dir %q must be a subdirectory of the workspace", cfg.Dir)
	}

	auth, err := NewAuthProvider(&cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth provider: %w", err)
	}

	return &Library{
		config:    cfg,
		localPath: localPath,
		auth:      auth,
		metrics:   &SyncMetrics{},
	}, nil
}

// Clone materializes the library checkout. An existing checkout is opened
// and reused rather than re-cloned.
func (l *Library) Clone(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	defer func() {
		l.metrics.CloneDuration = time.Since(start)
	}()

	gitDir := filepath.Join(l.localPath, ".git")
	if _, err := os.Stat(gitDir); err == nil {
		repo, err := gogit.PlainOpen(l.localPath)
		if err != nil {
			return fmt.Errorf("failed to open existing checkout: %w", err)
		}
		l.repo = repo
		return nil
	}

	if err := os.MkdirAll(l.localPath, 0755); err != nil {
		return fmt.Errorf("failed to create checkout directory: %w", err)
	}

	cloneOpts := &gogit.CloneOptions{
		URL:           l.config.Repository,
		ReferenceName: plumbing.NewBranchReferenceName(l.config.Branch),
		SingleBranch:  l.config.Depth > 0,
		Depth:         l.config.Depth,
	}

	auth, err := l.auth.GetAuth()
	if err != nil {
		return fmt.Errorf("failed to get auth: %w", err)
	}
	cloneOpts.Auth = auth

	cloneCtx, cancel := l.opContext(ctx)
	defer cancel()

	repo, err := gogit.PlainCloneContext(cloneCtx, l.localPath, false, cloneOpts)
	if err != nil {
		return fmt.Errorf("failed to clone library repository: %w", err)
	}

	l.repo = repo
	return nil
}

// Pull fetches the latest changes from the remote. The result reports the
// repository-relative paths that changed, so callers can tell module edits
// from unrelated commits.
func (l *Library) Pull(ctx context.Context) (*SyncResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	defer func() {
		l.metrics.PullDuration = time.Since(start)
		l.metrics.LastSyncTime = time.Now()
	}()

	if l.repo == nil {
		return nil, fmt.Errorf("library not cloned, call Clone() first")
	}

	ref, err := l.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	fromSHA := ref.Hash().String()

	worktree, err := l.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	pullOpts := &gogit.PullOptions{
		RemoteName: "origin",
		Force:      false,
	}

	auth, err := l.auth.GetAuth()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth: %w", err)
	}
	pullOpts.Auth = auth

	pullCtx, cancel := l.opContext(ctx)
	defer cancel()

	err = worktree.PullContext(pullCtx, pullOpts)
	if err != nil && err != gogit.NoErrAlreadyUpToDate {
		l.metrics.FailedPulls++
		return nil, fmt.Errorf("failed to pull: %w", err)
	}

	l.metrics.SuccessfulPulls++

	newRef, err := l.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get new HEAD: %w", err)
	}
	toSHA := newRef.Hash().String()

	result := &SyncResult{
		FromSHA:    fromSHA,
		ToSHA:      toSHA,
		HadChanges: fromSHA != toSHA,
	}

	if result.HadChanges {
		changed, err := l.changedFiles(fromSHA, toSHA)
		if err != nil {
			return nil, fmt.Errorf("failed to get changed files: %w", err)
		}
		result.ChangedFiles = changed
		l.metrics.LastCommitSHA = toSHA
	}

	return result, nil
}

// Sync makes the checkout current: it clones on first use and pulls after.
func (l *Library) Sync(ctx context.Context) (*SyncResult, error) {
	l.mu.RLock()
	cloned := l.repo != nil
	l.mu.RUnlock()

	if !cloned {
		if err := l.Clone(ctx); err != nil {
			return nil, err
		}
	}
	return l.Pull(ctx)
}

// CurrentCommit returns metadata about the checked-out HEAD commit.
func (l *Library) CurrentCommit() (*CommitInfo, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.repo == nil {
		return nil, fmt.Errorf("library not cloned, call Clone() first")
	}

	ref, err := l.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	commit, err := l.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}

	return &CommitInfo{
		SHA:        commit.Hash.String(),
		Author:     commit.Author.Name,
		Email:      commit.Author.Email,
		Timestamp:  commit.Author.When,
		Message:    commit.Message,
		Branch:     l.config.Branch,
		Repository: l.config.Repository,
	}, nil
}

// ListModules returns the includable module files in the configured path.
// Only markup files count as modules; hidden files are excluded.
func (l *Library) ListModules() ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	modulesPath := filepath.Join(l.localPath, l.config.Path)
	if _, err := os.Stat(modulesPath); err != nil {
		return nil, fmt.Errorf("module path does not exist: %w", err)
	}

	var files []string
	err := filepath.Walk(modulesPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// .git carries plenty of files with markup-looking names.
			if info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") {
			return nil
		}
		if include.IsMarkupFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk module directory: %w", err)
	}

	return files, nil
}

// changedFiles diffs two commits. Callers hold the lock.
func (l *Library) changedFiles(fromSHA, toSHA string) ([]string, error) {
	fromCommit, err := l.repo.CommitObject(plumbing.NewHash(fromSHA))
	if err != nil {
		return nil, fmt.Errorf("failed to get from commit: %w", err)
	}
	toCommit, err := l.repo.CommitObject(plumbing.NewHash(toSHA))
	if err != nil {
		return nil, fmt.Errorf("failed to get to commit: %w", err)
	}

	fromTree, err := fromCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get from tree: %w", err)
	}
	toTree, err := toCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get to tree: %w", err)
	}

	changes, err := fromTree.Diff(toTree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees: %w", err)
	}

	var files []string
	for _, change := range changes {
		switch {
		case change.To.Name != "":
			files = append(files, change.To.Name)
		case change.From.Name != "":
			// Deleted file, report the old path.
			files = append(files, change.From.Name)
		}
	}

	return files, nil
}

// opContext bounds a Git operation with the configured poll timeout.
func (l *Library) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := l.config.Poll.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// LocalPath returns the checkout directory.
func (l *Library) LocalPath() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.localPath
}

// ModulesPath returns the directory holding module files inside the checkout.
func (l *Library) ModulesPath() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return filepath.Join(l.localPath, l.config.Path)
}

// Metrics returns a copy of the current sync metrics.
func (l *Library) Metrics() SyncMetrics {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return *l.metrics
}
