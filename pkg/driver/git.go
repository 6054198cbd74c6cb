package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fortio.org/log"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitFetcher materializes git_modules entries under a cache directory. Each
// pinned version gets its own checkout directory, so a fetched revision is
// never rewritten in place.
type GitFetcher struct {
	cacheDir string
}

// FetchResult describes a checkout produced by GitFetcher.
type FetchResult struct {
	Name    string
	Version string
	Commit  string
	Dir     string
}

// NewGitFetcher returns nil when no cache directory is configured.
func NewGitFetcher(cacheDir string) *GitFetcher {
	if cacheDir == "" {
		return nil
	}
	return &GitFetcher{cacheDir: cacheDir}
}

// Fetch clones spec.URL (or reuses an existing checkout) and returns the
// directory holding the module root, with Subdir applied.
func (g *GitFetcher) Fetch(name string, spec *GitModuleSpec) (*FetchResult, error) {
	if g == nil {
		return nil, errors.New("git fetcher unavailable: no cache_dir configured")
	}
	if spec == nil {
		return nil, fmt.Errorf("git module %q: missing spec", name)
	}
	url := strings.TrimSpace(spec.URL)
	if url == "" {
		return nil, fmt.Errorf("git module %q: url required", name)
	}
	baseDir := filepath.Join(g.cacheDir, "git", sanitizePathSegment(name))
	version, commit, err := ensureGitCheckout(baseDir, url, spec)
	if err != nil {
		return nil, fmt.Errorf("git module %q: %w", name, err)
	}
	dir := filepath.Join(baseDir, sanitizePathSegment(version))
	if spec.Subdir != "" {
		dir = filepath.Join(dir, filepath.Clean(spec.Subdir))
	}
	log.Infof("git module %s at %s", name, version)
	return &FetchResult{Name: name, Version: version, Commit: commit, Dir: dir}, nil
}

// FetchAll fetches every configured git module in name order.
func (g *GitFetcher) FetchAll(modules map[string]*GitModuleSpec) ([]*FetchResult, error) {
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)
	results := make([]*FetchResult, 0, len(names))
	for _, name := range names {
		result, err := g.Fetch(name, modules[name])
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func ensureGitCheckout(baseDir, url string, spec *GitModuleSpec) (string, string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}

	revision, descriptor, err := gitRevisionFromSpec(spec)
	if err != nil {
		return "", "", err
	}

	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		existing := filepath.Join(baseDir, sanitizePathSegment(rev))
		if _, err := os.Stat(existing); err == nil {
			log.LogVf("git checkout %s already present", existing)
			return rev, rev, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: url})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	version := gitPinnedVersion(descriptor, hash.String())
	targetDir := filepath.Join(baseDir, sanitizePathSegment(version))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return version, hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	return version, hash.String(), nil
}

func gitPinnedVersion(descriptor, commit string) string {
	commit = strings.TrimSpace(commit)
	descriptor = strings.TrimSpace(descriptor)
	if commit == "" {
		return descriptor
	}
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return descriptor + "@" + commit
}

func gitRevisionFromSpec(spec *GitModuleSpec) (plumbing.Revision, string, error) {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return plumbing.Revision(rev), rev, nil
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), tag, nil
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		return plumbing.Revision("refs/remotes/origin/" + branch), branch, nil
	}
	return "", "", fmt.Errorf("git modules require rev, tag, or branch")
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
