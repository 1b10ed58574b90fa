package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// RepoBuilder builds a throwaway git repository on disk for tests that
// exercise gitrepo/resolver/hasher/validator against real index state
// rather than hand-built fixtures. It shells out to the system git binary,
// the same way a developer's working copy would be built.
type RepoBuilder struct {
	t   *testing.T
	dir string
}

// NewTempGitRepo creates an empty git repository under t.TempDir() and
// returns a builder for populating it. The repository is removed
// automatically when the test finishes.
func NewTempGitRepo(t *testing.T) *RepoBuilder {
	t.Helper()

	dir := t.TempDir()
	b := &RepoBuilder{t: t, dir: dir}
	b.git("init", "-q")
	b.git("config", "user.email", "sver-test@example.com")
	b.git("config", "user.name", "sver-test")
	return b
}

// Dir returns the repository's root path.
func (b *RepoBuilder) Dir() string {
	return b.dir
}

// WriteFile writes content to a file at a repo-relative path, creating any
// intermediate directories. It does not stage or commit the change.
func (b *RepoBuilder) WriteFile(relPath, content string) *RepoBuilder {
	b.t.Helper()

	full := filepath.Join(b.dir, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		b.t.Fatalf("tempgitrepo: mkdir for %s: %v", relPath, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		b.t.Fatalf("tempgitrepo: write %s: %v", relPath, err)
	}
	return b
}

// Symlink creates a symlink at a repo-relative path pointing at target
// (target is used verbatim as the link text, so it is usually itself
// relative). It does not stage or commit the change.
func (b *RepoBuilder) Symlink(relPath, target string) *RepoBuilder {
	b.t.Helper()

	full := filepath.Join(b.dir, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		b.t.Fatalf("tempgitrepo: mkdir for %s: %v", relPath, err)
	}
	_ = os.Remove(full)
	if err := os.Symlink(target, full); err != nil {
		b.t.Fatalf("tempgitrepo: symlink %s -> %s: %v", relPath, target, err)
	}
	return b
}

// Gitlink stages a submodule (gitlink) entry at relPath pointing at oidHex,
// without requiring an actual submodule checkout or network access — the
// same low-level mechanism `git submodule add` uses under the hood to
// record the linked commit in the index. An empty directory is created at
// relPath so that Commit's "git add -A" keeps the entry instead of staging
// it as deleted.
func (b *RepoBuilder) Gitlink(relPath, oidHex string) *RepoBuilder {
	b.t.Helper()

	if err := os.MkdirAll(filepath.Join(b.dir, relPath), 0o755); err != nil {
		b.t.Fatalf("tempgitrepo: mkdir for %s: %v", relPath, err)
	}
	b.git("update-index", "--add", "--cacheinfo", "160000,"+oidHex+","+relPath)
	return b
}

// Commit stages every change in the working tree and commits it.
func (b *RepoBuilder) Commit(message string) *RepoBuilder {
	b.t.Helper()

	b.git("add", "-A")
	b.git("commit", "-q", "-m", message)
	return b
}

func (b *RepoBuilder) git(args ...string) {
	b.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = b.dir
	if out, err := cmd.CombinedOutput(); err != nil {
		b.t.Fatalf("tempgitrepo: git %v: %v\n%s", args, err, out)
	}
}
