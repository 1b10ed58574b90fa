// Package gitrepo wraps a git repository for sver's purposes: discovering
// its root from any descendant path, exposing the flattened index (or, when
// no index is present, the HEAD tree) as a sorted set of path entries, and
// reading blob content by object id.
//
// Only index/HEAD state participates — sver never inspects the working
// tree, so there is no notion of "modified" or "untracked" here.
package gitrepo

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	git "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/filemode"
	"github.com/go-git/go-git/v6/plumbing/object"
)

// Entry is a single path known to the repository: a blob-backed file,
// executable, symlink, or submodule (gitlink) reference.
type Entry struct {
	Path string
	Mode filemode.FileMode
	Oid  plumbing.Hash
}

// IsSymlink reports whether e represents a symbolic link entry.
func (e Entry) IsSymlink() bool { return e.Mode == filemode.Symlink }

// IsSubmodule reports whether e represents a gitlink (submodule) entry.
func (e Entry) IsSubmodule() bool { return e.Mode == filemode.Submodule }

// Repository is a scoped handle onto one git repository's index/tree state.
// It is opened once per resolution call and holds no mutable shared state,
// so independent Repository values are safe to use concurrently; a single
// value is not (the underlying go-git object reader isn't guaranteed to be).
type Repository struct {
	root    string
	repo    *git.Repository
	entries []Entry
	byPath  map[string]int
	log     *slog.Logger

	pathsCache []string
}

// Open discovers the repository root by walking up from startPath and
// returns a Repository scoped to it. The index (or HEAD tree, when no index
// exists) is read once and cached for the lifetime of the handle.
func Open(startPath string) (*Repository, error) {
	log := slog.Default().With("component", "gitrepo")

	repo, err := git.PlainOpenWithOptions(startPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, &NotFoundError{Path: startPath}
		}
		return nil, &GitError{Op: "open repository", Err: err}
	}

	root, err := repositoryRoot(repo)
	if err != nil {
		return nil, &GitError{Op: "resolve worktree root", Err: err}
	}

	r := &Repository{root: root, repo: repo, log: log}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func repositoryRoot(repo *git.Repository) (string, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return "", err
	}
	return wt.Filesystem.Root(), nil
}

// Root returns the absolute filesystem path of the repository root.
func (r *Repository) Root() string { return r.root }

// HeadCommit returns the current HEAD commit hash, when one exists (a
// freshly initialized repository with no commits yet has none). This is
// purely informational metadata for callers such as calc's toml/json
// output — it is never consulted during resolution or hashing, since
// spec's invariant is that the digest is a pure function of index/config
// state, not of HEAD commit identity beyond what that state already
// encodes.
func (r *Repository) HeadCommit() (plumbing.Hash, bool) {
	head, err := r.repo.Head()
	if err != nil {
		return plumbing.ZeroHash, false
	}
	return head.Hash(), true
}

// load populates r.entries from the index when one exists and is non-empty,
// falling back to a recursive walk of the HEAD commit's tree otherwise. The
// choice is deterministic for a given repository state: a repository either
// has a populated index (the common, checked-out case) or it doesn't (one
// inspected before any checkout has occurred). Bare repositories never get
// here: Open needs a worktree to find the root and fails without one.
func (r *Repository) load() error {
	entries, err := r.loadFromIndex()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fromTree, err := r.loadFromHeadTree()
		if err != nil {
			return err
		}
		entries = fromTree
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	r.entries = entries
	r.byPath = make(map[string]int, len(entries))
	for i, e := range entries {
		r.byPath[e.Path] = i
	}
	r.log.Debug("loaded repository entries", "count", len(entries), "root", r.root)
	return nil
}

func (r *Repository) loadFromIndex() ([]Entry, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		// No index is not a hard error: it just means we fall back to the
		// HEAD tree.
		return nil, nil
	}
	entries := make([]Entry, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		entries = append(entries, Entry{
			Path: normalizePath(e.Name),
			Mode: e.Mode,
			Oid:  e.Hash,
		})
	}
	return entries, nil
}

func (r *Repository) loadFromHeadTree() ([]Entry, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			// Freshly initialized repository with no commits yet: empty.
			return nil, nil
		}
		return nil, &GitError{Op: "resolve HEAD", Err: err}
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, &GitError{Op: "load HEAD commit", Err: err}
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, &GitError{Op: "load HEAD tree", Err: err}
	}

	walker := object.NewTreeWalker(tree, true, nil)
	defer walker.Close()

	var entries []Entry
	for {
		name, te, err := walker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &GitError{Op: "walk HEAD tree", Err: err}
		}
		if te.Mode == filemode.Dir {
			continue
		}
		entries = append(entries, Entry{
			Path: normalizePath(name),
			Mode: te.Mode,
			Oid:  te.Hash,
		})
	}
	return entries, nil
}

// normalizePath ensures forward slashes and strips any leading slash, so
// paths read from either backend have the same canonical form.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.TrimPrefix(p, "/")
}

// Entries returns every entry in the repository, sorted lexicographically
// by path.
func (r *Repository) Entries() []Entry {
	return r.entries
}

// Lookup returns the entry at the exact path, if any.
func (r *Repository) Lookup(path string) (Entry, bool) {
	i, ok := r.byPath[path]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// HasDescendant reports whether any entry's path starts with prefix+"/",
// i.e. whether prefix should be classified as a directory.
func (r *Repository) HasDescendant(prefix string) bool {
	want := prefix + "/"
	i := sort.SearchStrings(r.sortedPaths(), want)
	if i < len(r.entries) && strings.HasPrefix(r.entries[i].Path, want) {
		return true
	}
	return false
}

// Descendants returns every entry whose path starts with prefix+"/", in
// sorted order.
func (r *Repository) Descendants(prefix string) []Entry {
	want := prefix + "/"
	var out []Entry
	for _, e := range r.entries {
		if strings.HasPrefix(e.Path, want) {
			out = append(out, e)
		}
	}
	return out
}

// sortedPaths is a small cached helper so HasDescendant can binary search;
// entries are already sorted by path, so this just projects them.
func (r *Repository) sortedPaths() []string {
	if r.pathsCache != nil {
		return r.pathsCache
	}
	paths := make([]string, len(r.entries))
	for i, e := range r.entries {
		paths[i] = e.Path
	}
	r.pathsCache = paths
	return paths
}

// Blob reads the raw bytes of the blob identified by oid.
func (r *Repository) Blob(oid plumbing.Hash) ([]byte, error) {
	blob, err := r.repo.BlobObject(oid)
	if err != nil {
		return nil, &GitError{Op: fmt.Sprintf("read blob %s", oid), Err: err}
	}
	rc, err := blob.Reader()
	if err != nil {
		return nil, &GitError{Op: fmt.Sprintf("open blob %s", oid), Err: err}
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &GitError{Op: fmt.Sprintf("read blob %s", oid), Err: err}
	}
	return data, nil
}

// BlobUTF8 reads the blob at oid and requires it to be valid UTF-8 text,
// returning BadEncodingError (tagged with path, for error messages) when it
// is not.
func (r *Repository) BlobUTF8(oid plumbing.Hash, path string) (string, error) {
	data, err := r.Blob(oid)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", &BadEncodingError{Path: path}
	}
	return string(data), nil
}
