// Package classify decides what a repository-relative path refers to: a
// blob-backed entry (file, executable, symlink, or gitlink), a directory
// (something with tracked descendants but no entry of its own), or nothing
// at all. Classify itself does not follow symlinks; the package also hosts
// the clamped symlink-target join the resolver uses for that, so
// repository-root escape checking lives in one place.
package classify

import (
	"path"
	"strings"

	"github.com/mitoma/sver/internal/gitrepo"
)

// Kind tags what a classified path turned out to be.
type Kind int

const (
	// KindFile covers any blob-backed leaf entry: regular file,
	// executable, symlink, or gitlink. Entry carries which.
	KindFile Kind = iota
	// KindDirectory means the path has no entry of its own but at least
	// one entry begins with path+"/".
	KindDirectory
	// KindNotFound means neither of the above.
	KindNotFound
)

// Classification is the result of classifying a single path.
type Classification struct {
	Kind Kind
	// Entry is set when Kind == KindFile.
	Entry gitrepo.Entry
	// Dir is the normalized directory path when Kind == KindDirectory.
	Dir string
}

// Classify determines what p refers to within repo's index. p should
// already be normalized (forward slashes, no trailing slash); Classify
// trims a trailing slash defensively since directory-style requests are a
// natural way to spell a target.
func Classify(repo *gitrepo.Repository, p string) Classification {
	p = strings.TrimSuffix(p, "/")

	if e, ok := repo.Lookup(p); ok {
		return Classification{Kind: KindFile, Entry: e}
	}
	if p == "" || repo.HasDescendant(p) {
		return Classification{Kind: KindDirectory, Dir: p}
	}
	return Classification{Kind: KindNotFound}
}

// BadSymlinkError is returned when a symlink's target, resolved relative to
// its parent directory, would escape the repository root.
type BadSymlinkError struct {
	Path   string
	Target string
}

func (e *BadSymlinkError) Error() string {
	return "symlink " + e.Path + " -> " + e.Target + " escapes the repository root"
}

// JoinSymlinkTarget resolves target relative to parentDir (the directory
// containing the symlink, repo-root-relative, "" meaning the root) and
// clamps the result to stay within the repository: any target that climbs
// above the root is rejected as BadSymlinkError rather than silently
// clamped, since a symlink escaping the repo can't be attributed to any
// tracked content.
func JoinSymlinkTarget(parentDir, target string) (string, error) {
	target = strings.TrimSpace(target)
	cleaned := path.Clean(path.Join(parentDir, target))

	// Deliberately Clean without an anchoring leading "/": that would
	// silently collapse a climbing ".." at the top back to the root
	// instead of surfacing the escape.
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", &BadSymlinkError{Path: parentDir, Target: target}
	}
	if cleaned == "." {
		return "", nil
	}
	return cleaned, nil
}

// ParentDir returns the repo-relative directory containing p ("" for the
// repository root), using slash semantics rather than the OS path package.
func ParentDir(p string) string {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return ""
	}
	return p[:i]
}
