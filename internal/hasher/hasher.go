// Package hasher folds an ordered list of resolver.SourceEntry values into
// the single SHA-256 digest that is sver's version identifier.
package hasher

import (
	"crypto/sha256"
	"fmt"
	"strconv"

	"github.com/go-git/go-git/v6/plumbing/filemode"

	"github.com/mitoma/sver/internal/gitrepo"
	"github.com/mitoma/sver/internal/resolver"
)

// Digest is the raw 32-byte SHA-256 sum. Truncation to short/long hex forms
// happens at presentation time; the underlying digest is always full-size.
type Digest [sha256.Size]byte

// ShortLen and LongLen are the hex-character lengths of the two rendered
// forms described in spec.md §4.5.
const (
	ShortLen = 12
	LongLen  = sha256.Size * 2
)

// Hex renders the digest as lowercase hex, truncated to n characters.
func (d Digest) Hex(n int) string {
	full := fmt.Sprintf("%x", d[:])
	if n <= 0 || n >= len(full) {
		return full
	}
	return full[:n]
}

// Short is the leading ShortLen hex characters of the digest.
func (d Digest) Short() string { return d.Hex(ShortLen) }

// Long is the full hex rendering of the digest.
func (d Digest) Long() string { return d.Hex(LongLen) }

const sep = 0x00

// Hash folds entries, in the order given, into a single digest under the
// canonical byte layout:
//
//  1. path bytes, then 0x00
//  2. mode as ASCII decimal, then 0x00 (phantom markers skip 2-4 entirely
//     and instead emit just "dir" + 0x00 here)
//  3. if the entry has content: raw blob bytes (gitlinks: the hex object id
//     of the referenced commit instead of a blob), then 0x00
//  4. if the entry is a symlink: the link target bytes again, then 0x00
//
// entries must already be in final path order; Hash does not re-sort them.
func Hash(repo *gitrepo.Repository, entries []resolver.SourceEntry) (Digest, error) {
	h := sha256.New()

	for _, e := range entries {
		h.Write([]byte(e.Path))
		h.Write([]byte{sep})

		if e.Phantom {
			h.Write([]byte("dir"))
			h.Write([]byte{sep})
			continue
		}

		h.Write([]byte(strconv.FormatInt(int64(e.Mode), 10)))
		h.Write([]byte{sep})

		if e.Mode == filemode.Submodule {
			h.Write([]byte(e.Oid.String()))
			h.Write([]byte{sep})
			continue
		}

		content, err := repo.Blob(e.Oid)
		if err != nil {
			return Digest{}, err
		}
		h.Write(content)
		h.Write([]byte{sep})

		if e.Mode == filemode.Symlink {
			h.Write(content)
			h.Write([]byte{sep})
		}
	}

	var d Digest
	copy(d[:], h.Sum(nil))
	return d, nil
}
