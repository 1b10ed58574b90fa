// Package validator walks every sver.toml in a repository's index and
// checks that each profile's dependencies and excludes actually resolve to
// something, reporting per-(file, profile) OK/NG verdicts. Unlike the
// resolver, it never halts on the first problem: every file and profile is
// checked, and all findings are accumulated before returning.
package validator

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mitoma/sver/internal/classify"
	"github.com/mitoma/sver/internal/gitrepo"
	"github.com/mitoma/sver/internal/profileconfig"
)

// globMetaChars are the characters that distinguish a glob pattern from a
// literal path. sver's dependencies/excludes are always literal paths, so
// an entry containing one of these is almost certainly a mistake — mirrors
// the teacher's own glob-looks-like-a-mistake check in its config validator.
const globMetaChars = "*?[{"

// Verdict is one row of validation output: a single profile within a single
// sver.toml file.
type Verdict struct {
	File    string
	Profile string
	OK      bool

	// ParseErr is set instead of Profile/OK when the file itself failed to
	// parse; Profile is empty and OK is false in that case.
	ParseErr string

	InvalidDependency []string
	InvalidExclude    []string

	// Suggestions maps an invalid entry that looks like a glob pattern to
	// the paths it would have matched, purely informational.
	Suggestions map[string][]string
}

// Validate walks repo's index for sver.toml files and validates every
// profile they define. It returns every verdict (sorted by file, then
// profile) and an overall boolean: true iff every verdict is OK.
func Validate(repo *gitrepo.Repository) ([]Verdict, bool) {
	overallOK := true
	var out []Verdict

	for _, e := range repo.Entries() {
		dir, ok := configDir(e.Path)
		if !ok {
			continue
		}

		text, err := repo.BlobUTF8(e.Oid, e.Path)
		var cfg profileconfig.Config
		if err == nil {
			cfg, err = profileconfig.Decode(text, e.Path)
		}
		if err != nil {
			overallOK = false
			out = append(out, Verdict{File: e.Path, ParseErr: err.Error()})
			continue
		}

		for _, name := range profileNames(cfg) {
			v := validateProfile(repo, e.Path, dir, name, cfg.Profile(name))
			if !v.OK {
				overallOK = false
			}
			out = append(out, v)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Profile < out[j].Profile
	})
	return out, overallOK
}

func validateProfile(repo *gitrepo.Repository, file, dir, name string, prof profileconfig.Profile) Verdict {
	v := Verdict{File: file, Profile: name, OK: true}

	for _, depRaw := range prof.Dependencies {
		ref := profileconfig.ParseDependency(depRaw)
		cls := classify.Classify(repo, normalizePath(ref.Path))
		if cls.Kind == classify.KindNotFound {
			v.OK = false
			v.InvalidDependency = append(v.InvalidDependency, depRaw)
			v.addSuggestion(repo, depRaw, ref.Path)
		}
	}

	for _, ex := range prof.Excludes {
		joined := joinDirPath(dir, ex)
		cls := classify.Classify(repo, joined)
		if cls.Kind == classify.KindNotFound {
			v.OK = false
			v.InvalidExclude = append(v.InvalidExclude, ex)
			v.addSuggestion(repo, ex, joined)
		}
	}

	return v
}

// addSuggestion records which index paths an invalid, glob-looking entry
// would have matched, as a hint for users who meant to write a glob but
// sver only accepts literal paths.
func (v *Verdict) addSuggestion(repo *gitrepo.Repository, original, pattern string) {
	if !strings.ContainsAny(original, globMetaChars) {
		return
	}
	var matches []string
	for _, e := range repo.Entries() {
		ok, err := doublestar.Match(pattern, e.Path)
		if err == nil && ok {
			matches = append(matches, e.Path)
		}
	}
	if len(matches) == 0 {
		return
	}
	if v.Suggestions == nil {
		v.Suggestions = make(map[string][]string)
	}
	v.Suggestions[original] = matches
}

// configDir reports whether path is an sver.toml file, and if so the
// directory it governs ("" for a repository-root sver.toml).
func configDir(path string) (string, bool) {
	if path == profileconfig.FileName {
		return "", true
	}
	suffix := "/" + profileconfig.FileName
	if strings.HasSuffix(path, suffix) {
		return strings.TrimSuffix(path, suffix), true
	}
	return "", false
}

func profileNames(cfg profileconfig.Config) []string {
	names := make([]string, 0, len(cfg))
	for name := range cfg {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func joinDirPath(dir, rel string) string {
	rel = strings.TrimSuffix(strings.TrimPrefix(rel, "/"), "/")
	if dir == "" {
		return rel
	}
	return dir + "/" + rel
}

func normalizePath(p string) string {
	p = strings.Trim(p, "/")
	if p == "." {
		return ""
	}
	return p
}
