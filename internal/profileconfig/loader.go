package profileconfig

import (
	"log/slog"
	"path"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mitoma/sver/internal/gitrepo"
)

// PathFor returns the index-relative path of the sver.toml that governs
// dir ("" meaning the repository root).
func PathFor(dir string) string {
	if dir == "" {
		return FileName
	}
	return path.Join(dir, FileName)
}

// Load reads and parses the sver.toml governing dir from repo's index. A
// missing file yields an empty Config and a nil error — the uniform soft
// miss spec.md describes, never an error on its own. Config is never read
// from the filesystem working tree, only from index/tree blobs, so results
// are a pure function of repository state.
func Load(repo *gitrepo.Repository, dir string) (Config, error) {
	cfgPath := PathFor(dir)

	entry, ok := repo.Lookup(cfgPath)
	if !ok {
		return Config{}, nil
	}

	text, err := repo.BlobUTF8(entry.Oid, cfgPath)
	if err != nil {
		return nil, err
	}

	cfg, err := Decode(text, cfgPath)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded sver.toml", "path", cfgPath, "profiles", len(cfg))
	return cfg, nil
}

// Decode parses TOML source into a Config, rejecting any key that isn't
// "dependencies" or "excludes" within a profile table. source is used only
// to label errors.
func Decode(data, source string) (Config, error) {
	var raw map[string]Profile
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return nil, &ParseError{Path: source, Detail: err.Error()}
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, &ParseError{
			Path:   source,
			Detail: "unknown key(s): " + strings.Join(keys, ", "),
		}
	}

	return Config(raw), nil
}
