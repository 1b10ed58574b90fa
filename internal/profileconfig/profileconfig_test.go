package profileconfig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitoma/sver/internal/gitrepo"
	"github.com/mitoma/sver/internal/profileconfig"
	"github.com/mitoma/sver/internal/testutil"
)

func TestParseDependency(t *testing.T) {
	tests := []struct {
		raw         string
		wantPath    string
		wantProfile string
	}{
		{"lib/foo", "lib/foo", "default"},
		{"lib/foo:release", "lib/foo", "release"},
		{"a/b:c:d", "a/b:c", "d"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			ref := profileconfig.ParseDependency(tt.raw)
			assert.Equal(t, tt.wantPath, ref.Path)
			assert.Equal(t, tt.wantProfile, ref.Profile)
		})
	}
}

func TestDecodeValidConfig(t *testing.T) {
	cfg, err := profileconfig.Decode(`
[default]
dependencies = ["lib/a"]
excludes = ["testdata"]

[release]
dependencies = ["lib/a", "lib/b"]
`, "sver.toml")
	require.NoError(t, err)

	assert.Equal(t, []string{"lib/a"}, cfg.Profile("default").Dependencies)
	assert.Equal(t, []string{"testdata"}, cfg.Profile("default").Excludes)
	assert.Equal(t, []string{"lib/a", "lib/b"}, cfg.Profile("release").Dependencies)
}

func TestDecodeRejectsUnknownKey(t *testing.T) {
	_, err := profileconfig.Decode(`
[default]
dependencies = ["lib/a"]
extra_key = "oops"
`, "sver.toml")
	require.Error(t, err)
	var parseErr *profileconfig.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestDecodeRejectsMalformedTOML(t *testing.T) {
	_, err := profileconfig.Decode("not = [valid", "sver.toml")
	require.Error(t, err)
	var parseErr *profileconfig.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestLoadMissingFileIsSoftMiss(t *testing.T) {
	b := testutil.NewTempGitRepo(t)
	b.WriteFile("a.txt", "x\n")
	b.Commit("initial")

	repo, err := gitrepo.Open(b.Dir())
	require.NoError(t, err)

	cfg, err := profileconfig.Load(repo, "")
	require.NoError(t, err)
	assert.Empty(t, cfg)
}

func TestLoadExistingFile(t *testing.T) {
	b := testutil.NewTempGitRepo(t)
	b.WriteFile("lib/sver.toml", "[default]\ndependencies = [\"shared\"]\n")
	b.WriteFile("lib/a.txt", "x\n")
	b.WriteFile("shared/b.txt", "y\n")
	b.Commit("initial")

	repo, err := gitrepo.Open(b.Dir())
	require.NoError(t, err)

	cfg, err := profileconfig.Load(repo, "lib")
	require.NoError(t, err)
	assert.Equal(t, []string{"shared"}, cfg.Profile("default").Dependencies)
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, "sver.toml", profileconfig.PathFor(""))
	assert.Equal(t, "lib/sver.toml", profileconfig.PathFor("lib"))
}
