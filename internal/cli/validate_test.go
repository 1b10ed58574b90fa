package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitoma/sver/internal/testutil"
)

func TestValidateAllOKExitsZero(t *testing.T) {
	b := testutil.NewTempGitRepo(t)
	b.WriteFile("app/sver.toml", "[default]\ndependencies = [\"lib\"]\n")
	b.WriteFile("app/main.go", "a\n")
	b.WriteFile("lib/lib.go", "b\n")
	b.Commit("initial")

	out, code := runSver(t, "validate", "--repo", b.Dir())
	require.Equal(t, 0, code)
	assert.Contains(t, out, "OK  app/sver.toml:default")
}

func TestValidateInvalidDependencyExitsOneWithNGRow(t *testing.T) {
	b := testutil.NewTempGitRepo(t)
	b.WriteFile("testdata/invalid_config1/sver.toml", "[default]\ndependencies = [\"unknown/path\"]\n")
	b.WriteFile("testdata/invalid_config1/a.txt", "x\n")
	b.Commit("initial")

	out, code := runSver(t, "validate", "--repo", b.Dir())
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "NG  testdata/invalid_config1/sver.toml:default")
	assert.Contains(t, out, "invalid_dependency: unknown/path")
}
