package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitoma/sver/internal/testutil"
)

func TestListSingleDirectoryNoConfig(t *testing.T) {
	b := testutil.NewTempGitRepo(t)
	b.WriteFile("service1/main.go", "a\n")
	b.Commit("initial")

	out, code := runSver(t, "list", "--repo", b.Dir(), "service1")
	require.Equal(t, 0, code)
	assert.Equal(t, "service1/main.go\n", out)
}

func TestListIncludesDependencyAndOwnConfig(t *testing.T) {
	b := testutil.NewTempGitRepo(t)
	b.WriteFile("service1/sver.toml", "[default]\ndependencies = [\"lib1\"]\n")
	b.WriteFile("service1/main.go", "a\n")
	b.WriteFile("lib1/lib.go", "b\n")
	b.Commit("initial")

	out, code := runSver(t, "list", "--repo", b.Dir(), "service1")
	require.Equal(t, 0, code)

	lines := strings.Fields(out)
	assert.ElementsMatch(t, []string{"lib1/lib.go", "service1/main.go", "service1/sver.toml"}, lines)
}

func TestListOmitsExcludedSubtree(t *testing.T) {
	b := testutil.NewTempGitRepo(t)
	b.WriteFile("service1/sver.toml", "[default]\nexcludes = [\"doc\"]\n")
	b.WriteFile("service1/doc/readme.md", "x\n")
	b.WriteFile("service1/main.go", "a\n")
	b.Commit("initial")

	out, code := runSver(t, "list", "--repo", b.Dir(), "service1")
	require.Equal(t, 0, code)
	assert.NotContains(t, out, "service1/doc/")
}

func TestListFailsOnUnknownPath(t *testing.T) {
	b := testutil.NewTempGitRepo(t)
	b.WriteFile("a.txt", "x\n")
	b.Commit("initial")

	_, code := runSver(t, "list", "--repo", b.Dir(), "nope")
	assert.Equal(t, 1, code)
}
