// Package profileconfig parses and models the per-directory sver.toml
// configuration file: a set of named profiles, each declaring the
// dependencies and excludes that extend or trim the file set a directory
// contributes to a version.
package profileconfig

import "strings"

// FileName is the configuration file sver looks for in each directory it
// resolves.
const FileName = "sver.toml"

// DefaultProfileName is the profile used when a request doesn't name one,
// and the name synthesized for directories with no matching table.
const DefaultProfileName = "default"

// Profile is one named table within an sver.toml file.
type Profile struct {
	// Dependencies are repository-root-relative paths (files or
	// directories) pulled in transitively, each optionally suffixed with
	// ":profile" to select a non-default profile on the dependency.
	Dependencies []string `toml:"dependencies"`

	// Excludes are paths relative to the directory that declares them,
	// trimming entries that directory would otherwise contribute. They
	// never apply to entries pulled in via Dependencies.
	Excludes []string `toml:"excludes"`
}

// Config is a parsed sver.toml: profile name -> profile body. A Config with
// no entries (nil or empty map) is the synthetic default for a directory
// with no sver.toml file.
type Config map[string]Profile

// Profile returns the named profile, or the zero Profile (no dependencies,
// no excludes) when the config has no table of that name. This is the
// uniform "soft miss" behavior spec.md requires: looking up a profile that
// doesn't exist is never an error, including for "default" itself.
func (c Config) Profile(name string) Profile {
	return c[name]
}

// DependencyRef is a single parsed entry from a Profile's Dependencies list.
type DependencyRef struct {
	Path    string
	Profile string
}

// ParseDependency splits a "path" or "path:profile" dependency entry. A
// missing ":profile" suffix resolves to DefaultProfileName, mirroring the
// implicit default profile of any directory without its own config.
func ParseDependency(raw string) DependencyRef {
	if i := strings.LastIndex(raw, ":"); i >= 0 {
		return DependencyRef{Path: raw[:i], Profile: raw[i+1:]}
	}
	return DependencyRef{Path: raw, Profile: DefaultProfileName}
}
