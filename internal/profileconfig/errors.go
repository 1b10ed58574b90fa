package profileconfig

import "fmt"

// ParseError is returned when an sver.toml file is malformed — either
// invalid TOML syntax, or (unlike the teacher's forward-compatible
// "unknown keys are warnings" stance) any key that doesn't map to
// "dependencies" or "excludes". Spec requires unknown keys to be rejected,
// since a per-directory dependency/exclude manifest has no room for silent
// schema drift: a typo'd key would otherwise be silently ignored and the
// version would stop reflecting what the author intended.
type ParseError struct {
	Path   string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Path, e.Detail)
}
