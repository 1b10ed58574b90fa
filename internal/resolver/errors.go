package resolver

import "fmt"

// PathNotFoundError is returned when a requested path — the calc/list
// target itself, or a dependency pulled in transitively — matches nothing
// in the repository's index.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path not found: %q", e.Path)
}
