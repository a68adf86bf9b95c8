// Package router decides which view the client shows for a navigation path.
package router

import "strings"

// ModeKind is either shorten or resolve
type ModeKind string

const (
	// ModeShorten is the submission view, shown at the root path
	ModeShorten ModeKind = "shorten"
	// ModeResolve interprets the path as a short code to look up
	ModeResolve ModeKind = "resolve"
)

// Mode is the outcome of SelectMode
type Mode struct {
	Kind ModeKind
	Code string // Only set in resolve mode
}

// IsResolve reports whether the mode carries a short code
func (m Mode) IsResolve() bool {
	return m.Kind == ModeResolve
}

// SelectMode strips exactly one leading "/" and picks the mode from the rest.
// It is total over all strings and has no side effects.
func SelectMode(path string) Mode {
	code := ShortCode(path)
	if code == "" {
		return Mode{Kind: ModeShorten}
	}
	return Mode{Kind: ModeResolve, Code: code}
}

// ShortCode returns the path without its leading separator
func ShortCode(path string) string {
	return strings.TrimPrefix(path, "/")
}
