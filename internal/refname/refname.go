// Package refname validates git branch and ref names.
package refname

import "regexp"

// invalidPattern matches anything git-check-ref-format rejects in a branch
// name: control characters and space, DEL, ~ ^ : ? * [ \, the characters
// | " < > (not allowed on Windows), the sequence @{, consecutive dots, a
// leading or trailing dot, a .lock suffix and a trailing slash.
var invalidPattern = regexp.MustCompile(`[\x00-\x20\x7F~^:?*\[\\|"<>]|@\{|\.\.|^\.|\.$|\.lock$|/$`)

// IsInvalid reports whether name contains a sequence git forbids in a ref
// name. The empty string contains none.
func IsInvalid(name string) bool {
	return invalidPattern.MatchString(name)
}
