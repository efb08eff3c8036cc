package picker

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// maxSuggestions limits how many completions Complete returns.
const maxSuggestions = 10

// PathCompleter provides directory completion for the dialog picker.
type PathCompleter struct {
	recentPaths []string
}

// NewPathCompleter creates a new path completer.
func NewPathCompleter(recentPaths []string) *PathCompleter {
	return &PathCompleter{
		recentPaths: recentPaths,
	}
}

// Complete returns directory suggestions for the given input.
func (c *PathCompleter) Complete(input string) []string {
	if input == "" {
		return c.defaultSuggestions()
	}

	expanded := expandHome(input)
	dir := filepath.Dir(expanded)
	prefix := filepath.Base(expanded)

	// If input ends with /, list directory contents
	if strings.HasSuffix(input, "/") || strings.HasSuffix(input, string(filepath.Separator)) {
		dir = expanded
		prefix = ""
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return c.matchRecentPaths(input)
	}

	var suggestions []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()

		// Skip hidden directories unless input starts with .
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		if prefix != "" && !strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix)) {
			continue
		}

		fullPath := filepath.Join(dir, name)
		if strings.HasPrefix(input, "~") {
			fullPath = "~" + strings.TrimPrefix(fullPath, homeDir())
		}
		suggestions = append(suggestions, fullPath+"/")
	}

	sort.Strings(suggestions)
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

func (c *PathCompleter) defaultSuggestions() []string {
	suggestions := make([]string, 0, 10)
	for i, p := range c.recentPaths {
		if i >= 5 {
			break
		}
		suggestions = append(suggestions, strings.TrimSuffix(friendly(p), "/")+"/")
	}
	suggestions = append(suggestions, "~/", "~/src/", "~/Projects/", "~/Code/", "~/github/")

	return dedupe(suggestions)
}

func (c *PathCompleter) matchRecentPaths(prefix string) []string {
	var matches []string
	expanded := expandHome(prefix)

	for _, p := range c.recentPaths {
		if strings.HasPrefix(p, expanded) || strings.HasPrefix(p, prefix) {
			matches = append(matches, friendly(p))
		}
	}
	return matches
}

// ExpandPath expands ~ and normalizes the path.
func ExpandPath(path string) string {
	return filepath.Clean(expandHome(path))
}

// IsDirectory reports whether path (after ~ expansion) is an existing directory.
func IsDirectory(path string) bool {
	info, err := os.Stat(ExpandPath(path))
	if err != nil {
		return false
	}
	return info.IsDir()
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		return filepath.Join(homeDir(), path[1:])
	}
	return path
}

func friendly(path string) string {
	home := homeDir()
	if home != "" && strings.HasPrefix(path, home) {
		return "~" + strings.TrimPrefix(path, home)
	}
	return path
}

func homeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

func dedupe(slice []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(slice))
	for _, s := range slice {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}
