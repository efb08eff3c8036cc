package picker

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultMaxDepth is how deep Discover descends below each root.
const DefaultMaxDepth = 3

// skipDirs are never descended into while looking for clones.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"target":       true,
}

// Discover returns the git work trees found under roots, at most maxDepth
// levels deep. A directory that contains .git is reported and not descended.
func Discover(roots []string, maxDepth int) []string {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	seen := make(map[string]bool)
	var found []string

	for _, root := range roots {
		root = ExpandPath(root)
		rootDepth := strings.Count(root, string(filepath.Separator))

		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				return fs.SkipDir
			}
			if !d.IsDir() {
				return nil
			}
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return fs.SkipDir
			}
			if isWorkTree(path) {
				if !seen[path] {
					seen[path] = true
					found = append(found, path)
				}
				return fs.SkipDir
			}
			if strings.Count(path, string(filepath.Separator))-rootDepth >= maxDepth {
				return fs.SkipDir
			}
			return nil
		})
	}

	sort.Strings(found)
	return found
}

// isWorkTree reports whether dir holds a .git directory or a worktree .git file.
func isWorkTree(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
