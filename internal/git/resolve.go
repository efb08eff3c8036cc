package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

func resolveExecutablePath(command string) (string, bool) {
	if command == "" {
		return "", false
	}
	if filepath.IsAbs(command) || strings.Contains(command, string(os.PathSeparator)) {
		if _, err := os.Stat(command); err == nil {
			return command, true
		}
		return "", false
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return "", false
	}
	return path, true
}

// DetectGitPath attempts to find the git executable.
func DetectGitPath() string {
	if path, ok := resolveExecutablePath("git"); ok {
		return path
	}

	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = []string{
			"/opt/homebrew/bin/git",
			"/usr/local/bin/git",
			"/usr/bin/git",
			"/Library/Developer/CommandLineTools/usr/bin/git",
		}
	case "linux":
		candidates = []string{
			"/usr/bin/git",
			"/usr/local/bin/git",
		}
	case "windows":
		candidates = []string{
			filepath.Join(os.Getenv("ProgramFiles"), "Git", "cmd", "git.exe"),
			filepath.Join(os.Getenv("LOCALAPPDATA"), "Programs", "Git", "cmd", "git.exe"),
		}
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
