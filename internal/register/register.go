// Package register installs GHOpen as the handler of the x-github-client
// URI scheme.
package register

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lazyvibe/ghopen/internal/deeplink"
)

// ErrUnsupportedPlatform is returned where scheme registration is not
// implemented.
var ErrUnsupportedPlatform = errors.New("scheme registration is not supported on this platform")

// DesktopFileName is the name of the installed desktop entry.
const DesktopFileName = "ghopen.desktop"

// MimeType is the x-scheme-handler type for the GHOpen scheme.
const MimeType = "x-scheme-handler/" + deeplink.Scheme

// Options controls Register.
type Options struct {
	// Binary is the absolute path of the ghopen executable.
	Binary string
	// DataHome overrides $XDG_DATA_HOME (default ~/.local/share).
	DataHome string
	// SkipXDGMime writes the desktop entry without calling xdg-mime.
	SkipXDGMime bool
}

// DesktopEntry renders the desktop entry for binary. The entry runs in a
// terminal so the directory picker has somewhere to draw.
func DesktopEntry(binary string) string {
	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	b.WriteString("Name=GHOpen\n")
	b.WriteString("Comment=Open x-github-client links in local clones\n")
	fmt.Fprintf(&b, "Exec=%s handle %%u\n", quoteExec(binary))
	b.WriteString("Terminal=true\n")
	b.WriteString("NoDisplay=true\n")
	fmt.Fprintf(&b, "MimeType=%s;\n", MimeType)
	return b.String()
}

// quoteExec quotes an Exec argument following desktop entry quoting rules.
func quoteExec(arg string) string {
	if !strings.ContainsAny(arg, " \t\"'\\$`") {
		return arg
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(arg) + `"`
}

// Register writes the desktop entry and makes it the default handler.
// It returns the path of the written entry.
func Register(opts Options) (string, error) {
	if runtime.GOOS != "linux" && runtime.GOOS != "freebsd" {
		return "", ErrUnsupportedPlatform
	}
	if opts.Binary == "" {
		return "", errors.New("binary path is required")
	}

	dataHome := opts.DataHome
	if dataHome == "" {
		dataHome = os.Getenv("XDG_DATA_HOME")
	}
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	dir := filepath.Join(dataHome, "applications")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, DesktopFileName)
	if err := os.WriteFile(path, []byte(DesktopEntry(opts.Binary)), 0644); err != nil {
		return "", err
	}

	if opts.SkipXDGMime {
		return path, nil
	}
	if out, err := exec.Command("xdg-mime", "default", DesktopFileName, MimeType).CombinedOutput(); err != nil {
		return path, fmt.Errorf("xdg-mime: %s", strings.TrimSpace(string(out)))
	}
	return path, nil
}
