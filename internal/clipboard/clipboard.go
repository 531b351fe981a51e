// Package clipboard copies text to the system clipboard through the
// platform's command line tools.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnavailable is returned when no clipboard tool is installed.
var ErrUnavailable = errors.New("clipboard unavailable")

// tool is a clipboard writer reading the text on stdin.
type tool struct {
	name string
	args []string
}

// toolsFor lists candidate tools for an OS in order of preference.
func toolsFor(goos string) []tool {
	switch goos {
	case "darwin":
		return []tool{{name: "pbcopy"}}
	case "linux", "freebsd", "openbsd":
		return []tool{
			{name: "wl-copy"},
			{name: "xclip", args: []string{"-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--input"}},
		}
	case "windows":
		return []tool{{name: "clip.exe"}}
	default:
		return nil
	}
}

// Writer copies text using the first available tool.
type Writer struct {
	goos     string
	lookPath func(string) (string, error)
}

// New returns a Writer for the running OS.
func New() *Writer {
	return &Writer{goos: runtime.GOOS, lookPath: exec.LookPath}
}

// resolve returns the path and arguments of the tool to run.
func (w *Writer) resolve() (string, []string, error) {
	for _, t := range toolsFor(w.goos) {
		if path, err := w.lookPath(t.name); err == nil {
			return path, t.args, nil
		}
	}
	return "", nil, ErrUnavailable
}

// Available reports whether a clipboard tool was found.
func (w *Writer) Available() bool {
	_, _, err := w.resolve()
	return err == nil
}

// Copy puts text on the clipboard.
func (w *Writer) Copy(ctx context.Context, text string) error {
	path, args, err := w.resolve()
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", path, err, strings.TrimSpace(string(out)))
	}
	return nil
}
