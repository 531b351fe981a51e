package clipboard

import (
	"context"
	"errors"
	"os/exec"
	"reflect"
	"testing"
)

// fakeLookPath finds only the named tools.
func fakeLookPath(installed ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, n := range installed {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		installed []string
		wantPath  string
		wantArgs  []string
		wantErr   bool
	}{
		{"macOS", "darwin", []string{"pbcopy"}, "/usr/bin/pbcopy", nil, false},
		{"wayland preferred", "linux", []string{"xclip", "wl-copy"}, "/usr/bin/wl-copy", nil, false},
		{"xclip", "linux", []string{"xclip", "xsel"}, "/usr/bin/xclip", []string{"-selection", "clipboard"}, false},
		{"xsel", "linux", []string{"xsel"}, "/usr/bin/xsel", []string{"--clipboard", "--input"}, false},
		{"nothing installed", "linux", nil, "", nil, true},
		{"unsupported OS", "plan9", []string{"pbcopy"}, "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Writer{goos: tt.goos, lookPath: fakeLookPath(tt.installed...)}
			path, args, err := w.resolve()
			if tt.wantErr {
				if !errors.Is(err, ErrUnavailable) {
					t.Errorf("resolve() error = %v, want ErrUnavailable", err)
				}
				if w.Available() {
					t.Error("Available() = true, want false")
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve() error = %v", err)
			}
			if path != tt.wantPath || !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("resolve() = %q %v, want %q %v", path, args, tt.wantPath, tt.wantArgs)
			}
		})
	}
}

func TestCopy_Unavailable(t *testing.T) {
	w := &Writer{goos: "linux", lookPath: fakeLookPath()}
	if err := w.Copy(context.Background(), "text"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Copy() error = %v, want ErrUnavailable", err)
	}
}

func TestCopy_RunsTool(t *testing.T) {
	cat, err := exec.LookPath("cat")
	if err != nil {
		t.Skip("cat not available")
	}
	w := &Writer{goos: "darwin", lookPath: func(string) (string, error) { return cat, nil }}
	if err := w.Copy(context.Background(), "Smith, John (2024): Title."); err != nil {
		t.Errorf("Copy() error = %v", err)
	}
}
