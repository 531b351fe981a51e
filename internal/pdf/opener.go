package pdf

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Readers lists the accepted pdf_reader settings.
var Readers = []string{"system", "skim", "preview", "zathura", "evince", "okular"}

// Opener launches a reader application on an article's managed PDF.
type Opener struct {
	store  *Store
	reader string
}

// NewOpener returns an opener for PDFs kept in store. An empty reader
// means the platform default.
func NewOpener(store *Store, reader string) *Opener {
	if reader == "" {
		reader = "system"
	}
	return &Opener{store: store, reader: reader}
}

// ResolvePath turns an article's RelatedFile into an existing absolute
// path. Relative values are taken relative to the store root.
func (o *Opener) ResolvePath(relatedFile string) (string, error) {
	if relatedFile == "" {
		return "", fmt.Errorf("article has no attached PDF")
	}
	path := relatedFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(o.store.Root, path)
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("PDF not found: %s", path)
		}
		return "", fmt.Errorf("checking PDF: %w", err)
	}
	return path, nil
}

// Command returns the command that would open path, without starting it.
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return o.darwinCommand(path), nil
	case "linux":
		return o.linuxCommand(path), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// Open starts the reader on the article's PDF and does not wait for it.
func (o *Opener) Open(relatedFile string) error {
	path, err := o.ResolvePath(relatedFile)
	if err != nil {
		return err
	}
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Start()
}

func (o *Opener) darwinCommand(path string) *exec.Cmd {
	switch o.reader {
	case "skim":
		return exec.Command("open", "-a", "Skim", path)
	case "preview":
		return exec.Command("open", "-a", "Preview", path)
	default:
		return exec.Command("open", path)
	}
}

func (o *Opener) linuxCommand(path string) *exec.Cmd {
	switch o.reader {
	case "zathura", "evince", "okular":
		return exec.Command(o.reader, path)
	default:
		return exec.Command("xdg-open", path)
	}
}
