package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store manages PDF copies under Root, one subdirectory per article id.
type Store struct {
	Root string
}

// NewStore returns a store rooted at root.
func NewStore(root string) *Store {
	return &Store{Root: root}
}

// Dir returns the directory holding the PDF of the given article.
func (s *Store) Dir(articleID string) string {
	return filepath.Join(s.Root, articleID)
}

// Copy copies src to <Root>/<articleID>/<base name of src>, creating the
// article directory when needed, and returns the destination path.
func (s *Store) Copy(src, articleID string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	dir := s.Dir(articleID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	dst := filepath.Join(dir, filepath.Base(src))
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("copying %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("closing %s: %w", dst, err)
	}
	return dst, nil
}

// Remove deletes the article's PDF directory. A missing directory is not
// an error.
func (s *Store) Remove(articleID string) error {
	if err := os.RemoveAll(s.Dir(articleID)); err != nil {
		return fmt.Errorf("removing PDFs of %s: %w", articleID, err)
	}
	return nil
}
