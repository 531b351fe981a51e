// Package storage persists the library as JSONL files and keeps a SQLite
// search cache derived from them.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/bibliograph/internal/library"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// File names of the per-kind JSONL files inside the data directory.
const (
	ArticlesFile    = "articles.jsonl"
	AuthorsFile     = "authors.jsonl"
	JournalsFile    = "journals.jsonl"
	KeywordsFile    = "keywords.jsonl"
	CollectionsFile = "collections.jsonl"
)

// Store reads and writes a library snapshot as JSONL files in Dir.
// It implements library.Persister.
type Store struct {
	Dir string
}

// Open returns a Store rooted at dir, creating the directory if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{Dir: dir}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Load reads every JSONL file into a snapshot. Missing files are empty.
func (s *Store) Load() (*library.Snapshot, error) {
	snap := &library.Snapshot{}
	var err error
	if snap.Articles, err = readJSONL[library.Article](s.path(ArticlesFile)); err != nil {
		return nil, err
	}
	if snap.Authors, err = readJSONL[library.Author](s.path(AuthorsFile)); err != nil {
		return nil, err
	}
	if snap.Journals, err = readJSONL[library.Journal](s.path(JournalsFile)); err != nil {
		return nil, err
	}
	if snap.Keywords, err = readJSONL[library.Keyword](s.path(KeywordsFile)); err != nil {
		return nil, err
	}
	if snap.Collections, err = readJSONL[library.Collection](s.path(CollectionsFile)); err != nil {
		return nil, err
	}
	return snap, nil
}

// Save writes the snapshot. Every file is first written next to its
// target and renamed into place only once all of them were written.
func (s *Store) Save(snap *library.Snapshot) error {
	type pending struct{ tmp, dst string }
	var written []pending
	cleanup := func() {
		for _, p := range written {
			os.Remove(p.tmp)
		}
	}

	write := func(name string, fn func(path string) error) error {
		dst := s.path(name)
		tmp := dst + ".tmp"
		if err := fn(tmp); err != nil {
			os.Remove(tmp)
			return err
		}
		written = append(written, pending{tmp: tmp, dst: dst})
		return nil
	}

	steps := []struct {
		name string
		fn   func(path string) error
	}{
		{ArticlesFile, func(p string) error { return writeJSONL(p, snap.Articles) }},
		{AuthorsFile, func(p string) error { return writeJSONL(p, snap.Authors) }},
		{JournalsFile, func(p string) error { return writeJSONL(p, snap.Journals) }},
		{KeywordsFile, func(p string) error { return writeJSONL(p, snap.Keywords) }},
		{CollectionsFile, func(p string) error { return writeJSONL(p, snap.Collections) }},
	}
	for _, st := range steps {
		if err := write(st.name, st.fn); err != nil {
			cleanup()
			return err
		}
	}

	for _, p := range written {
		if err := os.Rename(p.tmp, p.dst); err != nil {
			cleanup()
			return fmt.Errorf("replacing %s: %w", filepath.Base(p.dst), err)
		}
	}
	return nil
}

// readJSONL reads one value per line. A missing file yields no values.
func readJSONL[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	var items []T
	scanner := bufio.NewScanner(f)
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var item T
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("parsing %s line %d: %w", filepath.Base(path), lineNum, err)
		}
		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return items, nil
}

// writeJSONL writes items to path, replacing existing content.
func writeJSONL[T any](path string, items []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}

	w := bufio.NewWriter(f)
	for i, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			f.Close()
			return fmt.Errorf("encoding %s entry %d: %w", filepath.Base(path), i, err)
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
