package library

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Common errors returned by library operations.
var (
	// ErrNotFound indicates an entity id that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInUse indicates a delete refused because articles still reference the entity.
	ErrInUse = errors.New("still referenced by articles")

	// ErrProtected indicates a delete refused because the collection has canDelete=false.
	ErrProtected = errors.New("collection cannot be deleted")

	// ErrCommit indicates the working copy could not be persisted.
	ErrCommit = errors.New("commit failed")

	// ErrTxDone indicates use of a transaction after Commit or Rollback.
	ErrTxDone = errors.New("transaction already finished")
)

// Persister writes a committed snapshot to durable storage.
type Persister interface {
	Save(snap *Snapshot) error
}

// nopPersister keeps everything in memory.
type nopPersister struct{}

func (nopPersister) Save(*Snapshot) error { return nil }

// Library owns the committed Graph and hands out transactions against it.
// Only one transaction may be open at a time; Begin blocks until the
// previous one is committed or rolled back.
type Library struct {
	writer sync.Mutex

	mu        sync.RWMutex
	committed *Graph
	persister Persister

	// Now supplies timestamps for new articles.
	Now func() time.Time
}

// New returns an empty library persisted through p. A nil p keeps the
// library in memory only.
func New(p Persister) *Library {
	return FromGraph(NewGraph(), p)
}

// FromGraph returns a library whose committed state is g.
func FromGraph(g *Graph, p Persister) *Library {
	if p == nil {
		p = nopPersister{}
	}
	return &Library{
		committed: g,
		persister: p,
		Now:       time.Now,
	}
}

// Load builds a library from a stored snapshot.
func Load(s *Snapshot, p Persister) (*Library, error) {
	g, err := GraphFromSnapshot(s)
	if err != nil {
		return nil, fmt.Errorf("loading library: %w", err)
	}
	return FromGraph(g, p), nil
}

// Graph returns the committed state. Callers must not mutate it.
func (l *Library) Graph() *Graph {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.committed
}

// Begin opens a transaction on a private copy of the committed graph.
func (l *Library) Begin() *Tx {
	l.writer.Lock()
	return &Tx{
		Graph: l.Graph().clone(),
		lib:   l,
	}
}

// Tx is a unit of work over a working copy of the library. All entity
// mutations go through Tx methods so that derived fields stay consistent.
type Tx struct {
	*Graph
	lib  *Library
	done bool
}

// Commit refreshes AuthorsForDisplay on every article and Year on articles
// whose Published date changed in this transaction, persists the working
// copy and publishes it as the committed state. On a persist failure the committed
// state is left unchanged and the error wraps ErrCommit.
func (t *Tx) Commit() error {
	if t.done {
		return ErrTxDone
	}
	defer t.finish()

	base := t.lib.Graph()
	for _, a := range t.articles {
		if prev, ok := base.articles[a.ID]; !ok || publishedChanged(prev.Published, a.Published) {
			RecomputeYear(a)
		}
		t.RecomputeAuthorsForDisplay(a)
	}

	if err := t.lib.persister.Save(t.Graph.Snapshot()); err != nil {
		return fmt.Errorf("%w: %v", ErrCommit, err)
	}

	t.lib.mu.Lock()
	t.lib.committed = t.Graph
	t.lib.mu.Unlock()
	return nil
}

// Rollback discards the working copy. It is safe to call after Commit.
func (t *Tx) Rollback() {
	if t.done {
		return
	}
	t.finish()
}

func (t *Tx) finish() {
	t.done = true
	t.lib.writer.Unlock()
}

func (t *Tx) now() time.Time {
	if t.lib.Now != nil {
		return t.lib.Now()
	}
	return time.Now()
}

// publishedChanged reports whether a publication date differs from the
// committed one.
func publishedChanged(before, after *time.Time) bool {
	if before == nil || after == nil {
		return before != after
	}
	return !before.Equal(*after)
}
