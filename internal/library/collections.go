package library

import (
	"fmt"
	"slices"
)

// Names of the fixed top-level collections.
const (
	AllArticlesName      = "All articles"
	CollectionsName      = "Collections"
	KeywordsName         = "Keywords"
	SmartCollectionsName = "Smart Collections"
)

// sectionByName finds a root collection of the given kind and name.
func (g *Graph) sectionByName(kind CollectionKind, name string) *Collection {
	for _, c := range g.Children("") {
		if c.Kind == kind && c.Name == name {
			return c
		}
	}
	return nil
}

// EnsureSections creates the root collections that are missing. Existing
// ones are left as they are.
func (t *Tx) EnsureSections() {
	roots := []struct {
		kind CollectionKind
		name string
	}{
		{CollectionAll, AllArticlesName},
		{CollectionSection, CollectionsName},
		{CollectionSection, KeywordsName},
		{CollectionSection, SmartCollectionsName},
	}
	for _, r := range roots {
		if t.sectionByName(r.kind, r.name) != nil {
			continue
		}
		c := &Collection{ID: NewID(), Name: r.name, Kind: r.kind}
		t.collections[c.ID] = c
	}
}

// NewCollection creates a deletable manual collection under the
// "Collections" section.
func (t *Tx) NewCollection(name string) *Collection {
	t.EnsureSections()
	parent := t.sectionByName(CollectionSection, CollectionsName)
	c := &Collection{
		ID:        NewID(),
		Name:      name,
		Kind:      CollectionManual,
		CanDelete: true,
		ParentID:  parent.ID,
	}
	t.collections[c.ID] = c
	return c
}

// NewKeywordCollection creates the collection bound to k under the
// "Keywords" section, or returns the existing one.
func (t *Tx) NewKeywordCollection(k *Keyword) *Collection {
	for _, c := range t.collections {
		if c.Kind == CollectionKeyword && c.KeywordID == k.ID {
			return c
		}
	}
	t.EnsureSections()
	parent := t.sectionByName(CollectionSection, KeywordsName)
	c := &Collection{
		ID:        NewID(),
		Name:      k.Text,
		Kind:      CollectionKeyword,
		CanDelete: true,
		KeywordID: k.ID,
		ParentID:  parent.ID,
	}
	t.collections[c.ID] = c
	return c
}

// AddToCollection puts a into the manual collection c.
func (t *Tx) AddToCollection(a *Article, c *Collection) error {
	if c.Kind != CollectionManual {
		return fmt.Errorf("collection %q is a %s collection and holds no articles directly", c.Name, c.Kind)
	}
	if slices.Contains(a.CollectionIDs, c.ID) {
		return nil
	}
	t.mutate(a, func() {
		a.CollectionIDs = append(a.CollectionIDs, c.ID)
	})
	return nil
}

// RemoveFromCollection takes a out of the collection with the given id.
func (t *Tx) RemoveFromCollection(a *Article, collectionID string) {
	t.mutate(a, func() {
		a.CollectionIDs = slices.DeleteFunc(a.CollectionIDs, func(id string) bool { return id == collectionID })
	})
}

// DeleteCollection removes a collection and its subtree. Collections with
// CanDelete=false are refused with ErrProtected, including when one sits
// inside the subtree.
func (t *Tx) DeleteCollection(id string) error {
	c, ok := t.collections[id]
	if !ok {
		return fmt.Errorf("collection %s: %w", id, ErrNotFound)
	}
	subtree := t.subtree(c)
	for _, s := range subtree {
		if !s.CanDelete {
			return fmt.Errorf("collection %q: %w", s.Name, ErrProtected)
		}
	}
	for _, s := range subtree {
		t.removeCollection(s.ID)
	}
	return nil
}

// subtree returns c followed by all of its descendants.
func (t *Tx) subtree(c *Collection) []*Collection {
	out := []*Collection{c}
	for i := 0; i < len(out); i++ {
		out = append(out, t.Children(out[i].ID)...)
	}
	return out
}

// removeCollection detaches every article from the collection and drops
// it without checking CanDelete.
func (t *Tx) removeCollection(id string) {
	var members []string
	for articleID := range t.byCollection[id] {
		members = append(members, articleID)
	}
	for _, articleID := range members {
		t.RemoveFromCollection(t.articles[articleID], id)
	}
	for _, child := range t.Children(id) {
		child.ParentID = ""
	}
	delete(t.collections, id)
}
