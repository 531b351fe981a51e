package library

import (
	"fmt"
	"sort"
	"strings"
)

// idSet is a set of entity ids.
type idSet map[string]struct{}

// Graph holds every entity of a library plus reverse relationship indexes.
//
// A Graph obtained from Library.Graph is the committed state and must be
// treated as read-only; mutations go through a Tx.
type Graph struct {
	articles    map[string]*Article
	authors     map[string]*Author
	journals    map[string]*Journal
	keywords    map[string]*Keyword
	collections map[string]*Collection

	// Reverse indexes: entity id -> ids of articles referencing it.
	byAuthor     map[string]idSet
	byEditor     map[string]idSet
	byJournal    map[string]idSet
	byKeyword    map[string]idSet
	byCollection map[string]idSet
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		articles:     make(map[string]*Article),
		authors:      make(map[string]*Author),
		journals:     make(map[string]*Journal),
		keywords:     make(map[string]*Keyword),
		collections:  make(map[string]*Collection),
		byAuthor:     make(map[string]idSet),
		byEditor:     make(map[string]idSet),
		byJournal:    make(map[string]idSet),
		byKeyword:    make(map[string]idSet),
		byCollection: make(map[string]idSet),
	}
}

func addRef(idx map[string]idSet, key, articleID string) {
	if key == "" {
		return
	}
	s, ok := idx[key]
	if !ok {
		s = make(idSet)
		idx[key] = s
	}
	s[articleID] = struct{}{}
}

func removeRef(idx map[string]idSet, key, articleID string) {
	s, ok := idx[key]
	if !ok {
		return
	}
	delete(s, articleID)
	if len(s) == 0 {
		delete(idx, key)
	}
}

// indexArticle records every relationship of a in the reverse indexes.
func (g *Graph) indexArticle(a *Article) {
	for _, id := range a.AuthorIDs {
		addRef(g.byAuthor, id, a.ID)
	}
	for _, id := range a.EditorIDs {
		addRef(g.byEditor, id, a.ID)
	}
	for _, id := range a.KeywordIDs {
		addRef(g.byKeyword, id, a.ID)
	}
	for _, id := range a.CollectionIDs {
		addRef(g.byCollection, id, a.ID)
	}
	addRef(g.byJournal, a.JournalID, a.ID)
}

// unindexArticle is the inverse of indexArticle.
func (g *Graph) unindexArticle(a *Article) {
	for _, id := range a.AuthorIDs {
		removeRef(g.byAuthor, id, a.ID)
	}
	for _, id := range a.EditorIDs {
		removeRef(g.byEditor, id, a.ID)
	}
	for _, id := range a.KeywordIDs {
		removeRef(g.byKeyword, id, a.ID)
	}
	for _, id := range a.CollectionIDs {
		removeRef(g.byCollection, id, a.ID)
	}
	removeRef(g.byJournal, a.JournalID, a.ID)
}

// clone returns a deep copy of g, rebuilding the reverse indexes.
func (g *Graph) clone() *Graph {
	c := NewGraph()
	for id, au := range g.authors {
		c.authors[id] = au.clone()
	}
	for id, j := range g.journals {
		c.journals[id] = j.clone()
	}
	for id, k := range g.keywords {
		c.keywords[id] = k.clone()
	}
	for id, col := range g.collections {
		c.collections[id] = col.clone()
	}
	for id, a := range g.articles {
		ac := a.clone()
		c.articles[id] = ac
		c.indexArticle(ac)
	}
	return c
}

// Article returns the article with the given id.
func (g *Graph) Article(id string) (*Article, bool) {
	a, ok := g.articles[id]
	return a, ok
}

// Author returns the author with the given id.
func (g *Graph) Author(id string) (*Author, bool) {
	a, ok := g.authors[id]
	return a, ok
}

// Journal returns the journal with the given id.
func (g *Graph) Journal(id string) (*Journal, bool) {
	j, ok := g.journals[id]
	return j, ok
}

// Keyword returns the keyword with the given id.
func (g *Graph) Keyword(id string) (*Keyword, bool) {
	k, ok := g.keywords[id]
	return k, ok
}

// Collection returns the collection with the given id.
func (g *Graph) Collection(id string) (*Collection, bool) {
	c, ok := g.collections[id]
	return c, ok
}

// Articles returns all articles ordered by added time, then id.
func (g *Graph) Articles() []*Article {
	out := make([]*Article, 0, len(g.articles))
	for _, a := range g.articles {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Added.Equal(out[j].Added) {
			return out[i].Added.Before(out[j].Added)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Authors returns all authors ordered by lastname, firstname, id.
func (g *Graph) Authors() []*Author {
	out := make([]*Author, 0, len(g.authors))
	for _, a := range g.authors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Lastname != out[j].Lastname {
			return out[i].Lastname < out[j].Lastname
		}
		if out[i].Firstname != out[j].Firstname {
			return out[i].Firstname < out[j].Firstname
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Journals returns all journals ordered by name, then id.
func (g *Graph) Journals() []*Journal {
	out := make([]*Journal, 0, len(g.journals))
	for _, j := range g.journals {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].Name != out[k].Name {
			return out[i].Name < out[k].Name
		}
		return out[i].ID < out[k].ID
	})
	return out
}

// JournalNames returns the sorted names of all journals.
func (g *Graph) JournalNames() []string {
	journals := g.Journals()
	names := make([]string, len(journals))
	for i, j := range journals {
		names[i] = j.Name
	}
	return names
}

// Keywords returns all keywords ordered by text, then id.
func (g *Graph) Keywords() []*Keyword {
	out := make([]*Keyword, 0, len(g.keywords))
	for _, k := range g.keywords {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Text != out[j].Text {
			return out[i].Text < out[j].Text
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Collections returns all collections ordered by name, then id.
func (g *Graph) Collections() []*Collection {
	out := make([]*Collection, 0, len(g.collections))
	for _, c := range g.collections {
		out = append(out, c)
	}
	sortCollections(out)
	return out
}

// Children returns the direct children of the collection with the given id.
func (g *Graph) Children(parentID string) []*Collection {
	var out []*Collection
	for _, c := range g.collections {
		if c.ParentID == parentID {
			out = append(out, c)
		}
	}
	sortCollections(out)
	return out
}

func sortCollections(cs []*Collection) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Name != cs[j].Name {
			return cs[i].Name < cs[j].Name
		}
		return cs[i].ID < cs[j].ID
	})
}

// ArticleAuthors resolves the ordered author list of a.
func (g *Graph) ArticleAuthors(a *Article) []*Author {
	return g.resolveAuthors(a.AuthorIDs)
}

// ArticleEditors resolves the ordered editor list of a.
func (g *Graph) ArticleEditors(a *Article) []*Author {
	return g.resolveAuthors(a.EditorIDs)
}

func (g *Graph) resolveAuthors(ids []string) []*Author {
	out := make([]*Author, 0, len(ids))
	for _, id := range ids {
		if au, ok := g.authors[id]; ok {
			out = append(out, au)
		}
	}
	return out
}

// ArticleKeywords resolves the keywords attached to a.
func (g *Graph) ArticleKeywords(a *Article) []*Keyword {
	out := make([]*Keyword, 0, len(a.KeywordIDs))
	for _, id := range a.KeywordIDs {
		if k, ok := g.keywords[id]; ok {
			out = append(out, k)
		}
	}
	return out
}

// ArticleJournal returns the journal of a, or nil.
func (g *Graph) ArticleJournal(a *Article) *Journal {
	if a.JournalID == "" {
		return nil
	}
	return g.journals[a.JournalID]
}

// AuthorReferences returns how many articles use the author as author or editor.
func (g *Graph) AuthorReferences(authorID string) int {
	refs := make(idSet)
	for id := range g.byAuthor[authorID] {
		refs[id] = struct{}{}
	}
	for id := range g.byEditor[authorID] {
		refs[id] = struct{}{}
	}
	return len(refs)
}

// JournalReferences returns how many articles appear in the journal.
func (g *Graph) JournalReferences(journalID string) int {
	return len(g.byJournal[journalID])
}

// ArticlesInCollection returns the ids of the articles in a collection.
// The "all" collection contains every article.
func (g *Graph) ArticlesInCollection(collectionID string) []string {
	c, ok := g.collections[collectionID]
	if !ok {
		return nil
	}
	var ids []string
	if c.Kind == CollectionAll {
		for id := range g.articles {
			ids = append(ids, id)
		}
	} else if c.Kind == CollectionKeyword {
		for id := range g.byKeyword[c.KeywordID] {
			ids = append(ids, id)
		}
	} else {
		for id := range g.byCollection[collectionID] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Counts returns the number of entities of each kind.
func (g *Graph) Counts() map[string]int {
	return map[string]int{
		"articles":    len(g.articles),
		"authors":     len(g.authors),
		"journals":    len(g.journals),
		"keywords":    len(g.keywords),
		"collections": len(g.collections),
	}
}

// Snapshot is the flat, serializable form of a Graph.
type Snapshot struct {
	Articles    []Article
	Authors     []Author
	Journals    []Journal
	Keywords    []Keyword
	Collections []Collection
}

// Snapshot copies the graph into a Snapshot with deterministic ordering.
func (g *Graph) Snapshot() *Snapshot {
	s := &Snapshot{}
	for _, a := range g.Articles() {
		s.Articles = append(s.Articles, *a.clone())
	}
	for _, a := range g.Authors() {
		s.Authors = append(s.Authors, *a)
	}
	for _, j := range g.Journals() {
		s.Journals = append(s.Journals, *j)
	}
	for _, k := range g.Keywords() {
		s.Keywords = append(s.Keywords, *k)
	}
	for _, c := range g.Collections() {
		s.Collections = append(s.Collections, *c)
	}
	return s
}

// GraphFromSnapshot rebuilds a Graph, checking that every relationship
// points at an existing entity and recomputing derived article fields.
func GraphFromSnapshot(s *Snapshot) (*Graph, error) {
	g := NewGraph()
	if s == nil {
		return g, nil
	}
	for i := range s.Authors {
		a := s.Authors[i]
		if strings.TrimSpace(a.ID) == "" {
			return nil, fmt.Errorf("author %d: missing id", i+1)
		}
		g.authors[a.ID] = &a
	}
	for i := range s.Journals {
		j := s.Journals[i]
		if j.ID == "" {
			return nil, fmt.Errorf("journal %d: missing id", i+1)
		}
		g.journals[j.ID] = &j
	}
	for i := range s.Keywords {
		k := s.Keywords[i]
		if k.ID == "" {
			return nil, fmt.Errorf("keyword %d: missing id", i+1)
		}
		g.keywords[k.ID] = &k
	}
	for i := range s.Collections {
		c := s.Collections[i]
		if c.ID == "" {
			return nil, fmt.Errorf("collection %d: missing id", i+1)
		}
		g.collections[c.ID] = &c
	}
	for _, c := range g.collections {
		if c.ParentID != "" {
			if _, ok := g.collections[c.ParentID]; !ok {
				return nil, fmt.Errorf("collection %s: unknown parent %s", c.ID, c.ParentID)
			}
		}
		if c.KeywordID != "" {
			if _, ok := g.keywords[c.KeywordID]; !ok {
				return nil, fmt.Errorf("collection %s: unknown keyword %s", c.ID, c.KeywordID)
			}
		}
	}

	for i := range s.Articles {
		a := s.Articles[i].clone()
		if a.ID == "" {
			return nil, fmt.Errorf("article %d: missing id", i+1)
		}
		if err := g.checkArticleRefs(a); err != nil {
			return nil, err
		}
		g.RecomputeAuthorsForDisplay(a)
		g.articles[a.ID] = a
		g.indexArticle(a)
	}
	return g, nil
}

func (g *Graph) checkArticleRefs(a *Article) error {
	for _, id := range a.AuthorIDs {
		if _, ok := g.authors[id]; !ok {
			return fmt.Errorf("article %s: unknown author %s", a.ID, id)
		}
	}
	for _, id := range a.EditorIDs {
		if _, ok := g.authors[id]; !ok {
			return fmt.Errorf("article %s: unknown editor %s", a.ID, id)
		}
	}
	for _, id := range a.KeywordIDs {
		if _, ok := g.keywords[id]; !ok {
			return fmt.Errorf("article %s: unknown keyword %s", a.ID, id)
		}
	}
	for _, id := range a.CollectionIDs {
		if _, ok := g.collections[id]; !ok {
			return fmt.Errorf("article %s: unknown collection %s", a.ID, id)
		}
	}
	if a.JournalID != "" {
		if _, ok := g.journals[a.JournalID]; !ok {
			return fmt.Errorf("article %s: unknown journal %s", a.ID, a.JournalID)
		}
	}
	return nil
}
