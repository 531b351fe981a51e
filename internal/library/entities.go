// Package library defines the bibliographic entities (articles, authors,
// journals, keywords, collections) and the transactional in-memory graph
// that holds them.
//
// Relationships are stored as id fields on the owning entity. The Graph
// maintains reverse lookups (articles by author, by journal, ...) so that
// reference counts can be checked before deletion.
package library

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// ReferenceTypes is the fixed set of reference types an article may have.
var ReferenceTypes = []string{
	"Journal Article", "Book", "Edited Book", "Book Chapter", "Book Section",
	"Artwork", "Blog", "Company Report", "Computer Program", "Conference Paper",
	"Conference Presentation", "Conference Proceedings", "Dataset", "EU Directive",
	"Film", "Government Document", "Government Publication", "Law Report",
	"Legal Rule or Regulation", "Manuscript", "Map", "Newspaper Article",
	"Personal Communication", "Report", "Statute or Act", "Thesis", "Web Page",
}

// DefaultReferenceType is used by interactive creation when no type is given.
const DefaultReferenceType = "Journal Article"

// IsReferenceType reports whether t is one of ReferenceTypes.
func IsReferenceType(t string) bool {
	return slices.Contains(ReferenceTypes, t)
}

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.NewString()
}

// Article is a single bibliographic record.
//
// Optional text fields use the empty string for "unset". Published is nil
// when no exact publication date is known; Year then keeps its last
// explicit value (possibly 0).
type Article struct {
	ID    string    `json:"id"`
	Added time.Time `json:"added"`

	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Type     string `json:"type,omitempty"`

	Published *time.Time `json:"published,omitempty"`
	Year      int        `json:"year"`

	City        string `json:"city,omitempty"`
	Volume      string `json:"volume,omitempty"`
	Issue       string `json:"issue,omitempty"`
	Pages       string `json:"pages,omitempty"`
	Edition     string `json:"edition,omitempty"`
	ISBN        string `json:"isbn,omitempty"`
	PublishedBy string `json:"published_by,omitempty"`
	DOI         string `json:"doi,omitempty"`
	Abstract    string `json:"abstract,omitempty"`

	// RelatedFile is the path of the managed copy of the article's PDF.
	RelatedFile string `json:"related_file,omitempty"`

	// AuthorsForDisplay is derived from AuthorIDs; see DisplayAuthors.
	AuthorsForDisplay string `json:"authors_for_display"`

	AuthorIDs     []string `json:"author_ids,omitempty"`
	EditorIDs     []string `json:"editor_ids,omitempty"`
	KeywordIDs    []string `json:"keyword_ids,omitempty"`
	CollectionIDs []string `json:"collection_ids,omitempty"`
	JournalID     string   `json:"journal_id,omitempty"`
}

func (a *Article) clone() *Article {
	c := *a
	if a.Published != nil {
		p := *a.Published
		c.Published = &p
	}
	c.AuthorIDs = slices.Clone(a.AuthorIDs)
	c.EditorIDs = slices.Clone(a.EditorIDs)
	c.KeywordIDs = slices.Clone(a.KeywordIDs)
	c.CollectionIDs = slices.Clone(a.CollectionIDs)
	return &c
}

// Author is a person credited as author or editor. Lastname is the
// identity key used during reconciliation.
type Author struct {
	ID          string `json:"id"`
	Lastname    string `json:"lastname"`
	Firstname   string `json:"firstname,omitempty"`
	Middlenames string `json:"middlenames,omitempty"`
}

func (a *Author) clone() *Author {
	c := *a
	return &c
}

// Journal is a periodical. Name is the identity key.
type Journal struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Abbrev string `json:"abbrev,omitempty"`
	ISSN   string `json:"issn,omitempty"`
}

func (j *Journal) clone() *Journal {
	c := *j
	return &c
}

// Keyword is a free-text tag. Text is the identity key.
type Keyword struct {
	ID   string `json:"id"`
	Text string `json:"keyword"`
}

func (k *Keyword) clone() *Keyword {
	c := *k
	return &c
}

// CollectionKind tags how a collection behaves in the sidebar tree.
type CollectionKind string

const (
	// CollectionAll is the root pseudo-collection holding every article.
	CollectionAll CollectionKind = "all"
	// CollectionSection groups other collections and holds no articles.
	CollectionSection CollectionKind = "section"
	// CollectionKeyword is bound to one Keyword and deleted with it.
	CollectionKeyword CollectionKind = "keyword"
	// CollectionManual is a user-curated set of articles.
	CollectionManual CollectionKind = "manual"
)

// Collection is a node of the collections tree.
type Collection struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Kind      CollectionKind `json:"kind"`
	CanDelete bool           `json:"can_delete"`
	KeywordID string         `json:"keyword_id,omitempty"`
	ParentID  string         `json:"parent_id,omitempty"`
}

func (c *Collection) clone() *Collection {
	n := *c
	return &n
}
