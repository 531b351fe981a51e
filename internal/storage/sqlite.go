package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/matsen/bibliograph/internal/library"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite search cache. Its content is derived from the JSONL
// files and can be rebuilt from a snapshot at any time.
type DB struct {
	db *sql.DB
}

// Journal search scopes for SearchJournals.
const (
	ScopeName   = "name"
	ScopeAbbrev = "abbrev"
	ScopeISSN   = "issn"
)

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS articles (
			id TEXT PRIMARY KEY,
			title TEXT,
			year INTEGER NOT NULL,
			doi TEXT,
			authors_for_display TEXT NOT NULL,
			journal_id TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_articles_doi ON articles(doi) WHERE doi IS NOT NULL AND doi != '';

		CREATE VIRTUAL TABLE IF NOT EXISTS articles_fts USING fts5(
			id UNINDEXED,
			title,
			abstract,
			authors_text,
			journal,
			keywords,
			year
		);

		CREATE TABLE IF NOT EXISTS journals (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			abbrev TEXT,
			issn TEXT
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Rebuild clears the cache and fills it from snap. It returns the number
// of articles indexed.
func (d *DB) Rebuild(snap *library.Snapshot) (int, error) {
	g, err := library.GraphFromSnapshot(snap)
	if err != nil {
		return 0, fmt.Errorf("reading snapshot: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting rebuild: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"articles", "articles_fts", "journals"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return 0, fmt.Errorf("clearing %s table: %w", table, err)
		}
	}

	articleStmt, err := tx.Prepare(`
		INSERT INTO articles (id, title, year, doi, authors_for_display, journal_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing articles insert: %w", err)
	}
	defer articleStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO articles_fts (id, title, abstract, authors_text, journal, keywords, year)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	journalStmt, err := tx.Prepare(`INSERT INTO journals (id, name, abbrev, issn) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing journals insert: %w", err)
	}
	defer journalStmt.Close()

	articles := g.Articles()
	for _, a := range articles {
		_, err := articleStmt.Exec(a.ID, a.Title, a.Year, nullableStringValue(a.DOI),
			a.AuthorsForDisplay, nullableStringValue(a.JournalID))
		if err != nil {
			return 0, fmt.Errorf("inserting article %s: %w", a.ID, err)
		}

		journal := ""
		if j := g.ArticleJournal(a); j != nil {
			journal = j.Name
		}
		var keywords []string
		for _, k := range g.ArticleKeywords(a) {
			keywords = append(keywords, k.Text)
		}
		title := strings.TrimSpace(a.Title + " " + a.Subtitle)
		_, err = ftsStmt.Exec(a.ID, title, a.Abstract, formatAuthorsText(g.ArticleAuthors(a)),
			journal, strings.Join(keywords, ", "), strconv.Itoa(a.Year))
		if err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", a.ID, err)
		}
	}

	for _, j := range g.Journals() {
		if _, err := journalStmt.Exec(j.ID, j.Name, j.Abbrev, j.ISSN); err != nil {
			return 0, fmt.Errorf("inserting journal %s: %w", j.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(articles), nil
}

// formatAuthorsText creates a searchable text representation of authors.
func formatAuthorsText(authors []*library.Author) string {
	var names []string
	for _, a := range authors {
		name := strings.TrimSpace(strings.Join([]string{a.Firstname, a.Middlenames, a.Lastname}, " "))
		names = append(names, strings.Join(strings.Fields(name), " "))
	}
	return strings.Join(names, ", ")
}

// Search performs a full-text search and returns the ids of matching
// articles, best match first.
func (d *DB) Search(query string, limit int) ([]string, error) {
	return d.matchIDs(prepareFTSQuery(query), limit)
}

// SearchField searches a single field: "title" or "authors".
func (d *DB) SearchField(field, value string, limit int) ([]string, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	var ftsQuery string
	switch field {
	case "author", "authors":
		ftsQuery = "authors_text:" + prepareAuthorQuery(value)
	case "title":
		ftsQuery = "title:(" + prepareFTSQuery(value) + ")"
	default:
		return nil, fmt.Errorf("unknown search field: %s", field)
	}
	return d.matchIDs(ftsQuery, limit)
}

func (d *DB) matchIDs(ftsQuery string, limit int) ([]string, error) {
	if strings.TrimSpace(ftsQuery) == "" {
		return nil, nil
	}
	rows, err := d.db.Query(`
		SELECT id FROM articles_fts
		WHERE articles_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, ftsQuery, limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// SearchJournals returns ids of journals whose name, abbreviation or ISSN
// contains text, compared case-insensitively. Results are ordered by name.
func (d *DB) SearchJournals(scope, text string, limit int) ([]string, error) {
	var column string
	switch scope {
	case ScopeName, "":
		column = "name"
	case ScopeAbbrev:
		column = "abbrev"
	case ScopeISSN:
		column = "issn"
	default:
		return nil, fmt.Errorf("unknown journal scope: %s", scope)
	}

	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(text)
	rows, err := d.db.Query(`
		SELECT id FROM journals
		WHERE `+column+` LIKE ? ESCAPE '\'
		ORDER BY name COLLATE NOCASE
		LIMIT ?`, "%"+escaped+"%", limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("searching journals: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// FindByDOI returns the id of the article with the given DOI.
func (d *DB) FindByDOI(doi string) (string, bool, error) {
	var id string
	err := d.db.QueryRow(`SELECT id FROM articles WHERE doi = ? LIMIT 1`, doi).Scan(&id)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// Count returns the number of indexed articles.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&count)
	return count, err
}

func scanIDs(rows *sql.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// limitOrAll maps a non-positive limit to SQLite's "no limit".
func limitOrAll(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareAuthorQuery prepares an author name for FTS5 search with prefix matching.
// Every part must match as a prefix, so "J Smith" finds "John Smith".
func prepareAuthorQuery(author string) string {
	parts := strings.Fields(author)
	if len(parts) == 0 {
		return ""
	}
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		escaped := strings.ReplaceAll(part, "\"", "\"\"")
		terms = append(terms, "\""+escaped+"\"*")
	}
	return "(" + strings.Join(terms, " AND ") + ")"
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// FTS5 uses double quotes for phrase matching
	if strings.ContainsAny(query, "\"*+-:(){}[]^~.,/") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
