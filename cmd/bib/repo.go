package main

import (
	"errors"
	"os"

	"github.com/matsen/bibliograph/internal/config"
	"github.com/matsen/bibliograph/internal/crossref"
	"github.com/matsen/bibliograph/internal/library"
	"github.com/matsen/bibliograph/internal/pdf"
	"github.com/matsen/bibliograph/internal/storage"
)

// repository bundles everything a command needs to read or change the
// library of one .bibliograph directory.
type repository struct {
	root  string
	cfg   *config.Config
	store *storage.Store
	lib   *library.Library
	pdfs  *pdf.Store
}

// mustFindRepository finds and validates the repository, exits on error.
// Returns the repository root path.
func mustFindRepository() string {
	start, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	repoRoot, err := config.FindRepository(start)
	if err != nil {
		exitWithError(ExitConfigError, "%v\n\nRun 'bib init' to create a repository here.", err)
	}
	return repoRoot
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustOpenRepository loads the library of the enclosing repository.
func mustOpenRepository() *repository {
	root := mustFindRepository()
	cfg := mustLoadConfig(root)

	store, err := storage.Open(config.DataPath(root))
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	snap, err := store.Load()
	if err != nil {
		exitWithError(ExitDataError, "reading library: %v", err)
	}
	lib, err := library.Load(snap, store)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	return &repository{
		root:  root,
		cfg:   cfg,
		store: store,
		lib:   lib,
		pdfs:  pdf.NewStore(cfg.PDFPath(root)),
	}
}

// mustOpenDatabase opens the SQLite search cache, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(repoRoot string) *storage.DB {
	if err := os.MkdirAll(config.CachePath(repoRoot), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(config.DBPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// mustCommit commits tx and refreshes the search cache, exits on error.
func (r *repository) mustCommit(tx *library.Tx) {
	if err := tx.Commit(); err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	r.refreshCache()
}

// refreshCache rebuilds the search cache from the committed library. A
// stale cache is only a warning; "bib rebuild" repairs it.
func (r *repository) refreshCache() {
	db := mustOpenDatabase(r.root)
	defer db.Close()
	if _, err := db.Rebuild(r.lib.Graph().Snapshot()); err != nil {
		log.WithError(err).Warn("search cache is stale; run 'bib rebuild'")
	}
}

// newCrossrefClient builds a client from the global config.
func newCrossrefClient() *crossref.Client {
	opts := []crossref.ClientOption{crossref.WithLogger(log)}
	if globalCfg != nil {
		opts = append(opts,
			crossref.WithPID(globalCfg.Crossref.PID),
			crossref.WithRateLimit(globalCfg.Crossref.RateLimit),
		)
		if globalCfg.Crossref.BaseURL != "" {
			opts = append(opts, crossref.WithBaseURL(globalCfg.Crossref.BaseURL))
		}
	}
	return crossref.NewClient(opts...)
}

// exitCodeFor maps library errors to exit codes.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, library.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, library.ErrInUse), errors.Is(err, library.ErrProtected):
		return ExitConflict
	case errors.Is(err, library.ErrCommit):
		return ExitDataError
	default:
		return ExitError
	}
}

// mustArticle returns the committed article with the given id.
func (r *repository) mustArticle(id string) *library.Article {
	a, ok := r.lib.Graph().Article(id)
	if !ok {
		exitWithError(ExitNotFound, "article not found: %s", id)
	}
	return a
}
