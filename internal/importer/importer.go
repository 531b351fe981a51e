// Package importer reads bibliographic export files and adds their records
// to a library, reconciling authors, journals and keywords with what the
// library already holds.
package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/matsen/bibliograph/internal/identity"
	"github.com/matsen/bibliograph/internal/library"
	"github.com/matsen/bibliograph/internal/pdf"
)

// Format names a supported export format.
type Format string

const (
	FormatEndNote   Format = "endnote"
	FormatPaperpile Format = "paperpile"
)

// Formats lists the accepted --format values.
var Formats = []Format{FormatEndNote, FormatPaperpile}

// Result summarizes an import.
type Result struct {
	Records    int      `json:"records"`
	ArticleIDs []string `json:"article_ids"`
	PDFsCopied int      `json:"pdfs_copied"`
	PDFErrors  int      `json:"pdf_errors"`
	Skipped    []string `json:"skipped,omitempty"`
	DryRun     bool     `json:"dry_run,omitempty"`

	identity.Stats
}

// Importer adds parsed records to a library in a single transaction.
type Importer struct {
	lib  *library.Library
	pdfs *pdf.Store
	log  logrus.FieldLogger

	// DryRun reconciles and counts without copying PDFs or committing.
	DryRun bool
}

// New returns an importer that copies referenced PDFs into pdfs.
func New(lib *library.Library, pdfs *pdf.Store, log logrus.FieldLogger) *Importer {
	return &Importer{lib: lib, pdfs: pdfs, log: log}
}

// ImportFile parses path in the given format and imports every record.
// Relative PDF paths in the file are taken relative to its directory.
func (im *Importer) ImportFile(path string, format Format) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var (
		records []Record
		skipped []string
	)
	switch format {
	case FormatEndNote:
		records, err = ParseEndNote(data)
		if err != nil {
			return nil, fmt.Errorf("importing %s: %w", path, err)
		}
	case FormatPaperpile:
		var errs []error
		records, errs = ParsePaperpile(data)
		if len(errs) == 1 && errors.Is(errs[0], ErrParse) {
			return nil, fmt.Errorf("importing %s: %w", path, errs[0])
		}
		for _, e := range errs {
			skipped = append(skipped, e.Error())
		}
	default:
		return nil, fmt.Errorf("unknown import format %q", format)
	}

	base := filepath.Dir(path)
	for i := range records {
		if p := records[i].PDFPath; p != "" && !filepath.IsAbs(p) {
			records[i].PDFPath = filepath.Join(base, p)
		}
	}

	res, err := im.Import(records)
	if err != nil {
		return nil, err
	}
	res.Skipped = skipped
	return res, nil
}

// Import adds records to the library and commits once. If the commit
// fails nothing is kept, including copied PDFs.
func (im *Importer) Import(records []Record) (*Result, error) {
	tx := im.lib.Begin()
	rec := identity.NewReconciler(tx, identity.Build(tx.Graph))
	res := &Result{DryRun: im.DryRun}

	for i := range records {
		a := im.addRecord(tx, rec, &records[i], res)
		res.ArticleIDs = append(res.ArticleIDs, a.ID)
		res.Records++
	}
	res.Stats = rec.Stats

	if im.DryRun {
		tx.Rollback()
		return res, nil
	}
	if err := tx.Commit(); err != nil {
		for _, id := range res.ArticleIDs {
			if rmErr := im.pdfs.Remove(id); rmErr != nil {
				im.log.WithError(rmErr).WithField("article", id).Warn("removing copied PDF after failed import")
			}
		}
		return nil, fmt.Errorf("import of %d records: %w", len(records), err)
	}

	im.log.WithFields(logrus.Fields{
		"records":          res.Records,
		"authors_created":  res.AuthorsCreated,
		"journals_created": res.JournalsCreated,
		"keywords_created": res.KeywordsCreated,
	}).Info("import committed")
	return res, nil
}

// addRecord turns one record into a new article.
func (im *Importer) addRecord(tx *library.Tx, rec *identity.Reconciler, r *Record, res *Result) *library.Article {
	a := tx.NewArticle()
	a.Title = PlainTitle(r.Title)

	tx.SetAuthors(a, rec.Authors(r.Authors, rec.Author))
	if editors := rec.Authors(r.Editors, rec.Author); len(editors) > 0 {
		tx.SetEditors(a, editors)
	}

	if r.Year != "" {
		a.Year = parseYear(r.Year)
		tx.SetPublished(a, parsePubDate(r.PubDate, r.Year))
	}

	a.DOI = r.DOI
	if r.PDFPath != "" {
		im.copyPDF(a, r.PDFPath, res)
	}

	a.Type = r.Type
	a.Pages = r.Pages
	a.Volume = r.Volume
	a.Issue = r.Issue
	a.Edition = r.Edition
	a.ISBN = r.ISBN
	a.Abstract = r.Abstract
	a.City = r.City
	a.PublishedBy = r.PublishedBy

	journalName := ""
	if r.Journal != "" {
		j := rec.Journal(r.Journal, r.JournalAbbrev, r.JournalISSN)
		tx.SetJournal(a, j)
		journalName = j.Name
	}
	if r.Subtitle != journalName {
		a.Subtitle = r.Subtitle
	}

	for _, text := range r.Keywords {
		tx.AddKeyword(a, rec.Keyword(text))
	}
	return a
}

// copyPDF copies an existing local PDF into managed storage. Failures are
// logged and leave RelatedFile unset.
func (im *Importer) copyPDF(a *library.Article, src string, res *Result) {
	if _, err := os.Stat(src); err != nil {
		im.log.WithField("path", src).Debug("referenced PDF not found, skipping")
		return
	}
	if im.DryRun {
		return
	}
	dst, err := im.pdfs.Copy(src, a.ID)
	if err != nil {
		res.PDFErrors++
		im.log.WithError(err).WithField("article", a.ID).Warn("copying PDF")
		return
	}
	a.RelatedFile = dst
	res.PDFsCopied++
}
