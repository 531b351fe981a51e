// Package attach links a PDF to an article and enriches the article from
// the DOI printed in the PDF.
package attach

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/matsen/bibliograph/internal/crossref"
	"github.com/matsen/bibliograph/internal/identity"
	"github.com/matsen/bibliograph/internal/library"
	"github.com/matsen/bibliograph/internal/merge"
	"github.com/matsen/bibliograph/internal/pdf"
)

// Resolver looks up metadata for a DOI, returning nil when it cannot.
type Resolver interface {
	Resolve(ctx context.Context, doi string) *crossref.Match
}

// Result describes what an attach did.
type Result struct {
	ArticleID   string         `json:"article_id"`
	RelatedFile string         `json:"related_file"`
	DOI         string         `json:"doi,omitempty"`
	Resolved    bool           `json:"resolved"`
	Changes     *merge.Changes `json:"changes,omitempty"`
}

// Service runs the attach workflow against a library.
type Service struct {
	lib      *library.Library
	pdfs     *pdf.Store
	resolver Resolver
	log      logrus.FieldLogger

	// ExtractDOI reads a DOI from a PDF file.
	ExtractDOI func(path string) (string, bool, error)
}

// New returns a service that stores PDFs in pdfs and resolves DOIs with r.
// A nil r skips enrichment.
func New(lib *library.Library, pdfs *pdf.Store, r Resolver, log logrus.FieldLogger) *Service {
	return &Service{
		lib:        lib,
		pdfs:       pdfs,
		resolver:   r,
		log:        log,
		ExtractDOI: pdf.ExtractDOIFromFile,
	}
}

// Attach copies src into managed storage for the article, extracts a DOI
// from it, resolves the DOI and merges the result into the article. The
// attachment is committed even when no DOI is found or resolution fails.
func (s *Service) Attach(ctx context.Context, articleID, src string) (*Result, error) {
	if _, ok := s.lib.Graph().Article(articleID); !ok {
		return nil, fmt.Errorf("article %s: %w", articleID, library.ErrNotFound)
	}

	dst, err := s.pdfs.Copy(src, articleID)
	if err != nil {
		return nil, fmt.Errorf("attaching %s: %w", src, err)
	}
	res := &Result{ArticleID: articleID, RelatedFile: dst}
	log := s.log.WithField("article", articleID)

	doi, found, err := s.ExtractDOI(dst)
	switch {
	case err != nil:
		log.WithError(err).Warn("reading PDF text")
	case !found:
		log.Info("no DOI found in PDF")
	default:
		res.DOI = doi
	}

	var match *crossref.Match
	if res.DOI != "" && s.resolver != nil {
		match = s.resolver.Resolve(ctx, res.DOI)
	}

	tx := s.lib.Begin()
	a, ok := tx.Article(articleID)
	if !ok {
		tx.Rollback()
		s.discard(dst, "")
		return nil, fmt.Errorf("article %s: %w", articleID, library.ErrNotFound)
	}
	previous := a.RelatedFile
	a.RelatedFile = dst
	if res.DOI != "" {
		a.DOI = res.DOI
	}
	if match != nil {
		rec := identity.NewReconciler(tx, identity.Build(tx.Graph))
		ch := merge.Apply(tx, rec, a, match)
		res.Resolved = true
		res.Changes = &ch
	}

	if err := tx.Commit(); err != nil {
		s.discard(dst, previous)
		return nil, fmt.Errorf("attaching %s: %w", src, err)
	}
	log.WithFields(logrus.Fields{"file": dst, "doi": res.DOI, "resolved": res.Resolved}).Info("PDF attached")
	return res, nil
}

// discard removes a copied file unless it is the one the article already
// pointed to.
func (s *Service) discard(dst, previous string) {
	if dst == previous {
		return
	}
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		s.log.WithError(err).WithField("file", dst).Warn("removing copied PDF")
	}
}
