package library

import (
	"errors"
	"testing"
)

func TestEnsureSections_Idempotent(t *testing.T) {
	tx := newTestTx(t)
	tx.EnsureSections()
	tx.EnsureSections()

	roots := tx.Children("")
	if len(roots) != 4 {
		t.Fatalf("got %d root collections, want 4", len(roots))
	}
	for _, c := range roots {
		if c.CanDelete {
			t.Errorf("root %q is deletable", c.Name)
		}
	}
}

func TestCollections_ManualMembership(t *testing.T) {
	tx := newTestTx(t)
	c := tx.NewCollection("Reading list")
	if !c.CanDelete || c.Kind != CollectionManual {
		t.Fatalf("NewCollection() = %+v", c)
	}
	parent, _ := tx.Collection(c.ParentID)
	if parent == nil || parent.Name != CollectionsName {
		t.Errorf("parent = %+v, want %q section", parent, CollectionsName)
	}

	a := tx.NewArticle()
	if err := tx.AddToCollection(a, c); err != nil {
		t.Fatalf("AddToCollection() error = %v", err)
	}
	if err := tx.AddToCollection(a, c); err != nil {
		t.Fatalf("second AddToCollection() error = %v", err)
	}
	if got := tx.ArticlesInCollection(c.ID); len(got) != 1 || got[0] != a.ID {
		t.Errorf("ArticlesInCollection() = %v", got)
	}

	tx.RemoveFromCollection(a, c.ID)
	if got := tx.ArticlesInCollection(c.ID); len(got) != 0 {
		t.Errorf("ArticlesInCollection() after remove = %v", got)
	}

	if err := tx.AddToCollection(a, parent); err == nil {
		t.Error("AddToCollection() on a section should fail")
	}
}

func TestCollections_AllAndKeyword(t *testing.T) {
	tx := newTestTx(t)
	tx.EnsureSections()
	all := tx.sectionByName(CollectionAll, AllArticlesName)
	k := tx.NewKeyword("phylogenetics")
	kc := tx.NewKeywordCollection(k)
	if again := tx.NewKeywordCollection(k); again.ID != kc.ID {
		t.Error("NewKeywordCollection() created a second collection for the same keyword")
	}

	a := tx.NewArticle()
	tx.NewArticle()
	tx.AddKeyword(a, k)

	if got := tx.ArticlesInCollection(all.ID); len(got) != 2 {
		t.Errorf("all collection has %d articles, want 2", len(got))
	}
	if got := tx.ArticlesInCollection(kc.ID); len(got) != 1 || got[0] != a.ID {
		t.Errorf("keyword collection = %v, want [%s]", got, a.ID)
	}
}

func TestDeleteCollection(t *testing.T) {
	tx := newTestTx(t)
	c := tx.NewCollection("Drafts")
	a := tx.NewArticle()
	if err := tx.AddToCollection(a, c); err != nil {
		t.Fatal(err)
	}

	if err := tx.DeleteCollection(c.ParentID); !errors.Is(err, ErrProtected) {
		t.Errorf("deleting section error = %v, want ErrProtected", err)
	}
	if _, ok := tx.Collection(c.ID); !ok {
		t.Fatal("refused delete removed a child collection")
	}

	if err := tx.DeleteCollection(c.ID); err != nil {
		t.Fatalf("DeleteCollection() error = %v", err)
	}
	if len(a.CollectionIDs) != 0 {
		t.Errorf("article still in deleted collection: %v", a.CollectionIDs)
	}
	if err := tx.DeleteCollection(c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteCollection() error = %v, want ErrNotFound", err)
	}
}
