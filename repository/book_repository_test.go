package repository

import (
	"context"
	"testing"

	"todoApp/models"
)

// exerciseBookStore runs the same behavioural checks against any BookStore
// that starts empty.
func exerciseBookStore(t *testing.T, s BookStore) {
	t.Helper()
	ctx := context.Background()

	a, err := s.Create(ctx, &models.Book{ID: 99, Title: "Go in Action", Author: "Kennedy", Description: "Go book", Rating: 4, PublishedYear: 2015})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	if a.ID != 1 {
		t.Fatalf("first id = %d, want 1", a.ID)
	}
	b, err := s.Create(ctx, &models.Book{Title: "Concurrency", Author: "Cox-Buday", Description: "Patterns", Rating: 5, PublishedYear: 2017})
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	if b.ID != 2 {
		t.Fatalf("second id = %d, want 2", b.ID)
	}

	all, err := s.List(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("list: %v %+v", err, all)
	}
	byRating, _ := s.ListByRating(ctx, 5)
	if len(byRating) != 1 || byRating[0].ID != b.ID {
		t.Fatalf("by rating: %+v", byRating)
	}
	byYear, _ := s.ListByPublishedYear(ctx, 2015)
	if len(byYear) != 1 || byYear[0].ID != a.ID {
		t.Fatalf("by year: %+v", byYear)
	}
	byAuthor, err := s.ListByAuthor(ctx, "KENNEDY")
	if err != nil || len(byAuthor) != 1 || byAuthor[0].ID != a.ID {
		t.Fatalf("by author: %v %+v", err, byAuthor)
	}
	byTitle, err := s.GetByTitle(ctx, "concurrency")
	if err != nil || byTitle == nil || byTitle.ID != b.ID {
		t.Fatalf("by title: %v %+v", err, byTitle)
	}
	if nt, err := s.GetByTitle(ctx, "Missing Title"); err != nil || nt != nil {
		t.Fatalf("unknown title: %v %+v", err, nt)
	}
	none, _ := s.ListByPublishedYear(ctx, 2001)
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", none)
	}

	upd := *a
	upd.Rating = 1
	if ok, err := s.Update(ctx, &upd); err != nil || !ok {
		t.Fatalf("update: ok=%v err=%v", ok, err)
	}
	got, _ := s.GetByID(ctx, a.ID)
	if got == nil || got.Rating != 1 {
		t.Fatalf("update not applied: %+v", got)
	}
	missing := upd
	missing.ID = 404
	if ok, _ := s.Update(ctx, &missing); ok {
		t.Fatalf("update of unknown id reported success")
	}

	if ok, err := s.Delete(ctx, a.ID); err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	if ok, _ := s.Delete(ctx, a.ID); ok {
		t.Fatalf("second delete reported success")
	}
	if got, _ := s.GetByID(ctx, a.ID); got != nil {
		t.Fatalf("deleted book still present: %+v", got)
	}
}

func TestBookRepository(t *testing.T) {
	exerciseBookStore(t, NewBookRepository(openTestDB(t, "bookrepo")))
}

func TestMemoryBookStore(t *testing.T) {
	exerciseBookStore(t, NewMemoryBookStore())
}

func TestMemoryBookStore_SeedAndNextID(t *testing.T) {
	s := NewMemoryBookStore(SampleBooks()...)
	ctx := context.Background()
	all, _ := s.List(ctx)
	if len(all) != 6 {
		t.Fatalf("seed size = %d, want 6", len(all))
	}
	nb, err := s.Create(ctx, &models.Book{Title: "New", Author: "A", Description: "d", Rating: 3, PublishedYear: 2020})
	if err != nil || nb.ID != 7 {
		t.Fatalf("create after seed: %v %+v", err, nb)
	}
	all[0].Title = "mutated"
	first, _ := s.GetByID(ctx, 1)
	if first.Title == "mutated" {
		t.Fatalf("List must return copies")
	}
}
