package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"todoApp/models"
)

// MemoryBookStore is a BookStore held in process memory.
// New IDs continue from the last entry, so deleting the tail lets its ID be reused.
type MemoryBookStore struct {
	mu    sync.RWMutex
	books []models.Book
}

// NewMemoryBookStore returns a store holding copies of seed in the given order.
func NewMemoryBookStore(seed ...models.Book) *MemoryBookStore {
	books := make([]models.Book, len(seed))
	copy(books, seed)
	return &MemoryBookStore{books: books}
}

// SampleBooks is the starter catalog used when the memory store is selected.
func SampleBooks() []models.Book {
	return []models.Book{
		{ID: 1, Title: "Computer Science Pro", Author: "codingwithruby", Description: "A very nice book!", Rating: 5, PublishedYear: 2018},
		{ID: 2, Title: "Be fast with FastAPI", Author: "codingwithruby", Description: "A great book!", Rating: 5, PublishedYear: 2018},
		{ID: 3, Title: "Master Endpoints", Author: "codingwithruby", Description: "A awesome book!", Rating: 5, PublishedYear: 2020},
		{ID: 4, Title: "HP1", Author: "Author 1", Description: "Book description", Rating: 2, PublishedYear: 2010},
		{ID: 5, Title: "HP2", Author: "Author 2", Description: "Book description", Rating: 3, PublishedYear: 2010},
		{ID: 6, Title: "HP3", Author: "Author 3", Description: "Book description", Rating: 1, PublishedYear: 2024},
	}
}

func (s *MemoryBookStore) List(_ context.Context) ([]models.Book, error) {
	return s.filter(func(models.Book) bool { return true }), nil
}

func (s *MemoryBookStore) ListByRating(_ context.Context, rating int) ([]models.Book, error) {
	return s.filter(func(b models.Book) bool { return b.Rating == rating }), nil
}

func (s *MemoryBookStore) ListByPublishedYear(_ context.Context, year int) ([]models.Book, error) {
	return s.filter(func(b models.Book) bool { return b.PublishedYear == year }), nil
}

func (s *MemoryBookStore) ListByAuthor(_ context.Context, author string) ([]models.Book, error) {
	return s.filter(func(b models.Book) bool { return strings.EqualFold(b.Author, author) }), nil
}

func (s *MemoryBookStore) GetByTitle(_ context.Context, title string) (*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.books {
		if strings.EqualFold(b.Title, title) {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (s *MemoryBookStore) filter(keep func(models.Book) bool) []models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Book{}
	for _, b := range s.books {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (s *MemoryBookStore) GetByID(_ context.Context, id int64) (*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.books {
		if b.ID == id {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (s *MemoryBookStore) Create(_ context.Context, b *models.Book) (*models.Book, error) {
	if b == nil {
		return nil, errors.New("book is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	nb := *b
	nb.ID = 1
	if n := len(s.books); n > 0 {
		nb.ID = s.books[n-1].ID + 1
	}
	s.books = append(s.books, nb)
	return &nb, nil
}

func (s *MemoryBookStore) Update(_ context.Context, b *models.Book) (bool, error) {
	if b == nil {
		return false, errors.New("book is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.books {
		if s.books[i].ID == b.ID {
			s.books[i] = *b
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryBookStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.books {
		if s.books[i].ID == id {
			s.books = append(s.books[:i], s.books[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
