package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"todoApp/models"
)

const bookColumns = `id, title, author, description, rating, published_year`

// BookRepository is the SQLite-backed BookStore.
type BookRepository struct {
	db DBTX
}

func NewBookRepository(db DBTX) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) List(ctx context.Context) ([]models.Book, error) {
	return r.selectMany(ctx, `SELECT `+bookColumns+` FROM books ORDER BY id`)
}

func (r *BookRepository) ListByRating(ctx context.Context, rating int) ([]models.Book, error) {
	return r.selectMany(ctx, `SELECT `+bookColumns+` FROM books WHERE rating = ? ORDER BY id`, rating)
}

func (r *BookRepository) ListByPublishedYear(ctx context.Context, year int) ([]models.Book, error) {
	return r.selectMany(ctx, `SELECT `+bookColumns+` FROM books WHERE published_year = ? ORDER BY id`, year)
}

func (r *BookRepository) ListByAuthor(ctx context.Context, author string) ([]models.Book, error) {
	return r.selectMany(ctx, `SELECT `+bookColumns+` FROM books WHERE author = ? COLLATE NOCASE ORDER BY id`, author)
}

// GetByTitle returns the lowest-id book with the title.
func (r *BookRepository) GetByTitle(ctx context.Context, title string) (*models.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var b models.Book
	err := sqlx.GetContext(ctx, r.db, &b, `SELECT `+bookColumns+` FROM books WHERE title = ? COLLATE NOCASE ORDER BY id LIMIT 1`, title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookRepository) selectMany(ctx context.Context, query string, args ...any) ([]models.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	out := []models.Book{}
	if err := sqlx.SelectContext(ctx, r.db, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var b models.Book
	if err := sqlx.GetContext(ctx, r.db, &b, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// Create inserts b and ignores any ID it carries.
func (r *BookRepository) Create(ctx context.Context, b *models.Book) (*models.Book, error) {
	if b == nil {
		return nil, errors.New("book is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO books (title, author, description, rating, published_year) VALUES (?,?,?,?,?)`,
		b.Title, b.Author, b.Description, b.Rating, b.PublishedYear)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	created, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("created book not found: id=%d", id)
	}
	return created, nil
}

func (r *BookRepository) Update(ctx context.Context, b *models.Book) (bool, error) {
	if b == nil {
		return false, errors.New("book is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx,
		`UPDATE books SET title = ?, author = ?, description = ?, rating = ?, published_year = ? WHERE id = ?`,
		b.Title, b.Author, b.Description, b.Rating, b.PublishedYear, b.ID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *BookRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}
