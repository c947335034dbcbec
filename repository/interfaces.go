package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"todoApp/models"
)

// ErrConflict reports a unique-constraint violation, e.g. a taken username.
var ErrConflict = errors.New("record already exists")

// DBTX is the query surface shared by *sqlx.DB, *sqlx.Conn and *sqlx.Tx.
// Repositories built over a *sqlx.Conn run every statement on that one session.
type DBTX interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	UpdatePassword(ctx context.Context, id int64, hashed string) error
	UpdatePhoneNumber(ctx context.Context, id int64, phone string) error
}

// TodoRepositoryI defines operations on Todo entities.
// The *ForOwner variants are the ownership filter: they never touch another user's rows.
type TodoRepositoryI interface {
	Create(ctx context.Context, t *models.Todo) (*models.Todo, error)
	GetByID(ctx context.Context, id int64) (*models.Todo, error)
	GetByIDForOwner(ctx context.Context, id, ownerID int64) (*models.Todo, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Todo, error)
	ListAll(ctx context.Context) ([]models.Todo, error)
	UpdateForOwner(ctx context.Context, t *models.Todo) (bool, error)
	DeleteForOwner(ctx context.Context, id, ownerID int64) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// BookStore is the catalog abstraction. BookRepository and MemoryBookStore implement it.
type BookStore interface {
	List(ctx context.Context) ([]models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	ListByRating(ctx context.Context, rating int) ([]models.Book, error)
	ListByPublishedYear(ctx context.Context, year int) ([]models.Book, error)
	// ListByAuthor and GetByTitle match case-insensitively.
	ListByAuthor(ctx context.Context, author string) ([]models.Book, error)
	GetByTitle(ctx context.Context, title string) (*models.Book, error)
	Create(ctx context.Context, b *models.Book) (*models.Book, error)
	Update(ctx context.Context, b *models.Book) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

var (
	_ UserRepositoryI = (*UserRepository)(nil)
	_ TodoRepositoryI = (*TodoRepository)(nil)
	_ BookStore       = (*BookRepository)(nil)
	_ BookStore       = (*MemoryBookStore)(nil)
)

// Store bundles the repositories bound to a single session.
type Store struct {
	Users *UserRepository
	Todos *TodoRepository
	Books *BookRepository
}

// NewStore binds every repository to q.
func NewStore(q DBTX) *Store {
	return &Store{
		Users: NewUserRepository(q),
		Todos: NewTodoRepository(q),
		Books: NewBookRepository(q),
	}
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func affected(res interface{ RowsAffected() (int64, error) }) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
