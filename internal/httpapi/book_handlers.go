package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"todoApp/models"
	"todoApp/repository"
)

// bookStore returns the configured catalog, or the database one bound to the request.
func (h *handlers) bookStore(c echo.Context) (repository.BookStore, error) {
	if h.books != nil {
		return h.books, nil
	}
	st, err := storeFrom(c)
	if err != nil {
		return nil, err
	}
	return st.Books, nil
}

// listBooks returns the whole catalog, or the books matching ?author= and/or ?rating=N.
func (h *handlers) listBooks(c echo.Context) error {
	bs, err := h.bookStore(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	var q bookFilter
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}
	hasRating := c.QueryParam("rating") != ""
	if hasRating {
		var rq ratingQuery
		if err := bindAndValidate(c, &rq); err != nil {
			return err
		}
	}
	var books []models.Book
	switch {
	case q.Author != "":
		books, err = bs.ListByAuthor(ctx, q.Author)
		if err == nil && hasRating {
			books = keepRating(books, q.Rating)
		}
	case hasRating:
		books, err = bs.ListByRating(ctx, q.Rating)
	default:
		books, err = bs.List(ctx)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

func keepRating(books []models.Book, rating int) []models.Book {
	out := []models.Book{}
	for _, b := range books {
		if b.Rating == rating {
			out = append(out, b)
		}
	}
	return out
}

func (h *handlers) getBookByTitle(c echo.Context) error {
	bs, err := h.bookStore(c)
	if err != nil {
		return err
	}
	var p titleParam
	if err := bindAndValidate(c, &p); err != nil {
		return err
	}
	b, err := bs.GetByTitle(c.Request().Context(), p.Title)
	if err != nil {
		return err
	}
	if b == nil {
		return errBookNotFound
	}
	return c.JSON(http.StatusOK, b)
}

func (h *handlers) listBooksByPublished(c echo.Context) error {
	bs, err := h.bookStore(c)
	if err != nil {
		return err
	}
	var q publishedQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}
	books, err := bs.ListByPublishedYear(c.Request().Context(), q.Year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

func (h *handlers) getBook(c echo.Context) error {
	bs, err := h.bookStore(c)
	if err != nil {
		return err
	}
	var p idParam
	if err := bindAndValidate(c, &p); err != nil {
		return err
	}
	b, err := bs.GetByID(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	if b == nil {
		return errBookNotFound
	}
	return c.JSON(http.StatusOK, b)
}

func (h *handlers) createBook(c echo.Context) error {
	bs, err := h.bookStore(c)
	if err != nil {
		return err
	}
	var req bookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	b, err := bs.Create(c.Request().Context(), req.book())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *handlers) updateBook(c echo.Context) error {
	bs, err := h.bookStore(c)
	if err != nil {
		return err
	}
	var req bookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.ID <= 0 {
		return invalidID()
	}
	ok, err := bs.Update(c.Request().Context(), req.book())
	if err != nil {
		return err
	}
	if !ok {
		return errBookNotFound
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handlers) deleteBook(c echo.Context) error {
	bs, err := h.bookStore(c)
	if err != nil {
		return err
	}
	var p idParam
	if err := bindAndValidate(c, &p); err != nil {
		return err
	}
	ok, err := bs.Delete(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	if !ok {
		return errBookNotFound
	}
	return c.NoContent(http.StatusNoContent)
}

func (r *bookRequest) book() *models.Book {
	return &models.Book{
		ID:            r.ID,
		Title:         r.Title,
		Author:        r.Author,
		Description:   r.Description,
		Rating:        r.Rating,
		PublishedYear: r.PublishedDate,
	}
}
