package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"todoApp/internal/auth"
	"todoApp/models"
	"todoApp/repository"
)

// caller resolves the identity and the request's store, in that order.
func caller(c echo.Context) (*auth.Identity, *repository.Store, error) {
	id, err := auth.RequireIdentity(c.Request().Context())
	if err != nil {
		return nil, nil, err
	}
	st, err := storeFrom(c)
	if err != nil {
		return nil, nil, err
	}
	return id, st, nil
}

func (h *handlers) listTodos(c echo.Context) error {
	id, st, err := caller(c)
	if err != nil {
		return err
	}
	todos, err := st.Todos.ListByOwner(c.Request().Context(), id.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, todos)
}

func (h *handlers) getTodo(c echo.Context) error {
	id, st, err := caller(c)
	if err != nil {
		return err
	}
	var p idParam
	if err := bindAndValidate(c, &p); err != nil {
		return err
	}
	todo, err := st.Todos.GetByIDForOwner(c.Request().Context(), p.ID, id.ID)
	if err != nil {
		return err
	}
	if todo == nil {
		return errTodoNotFound
	}
	return c.JSON(http.StatusOK, todo)
}

func (h *handlers) createTodo(c echo.Context) error {
	id, st, err := caller(c)
	if err != nil {
		return err
	}
	var req todoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	todo, err := st.Todos.Create(c.Request().Context(), &models.Todo{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Complete:    req.Complete,
		OwnerID:     id.ID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, todo)
}

func (h *handlers) updateTodo(c echo.Context) error {
	id, st, err := caller(c)
	if err != nil {
		return err
	}
	var req todoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.ID <= 0 {
		return invalidID()
	}
	ok, err := st.Todos.UpdateForOwner(c.Request().Context(), &models.Todo{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Complete:    req.Complete,
		OwnerID:     id.ID,
	})
	if err != nil {
		return err
	}
	if !ok {
		return errTodoNotFound
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handlers) deleteTodo(c echo.Context) error {
	id, st, err := caller(c)
	if err != nil {
		return err
	}
	var p idParam
	if err := bindAndValidate(c, &p); err != nil {
		return err
	}
	ok, err := st.Todos.DeleteForOwner(c.Request().Context(), p.ID, id.ID)
	if err != nil {
		return err
	}
	if !ok {
		return errTodoNotFound
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handlers) adminListTodos(c echo.Context) error {
	st, err := storeFrom(c)
	if err != nil {
		return err
	}
	if _, err := auth.RequireAdmin(c.Request().Context(), st.Users); err != nil {
		return err
	}
	todos, err := st.Todos.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, todos)
}

func (h *handlers) adminDeleteTodo(c echo.Context) error {
	st, err := storeFrom(c)
	if err != nil {
		return err
	}
	if _, err := auth.RequireAdmin(c.Request().Context(), st.Users); err != nil {
		return err
	}
	var p idParam
	if err := bindAndValidate(c, &p); err != nil {
		return err
	}
	ok, err := st.Todos.Delete(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	if !ok {
		return errTodoNotFound
	}
	return c.NoContent(http.StatusNoContent)
}

func invalidID() error {
	return &ValidationError{Message: "request validation failed", Fields: []FieldError{{Field: "id", Rule: "gt", Param: "0"}}}
}
