package httpapi

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"todoApp/internal/db"
	"todoApp/repository"
)

const storeKey = "store"

// sessionMiddleware gives the request its own connection for its whole lifetime.
// The connection goes back to the pool on every exit path, including panics
// recovered further up the chain.
func sessionMiddleware(d *db.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			conn, err := d.Connx(c.Request().Context())
			if err != nil {
				return fmt.Errorf("acquire session: %w", err)
			}
			defer conn.Close()
			c.Set(storeKey, repository.NewStore(conn))
			return next(c)
		}
	}
}

func storeFrom(c echo.Context) (*repository.Store, error) {
	st, ok := c.Get(storeKey).(*repository.Store)
	if !ok || st == nil {
		return nil, errors.New("no session bound to request")
	}
	return st, nil
}
