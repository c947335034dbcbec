package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"todoApp/internal/auth"
	"todoApp/internal/db"
	"todoApp/repository"
)

// Options carries the collaborators and knobs of the REST server.
type Options struct {
	Tokens *auth.TokenManager
	// Books overrides the catalog backend. Nil keeps books in the database.
	Books              repository.BookStore
	Logger             *zap.Logger
	BcryptCost         int
	AllowAdminSignup   bool
	LoginRatePerMinute int
}

// Server is the REST surface over users, todos and books.
type Server struct {
	echo *echo.Echo
	log  *zap.Logger
}

type handlers struct {
	tokens           *auth.TokenManager
	books            repository.BookStore
	log              *zap.Logger
	bcryptCost       int
	allowAdminSignup bool
}

// New wires middleware and routes. Nothing listens until Start.
func New(d *db.DB, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// Forwarding headers are client-controlled; rate limits key on the peer address.
	e.IPExtractor = echo.ExtractIPDirect()
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = newErrorHandler(log)

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())

	h := &handlers{
		tokens:           opts.Tokens,
		books:            opts.Books,
		log:              log,
		bcryptCost:       opts.BcryptCost,
		allowAdminSignup: opts.AllowAdminSignup,
	}
	session := sessionMiddleware(d)
	authed := []echo.MiddlewareFunc{auth.Middleware(opts.Tokens, log), session}

	e.GET("/healthy", healthCheck)

	a := e.Group("/auth", session)
	a.POST("", h.register)
	if opts.LoginRatePerMinute > 0 {
		a.POST("/token", h.login, loginRateLimiter(opts.LoginRatePerMinute))
	} else {
		a.POST("/token", h.login)
	}
	a.POST("/logout", h.logout, auth.Middleware(opts.Tokens, log))

	e.GET("/", h.listTodos, authed...)
	t := e.Group("/todo", authed...)
	t.GET("", h.listTodos)
	t.GET("/:id", h.getTodo)
	t.POST("", h.createTodo)
	t.PUT("/:id", h.updateTodo)
	t.DELETE("/:id", h.deleteTodo)

	ad := e.Group("/admin", authed...)
	ad.GET("/todo", h.adminListTodos)
	ad.DELETE("/todo/:id", h.adminDeleteTodo)
	ad.GET("/users", h.adminListUsers)

	u := e.Group("/users", authed...)
	u.GET("", h.getUser)
	u.PUT("/password", h.changePassword)
	u.PUT("/phonenumber/:phone", h.changePhoneNumber)

	var bookMW []echo.MiddlewareFunc
	if opts.Books == nil {
		bookMW = append(bookMW, session)
	}
	b := e.Group("/books", bookMW...)
	b.GET("", h.listBooks)
	b.GET("/published", h.listBooksByPublished)
	b.GET("/title/:title", h.getBookByTitle)
	b.GET("/:id", h.getBook)
	b.POST("", h.createBook)
	b.PUT("/:id", h.updateBook)
	b.DELETE("/:id", h.deleteBook)

	return &Server{echo: e, log: log}
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves on addr until Shutdown. A clean shutdown returns nil.
func (s *Server) Start(addr string) error {
	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "Healthy"})
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.String("route", v.RoutePath),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			log.Info("request", fields...)
			return nil
		},
	})
}

// loginRateLimiter limits token requests per client IP.
func loginRateLimiter(perMinute int) echo.MiddlewareFunc {
	deny := func(c echo.Context, _ string, _ error) error {
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
	}
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(perMinute) / 60),
			Burst:     perMinute,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "cannot identify client")
		},
		DenyHandler: deny,
	})
}
