package httpserver

import (
	"net/http"
	"time"

	"github.com/dmehra2102/ListForge/internal/middleware"
	"github.com/dmehra2102/ListForge/internal/transport/httpserver/handler"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Options struct {
	JWTSecret      string
	EnableMetrics  bool
	RequestTimeout time.Duration
}

func NewRouter(opts Options, handlers *handler.Handlers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	if opts.EnableMetrics {
		r.Use(middleware.Metrics)
	}
	if opts.RequestTimeout > 0 {
		r.Use(chimw.Timeout(opts.RequestTimeout))
	}

	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		if opts.JWTSecret != "" {
			r.Use(middleware.Auth(opts.JWTSecret))
		}

		r.Get("/lists", handlers.ListLists)
		r.Post("/lists", handlers.CreateList)

		r.Route("/lists/{list_id}", func(r chi.Router) {
			r.Get("/", handlers.GetList)
			r.Patch("/", handlers.RenameList)
			r.Delete("/", handlers.DeleteList)
			r.Post("/complete_all", handlers.CompleteAll)

			r.Get("/todos", handlers.ListTodos)
			r.Post("/todos", handlers.CreateTodo)
			r.Patch("/todos/{todo_id}", handlers.UpdateTodo)
			r.Delete("/todos/{todo_id}", handlers.DeleteTodo)
		})
	})

	return r
}
