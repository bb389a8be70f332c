// Package httpapi exposes the task-list services over HTTP. Handlers stay
// thin: they unmarshal requests, call a service, and map sentinel errors to
// status codes.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/tasklist/internal/logging"
	"github.com/dmitrijs2005/tasklist/internal/server/services"
)

const apiPrefix = "/v1"

type Server struct {
	address string
	logger  logging.Logger
	users   *services.UserService
	lists   *services.ListService
	tasks   *services.TaskService
}

func NewServer(a string, l logging.Logger, us *services.UserService, ls *services.ListService, ts *services.TaskService) *Server {
	return &Server{
		address: a,
		logger:  l.With("module", "http_server"),
		users:   us,
		lists:   ls,
		tasks:   ts,
	}
}

// Handler builds the route table. It is exported so tests can drive the full
// mux through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST "+apiPrefix+"/auth/register", s.handleRegister)
	mux.HandleFunc("POST "+apiPrefix+"/auth/login", s.handleLogin)
	mux.HandleFunc("POST "+apiPrefix+"/auth/login/username", s.handleLoginUsername)
	mux.HandleFunc("GET "+apiPrefix+"/auth/me", s.requireActiveUser(s.handleMe))

	mux.HandleFunc("GET "+apiPrefix+"/lists", s.requireActiveUser(s.handleGetLists))
	mux.HandleFunc("POST "+apiPrefix+"/lists", s.requireActiveUser(s.handleCreateList))
	mux.HandleFunc("GET "+apiPrefix+"/lists/{listId}", s.requireActiveUser(s.handleGetList))
	mux.HandleFunc("PUT "+apiPrefix+"/lists/{listId}", s.requireActiveUser(s.handleUpdateList))
	mux.HandleFunc("DELETE "+apiPrefix+"/lists/{listId}", s.requireActiveUser(s.handleDeleteList))

	mux.HandleFunc("GET "+apiPrefix+"/lists/{listId}/tasks", s.requireActiveUser(s.handleGetTasks))
	mux.HandleFunc("POST "+apiPrefix+"/lists/{listId}/tasks", s.requireActiveUser(s.handleCreateTask))
	mux.HandleFunc("GET "+apiPrefix+"/tasks/{taskId}", s.requireActiveUser(s.handleGetTask))
	mux.HandleFunc("PUT "+apiPrefix+"/tasks/{taskId}", s.requireActiveUser(s.handleUpdateTask))
	mux.HandleFunc("DELETE "+apiPrefix+"/tasks/{taskId}", s.requireActiveUser(s.handleDeleteTask))

	return s.withRequestLog(mux)
}

// Run starts the HTTP server and shuts it down gracefully when ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to Task List API",
		"version": "1.0.0",
		"authentication": map[string]string{
			"bearer_token": "Use JWT token from " + apiPrefix + "/auth/login",
			"basic_auth":   "Use email:password for direct authentication",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug(r.Context(), "request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
