// Package httpapi exposes the account, category and task services over JSON/HTTP.
package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"task-manager/internal/service"
)

// Options tune the HTTP surface.
type Options struct {
	CORSOrigins []string
}

// Server aggregates the HTTP handlers with services.
type Server struct {
	auth       *service.AuthService
	categories *service.CategoryService
	tasks      *service.TaskService
	throttle   *service.ThrottleService
	opts       Options
}

func NewServer(authSvc *service.AuthService, categorySvc *service.CategoryService, taskSvc *service.TaskService, throttleSvc *service.ThrottleService, opts Options) *Server {
	return &Server{
		auth:       authSvc,
		categories: categorySvc,
		tasks:      taskSvc,
		throttle:   throttleSvc,
		opts:       opts,
	}
}

// Handler builds the routing table wrapped with CORS and request logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(logRequests)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, detailBody{Detail: "Not found."})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, detailBody{Detail: "Method \"" + r.Method + "\" not allowed."})
	})

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.NewRoute().Subrouter()
	api.Use(s.authenticate)

	public := api.NewRoute().Subrouter()
	public.Use(s.throttleRequests)
	public.HandleFunc("/auth/", s.handleRegister).Methods(http.MethodPost)
	public.HandleFunc("/auth/login/", s.handleLogin).Methods(http.MethodPost)
	public.HandleFunc("/token/", s.handleObtainToken).Methods(http.MethodPost)
	public.HandleFunc("/token/refresh/", s.handleRefreshToken).Methods(http.MethodPost)
	public.HandleFunc("/token/verify/", s.handleVerifyToken).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(requireAuth, s.throttleRequests)
	protected.HandleFunc("/auth/logout/", s.handleLogout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/account/", s.handleAccount).Methods(http.MethodGet)
	protected.HandleFunc("/auth/edit/", s.handleEditAccount).Methods(http.MethodPut)
	protected.HandleFunc("/auth/delete_account/", s.handleDeleteAccount).Methods(http.MethodDelete)

	protected.HandleFunc("/categories/", s.handleListCategories).Methods(http.MethodGet)
	protected.HandleFunc("/categories/", s.handleCreateCategory).Methods(http.MethodPost)
	protected.HandleFunc("/categories/{id:[0-9]+}/", s.handleGetCategory).Methods(http.MethodGet)
	protected.HandleFunc("/categories/{id:[0-9]+}/", s.handleUpdateCategory).Methods(http.MethodPut)
	protected.HandleFunc("/categories/{id:[0-9]+}/", s.handleDeleteCategory).Methods(http.MethodDelete)

	protected.HandleFunc("/tasks/", s.handleListTasks).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/", s.handleCreateTask).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}
