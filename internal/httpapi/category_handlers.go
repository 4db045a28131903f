package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"task-manager/internal/apperr"
	"task-manager/internal/auth"
	"task-manager/internal/service"
)

type categoryRequest struct {
	Title *string `json:"title"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	categories, err := s.categories.List(r.Context(), identity, r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, newCategoryResponse(&categories[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var title string
	if req.Title != nil {
		title = *req.Title
	}

	identity, _ := auth.IdentityFromContext(r.Context())
	category, err := s.categories.Create(r.Context(), identity, title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newCategoryResponse(category))
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := categoryID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	identity, _ := auth.IdentityFromContext(r.Context())
	category, err := s.categories.Get(r.Context(), identity, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCategoryResponse(category))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := categoryID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	identity, _ := auth.IdentityFromContext(r.Context())
	category, err := s.categories.Update(r.Context(), identity, id, service.CategoryUpdate{Title: req.Title})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCategoryResponse(category))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := categoryID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	identity, _ := auth.IdentityFromContext(r.Context())
	if err := s.categories.Delete(r.Context(), identity, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func categoryID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.NotFound("Not found.")
	}
	return uint(id), nil
}
