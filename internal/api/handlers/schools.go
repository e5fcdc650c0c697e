package handlers

import (
	"errors"
	"net/http"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/api/problem"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/schools"
)

type SchoolsHandler struct {
	service *schools.Service
	env     string
}

func NewSchoolsHandler(service *schools.Service, env string) *SchoolsHandler {
	return &SchoolsHandler{service: service, env: env}
}

type createSchoolRequest struct {
	Name string `json:"org_name" validate:"required"`
}

type schoolView struct {
	SchoolID string `json:"school_id"`
	Name     string `json:"org_name"`
}

func (h *SchoolsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSchoolRequest
	if !decodeJSON(w, r, h.env, &req) {
		return
	}

	school, err := h.service.Create(r.Context(), req.Name)
	if err != nil {
		var filterErr schools.FilterError
		switch {
		case errors.Is(err, schools.ErrNameTaken):
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "School name already exists", err, h.env)
		case errors.As(err, &filterErr):
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message":   "School added",
		"school_id": school.ID,
	})
}

func (h *SchoolsHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.List(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		return
	}

	out := make([]schoolView, 0, len(all))
	for _, school := range all {
		out = append(out, schoolView{SchoolID: school.ID, Name: school.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

type renameSchoolRequest struct {
	Name string `json:"org_name"`
}

func (h *SchoolsHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	var req renameSchoolRequest
	if !decodeJSON(w, r, h.env, &req) {
		return
	}

	if err := h.service.Rename(r.Context(), id, req.Name); err != nil {
		switch {
		case errors.Is(err, schools.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "School not found", err, h.env)
		case errors.Is(err, schools.ErrNameTaken):
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "School name already exists", err, h.env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "School updated"})
}

// Count reports the total number of schools across all tenants.
func (h *SchoolsHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Count(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"school_count": count})
}
