package handlers

import (
	"errors"
	"net/http"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/api/problem"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/accounts"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/schools"
)

type StudentsHandler struct {
	service *accounts.Service
	env     string
}

func NewStudentsHandler(service *accounts.Service, env string) *StudentsHandler {
	return &StudentsHandler{service: service, env: env}
}

type createStudentRequest struct {
	SchoolID string `json:"organization_id" validate:"required"`
	Name     string `json:"student_name" validate:"required"`
}

type studentView struct {
	StudentID string `json:"student_id"`
	Name      string `json:"student_name"`
}

func (h *StudentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	if !decodeJSON(w, r, h.env, &req) {
		return
	}

	student, err := h.service.CreateStudent(r.Context(), accounts.CreateStudentParams{
		SchoolID: req.SchoolID,
		Name:     req.Name,
	})
	if err != nil {
		var filterErr schools.FilterError
		switch {
		case errors.Is(err, accounts.ErrInvalidSchool):
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid organization", err, h.env)
		case errors.Is(err, accounts.ErrLoginTaken):
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Login already taken", err, h.env)
		case errors.As(err, &filterErr):
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message":      "Student added",
		"student_id":   student.ID,
		"student_name": student.DisplayName,
	})
}

func (h *StudentsHandler) List(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r, h.env)
	if !ok {
		return
	}

	students, err := h.service.ListStudents(r.Context(), account.SchoolID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		return
	}

	out := make([]studentView, 0, len(students))
	for _, student := range students {
		out = append(out, studentView{StudentID: student.ID, Name: student.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *StudentsHandler) Count(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r, h.env)
	if !ok {
		return
	}

	count, err := h.service.CountStudents(r.Context(), account.SchoolID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"student_count": count})
}

// Delete removes a student of the caller's school together with its face
// encodings and subscriptions in one transaction.
func (h *StudentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r, h.env)
	if !ok {
		return
	}

	studentID := pathParam(r, "id")
	if err := h.service.DeleteStudent(r.Context(), account.SchoolID, studentID); err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Student not found", err, h.env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Student deleted successfully"})
}
