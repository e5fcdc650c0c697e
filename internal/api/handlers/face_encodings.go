package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/api/problem"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/faces"
)

// maxEncodingUpload caps the multipart payload for an embedding blob.
const maxEncodingUpload = 10 << 20

type FacesHandler struct {
	service *faces.Service
	env     string
}

func NewFacesHandler(service *faces.Service, env string) *FacesHandler {
	return &FacesHandler{service: service, env: env}
}

// Create accepts a multipart form with a user_id field and a file part
// holding the serialized embedding.
func (h *FacesHandler) Create(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r, h.env)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxEncodingUpload); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid multipart payload", err, h.env)
		return
	}

	userID := r.FormValue("user_id")
	if userID == "" {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Missing user_id", nil, h.env,
			problem.WithDetail("user_id form field is required"))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "No file provided", err, h.env)
		return
	}
	defer file.Close()

	blob, err := io.ReadAll(io.LimitReader(file, maxEncodingUpload))
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Unreadable file", err, h.env)
		return
	}

	encoding, err := h.service.Add(r.Context(), account.SchoolID, userID, blob)
	if err != nil {
		switch {
		case errors.Is(err, faces.ErrUserNotFound):
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "User not found", err, h.env)
		case errors.Is(err, faces.ErrWrongSchool):
			problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Permission denied", err, h.env,
				problem.WithDetail("User belongs to another organization"))
		case errors.Is(err, faces.ErrEmptyEmbedding):
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Empty file", err, h.env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message":     "Face encoding added successfully",
		"encoding_id": encoding.ID,
	})
}

// List returns names of the school's users that have encodings on file. An
// empty set is a 404, not an empty list.
func (h *FacesHandler) List(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r, h.env)
	if !ok {
		return
	}

	names, err := h.service.ListUserNames(r.Context(), account.SchoolID)
	if err != nil {
		if errors.Is(err, faces.ErrNoEncodings) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "No encodings found", err, h.env,
				problem.WithDetail("No users with encodings found for this organization"))
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"users": names})
}
