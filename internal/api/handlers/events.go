package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/api/problem"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/events"
)

type EventsHandler struct {
	service *events.Service
	env     string
}

func NewEventsHandler(service *events.Service, env string) *EventsHandler {
	return &EventsHandler{service: service, env: env}
}

type createEventRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	EventType string `json:"event_type" validate:"required"`
	Timestamp string `json:"timestamp"`
	CameraID  string `json:"camera_id"`
}

type eventView struct {
	EventID     string `json:"event_id"`
	Timestamp   string `json:"timestamp"`
	EventType   string `json:"event_type"`
	CameraID    string `json:"camera_id,omitempty"`
	StudentName string `json:"student_name"`
}

func toEventViews(views []events.View) []eventView {
	out := make([]eventView, 0, len(views))
	for _, v := range views {
		out = append(out, eventView{
			EventID:     v.EventID,
			Timestamp:   v.Timestamp.UTC().Format(time.RFC3339),
			EventType:   string(v.Type),
			CameraID:    v.CameraID,
			StudentName: v.StudentName,
		})
	}
	return out
}

// Create records a detection for a student of the caller's school.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r, h.env)
	if !ok {
		return
	}

	var req createEventRequest
	if !decodeJSON(w, r, h.env, &req) {
		return
	}

	params := events.CreateParams{
		StudentID: req.StudentID,
		RawType:   req.EventType,
		CameraID:  req.CameraID,
	}
	if req.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid timestamp", err, h.env)
			return
		}
		params.Timestamp = &ts
	}

	event, err := h.service.Create(r.Context(), account.SchoolID, params)
	if err != nil {
		var invalidType events.InvalidEventTypeError
		switch {
		case errors.Is(err, events.ErrStudentNotFound):
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Student not found", err, h.env,
				problem.WithDetail("Student not found in this school"))
		case errors.As(err, &invalidType):
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid event type", err, h.env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message":  "Event added",
		"event_id": event.ID,
	})
}

type listFunc func(ctx context.Context, schoolID string) ([]events.View, error)

func (h *EventsHandler) list(w http.ResponseWriter, r *http.Request, fetch listFunc) {
	account, ok := currentAccount(w, r, h.env)
	if !ok {
		return
	}

	views, err := fetch(r.Context(), account.SchoolID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, toEventViews(views))
}

func (h *EventsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListAll)
}

func (h *EventsHandler) ListEntrance(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListEntrance)
}

func (h *EventsHandler) ListExit(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListExit)
}

func (h *EventsHandler) ListDanger(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListDanger)
}

func (h *EventsHandler) ListLying(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListLying)
}

func (h *EventsHandler) ListIrrelevant(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListIrrelevant)
}

func (h *EventsHandler) Count(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r, h.env)
	if !ok {
		return
	}

	count, err := h.service.Count(r.Context(), account.SchoolID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"event_count": count})
}

// Weekly responds with the raw seven-bucket histogram, Monday first.
func (h *EventsHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r, h.env)
	if !ok {
		return
	}

	buckets, err := h.service.Weekly(r.Context(), account.SchoolID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}
