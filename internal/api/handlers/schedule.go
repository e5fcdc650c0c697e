package handlers

import (
	"net/http"
	"time"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/api/problem"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/schedules"
	"github.com/google/uuid"
)

type ScheduleHandler struct {
	repo schedules.Repository
	env  string
}

func NewScheduleHandler(repo schedules.Repository, env string) *ScheduleHandler {
	return &ScheduleHandler{repo: repo, env: env}
}

type upsertScheduleRequest struct {
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// Upsert replaces the caller's school schedule. Only the time-of-day
// component matters downstream, but full RFC 3339 timestamps are accepted.
func (h *ScheduleHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r, h.env)
	if !ok {
		return
	}

	var req upsertScheduleRequest
	if !decodeJSON(w, r, h.env, &req) {
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid start_time", err, h.env)
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid end_time", err, h.env)
		return
	}
	if schedules.SecondsIntoDay(end) <= schedules.SecondsIntoDay(start) {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid schedule", nil, h.env,
			problem.WithDetail("end_time must be later in the day than start_time"))
		return
	}

	schedule := &schedules.Schedule{
		ID:        uuid.NewString(),
		SchoolID:  account.SchoolID,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
	}
	if err := h.repo.Upsert(r.Context(), schedule); err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Schedule updated"})
}
