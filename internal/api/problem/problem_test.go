package problem

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteDevelopmentExposesDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/events/all", nil)
	res := httptest.NewRecorder()

	Write(res, req, http.StatusNotFound, TypeNotFound, "Not found", errors.New("event missing"), "development")

	require.Equal(t, http.StatusNotFound, res.Code)
	require.Equal(t, "application/problem+json", res.Header().Get("Content-Type"))

	var p ProblemDetails
	require.NoError(t, json.NewDecoder(res.Body).Decode(&p))
	require.Equal(t, TypeNotFound, p.Type)
	require.Equal(t, "event missing", p.Detail)
	require.Equal(t, "/events/all", p.Instance)
}

func TestWriteProductionHidesDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/events/all", nil)
	res := httptest.NewRecorder()

	Write(res, req, http.StatusInternalServerError, TypeServerError, "Server error", errors.New("pq: connection refused"), "production")

	var p ProblemDetails
	require.NoError(t, json.NewDecoder(res.Body).Decode(&p))
	require.Equal(t, http.StatusText(http.StatusInternalServerError), p.Detail)
}

func TestWriteHonorsExplicitDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/face_encodings", nil)
	res := httptest.NewRecorder()

	Write(res, req, http.StatusNotFound, TypeNotFound, "Not found", nil, "production",
		WithDetail("no users with encodings found for this organization"))

	var p ProblemDetails
	require.NoError(t, json.NewDecoder(res.Body).Decode(&p))
	require.Equal(t, "no users with encodings found for this organization", p.Detail)
}
