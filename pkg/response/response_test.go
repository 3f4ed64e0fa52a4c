package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, "Created", map[string]int{"id": 7})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "Created", body.Message)
	assert.Equal(t, map[string]interface{}{"id": float64(7)}, body.Data)
}

func TestErrorHelpersUseDefaults(t *testing.T) {
	cases := []struct {
		write   func(http.ResponseWriter)
		code    int
		message string
	}{
		{func(w http.ResponseWriter) { Unauthorized(w, "") }, http.StatusUnauthorized, "Unauthorized"},
		{func(w http.ResponseWriter) { NotFound(w, "") }, http.StatusNotFound, "Resource not found"},
		{func(w http.ResponseWriter) { Conflict(w, "") }, http.StatusConflict, "Conflict"},
		{func(w http.ResponseWriter) { TooManyRequests(w, "") }, http.StatusTooManyRequests, "Too many requests"},
		{func(w http.ResponseWriter) { Forbidden(w, "") }, http.StatusForbidden, "Forbidden"},
		{func(w http.ResponseWriter) { InternalServerError(w, "") }, http.StatusInternalServerError, "Internal server error"},
		{func(w http.ResponseWriter) { UnprocessableEntity(w, "bad transition") }, http.StatusUnprocessableEntity, "bad transition"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		tc.write(rec)
		assert.Equal(t, tc.code, rec.Code)
		body := decode(t, rec)
		assert.False(t, body.Success)
		assert.Equal(t, tc.message, body.Message)
	}
}

func TestNewMeta(t *testing.T) {
	assert.Equal(t, &Meta{Page: 2, Limit: 20, Total: 41, TotalPages: 3}, NewMeta(2, 20, 41))
	assert.Equal(t, 0, NewMeta(1, 20, 0).TotalPages)
	assert.Equal(t, 1, NewMeta(1, 0, 5).TotalPages)
}
