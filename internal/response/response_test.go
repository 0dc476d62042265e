package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKWrapsData(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]string{"url": "https://example.test/x"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "https://example.test/x", env.Data["url"])
}

func TestErrorHelpers(t *testing.T) {
	cases := []struct {
		write  func(http.ResponseWriter)
		status int
	}{
		{func(w http.ResponseWriter) { BadRequest(w, "bad") }, http.StatusBadRequest},
		{func(w http.ResponseWriter) { NotFound(w, "missing") }, http.StatusNotFound},
		{func(w http.ResponseWriter) { BadGateway(w, "upstream") }, http.StatusBadGateway},
		{func(w http.ResponseWriter) { UnprocessableEntity(w, "invalid") }, http.StatusUnprocessableEntity},
		{InternalError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		tc.write(rec)

		var env Envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.Equal(t, tc.status, rec.Code)
		assert.False(t, env.Success)
		assert.NotEmpty(t, env.Error)
	}
}
