package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/chama/internal/apperror"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind apperror.Kind
		want int
	}{
		{kind: apperror.KindNotFound, want: http.StatusNotFound},
		{kind: apperror.KindConflict, want: http.StatusConflict},
		{kind: apperror.KindInsufficientFunds, want: http.StatusBadRequest},
		{kind: apperror.KindValidation, want: http.StatusBadRequest},
		{kind: apperror.KindUnauthenticated, want: http.StatusUnauthorized},
		{kind: apperror.KindResourceExhausted, want: http.StatusServiceUnavailable},
		{kind: apperror.KindStorage, want: http.StatusInternalServerError},
		{kind: "unknown", want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.kind))
		})
	}
}

func TestError_HidesStorageCause(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	Error(rec, req, errors.New("pq: relation members does not exist"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, statusError, body.Status)
	assert.Equal(t, "internal error", body.Message)
}
