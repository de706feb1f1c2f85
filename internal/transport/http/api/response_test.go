package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrrecords/internal/domain/identity"
	"hrrecords/internal/platform/db"
	"hrrecords/internal/platform/storage"
	"hrrecords/internal/platform/validate"
)

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"requestId"`
	Error     *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Fields []validate.Issue `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestSuccessOmitsNilData(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, nil, "req-1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"requestId":"req-1"}`, rec.Body.String())
}

func TestAcknowledge(t *testing.T) {
	rec := httptest.NewRecorder()
	Acknowledge(rec, "")
	assert.JSONEq(t, `{"success":true,"data":{"success":true}}`, rec.Body.String())
}

func TestWriteError(t *testing.T) {
	v := validate.New()
	v.Required("firstName", "")

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"validation", v.Err(), http.StatusBadRequest, "validation_error", "invalid input"},
		{"unauthenticated", identity.ErrUnauthenticated, http.StatusUnauthorized, "unauthorized", identity.ErrUnauthenticated.Error()},
		{"forbidden", identity.ErrForbidden, http.StatusForbidden, "forbidden", identity.ErrForbidden.Error()},
		{"database", fmt.Errorf("wrapped: %w", db.ErrUnavailable), http.StatusServiceUnavailable, "database_unavailable", "Database not available"},
		{"storage", fmt.Errorf("store document: %w", storage.ErrUnavailable), http.StatusServiceUnavailable, "storage_unavailable", storage.ErrUnavailable.Error()},
		{"other", errors.New("boom"), http.StatusInternalServerError, "employee_create_failed", "failed to create employee"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err, "employee_create_failed", "failed to create employee", "req-9")
			assert.Equal(t, tt.status, rec.Code)
			env := decode(t, rec)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.Equal(t, tt.message, env.Error.Message)
			assert.Equal(t, "req-9", env.RequestID)
		})
	}
}

func TestValidationDetailsNameFields(t *testing.T) {
	v := validate.New()
	v.Required("lastName", "")
	v.Enum("status", "retired", []string{"active"})

	rec := httptest.NewRecorder()
	WriteError(rec, v.Err(), "x", "y", "")
	env := decode(t, rec)
	require.Len(t, env.Error.Details.Fields, 2)
	assert.Equal(t, "lastName", env.Error.Details.Fields[0].Field)
	assert.Equal(t, "status", env.Error.Details.Fields[1].Field)
}
