package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/todo-reminder/internal/api/shared"
	"github.com/phrazzld/todo-reminder/internal/domain"
	"github.com/phrazzld/todo-reminder/internal/service"
	"github.com/phrazzld/todo-reminder/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty task", domain.ErrEmptyTask, http.StatusBadRequest},
		{"past date", domain.ErrPastDate, http.StatusBadRequest},
		{"invalid date", domain.ErrInvalidDate, http.StatusBadRequest},
		{"invalid time", domain.ErrInvalidTime, http.StatusBadRequest},
		{"validation error", domain.NewValidationError("id", "has invalid format", domain.ErrInvalidFormat), http.StatusBadRequest},
		{"invalid entity", store.NewStoreError("reminder", "create", "rejected", store.ErrInvalidEntity), http.StatusBadRequest},
		{"service not found", service.ErrReminderNotFound, http.StatusNotFound},
		{"store not found", fmt.Errorf("wrapped: %w", store.ErrReminderNotFound), http.StatusNotFound},
		{"service error", &service.ServiceError{Operation: "tick", Message: "failed", Err: errors.New("locked")}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"empty task", domain.ErrEmptyTask, "Task cannot be empty"},
		{"past date", fmt.Errorf("add: %w", domain.ErrPastDate), "Date cannot be in the past"},
		{"invalid date", domain.ErrInvalidDate, "Date must use the YYYY-MM-DD format"},
		{"invalid time", domain.ErrInvalidTime, "Time must use the HH:MM 24-hour format"},
		{"not found", service.ErrReminderNotFound, "Task not found"},
		{"invalid entity", store.ErrInvalidEntity, "Invalid task data"},
		{"field validation", domain.NewValidationError("id", "has invalid format", domain.ErrInvalidFormat), "Invalid id: has invalid format"},
		{"bare validation", domain.ErrValidation, "Validation error"},
		{"internal details hidden", errors.New("pq: password authentication failed for user app"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		fallback    string
		wantStatus  int
		wantMessage string
	}{
		{"client error ignores fallback", domain.ErrEmptyTask, "Failed to add task", http.StatusBadRequest, "Task cannot be empty"},
		{"server error uses fallback", errors.New("disk full"), "Failed to add task", http.StatusInternalServerError, "Failed to add task"},
		{"server error without fallback", errors.New("disk full"), "", http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleAPIError(w, httptest.NewRequest(http.MethodPost, "/add-task", nil), tc.err, tc.fallback)

			assert.Equal(t, tc.wantStatus, w.Code)
			var resp shared.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantMessage, resp.Error)
			assert.NotContains(t, w.Body.String(), "disk full")
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	type sample struct {
		Task      string `validate:"max=3"`
		ReturnURL string `validate:"omitempty,url"`
	}
	v := validator.New()

	err := v.Struct(sample{Task: "too long"})
	require.Error(t, err)
	assert.Equal(t, "Invalid Task: too long", SanitizeValidationError(err))

	err = v.Struct(sample{ReturnURL: "nope"})
	require.Error(t, err)
	assert.Equal(t, "Invalid ReturnURL: invalid URL", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
