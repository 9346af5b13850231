package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mete/schoolhub/internal/app/models/dto"
	"github.com/mete/schoolhub/internal/pkg/apperrors"
)

func handleError(err error) (*httptest.ResponseRecorder, dto.APIResponse) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/", nil)

	HandleAPIError(c, err)

	var body dto.APIResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"feedback not found", apperrors.ErrFeedbackNotFound, http.StatusNotFound, "Feedback not found"},
		{"exam not found", apperrors.ErrExamNotFound, http.StatusNotFound, "Exam not found"},
		{"no payments", apperrors.ErrNoPaymentsFound, http.StatusNotFound, "No payments found for this student"},
		{"scheduling conflict", apperrors.ErrSchedulingConflict, http.StatusBadRequest, "Scheduling conflict detected"},
		{"duplicate result", apperrors.ErrDuplicateResult, http.StatusBadRequest, "Result already exists for this student"},
		{"already registered", apperrors.ErrAlreadyRegistered, http.StatusBadRequest, "Already registered for this event"},
		{"registration closed", apperrors.ErrRegistrationClosed, http.StatusBadRequest, "Registration deadline has passed"},
		{"event full", apperrors.ErrEventFull, http.StatusBadRequest, "Event has reached maximum participants"},
		{"role not eligible", apperrors.ErrRoleNotEligible, http.StatusBadRequest, "Your role is not eligible for this event"},
		{"rating without response", apperrors.ErrResponseRequired, http.StatusBadRequest, "Cannot rate feedback without a teacher response"},
		{"invalid rating", apperrors.ErrInvalidRatingScore, http.StatusBadRequest, "Rating score must be between 1 and 5"},
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden, "Permission denied"},
		{"conflict", apperrors.ErrConflict, http.StatusConflict, "Resource already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := handleError(tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.NotEmpty(t, body.Error, "the detail carries the underlying error text")
		})
	}
}

func TestHandleAPIErrorWrappedSentinel(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), apperrors.ErrSchedulingConflict)
	rec, body := handleError(wrapped)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Scheduling conflict detected", body.Message)
}

func TestHandleAPIErrorCustomMessage(t *testing.T) {
	rec, body := handleError(apperrors.NewNotFoundError("Course not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Course not found", body.Message)
}

func TestHandleAPIErrorUnknownIs500(t *testing.T) {
	rec, body := handleError(errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body.Message)
}
