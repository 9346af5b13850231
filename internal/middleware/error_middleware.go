package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mete/schoolhub/internal/app/models/dto"
	"github.com/mete/schoolhub/internal/pkg/apperrors"
	"github.com/mete/schoolhub/internal/pkg/logger"
)

// HandleAPIError maps service errors to HTTP responses. Raw database errors
// never reach the caller.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	// 404
	case errors.Is(err, apperrors.ErrFeedbackNotFound):
		respond(c, http.StatusNotFound, "Feedback not found", err)
	case errors.Is(err, apperrors.ErrTimetableNotFound):
		respond(c, http.StatusNotFound, "Timetable entry not found", err)
	case errors.Is(err, apperrors.ErrExamNotFound):
		respond(c, http.StatusNotFound, "Exam not found", err)
	case errors.Is(err, apperrors.ErrFeeNotFound):
		respond(c, http.StatusNotFound, "Fee structure not found", err)
	case errors.Is(err, apperrors.ErrNoPaymentsFound):
		respond(c, http.StatusNotFound, "No payments found for this student", err)
	case errors.Is(err, apperrors.ErrEventNotFound):
		respond(c, http.StatusNotFound, "Event not found", err)
	case errors.Is(err, apperrors.ErrParticipantNotFound):
		respond(c, http.StatusNotFound, "Participant not found", err)
	case errors.Is(err, apperrors.ErrUserNotFound):
		respond(c, http.StatusNotFound, "User not found", err)
	case errors.Is(err, apperrors.ErrResourceNotFound):
		respond(c, http.StatusNotFound, messageOf(err, "Resource not found"), err)

	// 400 with the messages clients depend on
	case errors.Is(err, apperrors.ErrSchedulingConflict):
		respond(c, http.StatusBadRequest, "Scheduling conflict detected", err)
	case errors.Is(err, apperrors.ErrDuplicateResult):
		respond(c, http.StatusBadRequest, "Result already exists for this student", err)
	case errors.Is(err, apperrors.ErrAlreadyRegistered):
		respond(c, http.StatusBadRequest, "Already registered for this event", err)
	case errors.Is(err, apperrors.ErrRegistrationClosed):
		respond(c, http.StatusBadRequest, "Registration deadline has passed", err)
	case errors.Is(err, apperrors.ErrEventFull):
		respond(c, http.StatusBadRequest, "Event has reached maximum participants", err)
	case errors.Is(err, apperrors.ErrRoleNotEligible):
		respond(c, http.StatusBadRequest, "Your role is not eligible for this event", err)
	case errors.Is(err, apperrors.ErrResponseRequired):
		respond(c, http.StatusBadRequest, "Cannot rate feedback without a teacher response", err)
	case errors.Is(err, apperrors.ErrInvalidRatingScore):
		respond(c, http.StatusBadRequest, "Rating score must be between 1 and 5", err)
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		respond(c, http.StatusBadRequest, messageOf(err, "Validation failed"), err)

	// 401 / 403 / 409
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, "Invalid credentials", err)
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, "Token expired", err)
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respond(c, http.StatusUnauthorized, "Invalid token", err)
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, messageOf(err, "Permission denied"), err)
	case errors.Is(err, apperrors.ErrConflict):
		respond(c, http.StatusConflict, messageOf(err, "Resource already exists"), err)

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		c.JSON(http.StatusInternalServerError,
			dto.NewErrorResponse("Internal server error", err.Error()))
	}
}

func respond(c *gin.Context, status int, message string, err error) {
	c.JSON(status, dto.NewErrorResponse(message, err.Error()))
}

// messageOf prefers the wrapped CustomError message when one was attached.
func messageOf(err error, fallback string) string {
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) && customErr.Message != "" {
		return customErr.Message
	}
	return fallback
}
