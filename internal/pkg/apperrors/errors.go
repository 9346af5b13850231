package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Feedback errors
var (
	ErrFeedbackNotFound   = errors.New("feedback not found")
	ErrResponseRequired   = errors.New("cannot rate feedback without teacher response")
	ErrInvalidRatingScore = errors.New("rating score must be between 1 and 5")
)

// Scheduling errors
var (
	ErrTimetableNotFound  = errors.New("timetable entry not found")
	ErrSchedulingConflict = errors.New("scheduling conflict detected")
	ErrExamNotFound       = errors.New("exam not found")
	ErrDuplicateResult    = errors.New("result already exists for this student")
)

// Payment errors
var (
	ErrFeeNotFound     = errors.New("fee structure not found")
	ErrNoPaymentsFound = errors.New("no payments found for student")
)

// Event errors
var (
	ErrEventNotFound       = errors.New("event not found")
	ErrAlreadyRegistered   = errors.New("already registered for this event")
	ErrRegistrationClosed  = errors.New("registration deadline has passed")
	ErrEventFull           = errors.New("event has reached maximum participants")
	ErrRoleNotEligible     = errors.New("role is not eligible for this event")
	ErrParticipantNotFound = errors.New("participant not found")
)

// User errors
var (
	ErrUserNotFound = errors.New("user not found")
)

// NewNotFoundError creates a custom error for a missing resource with a message
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewForbiddenError creates a custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a custom error for a failed input check with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements the errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with an underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
