package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/mete/schoolhub/internal/app/models/dto"
)

var validate = validator.New()

// BindJSONStrict decodes the request body into obj, rejecting unknown fields,
// then runs struct validation. On failure it writes the validation envelope
// and returns false.
func BindJSONStrict(c *gin.Context, obj interface{}) bool {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(obj); err != nil {
		message := "Invalid request body"
		if strings.Contains(err.Error(), "unknown field") {
			message = "Request contains unknown fields"
		}
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(message, err.Error()))
		return false
	}

	if err := validate.Struct(obj); err != nil {
		var validationErrors validator.ValidationErrors
		fieldErrors := make([]dto.FieldError, 0)
		if errors.As(err, &validationErrors) {
			for _, fieldErr := range validationErrors {
				fieldErrors = append(fieldErrors, dto.FieldError{
					Field:   fieldErr.Field(),
					Message: formatValidationError(fieldErr),
				})
			}
		}
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(fieldErrors))
		return false
	}
	return true
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "datetime":
		return e.Field() + " must match the format " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
