package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mete/schoolhub/internal/app/models/dto"
)

// parseIDParam parses a positive integer ID from the request path.
func parseIDParam(ctx *gin.Context, paramName string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(paramName), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest,
			dto.NewErrorResponse("Invalid "+paramName+" parameter", "must be a positive integer"))
		return 0, false
	}
	return id, true
}

// parseOptionalIDQuery parses an optional positive integer query parameter.
func parseOptionalIDQuery(ctx *gin.Context, name string) (*int64, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest,
			dto.NewErrorResponse("Invalid "+name+" parameter", "must be a positive integer"))
		return nil, false
	}
	return &id, true
}

// parseOptionalDateQuery parses an optional YYYY-MM-DD query parameter.
func parseOptionalDateQuery(ctx *gin.Context, name string) (*time.Time, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			dto.NewErrorResponse("Invalid "+name+" parameter", "must be in YYYY-MM-DD format"))
		return nil, false
	}
	return &parsed, true
}
