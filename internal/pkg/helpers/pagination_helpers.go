package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mete/schoolhub/internal/app/models/dto"
)

const (
	// DefaultPage is the default page number
	DefaultPage = 1
	// DefaultPageSize is the default number of items per page
	DefaultPageSize = 10
	// MaxPageSize is the maximum number of items per page
	MaxPageSize = 100
)

// ParsePaginationParams reads page and limit query parameters with bounds applied.
func ParsePaginationParams(c *gin.Context) (page, limit int) {
	page = DefaultPage
	limit = DefaultPageSize

	if v := c.Query("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
			if limit > MaxPageSize {
				limit = MaxPageSize
			}
		}
	}
	return page, limit
}

// CalculateOffset converts page and limit into a row offset.
func CalculateOffset(page, limit int) int {
	return (page - 1) * limit
}

// NewPagination builds the pagination envelope for a result page.
// Total is the number of pages; Count is the number of items on this page.
func NewPagination(totalItems int64, page, limit, count int) dto.Pagination {
	totalPages := int(totalItems / int64(limit))
	if totalItems%int64(limit) != 0 {
		totalPages++
	}
	return dto.Pagination{
		Current:    page,
		Total:      totalPages,
		Count:      count,
		TotalItems: totalItems,
	}
}
