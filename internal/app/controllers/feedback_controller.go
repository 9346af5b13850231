package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mete/schoolhub/internal/app/models/dto"
	"github.com/mete/schoolhub/internal/app/services"
	"github.com/mete/schoolhub/internal/middleware"
	"github.com/mete/schoolhub/internal/pkg/helpers"
)

// FeedbackController handles feedback operations
type FeedbackController struct {
	feedbackService services.FeedbackService
}

// NewFeedbackController creates a new FeedbackController
func NewFeedbackController(feedbackService services.FeedbackService) *FeedbackController {
	return &FeedbackController{feedbackService: feedbackService}
}

// CreateFeedback handles POST /api/feedback
func (c *FeedbackController) CreateFeedback(ctx *gin.Context) {
	var req dto.CreateFeedbackRequest
	if !middleware.BindJSONStrict(ctx, &req) {
		return
	}

	feedback, err := c.feedbackService.CreateFeedback(ctx, middleware.CallerID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewMessageResponse("Feedback submitted successfully", feedback))
}

// GetTeacherFeedback handles GET /api/feedback/teacher
func (c *FeedbackController) GetTeacherFeedback(ctx *gin.Context) {
	c.listForTeacher(ctx, middleware.CallerID(ctx))
}

// GetFeedbackForTeacher handles GET /api/feedback/teacher/:teacherId (admin)
func (c *FeedbackController) GetFeedbackForTeacher(ctx *gin.Context) {
	teacherID, ok := parseIDParam(ctx, "teacherId")
	if !ok {
		return
	}
	c.listForTeacher(ctx, teacherID)
}

func (c *FeedbackController) listForTeacher(ctx *gin.Context, teacherID int64) {
	filter := parseFeedbackFilter(ctx)
	items, pagination, err := c.feedbackService.GetTeacherFeedback(ctx, teacherID, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(items, pagination))
}

// GetStudentFeedback handles GET /api/feedback/student
func (c *FeedbackController) GetStudentFeedback(ctx *gin.Context) {
	filter := parseFeedbackFilter(ctx)
	items, pagination, err := c.feedbackService.GetStudentFeedback(ctx, middleware.CallerID(ctx), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(items, pagination))
}

// GetCourseFeedback handles GET /api/feedback/course/:courseId
func (c *FeedbackController) GetCourseFeedback(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}
	filter := parseFeedbackFilter(ctx)
	items, pagination, err := c.feedbackService.GetCourseFeedback(ctx, courseID, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(items, pagination))
}

// GetFeedbackByID handles GET /api/feedback/:id
func (c *FeedbackController) GetFeedbackByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	feedback, err := c.feedbackService.GetFeedbackByID(ctx, id, middleware.CallerID(ctx), middleware.CallerRole(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewDataResponse(feedback))
}

// RespondToFeedback handles POST /api/feedback/:id/respond
func (c *FeedbackController) RespondToFeedback(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.RespondToFeedbackRequest
	if !middleware.BindJSONStrict(ctx, &req) {
		return
	}

	feedback, err := c.feedbackService.RespondToFeedback(ctx, id, middleware.CallerID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Response added successfully", feedback))
}

// UpdateFeedbackStatus handles PATCH /api/feedback/:id/status
func (c *FeedbackController) UpdateFeedbackStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateFeedbackStatusRequest
	if !middleware.BindJSONStrict(ctx, &req) {
		return
	}

	feedback, err := c.feedbackService.UpdateFeedbackStatus(ctx, id, middleware.CallerID(ctx), middleware.CallerRole(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Feedback status updated", feedback))
}

// RateFeedback handles POST /api/feedback/:id/rate
func (c *FeedbackController) RateFeedback(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.RateFeedbackRequest
	if !middleware.BindJSONStrict(ctx, &req) {
		return
	}

	feedback, err := c.feedbackService.RateFeedback(ctx, id, middleware.CallerID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Feedback rated successfully", feedback))
}

// ArchiveFeedback handles PATCH /api/feedback/:id/archive
func (c *FeedbackController) ArchiveFeedback(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.feedbackService.ArchiveFeedback(ctx, id, middleware.CallerID(ctx), middleware.CallerRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Feedback archived", nil))
}

// GetPendingFeedback handles GET /api/feedback/teacher/pending
func (c *FeedbackController) GetPendingFeedback(ctx *gin.Context) {
	items, err := c.feedbackService.GetPendingFeedback(ctx, middleware.CallerID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewDataResponse(items))
}

// GetTeacherStats handles GET /api/feedback/teacher/stats
func (c *FeedbackController) GetTeacherStats(ctx *gin.Context) {
	from, ok := parseOptionalDateQuery(ctx, "startDate")
	if !ok {
		return
	}
	to, ok := parseOptionalDateQuery(ctx, "endDate")
	if !ok {
		return
	}

	stats, err := c.feedbackService.GetTeacherStats(ctx, middleware.CallerID(ctx), from, to)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewDataResponse(stats))
}

// SearchFeedback handles GET /api/feedback/search
func (c *FeedbackController) SearchFeedback(ctx *gin.Context) {
	query := ctx.Query("q")
	if query == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Search query is required", "missing q parameter"))
		return
	}
	page, limit := helpers.ParsePaginationParams(ctx)

	items, pagination, err := c.feedbackService.SearchFeedback(ctx, middleware.CallerID(ctx), middleware.CallerRole(ctx), query, page, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(items, pagination))
}

// GetAnalyticsOverview handles GET /api/feedback/analytics/overview.
// The aggregates span all teachers, optionally bounded by date.
func (c *FeedbackController) GetAnalyticsOverview(ctx *gin.Context) {
	from, ok := parseOptionalDateQuery(ctx, "startDate")
	if !ok {
		return
	}
	to, ok := parseOptionalDateQuery(ctx, "endDate")
	if !ok {
		return
	}

	overview, err := c.feedbackService.GetAnalyticsOverview(ctx, from, to)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewDataResponse(overview))
}

func parseFeedbackFilter(ctx *gin.Context) *dto.FeedbackListFilter {
	page, limit := helpers.ParsePaginationParams(ctx)
	filter := &dto.FeedbackListFilter{
		Status:    ctx.Query("status"),
		Priority:  ctx.Query("priority"),
		Category:  ctx.Query("category"),
		SortBy:    ctx.Query("sortBy"),
		SortOrder: ctx.Query("sortOrder"),
		Page:      page,
		Limit:     limit,
	}
	if courseID, ok := parseOptionalIDQuery(ctx, "courseId"); ok && courseID != nil {
		filter.CourseID = *courseID
	}
	return filter
}
