package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mete/schoolhub/internal/app/models/dto"
	"github.com/mete/schoolhub/internal/app/repositories"
	"github.com/mete/schoolhub/internal/app/services"
	"github.com/mete/schoolhub/internal/middleware"
)

// TimetableController handles timetable operations
type TimetableController struct {
	timetableService services.TimetableService
}

// NewTimetableController creates a new TimetableController
func NewTimetableController(timetableService services.TimetableService) *TimetableController {
	return &TimetableController{timetableService: timetableService}
}

// CreateEntry handles POST /api/timetables
func (c *TimetableController) CreateEntry(ctx *gin.Context) {
	var req dto.CreateTimetableEntryRequest
	if !middleware.BindJSONStrict(ctx, &req) {
		return
	}

	entry, err := c.timetableService.CreateEntry(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewMessageResponse("Timetable entry created", entry))
}

// ListEntries handles GET /api/timetables
func (c *TimetableController) ListEntries(ctx *gin.Context) {
	params := repositories.TimetableListParams{Day: ctx.Query("day")}
	courseID, ok := parseOptionalIDQuery(ctx, "courseId")
	if !ok {
		return
	}
	teacherID, ok := parseOptionalIDQuery(ctx, "teacherId")
	if !ok {
		return
	}
	params.CourseID = courseID
	params.TeacherID = teacherID

	entries, err := c.timetableService.ListEntries(ctx, params)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewDataResponse(entries))
}

// GetEntryByID handles GET /api/timetables/:id
func (c *TimetableController) GetEntryByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	entry, err := c.timetableService.GetEntryByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewDataResponse(entry))
}

// UpdateEntry handles PUT /api/timetables/:id
func (c *TimetableController) UpdateEntry(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateTimetableEntryRequest
	if !middleware.BindJSONStrict(ctx, &req) {
		return
	}

	entry, err := c.timetableService.UpdateEntry(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Timetable entry updated", entry))
}

// DeleteEntry handles DELETE /api/timetables/:id
func (c *TimetableController) DeleteEntry(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.timetableService.DeleteEntry(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Timetable entry deleted", nil))
}
