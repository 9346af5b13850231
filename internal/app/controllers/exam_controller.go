package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mete/schoolhub/internal/app/models/dto"
	"github.com/mete/schoolhub/internal/app/services"
	"github.com/mete/schoolhub/internal/middleware"
)

// ExamController handles exam operations
type ExamController struct {
	examService services.ExamService
}

// NewExamController creates a new ExamController
func NewExamController(examService services.ExamService) *ExamController {
	return &ExamController{examService: examService}
}

// CreateExam handles POST /api/exam
func (c *ExamController) CreateExam(ctx *gin.Context) {
	var req dto.CreateExamRequest
	if !middleware.BindJSONStrict(ctx, &req) {
		return
	}

	exam, err := c.examService.CreateExam(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewMessageResponse("Exam scheduled successfully", exam))
}

// ListExams handles GET /api/exam
func (c *ExamController) ListExams(ctx *gin.Context) {
	courseID, ok := parseOptionalIDQuery(ctx, "courseId")
	if !ok {
		return
	}
	date, ok := parseOptionalDateQuery(ctx, "date")
	if !ok {
		return
	}

	exams, err := c.examService.ListExams(ctx, courseID, date)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewDataResponse(exams))
}

// GetExamByID handles GET /api/exam/:id
func (c *ExamController) GetExamByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	exam, err := c.examService.GetExamByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewDataResponse(exam))
}

// UpdateExam handles PUT /api/exam/:id
func (c *ExamController) UpdateExam(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateExamRequest
	if !middleware.BindJSONStrict(ctx, &req) {
		return
	}

	exam, err := c.examService.UpdateExam(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Exam updated successfully", exam))
}

// DeleteExam handles DELETE /api/exam/:id
func (c *ExamController) DeleteExam(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.examService.DeleteExam(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Exam and its results deleted", nil))
}

// AddResult handles POST /api/exam/:id/results
func (c *ExamController) AddResult(ctx *gin.Context) {
	examID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.AddExamResultRequest
	if !middleware.BindJSONStrict(ctx, &req) {
		return
	}

	result, err := c.examService.AddResult(ctx, examID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewMessageResponse("Result recorded successfully", result))
}

// GetExamResults handles GET /api/exam/:id/results
func (c *ExamController) GetExamResults(ctx *gin.Context) {
	examID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	results, err := c.examService.GetExamResults(ctx, examID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewDataResponse(results))
}

// GetStudentResults handles GET /api/exam/results/student/:studentId
func (c *ExamController) GetStudentResults(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}
	results, err := c.examService.GetStudentResults(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewDataResponse(results))
}
