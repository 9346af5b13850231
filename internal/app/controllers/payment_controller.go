package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mete/schoolhub/internal/app/models/dto"
	"github.com/mete/schoolhub/internal/app/services"
	"github.com/mete/schoolhub/internal/middleware"
	"github.com/mete/schoolhub/internal/pkg/helpers"
)

// PaymentController handles fee and payment operations
type PaymentController struct {
	paymentService services.PaymentService
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(paymentService services.PaymentService) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

// CreateFee handles POST /api/payments/fees
func (c *PaymentController) CreateFee(ctx *gin.Context) {
	var req dto.CreateFeeStructureRequest
	if !middleware.BindJSONStrict(ctx, &req) {
		return
	}

	fee, err := c.paymentService.CreateFee(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewMessageResponse("Fee structure created", fee))
}

// GetFees handles GET /api/payments/fees
func (c *PaymentController) GetFees(ctx *gin.Context) {
	courseID, ok := parseOptionalIDQuery(ctx, "courseId")
	if !ok {
		return
	}
	fees, err := c.paymentService.GetFees(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewDataResponse(fees))
}

// RecordPayment handles POST /api/payments
func (c *PaymentController) RecordPayment(ctx *gin.Context) {
	var req dto.RecordPaymentRequest
	if !middleware.BindJSONStrict(ctx, &req) {
		return
	}

	payment, err := c.paymentService.RecordPayment(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewMessageResponse("Payment recorded successfully", payment))
}

// ListPayments handles GET /api/payments
func (c *PaymentController) ListPayments(ctx *gin.Context) {
	studentID, ok := parseOptionalIDQuery(ctx, "studentId")
	if !ok {
		return
	}
	page, limit := helpers.ParsePaginationParams(ctx)

	payments, pagination, err := c.paymentService.ListPayments(ctx, studentID, ctx.Query("status"), page, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(payments, pagination))
}

// GetStudentPayments handles GET /api/payments/student/:id
func (c *PaymentController) GetStudentPayments(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	payments, err := c.paymentService.GetStudentPayments(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewDataResponse(payments))
}

// GetOutstandingFees handles GET /api/payments/outstanding. The
// reconciliation spans all payers, optionally restricted to one course.
func (c *PaymentController) GetOutstandingFees(ctx *gin.Context) {
	courseID, ok := parseOptionalIDQuery(ctx, "courseId")
	if !ok {
		return
	}

	outstanding, err := c.paymentService.GetOutstandingFees(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewDataResponse(outstanding))
}
