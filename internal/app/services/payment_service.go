package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mete/schoolhub/internal/app/models"
	"github.com/mete/schoolhub/internal/app/models/dto"
	"github.com/mete/schoolhub/internal/app/repositories"
	"github.com/mete/schoolhub/internal/pkg/apperrors"
	"github.com/mete/schoolhub/internal/pkg/helpers"
)

// feeDateLayout is the wire format of fee due dates.
const feeDateLayout = "2006-01-02"

// PaymentStore is the persistence surface the payment service depends on.
type PaymentStore interface {
	CreateFee(ctx context.Context, fee *models.FeeStructure) (int64, error)
	GetFeeByID(ctx context.Context, id int64) (*models.FeeStructure, error)
	GetFees(ctx context.Context, courseID *int64) ([]*models.FeeStructure, error)
	CreatePayment(ctx context.Context, payment *models.Payment) (int64, error)
	GetPaymentByID(ctx context.Context, id int64) (*models.Payment, error)
	ListPayments(ctx context.Context, params repositories.PaymentListParams) ([]*models.Payment, int64, error)
	GetPaymentsByStudent(ctx context.Context, studentID int64) ([]*models.Payment, error)
	GetPaidTotalsByFee(ctx context.Context) (map[int64]float64, error)
}

// PaymentService defines the interface for fee and payment operations
type PaymentService interface {
	CreateFee(ctx context.Context, req *dto.CreateFeeStructureRequest) (*models.FeeStructure, error)
	GetFees(ctx context.Context, courseID *int64) ([]*models.FeeStructure, error)
	RecordPayment(ctx context.Context, req *dto.RecordPaymentRequest) (*models.Payment, error)
	ListPayments(ctx context.Context, studentID *int64, status string, page, limit int) ([]*models.Payment, dto.Pagination, error)
	GetStudentPayments(ctx context.Context, studentID int64) ([]*models.Payment, error)
	GetOutstandingFees(ctx context.Context, courseID *int64) ([]dto.OutstandingFee, error)
}

// paymentServiceImpl implements PaymentService
type paymentServiceImpl struct {
	paymentRepo PaymentStore
	courseRepo  CourseStore
	userRepo    UserStore
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo PaymentStore, courseRepo CourseStore, userRepo UserStore) PaymentService {
	return &paymentServiceImpl{
		paymentRepo: paymentRepo,
		courseRepo:  courseRepo,
		userRepo:    userRepo,
	}
}

// CreateFee validates the referenced course and creates a fee structure.
func (s *paymentServiceImpl) CreateFee(ctx context.Context, req *dto.CreateFeeStructureRequest) (*models.FeeStructure, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("error getting course: %w", err)
	}
	if course == nil {
		return nil, apperrors.NewNotFoundError("Course not found")
	}

	dueDate, err := time.Parse(feeDateLayout, req.DueDate)
	if err != nil {
		return nil, apperrors.NewValidationError("dueDate must be in YYYY-MM-DD format")
	}

	fee := &models.FeeStructure{
		CourseID:    req.CourseID,
		FeeType:     models.FeeType(req.FeeType),
		Amount:      req.Amount,
		DueDate:     dueDate,
		Description: req.Description,
	}
	id, err := s.paymentRepo.CreateFee(ctx, fee)
	if err != nil {
		return nil, fmt.Errorf("error creating fee structure: %w", err)
	}

	created, err := s.paymentRepo.GetFeeByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting fee structure: %w", err)
	}
	return created, nil
}

// GetFees retrieves fee structures, optionally restricted to one course.
func (s *paymentServiceImpl) GetFees(ctx context.Context, courseID *int64) ([]*models.FeeStructure, error) {
	fees, err := s.paymentRepo.GetFees(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error getting fee structures: %w", err)
	}
	return fees, nil
}

// RecordPayment records a settled payment against a fee. Payments are always
// stored as Paid with paidAt stamped server-side, and a transaction id is
// generated when the request omits one.
func (s *paymentServiceImpl) RecordPayment(ctx context.Context, req *dto.RecordPaymentRequest) (*models.Payment, error) {
	student, err := s.userRepo.GetUserByID(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	if student == nil || student.Role != models.RoleStudent {
		return nil, apperrors.NewNotFoundError("Student not found")
	}

	fee, err := s.paymentRepo.GetFeeByID(ctx, req.FeeID)
	if err != nil {
		return nil, fmt.Errorf("error getting fee structure: %w", err)
	}
	if fee == nil {
		return nil, apperrors.ErrFeeNotFound
	}

	transactionID := req.TransactionID
	if transactionID == "" {
		transactionID = "TXN-" + uuid.New().String()
	}

	now := time.Now()
	payment := &models.Payment{
		StudentID:     req.StudentID,
		FeeID:         req.FeeID,
		Amount:        req.Amount,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		TransactionID: transactionID,
		Status:        models.PaymentPaid,
		Notes:         req.Notes,
		PaidAt:        &now,
	}
	id, err := s.paymentRepo.CreatePayment(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("error recording payment: %w", err)
	}

	created, err := s.paymentRepo.GetPaymentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting payment: %w", err)
	}
	return created, nil
}

// ListPayments retrieves a filtered page of payments.
func (s *paymentServiceImpl) ListPayments(ctx context.Context, studentID *int64, status string, page, limit int) ([]*models.Payment, dto.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = helpers.DefaultPageSize
	}
	payments, totalItems, err := s.paymentRepo.ListPayments(ctx, repositories.PaymentListParams{
		StudentID: studentID,
		Status:    status,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("error listing payments: %w", err)
	}
	return payments, helpers.NewPagination(totalItems, page, limit, len(payments)), nil
}

// GetStudentPayments retrieves one student's payment history. A student with
// no recorded payments is reported as not found.
func (s *paymentServiceImpl) GetStudentPayments(ctx context.Context, studentID int64) ([]*models.Payment, error) {
	payments, err := s.paymentRepo.GetPaymentsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error getting student payments: %w", err)
	}
	if len(payments) == 0 {
		return nil, apperrors.ErrNoPaymentsFound
	}
	return payments, nil
}

// GetOutstandingFees reports every fee whose Paid payments, summed across
// all payers, fall short of the expected amount. Fully settled fees are
// omitted.
func (s *paymentServiceImpl) GetOutstandingFees(ctx context.Context, courseID *int64) ([]dto.OutstandingFee, error) {
	fees, err := s.paymentRepo.GetFees(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error getting fee structures: %w", err)
	}
	paidTotals, err := s.paymentRepo.GetPaidTotalsByFee(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting paid totals: %w", err)
	}

	outstanding := make([]dto.OutstandingFee, 0)
	for _, fee := range fees {
		paid := paidTotals[fee.ID]
		if paid >= fee.Amount {
			continue
		}
		outstanding = append(outstanding, dto.OutstandingFee{
			Fee:               fee,
			ExpectedAmount:    fee.Amount,
			PaidAmount:        paid,
			OutstandingAmount: fee.Amount - paid,
		})
	}
	return outstanding, nil
}
