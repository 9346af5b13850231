package dto

import "github.com/mete/schoolhub/internal/app/models"

// CreateFeeStructureRequest is the body of POST /api/payments/fees
type CreateFeeStructureRequest struct {
	CourseID    int64   `json:"courseId" validate:"required,min=1"`
	FeeType     string  `json:"feeType" validate:"required,oneof=Tuition Lab Library Sports Event"`
	Amount      float64 `json:"amount" validate:"min=0"`
	DueDate     string  `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Description string  `json:"description,omitempty" validate:"omitempty,max=500"`
}

// RecordPaymentRequest is the body of POST /api/payments.
// Status is not accepted from the caller: new payments are always recorded
// as Paid with paidAt stamped server-side.
type RecordPaymentRequest struct {
	StudentID     int64   `json:"studentId" validate:"required,min=1"`
	FeeID         int64   `json:"feeId" validate:"required,min=1"`
	Amount        float64 `json:"amount" validate:"required,min=0"`
	PaymentMethod string  `json:"paymentMethod" validate:"required,oneof=Cash Card 'Bank Transfer' Online"`
	TransactionID string  `json:"transactionId,omitempty" validate:"omitempty,max=100"`
	Notes         string  `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// OutstandingFee is one entry of the outstanding-balance view: a fee whose
// recorded Paid payments sum to less than its amount.
type OutstandingFee struct {
	Fee               *models.FeeStructure `json:"fee"`
	ExpectedAmount    float64              `json:"expectedAmount"`
	PaidAmount        float64              `json:"paidAmount"`
	OutstandingAmount float64              `json:"outstandingAmount"`
}
