package models

import "time"

// FeeType classifies a fee structure
type FeeType string

const (
	FeeTuition FeeType = "Tuition"
	FeeLab     FeeType = "Lab"
	FeeLibrary FeeType = "Library"
	FeeSports  FeeType = "Sports"
	FeeEvent   FeeType = "Event"
)

// PaymentMethod is how a payment was made
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "Cash"
	MethodCard         PaymentMethod = "Card"
	MethodBankTransfer PaymentMethod = "Bank Transfer"
	MethodOnline       PaymentMethod = "Online"
)

// PaymentStatus is the settlement state of a payment record
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "Paid"
	PaymentPending PaymentStatus = "Pending"
	PaymentFailed  PaymentStatus = "Failed"
)

// FeeStructure represents one fee expected from students of a course
type FeeStructure struct {
	ID          int64     `json:"id" db:"id"`
	CourseID    int64     `json:"courseId" db:"course_id"`
	FeeType     FeeType   `json:"feeType" db:"fee_type"`
	Amount      float64   `json:"amount" db:"amount"`
	DueDate     time.Time `json:"dueDate" db:"due_date"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	Course *CourseSummary `json:"course,omitempty"`
}

// Payment represents one recorded payment against a fee
type Payment struct {
	ID            int64         `json:"id" db:"id"`
	StudentID     int64         `json:"studentId" db:"student_id"`
	FeeID         int64         `json:"feeId" db:"fee_id"`
	Amount        float64       `json:"amount" db:"amount"`
	PaymentMethod PaymentMethod `json:"paymentMethod" db:"payment_method"`
	TransactionID string        `json:"transactionId,omitempty" db:"transaction_id"`
	Status        PaymentStatus `json:"status" db:"status"`
	Notes         string        `json:"notes,omitempty" db:"notes"`
	PaidAt        *time.Time    `json:"paidAt,omitempty" db:"paid_at"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at"`

	Student *UserSummary  `json:"student,omitempty"`
	Fee     *FeeStructure `json:"fee,omitempty"`
}
