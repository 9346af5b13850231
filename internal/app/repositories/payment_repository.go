package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mete/schoolhub/internal/app/models"
	"github.com/mete/schoolhub/internal/pkg/logger"
)

// PaymentListParams holds the filters and pagination of the payment listing.
type PaymentListParams struct {
	StudentID *int64
	Status    string
	Page      int
	Limit     int
}

// PaymentRepository handles database operations for FeeStructure and Payment.
type PaymentRepository struct {
	DB *pgxpool.Pool
}

// NewPaymentRepository creates a new instance of PaymentRepository.
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) selectFeeQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"fs.id", "fs.course_id", "fs.fee_type", "fs.amount", "fs.due_date",
		"fs.description", "fs.created_at", "fs.updated_at",
		"c.name", "c.code",
	).From("fee_structures fs").
		Join("courses c ON fs.course_id = c.id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanFeeStructure(row pgx.Row) (*models.FeeStructure, error) {
	var fee models.FeeStructure
	var courseName, courseCode string

	err := row.Scan(
		&fee.ID, &fee.CourseID, &fee.FeeType, &fee.Amount, &fee.DueDate,
		&fee.Description, &fee.CreatedAt, &fee.UpdatedAt,
		&courseName, &courseCode,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		logger.Error().Err(err).Msg("Error scanning fee structure")
		return nil, err
	}
	fee.Course = &models.CourseSummary{ID: fee.CourseID, Name: courseName, Code: courseCode}
	return &fee, nil
}

// CreateFee inserts a fee structure and returns its ID.
func (r *PaymentRepository) CreateFee(ctx context.Context, fee *models.FeeStructure) (int64, error) {
	sqlStr, args, err := squirrel.Insert("fee_structures").
		Columns("course_id", "fee_type", "amount", "due_date", "description").
		Values(fee.CourseID, fee.FeeType, fee.Amount, fee.DueDate, fee.Description).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create fee SQL")
		return 0, err
	}

	var id int64
	if err := r.DB.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Msg("Error executing create fee query")
		return 0, err
	}
	return id, nil
}

// GetFeeByID retrieves a single fee structure. Returns nil when no row exists.
func (r *PaymentRepository) GetFeeByID(ctx context.Context, id int64) (*models.FeeStructure, error) {
	sqlStr, args, err := r.selectFeeQuery().Where(squirrel.Eq{"fs.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get fee by ID SQL")
		return nil, err
	}
	return scanFeeStructure(r.DB.QueryRow(ctx, sqlStr, args...))
}

// GetFees retrieves fee structures, optionally restricted to one course,
// ordered by due date.
func (r *PaymentRepository) GetFees(ctx context.Context, courseID *int64) ([]*models.FeeStructure, error) {
	sqlBuilder := r.selectFeeQuery().OrderBy("fs.due_date ASC")
	if courseID != nil {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"fs.course_id": *courseID})
	}
	sqlStr, args, err := sqlBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get fees SQL")
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get fees query")
		return nil, err
	}
	defer rows.Close()

	fees := make([]*models.FeeStructure, 0)
	for rows.Next() {
		fee, err := scanFeeStructure(rows)
		if err != nil {
			return nil, err
		}
		fees = append(fees, fee)
	}
	return fees, rows.Err()
}

func (r *PaymentRepository) selectPaymentQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"p.id", "p.student_id", "p.fee_id", "p.amount", "p.payment_method",
		"p.transaction_id", "p.status", "p.notes", "p.paid_at", "p.created_at", "p.updated_at",
		"s.first_name", "s.last_name", "s.email",
	).From("payments p").
		Join("users s ON p.student_id = s.id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var payment models.Payment
	var studentFirst, studentLast, studentEmail string

	err := row.Scan(
		&payment.ID, &payment.StudentID, &payment.FeeID, &payment.Amount, &payment.PaymentMethod,
		&payment.TransactionID, &payment.Status, &payment.Notes, &payment.PaidAt,
		&payment.CreatedAt, &payment.UpdatedAt,
		&studentFirst, &studentLast, &studentEmail,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		logger.Error().Err(err).Msg("Error scanning payment")
		return nil, err
	}
	payment.Student = &models.UserSummary{ID: payment.StudentID, Name: joinName(studentFirst, studentLast), Email: studentEmail}
	return &payment, nil
}

// CreatePayment inserts a payment record and returns its ID.
func (r *PaymentRepository) CreatePayment(ctx context.Context, payment *models.Payment) (int64, error) {
	sqlStr, args, err := squirrel.Insert("payments").
		Columns("student_id", "fee_id", "amount", "payment_method", "transaction_id", "status", "notes", "paid_at").
		Values(payment.StudentID, payment.FeeID, payment.Amount, payment.PaymentMethod,
			payment.TransactionID, payment.Status, payment.Notes, payment.PaidAt).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create payment SQL")
		return 0, err
	}

	var id int64
	if err := r.DB.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Msg("Error executing create payment query")
		return 0, err
	}
	return id, nil
}

// GetPaymentByID retrieves a single payment. Returns nil when no row exists.
func (r *PaymentRepository) GetPaymentByID(ctx context.Context, id int64) (*models.Payment, error) {
	sqlStr, args, err := r.selectPaymentQuery().Where(squirrel.Eq{"p.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get payment by ID SQL")
		return nil, err
	}
	return scanPayment(r.DB.QueryRow(ctx, sqlStr, args...))
}

// ListPayments retrieves a filtered page of payments and the total count.
func (r *PaymentRepository) ListPayments(ctx context.Context, params PaymentListParams) ([]*models.Payment, int64, error) {
	applyFilters := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		if params.StudentID != nil {
			b = b.Where(squirrel.Eq{"p.student_id": *params.StudentID})
		}
		if params.Status != "" {
			b = b.Where(squirrel.Eq{"p.status": params.Status})
		}
		return b
	}

	countSql, countArgs, err := applyFilters(squirrel.Select("count(*)").From("payments p").
		PlaceholderFormat(squirrel.Dollar)).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building payment count SQL")
		return nil, 0, err
	}

	var totalItems int64
	if err := r.DB.QueryRow(ctx, countSql, countArgs...).Scan(&totalItems); err != nil {
		logger.Error().Err(err).Msg("Error executing payment count query")
		return nil, 0, err
	}
	if totalItems == 0 {
		return []*models.Payment{}, 0, nil
	}

	sqlStr, args, err := applyFilters(r.selectPaymentQuery()).
		OrderBy("p.created_at DESC").
		Limit(uint64(params.Limit)).
		Offset(uint64((params.Page - 1) * params.Limit)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list payments SQL")
		return nil, 0, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list payments query")
		return nil, 0, err
	}
	defer rows.Close()

	payments := make([]*models.Payment, 0, params.Limit)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, payment)
	}
	return payments, totalItems, rows.Err()
}

// GetPaymentsByStudent retrieves every payment of one student, newest first.
func (r *PaymentRepository) GetPaymentsByStudent(ctx context.Context, studentID int64) ([]*models.Payment, error) {
	sqlStr, args, err := r.selectPaymentQuery().
		Where(squirrel.Eq{"p.student_id": studentID}).
		OrderBy("p.created_at DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get payments by student SQL")
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get payments by student query")
		return nil, err
	}
	defer rows.Close()

	payments := make([]*models.Payment, 0)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// GetPaidTotalsByFee sums all Paid payments grouped by fee, regardless of
// who paid.
func (r *PaymentRepository) GetPaidTotalsByFee(ctx context.Context) (map[int64]float64, error) {
	sqlStr, args, err := squirrel.Select("fee_id", "coalesce(sum(amount), 0)").
		From("payments").
		Where(squirrel.Eq{"status": models.PaymentPaid}).
		GroupBy("fee_id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building paid totals SQL")
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing paid totals query")
		return nil, err
	}
	defer rows.Close()

	totals := make(map[int64]float64)
	for rows.Next() {
		var feeID int64
		var total float64
		if err := rows.Scan(&feeID, &total); err != nil {
			logger.Error().Err(err).Msg("Error scanning paid total row")
			return nil, err
		}
		totals[feeID] = total
	}
	return totals, rows.Err()
}
