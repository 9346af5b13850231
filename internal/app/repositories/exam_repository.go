package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mete/schoolhub/internal/app/models"
	"github.com/mete/schoolhub/internal/db"
	"github.com/mete/schoolhub/internal/pkg/apperrors"
	"github.com/mete/schoolhub/internal/pkg/dberrors"
	"github.com/mete/schoolhub/internal/pkg/logger"
)

// ExamRepository handles database operations for Exam and ExamResult.
type ExamRepository struct {
	DB *pgxpool.Pool
}

// NewExamRepository creates a new instance of ExamRepository.
func NewExamRepository(db *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) selectExamQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"e.id", "e.course_id", "e.title", "e.subject", "e.exam_date",
		"e.start_time", "e.end_time", "e.venue", "e.created_at", "e.updated_at",
		"c.name", "c.code",
	).From("exams e").
		Join("courses c ON e.course_id = c.id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanExam(row pgx.Row) (*models.Exam, error) {
	var exam models.Exam
	var courseName, courseCode string

	err := row.Scan(
		&exam.ID, &exam.CourseID, &exam.Title, &exam.Subject, &exam.ExamDate,
		&exam.StartTime, &exam.EndTime, &exam.Venue, &exam.CreatedAt, &exam.UpdatedAt,
		&courseName, &courseCode,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		logger.Error().Err(err).Msg("Error scanning exam")
		return nil, err
	}
	exam.Course = &models.CourseSummary{ID: exam.CourseID, Name: courseName, Code: courseCode}
	return &exam, nil
}

// CreateExam inserts a new exam and returns its ID.
func (r *ExamRepository) CreateExam(ctx context.Context, exam *models.Exam) (int64, error) {
	sqlStr, args, err := squirrel.Insert("exams").
		Columns("course_id", "title", "subject", "exam_date", "start_time", "end_time", "venue").
		Values(exam.CourseID, exam.Title, exam.Subject, exam.ExamDate, exam.StartTime, exam.EndTime, exam.Venue).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create exam SQL")
		return 0, err
	}

	var id int64
	if err := r.DB.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Msg("Error executing create exam query")
		return 0, err
	}
	return id, nil
}

// GetExamByID retrieves a single exam. Returns nil when no row exists.
func (r *ExamRepository) GetExamByID(ctx context.Context, id int64) (*models.Exam, error) {
	sqlStr, args, err := r.selectExamQuery().Where(squirrel.Eq{"e.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get exam by ID SQL")
		return nil, err
	}
	return scanExam(r.DB.QueryRow(ctx, sqlStr, args...))
}

// ExamListParams holds the optional filters of the exam listing.
type ExamListParams struct {
	CourseID *int64
	Date     *time.Time
}

// ListExams retrieves exams matching the given filters ordered by exam date.
func (r *ExamRepository) ListExams(ctx context.Context, params ExamListParams) ([]*models.Exam, error) {
	sqlBuilder := r.selectExamQuery().OrderBy("e.exam_date ASC", "e.start_time ASC")
	if params.CourseID != nil {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"e.course_id": *params.CourseID})
	}
	if params.Date != nil {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"e.exam_date": *params.Date})
	}
	sqlStr, args, err := sqlBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list exams SQL")
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list exams query")
		return nil, err
	}
	defer rows.Close()

	exams := make([]*models.Exam, 0)
	for rows.Next() {
		exam, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, exam)
	}
	return exams, rows.Err()
}

// UpdateExam persists an exam's columns.
func (r *ExamRepository) UpdateExam(ctx context.Context, exam *models.Exam) error {
	sqlStr, args, err := squirrel.Update("exams").
		Set("course_id", exam.CourseID).
		Set("title", exam.Title).
		Set("subject", exam.Subject).
		Set("exam_date", exam.ExamDate).
		Set("start_time", exam.StartTime).
		Set("end_time", exam.EndTime).
		Set("venue", exam.Venue).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": exam.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update exam SQL")
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing update exam query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrExamNotFound
	}
	return nil
}

// DeleteExamWithResults removes an exam and its results in one transaction.
func (r *ExamRepository) DeleteExamWithResults(ctx context.Context, examID int64) error {
	return db.WithTransaction(ctx, r.DB, func(ctx context.Context, tx pgx.Tx) error {
		resultsSql, resultsArgs, err := squirrel.Delete("exam_results").
			Where(squirrel.Eq{"exam_id": examID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, resultsSql, resultsArgs...); err != nil {
			logger.Error().Err(err).Msg("Error deleting exam results")
			return err
		}

		examSql, examArgs, err := squirrel.Delete("exams").
			Where(squirrel.Eq{"id": examID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}
		cmdTag, err := tx.Exec(ctx, examSql, examArgs...)
		if err != nil {
			logger.Error().Err(err).Msg("Error deleting exam")
			return err
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrExamNotFound
		}
		return nil
	})
}

func (r *ExamRepository) selectResultQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"er.id", "er.exam_id", "er.student_id", "er.marks", "er.grade", "er.feedback",
		"er.created_at", "er.updated_at",
		"s.first_name", "s.last_name", "s.email",
	).From("exam_results er").
		Join("users s ON er.student_id = s.id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanExamResult(row pgx.Row) (*models.ExamResult, error) {
	var result models.ExamResult
	var studentFirst, studentLast, studentEmail string

	err := row.Scan(
		&result.ID, &result.ExamID, &result.StudentID, &result.Marks, &result.Grade,
		&result.Feedback, &result.CreatedAt, &result.UpdatedAt,
		&studentFirst, &studentLast, &studentEmail,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		logger.Error().Err(err).Msg("Error scanning exam result")
		return nil, err
	}
	result.Student = &models.UserSummary{ID: result.StudentID, Name: joinName(studentFirst, studentLast), Email: studentEmail}
	return &result, nil
}

// AddResult inserts one student's result for an exam. A unique violation on
// the (exam, student) constraint surfaces as a duplicate result.
func (r *ExamRepository) AddResult(ctx context.Context, result *models.ExamResult) (int64, error) {
	sqlStr, args, err := squirrel.Insert("exam_results").
		Columns("exam_id", "student_id", "marks", "grade", "feedback").
		Values(result.ExamID, result.StudentID, result.Marks, result.Grade, result.Feedback).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building add exam result SQL")
		return 0, err
	}

	var id int64
	if err := r.DB.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrDuplicateResult
		}
		logger.Error().Err(err).Msg("Error executing add exam result query")
		return 0, err
	}
	return id, nil
}

// GetResultsByExam retrieves every result for an exam with the student populated.
func (r *ExamRepository) GetResultsByExam(ctx context.Context, examID int64) ([]*models.ExamResult, error) {
	sqlStr, args, err := r.selectResultQuery().
		Where(squirrel.Eq{"er.exam_id": examID}).
		OrderBy("er.marks DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get results by exam SQL")
		return nil, err
	}
	return r.queryResults(ctx, sqlStr, args)
}

// GetResultsByStudent retrieves one student's results across all exams.
func (r *ExamRepository) GetResultsByStudent(ctx context.Context, studentID int64) ([]*models.ExamResult, error) {
	sqlStr, args, err := r.selectResultQuery().
		Where(squirrel.Eq{"er.student_id": studentID}).
		OrderBy("er.created_at DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get results by student SQL")
		return nil, err
	}
	return r.queryResults(ctx, sqlStr, args)
}

func (r *ExamRepository) queryResults(ctx context.Context, sqlStr string, args []interface{}) ([]*models.ExamResult, error) {
	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing exam results query")
		return nil, err
	}
	defer rows.Close()

	results := make([]*models.ExamResult, 0)
	for rows.Next() {
		result, err := scanExamResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
