package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mete/schoolhub/internal/app/models"
	"github.com/mete/schoolhub/internal/app/models/dto"
	"github.com/mete/schoolhub/internal/pkg/logger"
)

// FeedbackListParams holds the filters and pagination of feedback list queries.
type FeedbackListParams struct {
	TeacherID       *int64
	StudentID       *int64
	CourseID        *int64
	Status          string
	Priority        string
	Category        string
	Search          string
	VisibleOnly     bool
	IncludeArchived bool
	SortBy          string
	SortOrder       string
	Page            int
	Limit           int
}

// FeedbackStatsParams bounds the stats and distribution aggregates. A nil
// TeacherID aggregates system-wide; From/To bound submitted_at.
type FeedbackStatsParams struct {
	TeacherID   *int64
	From        *time.Time
	To          *time.Time
	RecentSince time.Time
}

// TeacherFeedbackStats aggregates a teacher's feedback counters in one row.
type TeacherFeedbackStats struct {
	Total          int64
	Pending        int64
	Resolved       int64
	AverageRating  float64
	UrgentCount    int64
	RecentFeedback int64
}

// FeedbackRepository handles database operations for Feedback.
type FeedbackRepository struct {
	DB *pgxpool.Pool
}

// NewFeedbackRepository creates a new instance of FeedbackRepository.
func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{DB: db}
}

// Common select query builder for feedback with its populated references.
func (r *FeedbackRepository) selectFeedbackQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"f.id", "f.student_id", "f.course_id", "f.assignment_id", "f.assignment_title",
		"f.teacher_id", "f.subject", "f.message",
		"f.feedback_type", "f.category", "f.priority", "f.status",
		"f.response_message", "f.response_type", "f.responded_at",
		"f.rating_score", "f.rating_comment", "f.rated_at",
		"f.is_private", "f.visible_to_student", "f.is_archived", "f.requires_follow_up", "f.is_urgent",
		"f.submitted_at", "f.last_updated_at", "f.resolved_at",
		"s.first_name", "s.last_name", "s.email",
		"c.name", "c.code",
		"t.first_name", "t.last_name", "t.email",
	).From("feedback f").
		Join("users s ON f.student_id = s.id").
		Join("courses c ON f.course_id = c.id").
		Join("users t ON f.teacher_id = t.id").
		PlaceholderFormat(squirrel.Dollar)
}

// scanFeedback reassembles the flat row into a Feedback with its nested
// response, rating and populated references.
func scanFeedback(row pgx.Row) (*models.Feedback, error) {
	var f models.Feedback
	var responseMessage, responseType *string
	var respondedAt *time.Time
	var ratingScore *int
	var ratingComment *string
	var ratedAt *time.Time
	var studentFirst, studentLast, studentEmail string
	var courseName, courseCode string
	var teacherFirst, teacherLast, teacherEmail string

	err := row.Scan(
		&f.ID, &f.StudentID, &f.CourseID, &f.AssignmentID, &f.AssignmentTitle,
		&f.TeacherID, &f.Subject, &f.Message,
		&f.FeedbackType, &f.Category, &f.Priority, &f.Status,
		&responseMessage, &responseType, &respondedAt,
		&ratingScore, &ratingComment, &ratedAt,
		&f.IsPrivate, &f.VisibleToStudent, &f.IsArchived, &f.RequiresFollowUp, &f.IsUrgent,
		&f.SubmittedAt, &f.LastUpdatedAt, &f.ResolvedAt,
		&studentFirst, &studentLast, &studentEmail,
		&courseName, &courseCode,
		&teacherFirst, &teacherLast, &teacherEmail,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		logger.Error().Err(err).Msg("Error scanning feedback row")
		return nil, err
	}

	if responseMessage != nil && respondedAt != nil {
		f.TeacherResponse = &models.TeacherResponse{
			Message:     *responseMessage,
			RespondedAt: *respondedAt,
		}
		if responseType != nil {
			f.TeacherResponse.ResponseType = models.ResponseType(*responseType)
		}
	}
	if ratingScore != nil && ratedAt != nil {
		f.Rating = &models.Rating{Score: *ratingScore, RatedAt: *ratedAt}
		if ratingComment != nil {
			f.Rating.Comment = *ratingComment
		}
	}
	f.Student = &models.UserSummary{ID: f.StudentID, Name: joinName(studentFirst, studentLast), Email: studentEmail}
	f.Course = &models.CourseSummary{ID: f.CourseID, Name: courseName, Code: courseCode}
	f.Teacher = &models.UserSummary{ID: f.TeacherID, Name: joinName(teacherFirst, teacherLast), Email: teacherEmail}
	return &f, nil
}

func joinName(first, last string) string {
	if last == "" {
		return first
	}
	return first + " " + last
}

// CreateFeedback inserts a new feedback item and returns its ID. The
// save rules (urgency flag, timestamps) are applied before the insert.
func (r *FeedbackRepository) CreateFeedback(ctx context.Context, f *models.Feedback) (int64, error) {
	f.BeforeSave(time.Now())

	sqlStr, args, err := squirrel.Insert("feedback").
		Columns(
			"student_id", "course_id", "assignment_id", "assignment_title", "teacher_id",
			"subject", "message", "feedback_type", "category", "priority", "status",
			"is_private", "visible_to_student", "is_archived", "requires_follow_up", "is_urgent",
			"submitted_at", "last_updated_at",
		).
		Values(
			f.StudentID, f.CourseID, f.AssignmentID, f.AssignmentTitle, f.TeacherID,
			f.Subject, f.Message, f.FeedbackType, f.Category, f.Priority, f.Status,
			f.IsPrivate, f.VisibleToStudent, f.IsArchived, f.RequiresFollowUp, f.IsUrgent,
			f.SubmittedAt, f.LastUpdatedAt,
		).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create feedback SQL")
		return 0, err
	}

	var id int64
	if err := r.DB.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Msg("Error executing create feedback query")
		return 0, err
	}
	return id, nil
}

// GetFeedbackByID retrieves a single feedback item with its populated
// references. Returns nil when no row exists.
func (r *FeedbackRepository) GetFeedbackByID(ctx context.Context, id int64) (*models.Feedback, error) {
	sqlStr, args, err := r.selectFeedbackQuery().Where(squirrel.Eq{"f.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get feedback by ID SQL")
		return nil, err
	}
	return scanFeedback(r.DB.QueryRow(ctx, sqlStr, args...))
}

// ListFeedback retrieves a filtered, sorted page of feedback and the total
// number of matching items.
func (r *FeedbackRepository) ListFeedback(ctx context.Context, params FeedbackListParams) ([]*models.Feedback, int64, error) {
	applyFilters := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		if params.TeacherID != nil {
			b = b.Where(squirrel.Eq{"f.teacher_id": *params.TeacherID})
		}
		if params.StudentID != nil {
			b = b.Where(squirrel.Eq{"f.student_id": *params.StudentID})
		}
		if params.CourseID != nil {
			b = b.Where(squirrel.Eq{"f.course_id": *params.CourseID})
		}
		if params.Status != "" {
			b = b.Where(squirrel.Eq{"f.status": params.Status})
		}
		if params.Priority != "" {
			b = b.Where(squirrel.Eq{"f.priority": params.Priority})
		}
		if params.Category != "" {
			b = b.Where(squirrel.Eq{"f.category": params.Category})
		}
		if params.Search != "" {
			pattern := "%" + params.Search + "%"
			b = b.Where(squirrel.Or{
				squirrel.ILike{"f.subject": pattern},
				squirrel.ILike{"f.message": pattern},
			})
		}
		if params.VisibleOnly {
			b = b.Where(squirrel.Eq{"f.visible_to_student": true})
		}
		if !params.IncludeArchived {
			b = b.Where(squirrel.Eq{"f.is_archived": false})
		}
		return b
	}

	countBuilder := applyFilters(squirrel.Select("count(*)").From("feedback f").
		PlaceholderFormat(squirrel.Dollar))
	countSql, countArgs, err := countBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building feedback count SQL")
		return nil, 0, err
	}

	var totalItems int64
	if err := r.DB.QueryRow(ctx, countSql, countArgs...).Scan(&totalItems); err != nil {
		logger.Error().Err(err).Msg("Error executing feedback count query")
		return nil, 0, err
	}
	if totalItems == 0 {
		return []*models.Feedback{}, 0, nil
	}

	sortBy := "f.submitted_at"
	allowedSorts := map[string]string{
		"submittedAt":   "f.submitted_at",
		"lastUpdatedAt": "f.last_updated_at",
		"priority":      "f.priority",
		"status":        "f.status",
		"subject":       "f.subject",
	}
	if validSort, ok := allowedSorts[params.SortBy]; ok {
		sortBy = validSort
	}
	sortOrder := "DESC"
	if strings.ToUpper(params.SortOrder) == "ASC" {
		sortOrder = "ASC"
	}

	sqlBuilder := applyFilters(r.selectFeedbackQuery()).
		OrderBy(fmt.Sprintf("%s %s", sortBy, sortOrder)).
		Limit(uint64(params.Limit)).
		Offset(uint64((params.Page - 1) * params.Limit))

	sqlStr, args, err := sqlBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list feedback SQL")
		return nil, 0, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list feedback query")
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]*models.Feedback, 0, params.Limit)
	for rows.Next() {
		item, err := scanFeedback(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating feedback rows")
		return nil, 0, err
	}
	return items, totalItems, nil
}

// UpdateFeedback persists every mutable column of a feedback item. The save
// rules are applied before the update. Returns false when no row matched.
func (r *FeedbackRepository) UpdateFeedback(ctx context.Context, f *models.Feedback) (bool, error) {
	f.BeforeSave(time.Now())

	builder := squirrel.Update("feedback").
		Set("subject", f.Subject).
		Set("message", f.Message).
		Set("feedback_type", f.FeedbackType).
		Set("category", f.Category).
		Set("priority", f.Priority).
		Set("status", f.Status).
		Set("is_private", f.IsPrivate).
		Set("visible_to_student", f.VisibleToStudent).
		Set("is_archived", f.IsArchived).
		Set("requires_follow_up", f.RequiresFollowUp).
		Set("is_urgent", f.IsUrgent).
		Set("last_updated_at", f.LastUpdatedAt).
		Set("resolved_at", f.ResolvedAt).
		Where(squirrel.Eq{"id": f.ID}).
		PlaceholderFormat(squirrel.Dollar)

	if f.TeacherResponse != nil {
		builder = builder.
			Set("response_message", f.TeacherResponse.Message).
			Set("response_type", f.TeacherResponse.ResponseType).
			Set("responded_at", f.TeacherResponse.RespondedAt)
	}
	if f.Rating != nil {
		builder = builder.
			Set("rating_score", f.Rating.Score).
			Set("rating_comment", f.Rating.Comment).
			Set("rated_at", f.Rating.RatedAt)
	}

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update feedback SQL")
		return false, err
	}

	cmdTag, err := r.DB.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing update feedback query")
		return false, err
	}
	return cmdTag.RowsAffected() > 0, nil
}

// GetPendingByTeacher retrieves a teacher's pending queue: most urgent first,
// oldest first within the same priority, bounded by limit.
func (r *FeedbackRepository) GetPendingByTeacher(ctx context.Context, teacherID int64, limit int) ([]*models.Feedback, error) {
	sqlStr, args, err := r.selectFeedbackQuery().
		Where(squirrel.Eq{"f.teacher_id": teacherID, "f.status": models.StatusPending, "f.is_archived": false}).
		OrderBy(
			"CASE f.priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END",
			"f.submitted_at ASC",
		).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building pending feedback SQL")
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing pending feedback query")
		return nil, err
	}
	defer rows.Close()

	items := make([]*models.Feedback, 0, limit)
	for rows.Next() {
		item, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// statsPredicates applies the shared aggregate filters to a builder.
func statsPredicates(builder squirrel.SelectBuilder, params FeedbackStatsParams) squirrel.SelectBuilder {
	builder = builder.Where(squirrel.Eq{"is_archived": false})
	if params.TeacherID != nil {
		builder = builder.Where(squirrel.Eq{"teacher_id": *params.TeacherID})
	}
	if params.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"submitted_at": *params.From})
	}
	if params.To != nil {
		builder = builder.Where(squirrel.LtOrEq{"submitted_at": *params.To})
	}
	return builder
}

// GetTeacherStats aggregates feedback counters, system-wide when no teacher
// is given. Archived items are excluded; RecentSince bounds the
// recent-feedback counter.
func (r *FeedbackRepository) GetTeacherStats(ctx context.Context, params FeedbackStatsParams) (*TeacherFeedbackStats, error) {
	builder := squirrel.Select(
		"count(*) AS total",
		"count(*) FILTER (WHERE status = 'pending') AS pending",
		"count(*) FILTER (WHERE status = 'resolved') AS resolved",
		"coalesce(avg(rating_score), 0) AS average_rating",
		"count(*) FILTER (WHERE is_urgent) AS urgent_count",
	).Column(squirrel.Expr("count(*) FILTER (WHERE submitted_at >= ?) AS recent_feedback", params.RecentSince)).
		From("feedback")

	sqlStr, args, err := statsPredicates(builder, params).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building teacher stats SQL")
		return nil, err
	}

	var stats TeacherFeedbackStats
	err = r.DB.QueryRow(ctx, sqlStr, args...).Scan(
		&stats.Total, &stats.Pending, &stats.Resolved,
		&stats.AverageRating, &stats.UrgentCount, &stats.RecentFeedback,
	)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing teacher stats query")
		return nil, err
	}
	return &stats, nil
}

// GetDistribution counts non-archived feedback grouped by the given column,
// system-wide when no teacher is given. Only category and priority are
// accepted.
func (r *FeedbackRepository) GetDistribution(ctx context.Context, params FeedbackStatsParams, column string) ([]dto.DistributionBucket, error) {
	if column != "category" && column != "priority" {
		return nil, fmt.Errorf("unsupported distribution column: %s", column)
	}

	builder := squirrel.Select(column, "count(*)").
		From("feedback").
		GroupBy(column).
		OrderBy("count(*) DESC")

	sqlStr, args, err := statsPredicates(builder, params).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building distribution SQL")
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing distribution query")
		return nil, err
	}
	defer rows.Close()

	buckets := make([]dto.DistributionBucket, 0)
	for rows.Next() {
		var bucket dto.DistributionBucket
		if err := rows.Scan(&bucket.Label, &bucket.Count); err != nil {
			logger.Error().Err(err).Msg("Error scanning distribution row")
			return nil, err
		}
		buckets = append(buckets, bucket)
	}
	return buckets, rows.Err()
}
