package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mete/schoolhub/internal/app/models"
	"github.com/mete/schoolhub/internal/pkg/apperrors"
	"github.com/mete/schoolhub/internal/pkg/dberrors"
	"github.com/mete/schoolhub/internal/pkg/logger"
)

// TimetableRepository handles database operations for TimetableEntry.
type TimetableRepository struct {
	DB *pgxpool.Pool
}

// NewTimetableRepository creates a new instance of TimetableRepository.
func NewTimetableRepository(db *pgxpool.Pool) *TimetableRepository {
	return &TimetableRepository{DB: db}
}

func (r *TimetableRepository) selectEntryQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"te.id", "te.course_id", "te.day", "te.time_slot", "te.subject",
		"te.teacher_id", "te.room", "te.created_at", "te.updated_at",
		"c.name", "c.code",
		"t.first_name", "t.last_name", "t.email",
	).From("timetable_entries te").
		Join("courses c ON te.course_id = c.id").
		Join("users t ON te.teacher_id = t.id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanTimetableEntry(row pgx.Row) (*models.TimetableEntry, error) {
	var entry models.TimetableEntry
	var courseName, courseCode string
	var teacherFirst, teacherLast, teacherEmail string

	err := row.Scan(
		&entry.ID, &entry.CourseID, &entry.Day, &entry.TimeSlot, &entry.Subject,
		&entry.TeacherID, &entry.Room, &entry.CreatedAt, &entry.UpdatedAt,
		&courseName, &courseCode,
		&teacherFirst, &teacherLast, &teacherEmail,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		logger.Error().Err(err).Msg("Error scanning timetable entry")
		return nil, err
	}

	entry.Course = &models.CourseSummary{ID: entry.CourseID, Name: courseName, Code: courseCode}
	entry.Teacher = &models.UserSummary{ID: entry.TeacherID, Name: joinName(teacherFirst, teacherLast), Email: teacherEmail}
	return &entry, nil
}

// CreateEntry inserts a timetable entry. A unique violation on either slot
// constraint surfaces as a scheduling conflict.
func (r *TimetableRepository) CreateEntry(ctx context.Context, entry *models.TimetableEntry) (int64, error) {
	sqlStr, args, err := squirrel.Insert("timetable_entries").
		Columns("course_id", "day", "time_slot", "subject", "teacher_id", "room").
		Values(entry.CourseID, entry.Day, entry.TimeSlot, entry.Subject, entry.TeacherID, entry.Room).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create timetable entry SQL")
		return 0, err
	}

	var id int64
	if err := r.DB.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrSchedulingConflict
		}
		logger.Error().Err(err).Msg("Error executing create timetable entry query")
		return 0, err
	}
	return id, nil
}

// GetEntryByID retrieves a single timetable entry. Returns nil when no row exists.
func (r *TimetableRepository) GetEntryByID(ctx context.Context, id int64) (*models.TimetableEntry, error) {
	sqlStr, args, err := r.selectEntryQuery().Where(squirrel.Eq{"te.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get timetable entry SQL")
		return nil, err
	}
	return scanTimetableEntry(r.DB.QueryRow(ctx, sqlStr, args...))
}

// TimetableListParams holds the optional filters of the timetable listing.
type TimetableListParams struct {
	CourseID  *int64
	TeacherID *int64
	Day       string
}

// GetEntriesByCourse retrieves a course's weekly schedule ordered by day and slot.
func (r *TimetableRepository) GetEntriesByCourse(ctx context.Context, courseID int64) ([]*models.TimetableEntry, error) {
	return r.ListEntries(ctx, TimetableListParams{CourseID: &courseID})
}

// GetEntriesByTeacher retrieves a teacher's weekly schedule ordered by day and slot.
func (r *TimetableRepository) GetEntriesByTeacher(ctx context.Context, teacherID int64) ([]*models.TimetableEntry, error) {
	return r.ListEntries(ctx, TimetableListParams{TeacherID: &teacherID})
}

// ListEntries retrieves timetable entries matching the given filters,
// ordered by weekday then slot.
func (r *TimetableRepository) ListEntries(ctx context.Context, params TimetableListParams) ([]*models.TimetableEntry, error) {
	sqlBuilder := r.selectEntryQuery().
		OrderBy("array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday','Saturday','Sunday'], te.day)", "te.time_slot ASC")
	if params.CourseID != nil {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"te.course_id": *params.CourseID})
	}
	if params.TeacherID != nil {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"te.teacher_id": *params.TeacherID})
	}
	if params.Day != "" {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"te.day": params.Day})
	}
	sqlStr, args, err := sqlBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list timetable entries SQL")
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list timetable entries query")
		return nil, err
	}
	defer rows.Close()

	entries := make([]*models.TimetableEntry, 0)
	for rows.Next() {
		entry, err := scanTimetableEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// UpdateEntry persists a timetable entry. A unique violation on either slot
// constraint surfaces as a scheduling conflict.
func (r *TimetableRepository) UpdateEntry(ctx context.Context, entry *models.TimetableEntry) error {
	sqlStr, args, err := squirrel.Update("timetable_entries").
		Set("course_id", entry.CourseID).
		Set("day", entry.Day).
		Set("time_slot", entry.TimeSlot).
		Set("subject", entry.Subject).
		Set("teacher_id", entry.TeacherID).
		Set("room", entry.Room).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": entry.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update timetable entry SQL")
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sqlStr, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrSchedulingConflict
		}
		logger.Error().Err(err).Msg("Error executing update timetable entry query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTimetableNotFound
	}
	return nil
}

// DeleteEntry removes a timetable entry by ID.
func (r *TimetableRepository) DeleteEntry(ctx context.Context, id int64) error {
	sqlStr, args, err := squirrel.Delete("timetable_entries").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete timetable entry SQL")
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing delete timetable entry query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTimetableNotFound
	}
	return nil
}
