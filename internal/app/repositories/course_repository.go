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

// CourseRepository handles database operations for Course.
type CourseRepository struct {
	DB *pgxpool.Pool
}

// NewCourseRepository creates a new instance of CourseRepository.
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) selectCourseQuery() squirrel.SelectBuilder {
	return squirrel.Select("id", "name", "code", "created_at", "updated_at").
		From("courses").PlaceholderFormat(squirrel.Dollar)
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	err := row.Scan(&course.ID, &course.Name, &course.Code, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		logger.Error().Err(err).Msg("Error scanning course")
		return nil, err
	}
	return &course, nil
}

// GetCourseByID retrieves a course by ID. Returns nil when no course exists.
func (r *CourseRepository) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	sqlStr, args, err := r.selectCourseQuery().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course by ID SQL")
		return nil, err
	}
	return scanCourse(r.DB.QueryRow(ctx, sqlStr, args...))
}

// GetAllCourses retrieves every course ordered by code.
func (r *CourseRepository) GetAllCourses(ctx context.Context) ([]*models.Course, error) {
	sqlStr, args, err := r.selectCourseQuery().OrderBy("code ASC").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all courses SQL")
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all courses query")
		return nil, err
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

// CreateCourse inserts a new course and returns its ID.
func (r *CourseRepository) CreateCourse(ctx context.Context, course *models.Course) (int64, error) {
	sqlStr, args, err := squirrel.Insert("courses").
		Columns("name", "code").
		Values(course.Name, course.Code).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return 0, err
	}

	var id int64
	if err := r.DB.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrConflict
		}
		logger.Error().Err(err).Msg("Error executing create course query")
		return 0, err
	}
	return id, nil
}
