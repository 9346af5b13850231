package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mete/schoolhub/internal/app/models"
	"github.com/mete/schoolhub/internal/app/models/dto"
	"github.com/mete/schoolhub/internal/app/repositories"
	"github.com/mete/schoolhub/internal/pkg/apperrors"
)

// examDateLayout is the wire format of exam dates.
const examDateLayout = "2006-01-02"

// ExamStore is the persistence surface the exam service depends on.
type ExamStore interface {
	CreateExam(ctx context.Context, exam *models.Exam) (int64, error)
	GetExamByID(ctx context.Context, id int64) (*models.Exam, error)
	ListExams(ctx context.Context, params repositories.ExamListParams) ([]*models.Exam, error)
	UpdateExam(ctx context.Context, exam *models.Exam) error
	DeleteExamWithResults(ctx context.Context, examID int64) error
	AddResult(ctx context.Context, result *models.ExamResult) (int64, error)
	GetResultsByExam(ctx context.Context, examID int64) ([]*models.ExamResult, error)
	GetResultsByStudent(ctx context.Context, studentID int64) ([]*models.ExamResult, error)
}

// ExamService defines the interface for exam operations
type ExamService interface {
	CreateExam(ctx context.Context, req *dto.CreateExamRequest) (*models.Exam, error)
	GetExamByID(ctx context.Context, id int64) (*models.Exam, error)
	ListExams(ctx context.Context, courseID *int64, date *time.Time) ([]*models.Exam, error)
	UpdateExam(ctx context.Context, id int64, req *dto.UpdateExamRequest) (*models.Exam, error)
	DeleteExam(ctx context.Context, id int64) error
	AddResult(ctx context.Context, examID int64, req *dto.AddExamResultRequest) (*models.ExamResult, error)
	GetExamResults(ctx context.Context, examID int64) ([]*models.ExamResult, error)
	GetStudentResults(ctx context.Context, studentID int64) ([]*models.ExamResult, error)
}

// examServiceImpl implements ExamService
type examServiceImpl struct {
	examRepo   ExamStore
	courseRepo CourseStore
	userRepo   UserStore
}

// NewExamService creates a new ExamService
func NewExamService(examRepo ExamStore, courseRepo CourseStore, userRepo UserStore) ExamService {
	return &examServiceImpl{
		examRepo:   examRepo,
		courseRepo: courseRepo,
		userRepo:   userRepo,
	}
}

// CreateExam validates the referenced course and schedules the exam.
func (s *examServiceImpl) CreateExam(ctx context.Context, req *dto.CreateExamRequest) (*models.Exam, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("error getting course: %w", err)
	}
	if course == nil {
		return nil, apperrors.NewNotFoundError("Course not found")
	}

	examDate, err := time.Parse(examDateLayout, req.ExamDate)
	if err != nil {
		return nil, apperrors.NewValidationError("date must be in YYYY-MM-DD format")
	}

	exam := &models.Exam{
		CourseID:  req.CourseID,
		Title:     req.Title,
		Subject:   req.Subject,
		ExamDate:  examDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Venue:     req.Venue,
	}
	id, err := s.examRepo.CreateExam(ctx, exam)
	if err != nil {
		return nil, fmt.Errorf("error creating exam: %w", err)
	}
	return s.GetExamByID(ctx, id)
}

// GetExamByID retrieves one exam with its course populated.
func (s *examServiceImpl) GetExamByID(ctx context.Context, id int64) (*models.Exam, error) {
	exam, err := s.examRepo.GetExamByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting exam: %w", err)
	}
	if exam == nil {
		return nil, apperrors.ErrExamNotFound
	}
	return exam, nil
}

// ListExams retrieves exams, optionally filtered by course and date.
func (s *examServiceImpl) ListExams(ctx context.Context, courseID *int64, date *time.Time) ([]*models.Exam, error) {
	exams, err := s.examRepo.ListExams(ctx, repositories.ExamListParams{CourseID: courseID, Date: date})
	if err != nil {
		return nil, fmt.Errorf("error listing exams: %w", err)
	}
	return exams, nil
}

// UpdateExam applies the present fields of the request to an existing exam.
func (s *examServiceImpl) UpdateExam(ctx context.Context, id int64, req *dto.UpdateExamRequest) (*models.Exam, error) {
	exam, err := s.GetExamByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CourseID != nil {
		course, err := s.courseRepo.GetCourseByID(ctx, *req.CourseID)
		if err != nil {
			return nil, fmt.Errorf("error getting course: %w", err)
		}
		if course == nil {
			return nil, apperrors.NewNotFoundError("Course not found")
		}
		exam.CourseID = *req.CourseID
	}
	if req.Title != nil {
		exam.Title = *req.Title
	}
	if req.Subject != nil {
		exam.Subject = *req.Subject
	}
	if req.ExamDate != nil {
		examDate, err := time.Parse(examDateLayout, *req.ExamDate)
		if err != nil {
			return nil, apperrors.NewValidationError("date must be in YYYY-MM-DD format")
		}
		exam.ExamDate = examDate
	}
	if req.StartTime != nil {
		exam.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		exam.EndTime = *req.EndTime
	}
	if req.Venue != nil {
		exam.Venue = *req.Venue
	}

	if err := s.examRepo.UpdateExam(ctx, exam); err != nil {
		return nil, err
	}
	return s.GetExamByID(ctx, id)
}

// DeleteExam removes an exam together with all of its results.
func (s *examServiceImpl) DeleteExam(ctx context.Context, id int64) error {
	return s.examRepo.DeleteExamWithResults(ctx, id)
}

// AddResult records one student's marks for an exam. Recording twice for the
// same student surfaces as a duplicate result.
func (s *examServiceImpl) AddResult(ctx context.Context, examID int64, req *dto.AddExamResultRequest) (*models.ExamResult, error) {
	if _, err := s.GetExamByID(ctx, examID); err != nil {
		return nil, err
	}

	student, err := s.userRepo.GetUserByID(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	if student == nil || student.Role != models.RoleStudent {
		return nil, apperrors.NewNotFoundError("Student not found")
	}

	result := &models.ExamResult{
		ExamID:    examID,
		StudentID: req.StudentID,
		Marks:     req.Marks,
		Grade:     req.Grade,
		Feedback:  req.Feedback,
	}
	id, err := s.examRepo.AddResult(ctx, result)
	if err != nil {
		return nil, err
	}
	result.ID = id
	result.Student = &models.UserSummary{ID: student.ID, Name: student.FullName(), Email: student.Email}
	return result, nil
}

// GetExamResults retrieves every recorded result for an exam.
func (s *examServiceImpl) GetExamResults(ctx context.Context, examID int64) ([]*models.ExamResult, error) {
	if _, err := s.GetExamByID(ctx, examID); err != nil {
		return nil, err
	}
	results, err := s.examRepo.GetResultsByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("error getting exam results: %w", err)
	}
	return results, nil
}

// GetStudentResults retrieves one student's results across all exams.
func (s *examServiceImpl) GetStudentResults(ctx context.Context, studentID int64) ([]*models.ExamResult, error) {
	results, err := s.examRepo.GetResultsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error getting student results: %w", err)
	}
	return results, nil
}
