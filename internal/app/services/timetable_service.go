package services

import (
	"context"
	"fmt"

	"github.com/mete/schoolhub/internal/app/models"
	"github.com/mete/schoolhub/internal/app/models/dto"
	"github.com/mete/schoolhub/internal/app/repositories"
	"github.com/mete/schoolhub/internal/pkg/apperrors"
)

// TimetableStore is the persistence surface the timetable service depends on.
type TimetableStore interface {
	CreateEntry(ctx context.Context, entry *models.TimetableEntry) (int64, error)
	GetEntryByID(ctx context.Context, id int64) (*models.TimetableEntry, error)
	ListEntries(ctx context.Context, params repositories.TimetableListParams) ([]*models.TimetableEntry, error)
	UpdateEntry(ctx context.Context, entry *models.TimetableEntry) error
	DeleteEntry(ctx context.Context, id int64) error
}

// TimetableService defines the interface for timetable operations
type TimetableService interface {
	CreateEntry(ctx context.Context, req *dto.CreateTimetableEntryRequest) (*models.TimetableEntry, error)
	GetEntryByID(ctx context.Context, id int64) (*models.TimetableEntry, error)
	ListEntries(ctx context.Context, params repositories.TimetableListParams) ([]*models.TimetableEntry, error)
	UpdateEntry(ctx context.Context, id int64, req *dto.UpdateTimetableEntryRequest) (*models.TimetableEntry, error)
	DeleteEntry(ctx context.Context, id int64) error
}

// timetableServiceImpl implements TimetableService
type timetableServiceImpl struct {
	timetableRepo TimetableStore
	courseRepo    CourseStore
	userRepo      UserStore
}

// NewTimetableService creates a new TimetableService
func NewTimetableService(timetableRepo TimetableStore, courseRepo CourseStore, userRepo UserStore) TimetableService {
	return &timetableServiceImpl{
		timetableRepo: timetableRepo,
		courseRepo:    courseRepo,
		userRepo:      userRepo,
	}
}

// CreateEntry validates the referenced course and teacher, then inserts the
// slot. Slot collisions surface as a scheduling conflict.
func (s *timetableServiceImpl) CreateEntry(ctx context.Context, req *dto.CreateTimetableEntryRequest) (*models.TimetableEntry, error) {
	if err := s.validateRefs(ctx, req.CourseID, req.TeacherID); err != nil {
		return nil, err
	}

	entry := &models.TimetableEntry{
		CourseID:  req.CourseID,
		Day:       models.Day(req.Day),
		TimeSlot:  req.TimeSlot,
		Subject:   req.Subject,
		TeacherID: req.TeacherID,
		Room:      req.Room,
	}
	id, err := s.timetableRepo.CreateEntry(ctx, entry)
	if err != nil {
		return nil, err
	}
	return s.GetEntryByID(ctx, id)
}

// GetEntryByID retrieves one timetable entry with its references populated.
func (s *timetableServiceImpl) GetEntryByID(ctx context.Context, id int64) (*models.TimetableEntry, error) {
	entry, err := s.timetableRepo.GetEntryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting timetable entry: %w", err)
	}
	if entry == nil {
		return nil, apperrors.ErrTimetableNotFound
	}
	return entry, nil
}

// ListEntries retrieves timetable entries matching the given filters.
func (s *timetableServiceImpl) ListEntries(ctx context.Context, params repositories.TimetableListParams) ([]*models.TimetableEntry, error) {
	entries, err := s.timetableRepo.ListEntries(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("error listing timetable entries: %w", err)
	}
	return entries, nil
}

// UpdateEntry applies the present fields of the request to an existing slot.
// Slot collisions surface as a scheduling conflict.
func (s *timetableServiceImpl) UpdateEntry(ctx context.Context, id int64, req *dto.UpdateTimetableEntryRequest) (*models.TimetableEntry, error) {
	entry, err := s.GetEntryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CourseID != nil {
		entry.CourseID = *req.CourseID
	}
	if req.Day != nil {
		entry.Day = models.Day(*req.Day)
	}
	if req.TimeSlot != nil {
		entry.TimeSlot = *req.TimeSlot
	}
	if req.Subject != nil {
		entry.Subject = *req.Subject
	}
	if req.TeacherID != nil {
		entry.TeacherID = *req.TeacherID
	}
	if req.Room != nil {
		entry.Room = *req.Room
	}
	if err := s.validateRefs(ctx, entry.CourseID, entry.TeacherID); err != nil {
		return nil, err
	}

	if err := s.timetableRepo.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}
	return s.GetEntryByID(ctx, id)
}

// DeleteEntry removes a timetable entry.
func (s *timetableServiceImpl) DeleteEntry(ctx context.Context, id int64) error {
	return s.timetableRepo.DeleteEntry(ctx, id)
}

func (s *timetableServiceImpl) validateRefs(ctx context.Context, courseID, teacherID int64) error {
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("error getting course: %w", err)
	}
	if course == nil {
		return apperrors.NewNotFoundError("Course not found")
	}

	teacher, err := s.userRepo.GetUserByID(ctx, teacherID)
	if err != nil {
		return fmt.Errorf("error getting teacher: %w", err)
	}
	if teacher == nil || teacher.Role != models.RoleTeacher {
		return apperrors.NewNotFoundError("Teacher not found")
	}
	return nil
}
