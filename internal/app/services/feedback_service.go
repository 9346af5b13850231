package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mete/schoolhub/internal/app/models"
	"github.com/mete/schoolhub/internal/app/models/dto"
	"github.com/mete/schoolhub/internal/app/repositories"
	"github.com/mete/schoolhub/internal/pkg/apperrors"
	"github.com/mete/schoolhub/internal/pkg/helpers"
)

// recentFeedbackWindow bounds the "recent" counter of the teacher stats.
const recentFeedbackWindow = 7 * 24 * time.Hour

// pendingQueueLimit bounds the teacher dashboard pending feed.
const pendingQueueLimit = 20

// FeedbackStore is the persistence surface the feedback service depends on.
type FeedbackStore interface {
	CreateFeedback(ctx context.Context, f *models.Feedback) (int64, error)
	GetFeedbackByID(ctx context.Context, id int64) (*models.Feedback, error)
	ListFeedback(ctx context.Context, params repositories.FeedbackListParams) ([]*models.Feedback, int64, error)
	UpdateFeedback(ctx context.Context, f *models.Feedback) (bool, error)
	GetPendingByTeacher(ctx context.Context, teacherID int64, limit int) ([]*models.Feedback, error)
	GetTeacherStats(ctx context.Context, params repositories.FeedbackStatsParams) (*repositories.TeacherFeedbackStats, error)
	GetDistribution(ctx context.Context, params repositories.FeedbackStatsParams, column string) ([]dto.DistributionBucket, error)
}

// UserStore is the user lookup surface shared by services.
type UserStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// CourseStore is the course lookup surface shared by services.
type CourseStore interface {
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
}

// FeedbackService defines the interface for feedback operations
type FeedbackService interface {
	CreateFeedback(ctx context.Context, studentID int64, req *dto.CreateFeedbackRequest) (*models.Feedback, error)
	GetTeacherFeedback(ctx context.Context, teacherID int64, filter *dto.FeedbackListFilter) ([]*models.Feedback, dto.Pagination, error)
	GetStudentFeedback(ctx context.Context, studentID int64, filter *dto.FeedbackListFilter) ([]*models.Feedback, dto.Pagination, error)
	GetCourseFeedback(ctx context.Context, courseID int64, filter *dto.FeedbackListFilter) ([]*models.Feedback, dto.Pagination, error)
	GetFeedbackByID(ctx context.Context, id, userID int64, role models.Role) (*models.Feedback, error)
	RespondToFeedback(ctx context.Context, id, teacherID int64, req *dto.RespondToFeedbackRequest) (*models.Feedback, error)
	UpdateFeedbackStatus(ctx context.Context, id, userID int64, role models.Role, req *dto.UpdateFeedbackStatusRequest) (*models.Feedback, error)
	RateFeedback(ctx context.Context, id, studentID int64, req *dto.RateFeedbackRequest) (*models.Feedback, error)
	ArchiveFeedback(ctx context.Context, id, userID int64, role models.Role) error
	GetPendingFeedback(ctx context.Context, teacherID int64) ([]*models.Feedback, error)
	GetTeacherStats(ctx context.Context, teacherID int64, from, to *time.Time) (*dto.TeacherStatsResponse, error)
	SearchFeedback(ctx context.Context, userID int64, role models.Role, query string, page, limit int) ([]*models.Feedback, dto.Pagination, error)
	GetAnalyticsOverview(ctx context.Context, from, to *time.Time) (*dto.AnalyticsOverviewResponse, error)
}

// feedbackServiceImpl implements FeedbackService
type feedbackServiceImpl struct {
	feedbackRepo FeedbackStore
	userRepo     UserStore
	courseRepo   CourseStore
}

// NewFeedbackService creates a new FeedbackService
func NewFeedbackService(feedbackRepo FeedbackStore, userRepo UserStore, courseRepo CourseStore) FeedbackService {
	return &feedbackServiceImpl{
		feedbackRepo: feedbackRepo,
		userRepo:     userRepo,
		courseRepo:   courseRepo,
	}
}

// CreateFeedback validates the referenced course and teacher and inserts a
// new pending feedback item owned by the authenticated student.
func (s *feedbackServiceImpl) CreateFeedback(ctx context.Context, studentID int64, req *dto.CreateFeedbackRequest) (*models.Feedback, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("error getting course: %w", err)
	}
	if course == nil {
		return nil, apperrors.NewNotFoundError("Course not found")
	}

	teacher, err := s.userRepo.GetUserByID(ctx, req.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("error getting teacher: %w", err)
	}
	if teacher == nil || teacher.Role != models.RoleTeacher {
		return nil, apperrors.NewNotFoundError("Teacher not found")
	}

	feedback := &models.Feedback{
		StudentID:        studentID,
		CourseID:         req.CourseID,
		AssignmentID:     req.AssignmentID,
		AssignmentTitle:  req.AssignmentTitle,
		TeacherID:        req.TeacherID,
		Subject:          req.Subject,
		Message:          req.Message,
		FeedbackType:     models.FeedbackNeutral,
		Category:         models.CategoryGeneralInquiry,
		Priority:         models.PriorityMedium,
		Status:           models.StatusPending,
		IsPrivate:        req.IsPrivate,
		VisibleToStudent: true,
		SubmittedAt:      time.Now(),
	}
	if req.FeedbackType != "" {
		feedback.FeedbackType = models.FeedbackType(req.FeedbackType)
	}
	if req.Category != "" {
		feedback.Category = models.FeedbackCategory(req.Category)
	}
	if req.Priority != "" {
		feedback.Priority = models.FeedbackPriority(req.Priority)
	}

	id, err := s.feedbackRepo.CreateFeedback(ctx, feedback)
	if err != nil {
		return nil, fmt.Errorf("error creating feedback: %w", err)
	}
	return s.mustGet(ctx, id)
}

// GetTeacherFeedback lists the feedback addressed to a teacher.
func (s *feedbackServiceImpl) GetTeacherFeedback(ctx context.Context, teacherID int64, filter *dto.FeedbackListFilter) ([]*models.Feedback, dto.Pagination, error) {
	params := listParamsFromFilter(filter)
	params.TeacherID = &teacherID
	return s.list(ctx, params)
}

// GetStudentFeedback lists a student's own feedback, restricted to items
// still visible to the student.
func (s *feedbackServiceImpl) GetStudentFeedback(ctx context.Context, studentID int64, filter *dto.FeedbackListFilter) ([]*models.Feedback, dto.Pagination, error) {
	params := listParamsFromFilter(filter)
	params.StudentID = &studentID
	params.VisibleOnly = true
	return s.list(ctx, params)
}

// GetCourseFeedback lists feedback submitted against one course.
func (s *feedbackServiceImpl) GetCourseFeedback(ctx context.Context, courseID int64, filter *dto.FeedbackListFilter) ([]*models.Feedback, dto.Pagination, error) {
	params := listParamsFromFilter(filter)
	params.CourseID = &courseID
	return s.list(ctx, params)
}

// GetFeedbackByID retrieves one feedback item after an ownership check:
// students see their own visible items, teachers the items addressed to
// them, admins everything.
func (s *feedbackServiceImpl) GetFeedbackByID(ctx context.Context, id, userID int64, role models.Role) (*models.Feedback, error) {
	feedback, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}

	switch role {
	case models.RoleAdmin:
	case models.RoleTeacher:
		if feedback.TeacherID != userID {
			return nil, apperrors.ErrPermissionDenied
		}
	case models.RoleStudent:
		if feedback.StudentID != userID || !feedback.VisibleToStudent {
			return nil, apperrors.ErrPermissionDenied
		}
	default:
		return nil, apperrors.ErrPermissionDenied
	}
	return feedback, nil
}

// RespondToFeedback attaches the owning teacher's response. markAsResolved
// resolves the item, otherwise it moves to in_progress.
func (s *feedbackServiceImpl) RespondToFeedback(ctx context.Context, id, teacherID int64, req *dto.RespondToFeedbackRequest) (*models.Feedback, error) {
	feedback, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if feedback.TeacherID != teacherID {
		return nil, apperrors.ErrPermissionDenied
	}

	responseType := models.ResponseAnswer
	if req.ResponseType != "" {
		responseType = models.ResponseType(req.ResponseType)
	}
	now := time.Now()
	if req.MarkAsResolved != nil && *req.MarkAsResolved {
		feedback.MarkResolved(req.Message, responseType, now)
	} else {
		feedback.AddTeacherResponse(req.Message, responseType, now)
	}

	if err := s.update(ctx, feedback); err != nil {
		return nil, err
	}
	return s.mustGet(ctx, id)
}

// UpdateFeedbackStatus moves a feedback item through its lifecycle. Teachers
// may only touch their own items; admins any; students none.
func (s *feedbackServiceImpl) UpdateFeedbackStatus(ctx context.Context, id, userID int64, role models.Role, req *dto.UpdateFeedbackStatusRequest) (*models.Feedback, error) {
	feedback, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && (role != models.RoleTeacher || feedback.TeacherID != userID) {
		return nil, apperrors.ErrPermissionDenied
	}

	if req.Status != nil {
		feedback.Status = models.FeedbackStatus(*req.Status)
	}
	if req.RequiresFollowUp != nil {
		feedback.RequiresFollowUp = *req.RequiresFollowUp
	}

	if err := s.update(ctx, feedback); err != nil {
		return nil, err
	}
	return s.mustGet(ctx, id)
}

// RateFeedback attaches the owning student's rating of the teacher response.
// Rating requires a prior teacher response.
func (s *feedbackServiceImpl) RateFeedback(ctx context.Context, id, studentID int64, req *dto.RateFeedbackRequest) (*models.Feedback, error) {
	feedback, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if feedback.StudentID != studentID {
		return nil, apperrors.ErrPermissionDenied
	}
	if !feedback.HasTeacherResponse() {
		return nil, apperrors.ErrResponseRequired
	}
	if req.Score < 1 || req.Score > 5 {
		return nil, apperrors.ErrInvalidRatingScore
	}

	feedback.Rating = &models.Rating{
		Score:   req.Score,
		Comment: req.Comment,
		RatedAt: time.Now(),
	}

	if err := s.update(ctx, feedback); err != nil {
		return nil, err
	}
	return s.mustGet(ctx, id)
}

// ArchiveFeedback hides a feedback item from the default listings. Only the
// owning teacher or an admin may archive.
func (s *feedbackServiceImpl) ArchiveFeedback(ctx context.Context, id, userID int64, role models.Role) error {
	feedback, err := s.mustGet(ctx, id)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin && (role != models.RoleTeacher || feedback.TeacherID != userID) {
		return apperrors.ErrPermissionDenied
	}

	feedback.IsArchived = true
	return s.update(ctx, feedback)
}

// GetPendingFeedback returns the teacher's pending queue for the dashboard.
func (s *feedbackServiceImpl) GetPendingFeedback(ctx context.Context, teacherID int64) ([]*models.Feedback, error) {
	items, err := s.feedbackRepo.GetPendingByTeacher(ctx, teacherID, pendingQueueLimit)
	if err != nil {
		return nil, fmt.Errorf("error getting pending feedback: %w", err)
	}
	return items, nil
}

// GetTeacherStats aggregates a teacher's feedback counters, optionally
// bounded by a submittedAt range.
func (s *feedbackServiceImpl) GetTeacherStats(ctx context.Context, teacherID int64, from, to *time.Time) (*dto.TeacherStatsResponse, error) {
	return s.stats(ctx, repositories.FeedbackStatsParams{
		TeacherID:   &teacherID,
		From:        from,
		To:          to,
		RecentSince: time.Now().Add(-recentFeedbackWindow),
	})
}

func (s *feedbackServiceImpl) stats(ctx context.Context, params repositories.FeedbackStatsParams) (*dto.TeacherStatsResponse, error) {
	stats, err := s.feedbackRepo.GetTeacherStats(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("error getting feedback stats: %w", err)
	}
	return &dto.TeacherStatsResponse{
		Overview: dto.FeedbackStats{
			Total:         stats.Total,
			Pending:       stats.Pending,
			Resolved:      stats.Resolved,
			AverageRating: stats.AverageRating,
			UrgentCount:   stats.UrgentCount,
		},
		PendingItems:   stats.Pending,
		RecentFeedback: stats.RecentFeedback,
	}, nil
}

// SearchFeedback matches the query against subject and message, scoped to
// the caller: teachers search their own inbox, students their own
// submissions, admins everything.
func (s *feedbackServiceImpl) SearchFeedback(ctx context.Context, userID int64, role models.Role, query string, page, limit int) ([]*models.Feedback, dto.Pagination, error) {
	params := repositories.FeedbackListParams{
		Search: query,
		Page:   page,
		Limit:  limit,
	}
	switch role {
	case models.RoleTeacher:
		params.TeacherID = &userID
	case models.RoleStudent:
		params.StudentID = &userID
		params.VisibleOnly = true
	case models.RoleAdmin:
	default:
		return nil, dto.Pagination{}, apperrors.ErrPermissionDenied
	}
	return s.list(ctx, params)
}

// GetAnalyticsOverview reports system-wide counters plus category and
// priority breakdowns, optionally bounded by a submittedAt range.
func (s *feedbackServiceImpl) GetAnalyticsOverview(ctx context.Context, from, to *time.Time) (*dto.AnalyticsOverviewResponse, error) {
	params := repositories.FeedbackStatsParams{
		From:        from,
		To:          to,
		RecentSince: time.Now().Add(-recentFeedbackWindow),
	}
	stats, err := s.stats(ctx, params)
	if err != nil {
		return nil, err
	}
	categories, err := s.feedbackRepo.GetDistribution(ctx, params, "category")
	if err != nil {
		return nil, fmt.Errorf("error getting category distribution: %w", err)
	}
	priorities, err := s.feedbackRepo.GetDistribution(ctx, params, "priority")
	if err != nil {
		return nil, fmt.Errorf("error getting priority distribution: %w", err)
	}
	return &dto.AnalyticsOverviewResponse{
		Overview:             stats.Overview,
		CategoryDistribution: categories,
		PriorityDistribution: priorities,
	}, nil
}

func (s *feedbackServiceImpl) list(ctx context.Context, params repositories.FeedbackListParams) ([]*models.Feedback, dto.Pagination, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = helpers.DefaultPageSize
	}
	items, totalItems, err := s.feedbackRepo.ListFeedback(ctx, params)
	if err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("error listing feedback: %w", err)
	}
	return items, helpers.NewPagination(totalItems, params.Page, params.Limit, len(items)), nil
}

func (s *feedbackServiceImpl) mustGet(ctx context.Context, id int64) (*models.Feedback, error) {
	feedback, err := s.feedbackRepo.GetFeedbackByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting feedback: %w", err)
	}
	if feedback == nil {
		return nil, apperrors.ErrFeedbackNotFound
	}
	return feedback, nil
}

func (s *feedbackServiceImpl) update(ctx context.Context, feedback *models.Feedback) error {
	updated, err := s.feedbackRepo.UpdateFeedback(ctx, feedback)
	if err != nil {
		return fmt.Errorf("error updating feedback: %w", err)
	}
	if !updated {
		return apperrors.ErrFeedbackNotFound
	}
	return nil
}

func listParamsFromFilter(filter *dto.FeedbackListFilter) repositories.FeedbackListParams {
	params := repositories.FeedbackListParams{
		Status:    filter.Status,
		Priority:  filter.Priority,
		Category:  filter.Category,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
		Page:      filter.Page,
		Limit:     filter.Limit,
	}
	if filter.CourseID > 0 {
		courseID := filter.CourseID
		params.CourseID = &courseID
	}
	return params
}
