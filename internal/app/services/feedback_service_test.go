package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mete/schoolhub/internal/app/models"
	"github.com/mete/schoolhub/internal/app/models/dto"
	"github.com/mete/schoolhub/internal/pkg/apperrors"
)

const (
	studentID      = int64(1)
	teacherID      = int64(2)
	adminID        = int64(3)
	otherTeacherID = int64(5)
	courseID       = int64(10)
)

func newFeedbackFixture() (FeedbackService, *fakeFeedbackStore) {
	users := newFakeUserStore(
		&models.User{ID: studentID, FirstName: "Can", LastName: "Ozturk", Email: "can@school.test", Role: models.RoleStudent},
		&models.User{ID: teacherID, FirstName: "Mehmet", LastName: "Kaya", Email: "mehmet@school.test", Role: models.RoleTeacher},
		&models.User{ID: adminID, FirstName: "Ayse", LastName: "Demir", Email: "ayse@school.test", Role: models.RoleAdmin},
		&models.User{ID: otherTeacherID, FirstName: "Elif", LastName: "Yilmaz", Email: "elif@school.test", Role: models.RoleTeacher},
	)
	courses := newFakeCourseStore(&models.Course{ID: courseID, Name: "Mathematics", Code: "MATH-9"})
	store := newFakeFeedbackStore()
	return NewFeedbackService(store, users, courses), store
}

func submitFeedback(t *testing.T, svc FeedbackService, req *dto.CreateFeedbackRequest) *models.Feedback {
	t.Helper()
	if req == nil {
		req = &dto.CreateFeedbackRequest{}
	}
	if req.CourseID == 0 {
		req.CourseID = courseID
	}
	if req.TeacherID == 0 {
		req.TeacherID = teacherID
	}
	if req.Subject == "" {
		req.Subject = "Question about homework"
	}
	if req.Message == "" {
		req.Message = "Could you clarify exercise 3?"
	}
	created, err := svc.CreateFeedback(context.Background(), studentID, req)
	require.NoError(t, err)
	return created
}

func TestCreateFeedbackDefaults(t *testing.T) {
	svc, _ := newFeedbackFixture()

	created := submitFeedback(t, svc, nil)

	assert.Equal(t, models.FeedbackNeutral, created.FeedbackType)
	assert.Equal(t, models.CategoryGeneralInquiry, created.Category)
	assert.Equal(t, models.PriorityMedium, created.Priority)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.True(t, created.VisibleToStudent)
	assert.False(t, created.IsUrgent)
	assert.False(t, created.SubmittedAt.IsZero())
}

func TestCreateFeedbackUrgentPriority(t *testing.T) {
	svc, _ := newFeedbackFixture()

	created := submitFeedback(t, svc, &dto.CreateFeedbackRequest{Priority: "urgent"})

	assert.Equal(t, models.PriorityUrgent, created.Priority)
	assert.True(t, created.IsUrgent)
}

func TestCreateFeedbackUnknownCourse(t *testing.T) {
	svc, _ := newFeedbackFixture()

	_, err := svc.CreateFeedback(context.Background(), studentID, &dto.CreateFeedbackRequest{
		CourseID:  999,
		TeacherID: teacherID,
		Subject:   "s",
		Message:   "m",
	})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestCreateFeedbackTeacherMustHaveTeacherRole(t *testing.T) {
	svc, _ := newFeedbackFixture()

	// adminID exists but is not a teacher
	_, err := svc.CreateFeedback(context.Background(), studentID, &dto.CreateFeedbackRequest{
		CourseID:  courseID,
		TeacherID: adminID,
		Subject:   "s",
		Message:   "m",
	})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestGetFeedbackByIDOwnership(t *testing.T) {
	svc, _ := newFeedbackFixture()
	created := submitFeedback(t, svc, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  int64
		role    models.Role
		wantErr error
	}{
		{"owning student", studentID, models.RoleStudent, nil},
		{"owning teacher", teacherID, models.RoleTeacher, nil},
		{"admin", adminID, models.RoleAdmin, nil},
		{"other student", int64(99), models.RoleStudent, apperrors.ErrPermissionDenied},
		{"other teacher", int64(99), models.RoleTeacher, apperrors.ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetFeedbackByID(ctx, created.ID, tt.userID, tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetFeedbackByIDHiddenFromStudent(t *testing.T) {
	svc, store := newFeedbackFixture()
	created := submitFeedback(t, svc, nil)

	hidden := store.items[created.ID]
	hidden.VisibleToStudent = false

	_, err := svc.GetFeedbackByID(context.Background(), created.ID, studentID, models.RoleStudent)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// Teacher still sees it
	_, err = svc.GetFeedbackByID(context.Background(), created.ID, teacherID, models.RoleTeacher)
	assert.NoError(t, err)
}

func TestGetFeedbackByIDMissing(t *testing.T) {
	svc, _ := newFeedbackFixture()

	_, err := svc.GetFeedbackByID(context.Background(), 12345, adminID, models.RoleAdmin)
	assert.ErrorIs(t, err, apperrors.ErrFeedbackNotFound)
}

func TestRespondToFeedback(t *testing.T) {
	svc, _ := newFeedbackFixture()
	created := submitFeedback(t, svc, nil)

	updated, err := svc.RespondToFeedback(context.Background(), created.ID, teacherID, &dto.RespondToFeedbackRequest{
		Message: "Exercise 3 expects the quadratic formula",
	})
	require.NoError(t, err)

	require.NotNil(t, updated.TeacherResponse)
	assert.Equal(t, models.ResponseAnswer, updated.TeacherResponse.ResponseType)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.Nil(t, updated.ResolvedAt)
}

func TestRespondToFeedbackMarkAsResolved(t *testing.T) {
	svc, _ := newFeedbackFixture()
	created := submitFeedback(t, svc, nil)

	resolved := true
	updated, err := svc.RespondToFeedback(context.Background(), created.ID, teacherID, &dto.RespondToFeedbackRequest{
		Message:        "Fixed in the new handout",
		ResponseType:   "acknowledgment",
		MarkAsResolved: &resolved,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusResolved, updated.Status)
	assert.Equal(t, models.ResponseAcknowledgment, updated.TeacherResponse.ResponseType)
	require.NotNil(t, updated.ResolvedAt)
}

func TestRespondToFeedbackWrongTeacher(t *testing.T) {
	svc, _ := newFeedbackFixture()
	created := submitFeedback(t, svc, nil)

	_, err := svc.RespondToFeedback(context.Background(), created.ID, int64(99), &dto.RespondToFeedbackRequest{Message: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestUpdateFeedbackStatusPermissions(t *testing.T) {
	svc, _ := newFeedbackFixture()
	created := submitFeedback(t, svc, nil)
	ctx := context.Background()
	status := "closed"

	_, err := svc.UpdateFeedbackStatus(ctx, created.ID, studentID, models.RoleStudent, &dto.UpdateFeedbackStatusRequest{Status: &status})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.UpdateFeedbackStatus(ctx, created.ID, int64(99), models.RoleTeacher, &dto.UpdateFeedbackStatusRequest{Status: &status})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	updated, err := svc.UpdateFeedbackStatus(ctx, created.ID, adminID, models.RoleAdmin, &dto.UpdateFeedbackStatusRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, updated.Status)
}

func TestUpdateFeedbackStatusResolvedSetsResolvedAtOnce(t *testing.T) {
	svc, _ := newFeedbackFixture()
	created := submitFeedback(t, svc, nil)
	ctx := context.Background()
	resolved := "resolved"
	pending := "pending"

	first, err := svc.UpdateFeedbackStatus(ctx, created.ID, teacherID, models.RoleTeacher, &dto.UpdateFeedbackStatusRequest{Status: &resolved})
	require.NoError(t, err)
	require.NotNil(t, first.ResolvedAt)
	firstResolvedAt := *first.ResolvedAt

	_, err = svc.UpdateFeedbackStatus(ctx, created.ID, teacherID, models.RoleTeacher, &dto.UpdateFeedbackStatusRequest{Status: &pending})
	require.NoError(t, err)
	second, err := svc.UpdateFeedbackStatus(ctx, created.ID, teacherID, models.RoleTeacher, &dto.UpdateFeedbackStatusRequest{Status: &resolved})
	require.NoError(t, err)
	require.NotNil(t, second.ResolvedAt)
	assert.Equal(t, firstResolvedAt, *second.ResolvedAt)
}

func TestRateFeedbackRequiresResponse(t *testing.T) {
	svc, _ := newFeedbackFixture()
	created := submitFeedback(t, svc, nil)

	_, err := svc.RateFeedback(context.Background(), created.ID, studentID, &dto.RateFeedbackRequest{Score: 4})
	assert.ErrorIs(t, err, apperrors.ErrResponseRequired)
}

func TestRateFeedback(t *testing.T) {
	svc, _ := newFeedbackFixture()
	created := submitFeedback(t, svc, nil)
	ctx := context.Background()

	_, err := svc.RespondToFeedback(ctx, created.ID, teacherID, &dto.RespondToFeedbackRequest{Message: "answered"})
	require.NoError(t, err)

	_, err = svc.RateFeedback(ctx, created.ID, int64(99), &dto.RateFeedbackRequest{Score: 4})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	for _, score := range []int{0, 6, -1} {
		_, err = svc.RateFeedback(ctx, created.ID, studentID, &dto.RateFeedbackRequest{Score: score})
		assert.ErrorIs(t, err, apperrors.ErrInvalidRatingScore, "score %d must be rejected", score)
	}

	rated, err := svc.RateFeedback(ctx, created.ID, studentID, &dto.RateFeedbackRequest{Score: 5, Comment: "Very clear"})
	require.NoError(t, err)
	require.NotNil(t, rated.Rating)
	assert.Equal(t, 5, rated.Rating.Score)
	assert.Equal(t, "Very clear", rated.Rating.Comment)
}

func TestArchiveFeedbackHidesFromListings(t *testing.T) {
	svc, _ := newFeedbackFixture()
	created := submitFeedback(t, svc, nil)
	ctx := context.Background()

	err := svc.ArchiveFeedback(ctx, created.ID, studentID, models.RoleStudent)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, svc.ArchiveFeedback(ctx, created.ID, teacherID, models.RoleTeacher))

	items, _, err := svc.GetTeacherFeedback(ctx, teacherID, &dto.FeedbackListFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetTeacherFeedbackPagination(t *testing.T) {
	svc, _ := newFeedbackFixture()
	for i := 0; i < 25; i++ {
		submitFeedback(t, svc, nil)
	}

	items, pagination, err := svc.GetTeacherFeedback(context.Background(), teacherID, &dto.FeedbackListFilter{Page: 2, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, items, 10)
	assert.Equal(t, 2, pagination.Current)
	assert.Equal(t, 3, pagination.Total)
	assert.Equal(t, 10, pagination.Count)
	assert.Equal(t, int64(25), pagination.TotalItems)
}

func TestGetStudentFeedbackExcludesHidden(t *testing.T) {
	svc, store := newFeedbackFixture()
	visible := submitFeedback(t, svc, nil)
	hidden := submitFeedback(t, svc, nil)
	store.items[hidden.ID].VisibleToStudent = false

	items, _, err := svc.GetStudentFeedback(context.Background(), studentID, &dto.FeedbackListFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, visible.ID, items[0].ID)
}

func TestGetPendingFeedbackOrdersByPriority(t *testing.T) {
	svc, _ := newFeedbackFixture()
	low := submitFeedback(t, svc, &dto.CreateFeedbackRequest{Priority: "low"})
	urgent := submitFeedback(t, svc, &dto.CreateFeedbackRequest{Priority: "urgent"})
	high := submitFeedback(t, svc, &dto.CreateFeedbackRequest{Priority: "high"})

	pending, err := svc.GetPendingFeedback(context.Background(), teacherID)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, urgent.ID, pending[0].ID)
	assert.Equal(t, high.ID, pending[1].ID)
	assert.Equal(t, low.ID, pending[2].ID)
}

func TestGetTeacherStats(t *testing.T) {
	svc, _ := newFeedbackFixture()
	ctx := context.Background()

	submitFeedback(t, svc, nil)
	submitFeedback(t, svc, &dto.CreateFeedbackRequest{Priority: "urgent"})
	resolvedItem := submitFeedback(t, svc, nil)
	resolved := true
	_, err := svc.RespondToFeedback(ctx, resolvedItem.ID, teacherID, &dto.RespondToFeedbackRequest{
		Message:        "done",
		MarkAsResolved: &resolved,
	})
	require.NoError(t, err)
	_, err = svc.RateFeedback(ctx, resolvedItem.ID, studentID, &dto.RateFeedbackRequest{Score: 4})
	require.NoError(t, err)

	stats, err := svc.GetTeacherStats(ctx, teacherID, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Overview.Total)
	assert.Equal(t, int64(2), stats.Overview.Pending)
	assert.Equal(t, int64(1), stats.Overview.Resolved)
	assert.Equal(t, int64(1), stats.Overview.UrgentCount)
	assert.InDelta(t, 4.0, stats.Overview.AverageRating, 0.001)
	assert.Equal(t, int64(2), stats.PendingItems)
	assert.Equal(t, int64(3), stats.RecentFeedback, "all items were submitted within the last 7 days")
}

func TestGetTeacherStatsBoundedByDateRange(t *testing.T) {
	svc, store := newFeedbackFixture()
	ctx := context.Background()

	submitFeedback(t, svc, nil)
	old := submitFeedback(t, svc, nil)
	store.items[old.ID].SubmittedAt = time.Now().Add(-30 * 24 * time.Hour)

	from := time.Now().Add(-24 * time.Hour)
	stats, err := svc.GetTeacherStats(ctx, teacherID, &from, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Overview.Total)

	to := time.Now().Add(-7 * 24 * time.Hour)
	stats, err = svc.GetTeacherStats(ctx, teacherID, nil, &to)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Overview.Total)
	assert.Equal(t, int64(0), stats.RecentFeedback)
}

func TestSearchFeedbackScopedByRole(t *testing.T) {
	svc, _ := newFeedbackFixture()
	ctx := context.Background()
	submitFeedback(t, svc, &dto.CreateFeedbackRequest{Subject: "Projector broken", Message: "Room B12"})
	submitFeedback(t, svc, &dto.CreateFeedbackRequest{Subject: "Grading question", Message: "About the midterm"})

	items, _, err := svc.SearchFeedback(ctx, teacherID, models.RoleTeacher, "projector", 1, 10)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, _, err = svc.SearchFeedback(ctx, int64(99), models.RoleTeacher, "projector", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, items, "another teacher's inbox must not match")

	_, _, err = svc.SearchFeedback(ctx, studentID, models.Role("visitor"), "projector", 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestGetAnalyticsOverview(t *testing.T) {
	svc, _ := newFeedbackFixture()
	submitFeedback(t, svc, &dto.CreateFeedbackRequest{Category: "technical_issue", Priority: "high"})
	submitFeedback(t, svc, &dto.CreateFeedbackRequest{Category: "technical_issue"})
	submitFeedback(t, svc, nil)

	overview, err := svc.GetAnalyticsOverview(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(3), overview.Overview.Total)

	categories := make(map[string]int64)
	for _, b := range overview.CategoryDistribution {
		categories[b.Label] = b.Count
	}
	assert.Equal(t, int64(2), categories["technical_issue"])
	assert.Equal(t, int64(1), categories["general_inquiry"])

	priorities := make(map[string]int64)
	for _, b := range overview.PriorityDistribution {
		priorities[b.Label] = b.Count
	}
	assert.Equal(t, int64(1), priorities["high"])
	assert.Equal(t, int64(2), priorities["medium"])
}

func TestGetAnalyticsOverviewSpansAllTeachers(t *testing.T) {
	svc, _ := newFeedbackFixture()
	submitFeedback(t, svc, nil)
	submitFeedback(t, svc, &dto.CreateFeedbackRequest{TeacherID: otherTeacherID})

	overview, err := svc.GetAnalyticsOverview(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(2), overview.Overview.Total, "aggregates must not be scoped to one teacher")
}

func TestGetAnalyticsOverviewBoundedByDateRange(t *testing.T) {
	svc, store := newFeedbackFixture()
	submitFeedback(t, svc, nil)
	outOfRange := submitFeedback(t, svc, nil)
	store.items[outOfRange.ID].SubmittedAt = time.Now().Add(-30 * 24 * time.Hour)

	from := time.Now().Add(-24 * time.Hour)
	overview, err := svc.GetAnalyticsOverview(context.Background(), &from, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), overview.Overview.Total)
}

func TestListFeedbackDefaultSortIsNewestFirst(t *testing.T) {
	svc, store := newFeedbackFixture()
	older := submitFeedback(t, svc, nil)
	newer := submitFeedback(t, svc, nil)
	store.items[older.ID].SubmittedAt = time.Now().Add(-time.Hour)

	items, _, err := svc.GetTeacherFeedback(context.Background(), teacherID, &dto.FeedbackListFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, newer.ID, items[0].ID)
}

func TestFeedbackLifecycle(t *testing.T) {
	svc, _ := newFeedbackFixture()
	ctx := context.Background()

	created := submitFeedback(t, svc, &dto.CreateFeedbackRequest{
		Subject:  "Grading question",
		Message:  "My quiz score looks off",
		Priority: "high",
	})
	assert.Equal(t, models.StatusPending, created.Status)

	pending, err := svc.GetPendingFeedback(ctx, teacherID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, created.ID, pending[0].ID)

	resolved := true
	responded, err := svc.RespondToFeedback(ctx, created.ID, teacherID, &dto.RespondToFeedbackRequest{
		Message:        "Recounted, score corrected",
		MarkAsResolved: &resolved,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, responded.Status)
	require.NotNil(t, responded.ResolvedAt)

	rated, err := svc.RateFeedback(ctx, created.ID, studentID, &dto.RateFeedbackRequest{Score: 5, Comment: "Thanks"})
	require.NoError(t, err)
	require.NotNil(t, rated.Rating)

	stats, err := svc.GetTeacherStats(ctx, teacherID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Overview.Total)
	assert.Equal(t, int64(1), stats.Overview.Resolved)
	assert.Equal(t, int64(0), stats.PendingItems)
	assert.InDelta(t, 5.0, stats.Overview.AverageRating, 0.001)

	require.NoError(t, svc.ArchiveFeedback(ctx, created.ID, teacherID, models.RoleTeacher))

	items, _, err := svc.GetTeacherFeedback(ctx, teacherID, &dto.FeedbackListFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
}
