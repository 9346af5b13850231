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

func newExamFixture(exams ...*models.Exam) (ExamService, *fakeExamStore) {
	users := newFakeUserStore(
		&models.User{ID: studentID, FirstName: "Can", LastName: "Ozturk", Email: "can@school.test", Role: models.RoleStudent},
		&models.User{ID: teacherID, FirstName: "Mehmet", LastName: "Kaya", Email: "mehmet@school.test", Role: models.RoleTeacher},
	)
	courses := newFakeCourseStore(&models.Course{ID: courseID, Name: "Mathematics", Code: "MATH-9"})
	store := newFakeExamStore(exams...)
	return NewExamService(store, courses, users), store
}

func midtermExam() *models.Exam {
	return &models.Exam{
		ID:        1,
		CourseID:  courseID,
		Title:     "Midterm",
		Subject:   "Algebra",
		ExamDate:  time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "11:00",
	}
}

func TestCreateExam(t *testing.T) {
	svc, _ := newExamFixture()

	exam, err := svc.CreateExam(context.Background(), &dto.CreateExamRequest{
		CourseID:  courseID,
		Title:     "Final",
		Subject:   "Geometry",
		ExamDate:  "2026-12-20",
		StartTime: "10:00",
		EndTime:   "12:00",
		Venue:     "Hall A",
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC), exam.ExamDate)
	assert.Equal(t, "Hall A", exam.Venue)
}

func TestCreateExamBadInput(t *testing.T) {
	svc, _ := newExamFixture()
	ctx := context.Background()

	_, err := svc.CreateExam(ctx, &dto.CreateExamRequest{
		CourseID: 999, Title: "t", Subject: "s", ExamDate: "2026-12-20", StartTime: "10:00", EndTime: "12:00",
	})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = svc.CreateExam(ctx, &dto.CreateExamRequest{
		CourseID: courseID, Title: "t", Subject: "s", ExamDate: "20.12.2026", StartTime: "10:00", EndTime: "12:00",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestAddResult(t *testing.T) {
	svc, _ := newExamFixture(midtermExam())

	result, err := svc.AddResult(context.Background(), 1, &dto.AddExamResultRequest{
		StudentID: studentID,
		Marks:     87.5,
		Grade:     "A",
	})
	require.NoError(t, err)

	assert.Equal(t, 87.5, result.Marks)
	require.NotNil(t, result.Student)
	assert.Equal(t, "Can Ozturk", result.Student.Name)
}

func TestAddResultDuplicate(t *testing.T) {
	svc, _ := newExamFixture(midtermExam())
	ctx := context.Background()

	_, err := svc.AddResult(ctx, 1, &dto.AddExamResultRequest{StudentID: studentID, Marks: 80})
	require.NoError(t, err)

	_, err = svc.AddResult(ctx, 1, &dto.AddExamResultRequest{StudentID: studentID, Marks: 90})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateResult)
}

func TestAddResultValidation(t *testing.T) {
	svc, _ := newExamFixture(midtermExam())
	ctx := context.Background()

	_, err := svc.AddResult(ctx, 42, &dto.AddExamResultRequest{StudentID: studentID, Marks: 80})
	assert.ErrorIs(t, err, apperrors.ErrExamNotFound)

	// Only students can receive results
	_, err = svc.AddResult(ctx, 1, &dto.AddExamResultRequest{StudentID: teacherID, Marks: 80})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestGetExamResultsRequiresExam(t *testing.T) {
	svc, _ := newExamFixture(midtermExam())
	ctx := context.Background()

	_, err := svc.GetExamResults(ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrExamNotFound)

	results, err := svc.GetExamResults(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDeleteExamCascadesResults(t *testing.T) {
	svc, store := newExamFixture(midtermExam())
	ctx := context.Background()

	_, err := svc.AddResult(ctx, 1, &dto.AddExamResultRequest{StudentID: studentID, Marks: 70})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteExam(ctx, 1))
	assert.Empty(t, store.results[1])

	_, err = svc.GetExamByID(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrExamNotFound)
}

func TestUpdateExam(t *testing.T) {
	svc, _ := newExamFixture(midtermExam())
	venue := "Hall B"
	date := "2026-11-10"

	updated, err := svc.UpdateExam(context.Background(), 1, &dto.UpdateExamRequest{
		Venue:    &venue,
		ExamDate: &date,
	})
	require.NoError(t, err)

	assert.Equal(t, "Hall B", updated.Venue)
	assert.Equal(t, time.Date(2026, 11, 10, 0, 0, 0, 0, time.UTC), updated.ExamDate)
	assert.Equal(t, "Midterm", updated.Title, "untouched fields keep their values")
}

func TestListExamsFilters(t *testing.T) {
	other := midtermExam()
	other.ID = 2
	other.CourseID = 20
	svc, _ := newExamFixture(midtermExam(), other)
	ctx := context.Background()

	all, err := svc.ListExams(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	cid := courseID
	filtered, err := svc.ListExams(ctx, &cid, nil)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(1), filtered[0].ID)
}

func TestGetStudentResults(t *testing.T) {
	svc, _ := newExamFixture(midtermExam())
	ctx := context.Background()

	_, err := svc.AddResult(ctx, 1, &dto.AddExamResultRequest{StudentID: studentID, Marks: 92})
	require.NoError(t, err)

	results, err := svc.GetStudentResults(ctx, studentID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 92.0, results[0].Marks)
}
