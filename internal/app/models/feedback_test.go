package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeforeSaveStampsLastUpdated(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f := &Feedback{Priority: PriorityMedium, Status: StatusPending}

	f.BeforeSave(now)

	assert.Equal(t, now, f.LastUpdatedAt)
	assert.False(t, f.IsUrgent)
	assert.Nil(t, f.ResolvedAt)
}

func TestBeforeSaveUrgentFlagFollowsPriority(t *testing.T) {
	now := time.Now()

	f := &Feedback{Priority: PriorityUrgent}
	f.BeforeSave(now)
	assert.True(t, f.IsUrgent)

	// Downgrading the priority clears the flag on the next save
	f.Priority = PriorityLow
	f.BeforeSave(now)
	assert.False(t, f.IsUrgent)
}

func TestBeforeSaveResolvedAtSetOnce(t *testing.T) {
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	f := &Feedback{Priority: PriorityMedium, Status: StatusResolved}
	f.BeforeSave(first)
	require.NotNil(t, f.ResolvedAt)
	assert.Equal(t, first, *f.ResolvedAt)

	f.BeforeSave(later)
	assert.Equal(t, first, *f.ResolvedAt, "resolvedAt must keep the first resolution time")
}

func TestBeforeSaveResolvedAtNotSetForOtherStatuses(t *testing.T) {
	for _, status := range []FeedbackStatus{StatusPending, StatusInProgress, StatusClosed} {
		f := &Feedback{Priority: PriorityMedium, Status: status}
		f.BeforeSave(time.Now())
		assert.Nil(t, f.ResolvedAt, "status %s must not set resolvedAt", status)
	}
}

func TestHasTeacherResponse(t *testing.T) {
	f := &Feedback{}
	assert.False(t, f.HasTeacherResponse())

	f.TeacherResponse = &TeacherResponse{}
	assert.False(t, f.HasTeacherResponse(), "empty message does not count as a response")

	f.TeacherResponse.Message = "Reviewed, see the updated rubric"
	assert.True(t, f.HasTeacherResponse())
}

func TestMarkResolved(t *testing.T) {
	now := time.Now()
	f := &Feedback{Status: StatusPending}

	f.MarkResolved("Done", ResponseAnswer, now)

	require.NotNil(t, f.TeacherResponse)
	assert.Equal(t, "Done", f.TeacherResponse.Message)
	assert.Equal(t, ResponseAnswer, f.TeacherResponse.ResponseType)
	assert.Equal(t, now, f.TeacherResponse.RespondedAt)
	assert.Equal(t, StatusResolved, f.Status)
}

func TestAddTeacherResponseMovesToInProgress(t *testing.T) {
	f := &Feedback{Status: StatusPending}

	f.AddTeacherResponse("Looking into it", ResponseAcknowledgment, time.Now())

	require.NotNil(t, f.TeacherResponse)
	assert.Equal(t, StatusInProgress, f.Status)
	assert.Nil(t, f.ResolvedAt)
}
