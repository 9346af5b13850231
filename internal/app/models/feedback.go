package models

import "time"

// FeedbackType classifies the tone of a feedback message
type FeedbackType string

const (
	FeedbackPositive     FeedbackType = "positive"
	FeedbackConstructive FeedbackType = "constructive"
	FeedbackNeutral      FeedbackType = "neutral"
	FeedbackQuestion     FeedbackType = "question"
)

// FeedbackCategory classifies what a feedback message is about
type FeedbackCategory string

const (
	CategoryAssignmentFeedback   FeedbackCategory = "assignment_feedback"
	CategoryCourseFeedback       FeedbackCategory = "course_feedback"
	CategoryGeneralInquiry       FeedbackCategory = "general_inquiry"
	CategoryTechnicalIssue       FeedbackCategory = "technical_issue"
	CategoryGradeInquiry         FeedbackCategory = "grade_inquiry"
	CategoryContentClarification FeedbackCategory = "content_clarification"
	CategoryOther                FeedbackCategory = "other"
)

// FeedbackPriority is the urgency level assigned by the student
type FeedbackPriority string

const (
	PriorityLow    FeedbackPriority = "low"
	PriorityMedium FeedbackPriority = "medium"
	PriorityHigh   FeedbackPriority = "high"
	PriorityUrgent FeedbackPriority = "urgent"
)

// FeedbackStatus tracks where a feedback item is in its lifecycle
type FeedbackStatus string

const (
	StatusPending    FeedbackStatus = "pending"
	StatusInProgress FeedbackStatus = "in_progress"
	StatusResolved   FeedbackStatus = "resolved"
	StatusClosed     FeedbackStatus = "closed"
)

// ResponseType classifies a teacher's response
type ResponseType string

const (
	ResponseAnswer         ResponseType = "answer"
	ResponseAcknowledgment ResponseType = "acknowledgment"
	ResponseFollowUpNeeded ResponseType = "follow_up_needed"
)

// TeacherResponse is the teacher's reply attached to a feedback item
type TeacherResponse struct {
	Message      string       `json:"message"`
	ResponseType ResponseType `json:"responseType"`
	RespondedAt  time.Time    `json:"respondedAt"`
}

// Rating is the student's rating of the teacher's response
type Rating struct {
	Score   int       `json:"score"`
	Comment string    `json:"comment"`
	RatedAt time.Time `json:"ratedAt"`
}

// Feedback represents one student-submitted note to a teacher about a
// course or assignment.
type Feedback struct {
	ID int64 `json:"id" db:"id"`

	StudentID       int64   `json:"studentId" db:"student_id"`
	CourseID        int64   `json:"courseId" db:"course_id"`
	AssignmentID    *int64  `json:"assignmentId,omitempty" db:"assignment_id"`
	AssignmentTitle *string `json:"assignmentTitle,omitempty" db:"assignment_title"`
	TeacherID       int64   `json:"teacherId" db:"teacher_id"`

	Subject string `json:"subject" db:"subject"`
	Message string `json:"message" db:"message"`

	FeedbackType FeedbackType     `json:"feedbackType" db:"feedback_type"`
	Category     FeedbackCategory `json:"category" db:"category"`
	Priority     FeedbackPriority `json:"priority" db:"priority"`
	Status       FeedbackStatus   `json:"status" db:"status"`

	TeacherResponse *TeacherResponse `json:"teacherResponse,omitempty"`
	Rating          *Rating          `json:"rating,omitempty"`

	IsPrivate        bool `json:"isPrivate" db:"is_private"`
	VisibleToStudent bool `json:"visibleToStudent" db:"visible_to_student"`
	IsArchived       bool `json:"isArchived" db:"is_archived"`
	RequiresFollowUp bool `json:"requiresFollowUp" db:"requires_follow_up"`
	IsUrgent         bool `json:"isUrgent" db:"is_urgent"`

	SubmittedAt   time.Time  `json:"submittedAt" db:"submitted_at"`
	LastUpdatedAt time.Time  `json:"lastUpdatedAt" db:"last_updated_at"`
	ResolvedAt    *time.Time `json:"resolvedAt,omitempty" db:"resolved_at"`

	// Populated references
	Student *UserSummary   `json:"student,omitempty"`
	Course  *CourseSummary `json:"course,omitempty"`
	Teacher *UserSummary   `json:"teacher,omitempty"`
}

// BeforeSave applies the rules enforced on every persist: the urgency flag
// follows priority, the last-updated stamp moves, and resolvedAt is set the
// first time status reaches resolved and never again.
func (f *Feedback) BeforeSave(now time.Time) {
	f.LastUpdatedAt = now
	f.IsUrgent = f.Priority == PriorityUrgent
	if f.Status == StatusResolved && f.ResolvedAt == nil {
		resolvedAt := now
		f.ResolvedAt = &resolvedAt
	}
}

// HasTeacherResponse reports whether a teacher reply exists; a rating may
// only be attached once this is true.
func (f *Feedback) HasTeacherResponse() bool {
	return f.TeacherResponse != nil && f.TeacherResponse.Message != ""
}

// MarkResolved attaches the teacher's response and closes the item as resolved
func (f *Feedback) MarkResolved(message string, responseType ResponseType, now time.Time) {
	f.TeacherResponse = &TeacherResponse{
		Message:      message,
		ResponseType: responseType,
		RespondedAt:  now,
	}
	f.Status = StatusResolved
}

// AddTeacherResponse attaches the teacher's response and moves the item to
// in_progress without resolving it
func (f *Feedback) AddTeacherResponse(message string, responseType ResponseType, now time.Time) {
	f.TeacherResponse = &TeacherResponse{
		Message:      message,
		ResponseType: responseType,
		RespondedAt:  now,
	}
	f.Status = StatusInProgress
}
