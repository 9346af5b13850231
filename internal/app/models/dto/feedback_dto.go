package dto

// CreateFeedbackRequest is the body of POST /api/feedback.
// Unknown fields are rejected at decode time; everything the model needs
// beyond this allow-list comes from the authenticated user.
type CreateFeedbackRequest struct {
	CourseID        int64   `json:"courseId" validate:"required,min=1"`
	AssignmentID    *int64  `json:"assignmentId,omitempty" validate:"omitempty,min=1"`
	AssignmentTitle *string `json:"assignmentTitle,omitempty" validate:"omitempty,max=200"`
	TeacherID       int64   `json:"teacherId" validate:"required,min=1"`
	Subject         string  `json:"subject" validate:"required,max=200"`
	Message         string  `json:"message" validate:"required,max=2000"`
	FeedbackType    string  `json:"feedbackType,omitempty" validate:"omitempty,oneof=positive constructive neutral question"`
	Category        string  `json:"category,omitempty" validate:"omitempty,oneof=assignment_feedback course_feedback general_inquiry technical_issue grade_inquiry content_clarification other"`
	Priority        string  `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	IsPrivate       bool    `json:"isPrivate,omitempty"`
}

// RespondToFeedbackRequest is the body of POST /api/feedback/:id/respond
type RespondToFeedbackRequest struct {
	Message        string `json:"message" validate:"required,max=2000"`
	ResponseType   string `json:"responseType,omitempty" validate:"omitempty,oneof=answer acknowledgment follow_up_needed"`
	MarkAsResolved *bool  `json:"markAsResolved,omitempty"`
}

// UpdateFeedbackStatusRequest is the body of PATCH /api/feedback/:id/status
type UpdateFeedbackStatusRequest struct {
	Status           *string `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress resolved closed"`
	RequiresFollowUp *bool   `json:"requiresFollowUp,omitempty"`
}

// RateFeedbackRequest is the body of POST /api/feedback/:id/rate
type RateFeedbackRequest struct {
	Score   int    `json:"score" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty" validate:"omitempty,max=500"`
}

// FeedbackListFilter carries the query filters of the feedback list endpoints
type FeedbackListFilter struct {
	Status   string
	Priority string
	Category string
	CourseID int64

	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// FeedbackStats is the aggregate block of the teacher stats endpoint
type FeedbackStats struct {
	Total         int64   `json:"total"`
	Pending       int64   `json:"pending"`
	Resolved      int64   `json:"resolved"`
	AverageRating float64 `json:"averageRating"`
	UrgentCount   int64   `json:"urgentCount"`
}

// TeacherStatsResponse is the body of GET /api/feedback/teacher/stats
type TeacherStatsResponse struct {
	Overview       FeedbackStats `json:"overview"`
	PendingItems   int64         `json:"pendingItems"`
	RecentFeedback int64         `json:"recentFeedback"`
}

// DistributionBucket is one label/count pair in analytics breakdowns
type DistributionBucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// AnalyticsOverviewResponse is the body of GET /api/feedback/analytics/overview
type AnalyticsOverviewResponse struct {
	Overview             FeedbackStats        `json:"overview"`
	CategoryDistribution []DistributionBucket `json:"categoryDistribution"`
	PriorityDistribution []DistributionBucket `json:"priorityDistribution"`
}
