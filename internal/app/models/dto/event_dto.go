package dto

// CreateEventRequest is the body of POST /api/events
type CreateEventRequest struct {
	Title                string   `json:"title" validate:"required,max=200"`
	Description          string   `json:"description" validate:"required,max=2000"`
	EventType            string   `json:"eventType" validate:"required,oneof=Competition Sports Academic Cultural General"`
	Date                 string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime            string   `json:"startTime,omitempty" validate:"omitempty,max=20"`
	EndTime              string   `json:"endTime,omitempty" validate:"omitempty,max=20"`
	Location             string   `json:"location" validate:"required,max=200"`
	EligibleRoles        []string `json:"eligibleRoles,omitempty" validate:"omitempty,dive,oneof=student teacher parent"`
	MaxParticipants      *int     `json:"maxParticipants,omitempty" validate:"omitempty,min=1"`
	RegistrationDeadline *string  `json:"registrationDeadline,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateEventRequest is the body of PUT /api/events/:id
type UpdateEventRequest struct {
	Title                *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Description          *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	EventType            *string  `json:"eventType,omitempty" validate:"omitempty,oneof=Competition Sports Academic Cultural General"`
	Date                 *string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime            *string  `json:"startTime,omitempty" validate:"omitempty,max=20"`
	EndTime              *string  `json:"endTime,omitempty" validate:"omitempty,max=20"`
	Location             *string  `json:"location,omitempty" validate:"omitempty,max=200"`
	EligibleRoles        []string `json:"eligibleRoles,omitempty" validate:"omitempty,dive,oneof=student teacher parent"`
	MaxParticipants      *int     `json:"maxParticipants,omitempty" validate:"omitempty,min=1"`
	RegistrationDeadline *string  `json:"registrationDeadline,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateParticipantStatusRequest is the body of
// PATCH /api/events/:id/participants/:userId
type UpdateParticipantStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Registered Confirmed Cancelled"`
}
