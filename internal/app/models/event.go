package models

import "time"

// EventType classifies a school event
type EventType string

const (
	EventCompetition EventType = "Competition"
	EventSports      EventType = "Sports"
	EventAcademic    EventType = "Academic"
	EventCultural    EventType = "Cultural"
	EventGeneral     EventType = "General"
)

// ParticipantStatus tracks an event registration
type ParticipantStatus string

const (
	ParticipantRegistered ParticipantStatus = "Registered"
	ParticipantConfirmed  ParticipantStatus = "Confirmed"
	ParticipantCancelled  ParticipantStatus = "Cancelled"
)

// Event represents a school event open for registration
type Event struct {
	ID                   int64      `json:"id" db:"id"`
	Title                string     `json:"title" db:"title"`
	Description          string     `json:"description" db:"description"`
	EventType            EventType  `json:"eventType" db:"event_type"`
	EventDate            time.Time  `json:"date" db:"event_date"`
	StartTime            string     `json:"startTime,omitempty" db:"start_time"`
	EndTime              string     `json:"endTime,omitempty" db:"end_time"`
	Location             string     `json:"location" db:"location"`
	EligibleRoles        []Role     `json:"eligibleRoles" db:"eligible_roles"`
	MaxParticipants      *int       `json:"maxParticipants,omitempty" db:"max_participants"`
	RegistrationDeadline *time.Time `json:"registrationDeadline,omitempty" db:"registration_deadline"`
	CreatedBy            int64      `json:"createdBy" db:"created_by"`
	CreatedAt            time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time  `json:"updatedAt" db:"updated_at"`

	Creator      *UserSummary       `json:"creator,omitempty"`
	Participants []EventParticipant `json:"participants,omitempty"`
}

// EventParticipant is one user's registration for an event.
// The pair (event, user) is unique.
type EventParticipant struct {
	ID           int64             `json:"id" db:"id"`
	EventID      int64             `json:"eventId" db:"event_id"`
	UserID       int64             `json:"userId" db:"user_id"`
	RegisteredAt time.Time         `json:"registeredAt" db:"registered_at"`
	Status       ParticipantStatus `json:"status" db:"status"`

	User *UserSummary `json:"user,omitempty"`
}

// RoleEligible reports whether the given role may register for the event.
// An empty eligibility list means the event is open to every role.
func (e *Event) RoleEligible(role Role) bool {
	if len(e.EligibleRoles) == 0 {
		return true
	}
	for _, r := range e.EligibleRoles {
		if r == role {
			return true
		}
	}
	return false
}

// RegistrationOpen reports whether the registration deadline has not yet
// passed at the given time. Events without a deadline are always open.
func (e *Event) RegistrationOpen(now time.Time) bool {
	return e.RegistrationDeadline == nil || now.Before(*e.RegistrationDeadline)
}
