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

// eventDateLayout is the wire format of event dates.
const eventDateLayout = "2006-01-02"

// EventStore is the persistence surface the event service depends on.
type EventStore interface {
	CreateEvent(ctx context.Context, event *models.Event) (int64, error)
	GetEventByID(ctx context.Context, id int64) (*models.Event, error)
	ListEvents(ctx context.Context, params repositories.EventListParams) ([]*models.Event, int64, error)
	UpdateEvent(ctx context.Context, event *models.Event) error
	DeleteEventWithParticipants(ctx context.Context, eventID int64) error
	AddParticipant(ctx context.Context, participant *models.EventParticipant) (int64, error)
	CountActiveParticipants(ctx context.Context, eventID int64) (int64, error)
	GetParticipants(ctx context.Context, eventID int64) ([]models.EventParticipant, error)
	UpdateParticipantStatus(ctx context.Context, eventID, userID int64, status models.ParticipantStatus) error
}

// EventService defines the interface for event operations
type EventService interface {
	CreateEvent(ctx context.Context, createdBy int64, req *dto.CreateEventRequest) (*models.Event, error)
	GetEventByID(ctx context.Context, id int64) (*models.Event, error)
	ListEvents(ctx context.Context, eventType string, upcomingOnly bool, page, limit int) ([]*models.Event, dto.Pagination, error)
	UpdateEvent(ctx context.Context, id, userID int64, role models.Role, req *dto.UpdateEventRequest) (*models.Event, error)
	DeleteEvent(ctx context.Context, id, userID int64, role models.Role) error
	RegisterForEvent(ctx context.Context, eventID, userID int64, role models.Role) (*models.EventParticipant, error)
	GetParticipants(ctx context.Context, eventID int64) ([]models.EventParticipant, error)
	UpdateParticipantStatus(ctx context.Context, eventID, participantUserID, callerID int64, role models.Role, status string) error
}

// eventServiceImpl implements EventService
type eventServiceImpl struct {
	eventRepo EventStore
	userRepo  UserStore
}

// NewEventService creates a new EventService
func NewEventService(eventRepo EventStore, userRepo UserStore) EventService {
	return &eventServiceImpl{eventRepo: eventRepo, userRepo: userRepo}
}

// CreateEvent creates an event owned by the authenticated user.
func (s *eventServiceImpl) CreateEvent(ctx context.Context, createdBy int64, req *dto.CreateEventRequest) (*models.Event, error) {
	eventDate, err := time.Parse(eventDateLayout, req.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("date must be in YYYY-MM-DD format")
	}

	event := &models.Event{
		Title:           req.Title,
		Description:     req.Description,
		EventType:       models.EventType(req.EventType),
		EventDate:       eventDate,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
		CreatedBy:       createdBy,
	}
	for _, role := range req.EligibleRoles {
		event.EligibleRoles = append(event.EligibleRoles, models.Role(role))
	}
	if req.RegistrationDeadline != nil {
		deadline, err := time.Parse(eventDateLayout, *req.RegistrationDeadline)
		if err != nil {
			return nil, apperrors.NewValidationError("registrationDeadline must be in YYYY-MM-DD format")
		}
		event.RegistrationDeadline = &deadline
	}

	id, err := s.eventRepo.CreateEvent(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("error creating event: %w", err)
	}
	return s.GetEventByID(ctx, id)
}

// GetEventByID retrieves one event with its participants populated.
func (s *eventServiceImpl) GetEventByID(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.eventRepo.GetEventByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}

	participants, err := s.eventRepo.GetParticipants(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting participants: %w", err)
	}
	event.Participants = participants
	return event, nil
}

// ListEvents retrieves a filtered page of events ordered by date.
func (s *eventServiceImpl) ListEvents(ctx context.Context, eventType string, upcomingOnly bool, page, limit int) ([]*models.Event, dto.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = helpers.DefaultPageSize
	}
	events, totalItems, err := s.eventRepo.ListEvents(ctx, repositories.EventListParams{
		EventType:    eventType,
		UpcomingOnly: upcomingOnly,
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("error listing events: %w", err)
	}
	return events, helpers.NewPagination(totalItems, page, limit, len(events)), nil
}

// UpdateEvent applies the present fields of the request. Only the event
// creator or an admin may update.
func (s *eventServiceImpl) UpdateEvent(ctx context.Context, id, userID int64, role models.Role, req *dto.UpdateEventRequest) (*models.Event, error) {
	event, err := s.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && event.CreatedBy != userID {
		return nil, apperrors.ErrPermissionDenied
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.EventType != nil {
		event.EventType = models.EventType(*req.EventType)
	}
	if req.Date != nil {
		eventDate, err := time.Parse(eventDateLayout, *req.Date)
		if err != nil {
			return nil, apperrors.NewValidationError("date must be in YYYY-MM-DD format")
		}
		event.EventDate = eventDate
	}
	if req.StartTime != nil {
		event.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = *req.EndTime
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.EligibleRoles != nil {
		event.EligibleRoles = event.EligibleRoles[:0]
		for _, r := range req.EligibleRoles {
			event.EligibleRoles = append(event.EligibleRoles, models.Role(r))
		}
	}
	if req.MaxParticipants != nil {
		event.MaxParticipants = req.MaxParticipants
	}
	if req.RegistrationDeadline != nil {
		deadline, err := time.Parse(eventDateLayout, *req.RegistrationDeadline)
		if err != nil {
			return nil, apperrors.NewValidationError("registrationDeadline must be in YYYY-MM-DD format")
		}
		event.RegistrationDeadline = &deadline
	}

	if err := s.eventRepo.UpdateEvent(ctx, event); err != nil {
		return nil, err
	}
	return s.GetEventByID(ctx, id)
}

// DeleteEvent removes an event and its registrations. Only the event creator
// or an admin may delete.
func (s *eventServiceImpl) DeleteEvent(ctx context.Context, id, userID int64, role models.Role) error {
	event, err := s.eventRepo.GetEventByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting event: %w", err)
	}
	if event == nil {
		return apperrors.ErrEventNotFound
	}
	if role != models.RoleAdmin && event.CreatedBy != userID {
		return apperrors.ErrPermissionDenied
	}
	return s.eventRepo.DeleteEventWithParticipants(ctx, id)
}

// RegisterForEvent registers the caller after the eligibility guards: the
// deadline must not have passed, the event must not be full, the caller's
// role must be eligible, and double registration is rejected.
func (s *eventServiceImpl) RegisterForEvent(ctx context.Context, eventID, userID int64, role models.Role) (*models.EventParticipant, error) {
	event, err := s.eventRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error getting event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}

	now := time.Now()
	if !event.RegistrationOpen(now) {
		return nil, apperrors.ErrRegistrationClosed
	}
	if !event.RoleEligible(role) {
		return nil, apperrors.ErrRoleNotEligible
	}
	if event.MaxParticipants != nil {
		count, err := s.eventRepo.CountActiveParticipants(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("error counting participants: %w", err)
		}
		if count >= int64(*event.MaxParticipants) {
			return nil, apperrors.ErrEventFull
		}
	}

	participant := &models.EventParticipant{
		EventID:      eventID,
		UserID:       userID,
		RegisteredAt: now,
		Status:       models.ParticipantRegistered,
	}
	id, err := s.eventRepo.AddParticipant(ctx, participant)
	if err != nil {
		return nil, err
	}
	participant.ID = id

	if user, err := s.userRepo.GetUserByID(ctx, userID); err == nil && user != nil {
		summary := user.Summary()
		participant.User = &summary
	}
	return participant, nil
}

// GetParticipants retrieves an event's registrations.
func (s *eventServiceImpl) GetParticipants(ctx context.Context, eventID int64) ([]models.EventParticipant, error) {
	event, err := s.eventRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error getting event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}
	return s.eventRepo.GetParticipants(ctx, eventID)
}

// UpdateParticipantStatus changes one registration's status. Only the event
// creator or an admin may change it.
func (s *eventServiceImpl) UpdateParticipantStatus(ctx context.Context, eventID, participantUserID, callerID int64, role models.Role, status string) error {
	event, err := s.eventRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("error getting event: %w", err)
	}
	if event == nil {
		return apperrors.ErrEventNotFound
	}
	if role != models.RoleAdmin && event.CreatedBy != callerID {
		return apperrors.ErrPermissionDenied
	}
	return s.eventRepo.UpdateParticipantStatus(ctx, eventID, participantUserID, models.ParticipantStatus(status))
}
