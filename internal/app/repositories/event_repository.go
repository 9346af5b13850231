package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mete/schoolhub/internal/app/models"
	"github.com/mete/schoolhub/internal/db"
	"github.com/mete/schoolhub/internal/pkg/apperrors"
	"github.com/mete/schoolhub/internal/pkg/dberrors"
	"github.com/mete/schoolhub/internal/pkg/logger"
)

// EventListParams holds the filters and pagination of the event listing.
type EventListParams struct {
	EventType    string
	UpcomingOnly bool
	Page         int
	Limit        int
}

// EventRepository handles database operations for Event and EventParticipant.
type EventRepository struct {
	DB *pgxpool.Pool
}

// NewEventRepository creates a new instance of EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) selectEventQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"e.id", "e.title", "e.description", "e.event_type", "e.event_date",
		"e.start_time", "e.end_time", "e.location", "e.eligible_roles",
		"e.max_participants", "e.registration_deadline", "e.created_by",
		"e.created_at", "e.updated_at",
		"u.first_name", "u.last_name", "u.email",
	).From("events e").
		Join("users u ON e.created_by = u.id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var event models.Event
	var eligibleRoles []string
	var creatorFirst, creatorLast, creatorEmail string

	err := row.Scan(
		&event.ID, &event.Title, &event.Description, &event.EventType, &event.EventDate,
		&event.StartTime, &event.EndTime, &event.Location, &eligibleRoles,
		&event.MaxParticipants, &event.RegistrationDeadline, &event.CreatedBy,
		&event.CreatedAt, &event.UpdatedAt,
		&creatorFirst, &creatorLast, &creatorEmail,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		logger.Error().Err(err).Msg("Error scanning event")
		return nil, err
	}

	event.EligibleRoles = make([]models.Role, 0, len(eligibleRoles))
	for _, role := range eligibleRoles {
		event.EligibleRoles = append(event.EligibleRoles, models.Role(role))
	}
	event.Creator = &models.UserSummary{ID: event.CreatedBy, Name: joinName(creatorFirst, creatorLast), Email: creatorEmail}
	return &event, nil
}

func rolesToStrings(roles []models.Role) []string {
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		out = append(out, string(role))
	}
	return out
}

// CreateEvent inserts a new event and returns its ID.
func (r *EventRepository) CreateEvent(ctx context.Context, event *models.Event) (int64, error) {
	sqlStr, args, err := squirrel.Insert("events").
		Columns("title", "description", "event_type", "event_date", "start_time", "end_time",
			"location", "eligible_roles", "max_participants", "registration_deadline", "created_by").
		Values(event.Title, event.Description, event.EventType, event.EventDate,
			event.StartTime, event.EndTime, event.Location, rolesToStrings(event.EligibleRoles),
			event.MaxParticipants, event.RegistrationDeadline, event.CreatedBy).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create event SQL")
		return 0, err
	}

	var id int64
	if err := r.DB.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Msg("Error executing create event query")
		return 0, err
	}
	return id, nil
}

// GetEventByID retrieves a single event. Returns nil when no row exists.
func (r *EventRepository) GetEventByID(ctx context.Context, id int64) (*models.Event, error) {
	sqlStr, args, err := r.selectEventQuery().Where(squirrel.Eq{"e.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get event by ID SQL")
		return nil, err
	}
	return scanEvent(r.DB.QueryRow(ctx, sqlStr, args...))
}

// ListEvents retrieves a filtered page of events ordered by date and the
// total count of matching events.
func (r *EventRepository) ListEvents(ctx context.Context, params EventListParams) ([]*models.Event, int64, error) {
	applyFilters := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		if params.EventType != "" {
			b = b.Where(squirrel.Eq{"e.event_type": params.EventType})
		}
		if params.UpcomingOnly {
			b = b.Where(squirrel.GtOrEq{"e.event_date": time.Now().Truncate(24 * time.Hour)})
		}
		return b
	}

	countSql, countArgs, err := applyFilters(squirrel.Select("count(*)").From("events e").
		PlaceholderFormat(squirrel.Dollar)).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building event count SQL")
		return nil, 0, err
	}

	var totalItems int64
	if err := r.DB.QueryRow(ctx, countSql, countArgs...).Scan(&totalItems); err != nil {
		logger.Error().Err(err).Msg("Error executing event count query")
		return nil, 0, err
	}
	if totalItems == 0 {
		return []*models.Event{}, 0, nil
	}

	sqlStr, args, err := applyFilters(r.selectEventQuery()).
		OrderBy("e.event_date ASC", "e.start_time ASC").
		Limit(uint64(params.Limit)).
		Offset(uint64((params.Page - 1) * params.Limit)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list events SQL")
		return nil, 0, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list events query")
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]*models.Event, 0, params.Limit)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, event)
	}
	return events, totalItems, rows.Err()
}

// UpdateEvent persists an event's columns.
func (r *EventRepository) UpdateEvent(ctx context.Context, event *models.Event) error {
	sqlStr, args, err := squirrel.Update("events").
		Set("title", event.Title).
		Set("description", event.Description).
		Set("event_type", event.EventType).
		Set("event_date", event.EventDate).
		Set("start_time", event.StartTime).
		Set("end_time", event.EndTime).
		Set("location", event.Location).
		Set("eligible_roles", rolesToStrings(event.EligibleRoles)).
		Set("max_participants", event.MaxParticipants).
		Set("registration_deadline", event.RegistrationDeadline).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": event.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update event SQL")
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing update event query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// DeleteEventWithParticipants removes an event and its registrations in one
// transaction.
func (r *EventRepository) DeleteEventWithParticipants(ctx context.Context, eventID int64) error {
	return db.WithTransaction(ctx, r.DB, func(ctx context.Context, tx pgx.Tx) error {
		participantsSql, participantsArgs, err := squirrel.Delete("event_participants").
			Where(squirrel.Eq{"event_id": eventID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, participantsSql, participantsArgs...); err != nil {
			logger.Error().Err(err).Msg("Error deleting event participants")
			return err
		}

		eventSql, eventArgs, err := squirrel.Delete("events").
			Where(squirrel.Eq{"id": eventID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}
		cmdTag, err := tx.Exec(ctx, eventSql, eventArgs...)
		if err != nil {
			logger.Error().Err(err).Msg("Error deleting event")
			return err
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrEventNotFound
		}
		return nil
	})
}

// AddParticipant registers a user for an event. A unique violation on the
// (event, user) constraint surfaces as an existing registration.
func (r *EventRepository) AddParticipant(ctx context.Context, participant *models.EventParticipant) (int64, error) {
	sqlStr, args, err := squirrel.Insert("event_participants").
		Columns("event_id", "user_id", "registered_at", "status").
		Values(participant.EventID, participant.UserID, participant.RegisteredAt, participant.Status).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building add participant SQL")
		return 0, err
	}

	var id int64
	if err := r.DB.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrAlreadyRegistered
		}
		logger.Error().Err(err).Msg("Error executing add participant query")
		return 0, err
	}
	return id, nil
}

// CountActiveParticipants counts an event's registrations that are not cancelled.
func (r *EventRepository) CountActiveParticipants(ctx context.Context, eventID int64) (int64, error) {
	sqlStr, args, err := squirrel.Select("count(*)").
		From("event_participants").
		Where(squirrel.Eq{"event_id": eventID}).
		Where(squirrel.NotEq{"status": models.ParticipantCancelled}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count participants SQL")
		return 0, err
	}

	var count int64
	if err := r.DB.QueryRow(ctx, sqlStr, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error executing count participants query")
		return 0, err
	}
	return count, nil
}

// GetParticipants retrieves an event's registrations with users populated.
func (r *EventRepository) GetParticipants(ctx context.Context, eventID int64) ([]models.EventParticipant, error) {
	sqlStr, args, err := squirrel.Select(
		"ep.id", "ep.event_id", "ep.user_id", "ep.registered_at", "ep.status",
		"u.first_name", "u.last_name", "u.email",
	).From("event_participants ep").
		Join("users u ON ep.user_id = u.id").
		Where(squirrel.Eq{"ep.event_id": eventID}).
		OrderBy("ep.registered_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get participants SQL")
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get participants query")
		return nil, err
	}
	defer rows.Close()

	participants := make([]models.EventParticipant, 0)
	for rows.Next() {
		var p models.EventParticipant
		var first, last, email string
		if err := rows.Scan(&p.ID, &p.EventID, &p.UserID, &p.RegisteredAt, &p.Status,
			&first, &last, &email); err != nil {
			logger.Error().Err(err).Msg("Error scanning participant row")
			return nil, err
		}
		p.User = &models.UserSummary{ID: p.UserID, Name: joinName(first, last), Email: email}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// UpdateParticipantStatus changes one registration's status.
func (r *EventRepository) UpdateParticipantStatus(ctx context.Context, eventID, userID int64, status models.ParticipantStatus) error {
	sqlStr, args, err := squirrel.Update("event_participants").
		Set("status", status).
		Where(squirrel.Eq{"event_id": eventID, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update participant status SQL")
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing update participant status query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrParticipantNotFound
	}
	return nil
}

// RemoveParticipant deletes one registration.
func (r *EventRepository) RemoveParticipant(ctx context.Context, eventID, userID int64) error {
	sqlStr, args, err := squirrel.Delete("event_participants").
		Where(squirrel.Eq{"event_id": eventID, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building remove participant SQL")
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing remove participant query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrParticipantNotFound
	}
	return nil
}
