package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrEventNotFound = errors.New("event not found")

type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error
	StoreEvent(ctx context.Context, event Event) (Event, error)
	GetEvent(ctx context.Context, id string) (Event, error)
	// GetEvents returns recurring events starting on or before to, and
	// non-recurring events overlapping [from, to].
	GetEvents(ctx context.Context, from, to time.Time) ([]Event, error)
	GetAllEvents(ctx context.Context) ([]Event, error)
	UpdateEvent(ctx context.Context, event Event) (Event, error)
	// UpsertEvent inserts the event or replaces the stored one with the same id.
	UpsertEvent(ctx context.Context, event Event) error
	DeleteEvent(ctx context.Context, id string) error
	CountEvents(ctx context.Context) (int, error)
}

type repositoryImpl struct {
	db *pgxpool.Pool
	tx pgx.Tx
}

func NewRepo(db *pgxpool.Pool) Repository {
	return &repositoryImpl{db: db}
}

// getQueryer returns the appropriate database interface for queries (either tx or db)
func (r *repositoryImpl) getQueryer() interface {
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repositoryImpl) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	if err := fn(&repositoryImpl{db: r.db, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

const eventColumns = `id, title, starts_at, ends_at, is_all_day, type, description, location,
	time_zone, recurrence_rule, owner, attendees, source, created_at, updated_at`

type participantRecord struct {
	Id       string `json:"id"`
	PersonId string `json:"personId,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

type sourceRecord struct {
	Provider   string `json:"provider"`
	CalendarId string `json:"calendarId,omitempty"`
	EventId    string `json:"eventId,omitempty"`
	FeedId     string `json:"feedId,omitempty"`
	Uid        string `json:"uid,omitempty"`
}

func (r *repositoryImpl) StoreEvent(ctx context.Context, event Event) (Event, error) {
	args, err := eventArgs(event)
	if err != nil {
		return Event{}, err
	}
	query := `INSERT INTO calendar_event (` + eventColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			  RETURNING ` + eventColumns

	stored, err := scanEvent(r.getQueryer().QueryRow(ctx, query, args...))
	if err != nil {
		err := fmt.Errorf("could not store event: %w", err)
		log.Error(err)
		return Event{}, err
	}
	return stored, nil
}

func (r *repositoryImpl) GetEvent(ctx context.Context, id string) (Event, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_event WHERE id = $1`
	event, err := scanEvent(r.getQueryer().QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Event{}, ErrEventNotFound
		}
		return Event{}, fmt.Errorf("could not get event: %w", err)
	}
	return event, nil
}

func (r *repositoryImpl) GetEvents(ctx context.Context, from, to time.Time) ([]Event, error) {
	query := `SELECT ` + eventColumns + `
			  FROM calendar_event
			  WHERE (recurrence_rule <> '' AND starts_at <= $2)
			     OR (recurrence_rule = '' AND starts_at <= $2 AND COALESCE(ends_at, starts_at) >= $1)
			  ORDER BY starts_at, id`
	rows, err := r.getQueryer().Query(ctx, query, from, to)
	if err != nil {
		err := fmt.Errorf("could not query calendar events: %w", err)
		log.Error(err)
		return nil, err
	}
	return collectEvents(rows)
}

func (r *repositoryImpl) GetAllEvents(ctx context.Context) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_event ORDER BY starts_at, id`
	rows, err := r.getQueryer().Query(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query calendar events: %w", err)
		log.Error(err)
		return nil, err
	}
	return collectEvents(rows)
}

func (r *repositoryImpl) UpdateEvent(ctx context.Context, event Event) (Event, error) {
	args, err := eventArgs(event)
	if err != nil {
		return Event{}, err
	}
	query := `UPDATE calendar_event SET
				title = $2, starts_at = $3, ends_at = $4, is_all_day = $5, type = $6,
				description = $7, location = $8, time_zone = $9, recurrence_rule = $10,
				owner = $11, attendees = $12, source = $13, updated_at = $15
			  WHERE id = $1
			  RETURNING ` + eventColumns
	updated, err := scanEvent(r.getQueryer().QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Event{}, ErrEventNotFound
		}
		err := fmt.Errorf("could not update event: %w", err)
		log.Error(err)
		return Event{}, err
	}
	return updated, nil
}

func (r *repositoryImpl) UpsertEvent(ctx context.Context, event Event) error {
	args, err := eventArgs(event)
	if err != nil {
		return err
	}
	query := `INSERT INTO calendar_event (` + eventColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			  ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title, starts_at = EXCLUDED.starts_at, ends_at = EXCLUDED.ends_at,
				is_all_day = EXCLUDED.is_all_day, type = EXCLUDED.type, description = EXCLUDED.description,
				location = EXCLUDED.location, time_zone = EXCLUDED.time_zone,
				recurrence_rule = EXCLUDED.recurrence_rule, owner = EXCLUDED.owner,
				attendees = EXCLUDED.attendees, source = EXCLUDED.source, updated_at = EXCLUDED.updated_at`
	if _, err := r.getQueryer().Exec(ctx, query, args...); err != nil {
		err := fmt.Errorf("could not upsert event: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *repositoryImpl) DeleteEvent(ctx context.Context, id string) error {
	result, err := r.getQueryer().Exec(ctx, `DELETE FROM calendar_event WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not delete event: %w", err)
		log.Error(err)
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *repositoryImpl) CountEvents(ctx context.Context) (int, error) {
	var count int
	if err := r.getQueryer().QueryRow(ctx, `SELECT count(*) FROM calendar_event`).Scan(&count); err != nil {
		return 0, fmt.Errorf("could not count events: %w", err)
	}
	return count, nil
}

func eventArgs(e Event) ([]any, error) {
	owner, err := json.Marshal(toParticipantRecord(e.Owner))
	if err != nil {
		return nil, fmt.Errorf("could not marshal owner: %w", err)
	}
	records := make([]participantRecord, 0, len(e.Attendees))
	for _, a := range e.Attendees {
		records = append(records, toParticipantRecord(a))
	}
	attendees, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("could not marshal attendees: %w", err)
	}
	provider := e.Source.Provider
	if provider == "" {
		provider = ProviderLocal
	}
	source, err := json.Marshal(sourceRecord{
		Provider:   string(provider),
		CalendarId: e.Source.CalendarId,
		EventId:    e.Source.EventId,
		FeedId:     e.Source.FeedId,
		Uid:        e.Source.Uid,
	})
	if err != nil {
		return nil, fmt.Errorf("could not marshal source: %w", err)
	}
	return []any{
		e.Id, e.Title, e.StartsAt, e.EndsAt, e.IsAllDay, string(e.Type), e.Description, e.Location,
		e.TimeZone, string(e.RecurrenceRule), owner, attendees, source, e.CreatedAt, e.UpdatedAt,
	}, nil
}

func scanEvent(row pgx.Row) (Event, error) {
	var e Event
	var eventType, recurrence string
	var owner, attendees, source []byte
	err := row.Scan(
		&e.Id,
		&e.Title,
		&e.StartsAt,
		&e.EndsAt,
		&e.IsAllDay,
		&eventType,
		&e.Description,
		&e.Location,
		&e.TimeZone,
		&recurrence,
		&owner,
		&attendees,
		&source,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return Event{}, err
	}
	e.Type = Type(eventType)
	e.RecurrenceRule = Cadence(recurrence)

	var ownerRecord participantRecord
	if err := json.Unmarshal(owner, &ownerRecord); err != nil {
		return Event{}, fmt.Errorf("could not unmarshal owner: %w", err)
	}
	e.Owner = fromParticipantRecord(ownerRecord)

	var attendeeRecords []participantRecord
	if err := json.Unmarshal(attendees, &attendeeRecords); err != nil {
		return Event{}, fmt.Errorf("could not unmarshal attendees: %w", err)
	}
	for _, a := range attendeeRecords {
		e.Attendees = append(e.Attendees, fromParticipantRecord(a))
	}

	var sourceRec sourceRecord
	if err := json.Unmarshal(source, &sourceRec); err != nil {
		return Event{}, fmt.Errorf("could not unmarshal source: %w", err)
	}
	e.Source = Source{
		Provider:   Provider(sourceRec.Provider),
		CalendarId: sourceRec.CalendarId,
		EventId:    sourceRec.EventId,
		FeedId:     sourceRec.FeedId,
		Uid:        sourceRec.Uid,
	}
	return e, nil
}

func collectEvents(rows pgx.Rows) ([]Event, error) {
	defer rows.Close()
	events := make([]Event, 0, 16)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func toParticipantRecord(p Participant) participantRecord {
	return participantRecord{Id: p.Id, PersonId: p.PersonId, Name: p.Name, Email: p.Email, Role: string(p.Role)}
}

func fromParticipantRecord(p participantRecord) Participant {
	return Participant{Id: p.Id, PersonId: p.PersonId, Name: p.Name, Email: p.Email, Role: Role(p.Role)}
}
