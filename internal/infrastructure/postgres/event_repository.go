package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/event"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/transaction"
)

const eventColumns = `id, speaker_id, speaker_email, name, description, category, banner_url, venue_id,
	booking_start_date, booking_end_date, status, rejection_reason, created_at, updated_at, version`

// eventRow is the database representation of an event.
type eventRow struct {
	ID               string    `db:"id"`
	SpeakerID        string    `db:"speaker_id"`
	SpeakerEmail     string    `db:"speaker_email"`
	Name             string    `db:"name"`
	Description      string    `db:"description"`
	Category         string    `db:"category"`
	BannerURL        string    `db:"banner_url"`
	VenueID          string    `db:"venue_id"`
	BookingStartDate time.Time `db:"booking_start_date"`
	BookingEndDate   time.Time `db:"booking_end_date"`
	Status           string    `db:"status"`
	RejectionReason  *string   `db:"rejection_reason"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
	Version          int       `db:"version"`
}

func (r *eventRow) toEntity() *event.Event {
	return &event.Event{
		ID:               r.ID,
		SpeakerID:        r.SpeakerID,
		SpeakerEmail:     r.SpeakerEmail,
		Name:             r.Name,
		Description:      r.Description,
		Category:         r.Category,
		BannerURL:        r.BannerURL,
		VenueID:          r.VenueID,
		BookingStartDate: r.BookingStartDate,
		BookingEndDate:   r.BookingEndDate,
		Status:           event.Status(r.Status),
		RejectionReason:  r.RejectionReason,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		Version:          r.Version,
	}
}

// EventRepository implements event.Repository on PostgreSQL. Calls join the
// transaction carried by ctx.
type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		e.ID, e.SpeakerID, e.SpeakerEmail, e.Name, e.Description, e.Category, e.BannerURL, e.VenueID,
		e.BookingStartDate, e.BookingEndDate, string(e.Status), e.RejectionReason, e.CreatedAt, e.UpdatedAt, e.Version,
	)
	if err != nil {
		return mapError(err, "failed to insert event")
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, event.ErrEventNotFound
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var row eventRow
	if err := conn(ctx, r.db).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrEventNotFound
		}
		return nil, mapError(err, "failed to get event")
	}
	return row.toEntity(), nil
}

func (r *EventRepository) List(ctx context.Context, f event.Filter) ([]*event.Event, error) {
	if !matchable(f) {
		return []*event.Event{}, nil
	}
	where, args := buildWhere(f)
	query := `SELECT ` + eventColumns + ` FROM events` + where + ` ORDER BY booking_start_date, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	var rows []eventRow
	if err := conn(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, mapError(err, "failed to list events")
	}
	events := make([]*event.Event, len(rows))
	for i := range rows {
		events[i] = rows[i].toEntity()
	}
	return events, nil
}

func (r *EventRepository) Count(ctx context.Context, f event.Filter) (int, error) {
	if !matchable(f) {
		return 0, nil
	}
	where, args := buildWhere(f)
	var n int
	if err := conn(ctx, r.db).GetContext(ctx, &n, `SELECT COUNT(*) FROM events`+where, args...); err != nil {
		return 0, mapError(err, "failed to count events")
	}
	return n, nil
}

// Update writes the event if its version is unchanged since it was read.
func (r *EventRepository) Update(ctx context.Context, e *event.Event) error {
	query := `
		UPDATE events
		SET name = $1, description = $2, category = $3, banner_url = $4, venue_id = $5,
		    booking_start_date = $6, booking_end_date = $7, status = $8, rejection_reason = $9,
		    updated_at = $10, version = version + 1
		WHERE id = $11 AND version = $12
	`
	q := conn(ctx, r.db)
	result, err := q.ExecContext(ctx, query,
		e.Name, e.Description, e.Category, e.BannerURL, e.VenueID,
		e.BookingStartDate, e.BookingEndDate, string(e.Status), e.RejectionReason,
		e.UpdatedAt, e.ID, e.Version,
	)
	if err != nil {
		return mapError(err, "failed to update event")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		var exists bool
		if err := q.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, e.ID); err != nil {
			return mapError(err, "failed to check event")
		}
		if !exists {
			return event.ErrEventNotFound
		}
		return fmt.Errorf("event %s has a newer version: %w", e.ID, transaction.ErrSerialization)
	}

	e.Version++
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "failed to delete event")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// matchable reports whether the uuid-typed filter values can match any row.
func matchable(f event.Filter) bool {
	if f.VenueID == "" {
		return true
	}
	_, err := uuid.Parse(f.VenueID)
	return err == nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildWhere renders the filter as a WHERE clause with positional args.
func buildWhere(f event.Filter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}

	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		add("status = ANY(?)", pq.Array(statuses))
	}
	if f.Category != "" {
		add("LOWER(category) = LOWER(?)", f.Category)
	}
	if f.VenueID != "" {
		add("venue_id = ?", f.VenueID)
	}
	if f.SpeakerID != "" {
		add("speaker_id = ?", f.SpeakerID)
	}
	if f.From != nil {
		add("booking_start_date >= ?", *f.From)
	}
	if f.To != nil {
		add("booking_end_date <= ?", *f.To)
	}
	if f.EndsBefore != nil {
		add("booking_end_date < ?", *f.EndsBefore)
	}
	if f.Overlapping != nil {
		add("booking_start_date < ?", f.Overlapping.End)
		add("booking_end_date > ?", f.Overlapping.Start)
	}
	if f.ExcludeID != "" {
		add("id <> ?", f.ExcludeID)
	}
	if f.Search != "" {
		add(`name ILIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(f.Search)+"%")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var _ event.Repository = (*EventRepository)(nil)
