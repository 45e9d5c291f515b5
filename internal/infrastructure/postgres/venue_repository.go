package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/venue"
)

const venueColumns = `id, name, address, capacity, opening_time, closing_time, created_at, updated_at`

type venueRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Address     string    `db:"address"`
	Capacity    int       `db:"capacity"`
	OpeningTime string    `db:"opening_time"`
	ClosingTime string    `db:"closing_time"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *venueRow) toEntity() *venue.Venue {
	return &venue.Venue{
		ID:          r.ID,
		Name:        r.Name,
		Address:     r.Address,
		Capacity:    r.Capacity,
		OpeningTime: r.OpeningTime,
		ClosingTime: r.ClosingTime,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// VenueRepository implements venue.Repository on PostgreSQL.
type VenueRepository struct {
	db *sqlx.DB
}

func NewVenueRepository(db *sqlx.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

func (r *VenueRepository) GetByID(ctx context.Context, id string) (*venue.Venue, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, venue.ErrVenueNotFound
	}
	var row venueRow
	err := conn(ctx, r.db).GetContext(ctx, &row, `SELECT `+venueColumns+` FROM venues WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, venue.ErrVenueNotFound
		}
		return nil, mapError(err, "failed to get venue")
	}
	return row.toEntity(), nil
}

func (r *VenueRepository) List(ctx context.Context) ([]*venue.Venue, error) {
	var rows []venueRow
	if err := conn(ctx, r.db).SelectContext(ctx, &rows, `SELECT `+venueColumns+` FROM venues ORDER BY name`); err != nil {
		return nil, mapError(err, "failed to list venues")
	}
	venues := make([]*venue.Venue, len(rows))
	for i := range rows {
		venues[i] = rows[i].toEntity()
	}
	return venues, nil
}

var _ venue.Repository = (*VenueRepository)(nil)
