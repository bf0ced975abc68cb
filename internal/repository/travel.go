package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/travelog/travelog/internal/model"
)

// ErrTravelNotFound is returned when no travel has the requested id.
var ErrTravelNotFound = errors.New("travel not found")

const travelColumns = `id, name, travel, date_in, date_out, status, created_at, updated_at`

// ListTravels returns every travel ordered by id.
func (r *Repository) ListTravels(ctx context.Context) ([]*model.Travel, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+travelColumns+` FROM travels ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list travels: %w", err)
	}
	defer rows.Close()

	travels := make([]*model.Travel, 0)
	for rows.Next() {
		travel, err := scanTravel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan travel: %w", err)
		}
		travels = append(travels, travel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate travels: %w", err)
	}

	return travels, nil
}

// GetTravelByID retrieves a travel by its ID.
func (r *Repository) GetTravelByID(ctx context.Context, id int64) (*model.Travel, error) {
	travel, err := scanTravel(r.pool.QueryRow(ctx, `SELECT `+travelColumns+` FROM travels WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTravelNotFound
		}
		return nil, fmt.Errorf("failed to get travel by ID: %w", err)
	}
	return travel, nil
}

// CreateTravel inserts a travel and fills in its generated id and timestamps.
func (r *Repository) CreateTravel(ctx context.Context, travel *model.Travel) error {
	query := `
		INSERT INTO travels (name, travel, date_in, date_out, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		travel.Name,
		travel.Destination,
		travel.DateIn.Time,
		travel.DateOut.Time,
		travel.Status,
	).Scan(&travel.ID, &travel.CreatedAt, &travel.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create travel: %w", err)
	}

	return nil
}

// UpdateTravel writes every mutable field of travel.
func (r *Repository) UpdateTravel(ctx context.Context, travel *model.Travel) error {
	query := `
		UPDATE travels
		SET name = $2, travel = $3, date_in = $4, date_out = $5, status = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		travel.ID,
		travel.Name,
		travel.Destination,
		travel.DateIn.Time,
		travel.DateOut.Time,
		travel.Status,
	).Scan(&travel.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTravelNotFound
		}
		return fmt.Errorf("failed to update travel: %w", err)
	}

	return nil
}

// DeleteTravel removes a travel permanently.
func (r *Repository) DeleteTravel(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM travels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete travel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTravelNotFound
	}
	return nil
}

func scanTravel(row pgx.Row) (*model.Travel, error) {
	var (
		travel  model.Travel
		dateIn  time.Time
		dateOut time.Time
	)
	err := row.Scan(
		&travel.ID,
		&travel.Name,
		&travel.Destination,
		&dateIn,
		&dateOut,
		&travel.Status,
		&travel.CreatedAt,
		&travel.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	travel.DateIn = model.NewDate(dateIn)
	travel.DateOut = model.NewDate(dateOut)
	return &travel, nil
}
