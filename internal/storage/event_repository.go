package storage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/slotbook/slotbook/internal/model"
	"github.com/slotbook/slotbook/libs/db"
)

type EventRepository struct {
	pool *db.Pool
}

func NewEventRepository(pool *db.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) Create(ctx context.Context, et model.EventType) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_types (id, user_id, title, description, duration_minutes, is_private)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, et.ID, et.UserID, et.Title, et.Description, et.DurationMinutes, et.IsPrivate)
	return err
}

// ListByUser returns the host's event types newest first, each with its
// booking count (used by the dashboard).
func (r *EventRepository) ListByUser(ctx context.Context, userID string) ([]model.EventType, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e.id::text, e.user_id::text, e.title, e.description, e.duration_minutes, e.is_private, e.created_at,
			(SELECT count(*) FROM bookings b WHERE b.event_type_id = e.id)
		FROM event_types e
		WHERE e.user_id = $1
		ORDER BY e.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEventTypes(rows)
}

// ListPublicByUsername returns a host's non-private event types for the public
// booking page.
func (r *EventRepository) ListPublicByUsername(ctx context.Context, username string) ([]model.EventType, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e.id::text, e.user_id::text, e.title, e.description, e.duration_minutes, e.is_private, e.created_at,
			(SELECT count(*) FROM bookings b WHERE b.event_type_id = e.id)
		FROM event_types e
		JOIN users u ON u.id = e.user_id
		WHERE u.username = $1 AND NOT e.is_private
		ORDER BY e.created_at DESC
	`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEventTypes(rows)
}

func (r *EventRepository) GetByID(ctx context.Context, eventID string) (model.EventType, error) {
	var et model.EventType
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, user_id::text, title, description, duration_minutes, is_private, created_at, 0
		FROM event_types
		WHERE id = $1
	`, eventID).Scan(&et.ID, &et.UserID, &et.Title, &et.Description, &et.DurationMinutes, &et.IsPrivate, &et.CreatedAt, &et.BookingCount)
	if err != nil {
		return model.EventType{}, err
	}
	return et, nil
}

// GetByUsernameAndID resolves an event type through its owner's public
// username, for the public event details page.
func (r *EventRepository) GetByUsernameAndID(ctx context.Context, username, eventID string) (model.EventType, model.User, error) {
	var et model.EventType
	var owner model.User
	err := r.pool.QueryRow(ctx, `
		SELECT e.id::text, e.user_id::text, e.title, e.description, e.duration_minutes, e.is_private, e.created_at,
			u.id::text, u.email, u.username, COALESCE(u.name, '')
		FROM event_types e
		JOIN users u ON u.id = e.user_id
		WHERE e.id = $1 AND u.username = $2
	`, eventID, username).Scan(
		&et.ID, &et.UserID, &et.Title, &et.Description, &et.DurationMinutes, &et.IsPrivate, &et.CreatedAt,
		&owner.ID, &owner.Email, &owner.Username, &owner.Name,
	)
	if err != nil {
		return model.EventType{}, model.User{}, err
	}
	return et, owner, nil
}

// Delete removes an event type if the caller owns it. Bookings made against it
// are kept (history), the FK is nullified by the schema.
func (r *EventRepository) Delete(ctx context.Context, userID, eventID string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM event_types
		WHERE id = $1 AND user_id = $2
	`, eventID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanEventTypes(rows pgx.Rows) ([]model.EventType, error) {
	var out []model.EventType
	for rows.Next() {
		var et model.EventType
		if err := rows.Scan(&et.ID, &et.UserID, &et.Title, &et.Description, &et.DurationMinutes, &et.IsPrivate, &et.CreatedAt, &et.BookingCount); err != nil {
			return nil, err
		}
		out = append(out, et)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}
