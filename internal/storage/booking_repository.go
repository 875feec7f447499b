package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/slotbook/slotbook/internal/availability"
	"github.com/slotbook/slotbook/internal/model"
	"github.com/slotbook/slotbook/libs/db"
)

type BookingRepository struct {
	pool *db.Pool
}

func NewBookingRepository(pool *db.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// LockOwner takes a transaction-scoped advisory lock on the owner, the
// serialization point for concurrent booking attempts against one host. The
// lock is released at commit/rollback.
func (r *BookingRepository) LockOwner(ctx context.Context, tx pgx.Tx, userID string) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, userID)
	return err
}

// ListIntervalsTx re-reads the owner's booked intervals overlapping
// [from, to) inside the booking transaction, for the write-time re-check.
func (r *BookingRepository) ListIntervalsTx(ctx context.Context, tx pgx.Tx, userID string, from, to time.Time) ([]availability.Interval, error) {
	rows, err := tx.Query(ctx, `
		SELECT start_time, end_time
		FROM bookings
		WHERE user_id = $1
			AND start_time < $3
			AND end_time > $2
		ORDER BY start_time ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIntervals(rows)
}

// ListIntervals returns the owner's booked intervals overlapping [from, to),
// used on the read path to render the slot picker.
func (r *BookingRepository) ListIntervals(ctx context.Context, userID string, from, to time.Time) ([]availability.Interval, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT start_time, end_time
		FROM bookings
		WHERE user_id = $1
			AND start_time < $3
			AND end_time > $2
		ORDER BY start_time ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIntervals(rows)
}

func (r *BookingRepository) Create(ctx context.Context, tx pgx.Tx, b *model.Booking) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO bookings
			(id, event_type_id, user_id, invitee_name, invitee_email, start_time, end_time, additional_info, meet_link, calendar_event_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, b.ID, b.EventTypeID, b.UserID, b.InviteeName, b.InviteeEmail, b.StartTime, b.EndTime, b.AdditionalInfo, b.MeetLink, b.CalendarID)
	return err
}

// ListUpcomingByUser returns the host's meetings starting at or after `from`,
// soonest first.
func (r *BookingRepository) ListUpcomingByUser(ctx context.Context, userID string, from time.Time, limit int) ([]model.Booking, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT b.id::text, COALESCE(b.event_type_id::text, ''), b.user_id::text, b.invitee_name, b.invitee_email,
			b.start_time, b.end_time, COALESCE(b.additional_info, ''), b.meet_link, b.calendar_event_id, b.created_at
		FROM bookings b
		WHERE b.user_id = $1 AND b.start_time >= $2
		ORDER BY b.start_time ASC
		LIMIT $3
	`, userID, from, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(
			&b.ID, &b.EventTypeID, &b.UserID, &b.InviteeName, &b.InviteeEmail,
			&b.StartTime, &b.EndTime, &b.AdditionalInfo, &b.MeetLink, &b.CalendarID, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func scanIntervals(rows pgx.Rows) ([]availability.Interval, error) {
	var out []availability.Interval
	for rows.Next() {
		var iv availability.Interval
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}
