package storage

import (
	"context"
	"time"

	"github.com/slotbook/slotbook/internal/availability"
	"github.com/slotbook/slotbook/libs/db"
)

type AvailabilityRepository struct {
	pool *db.Pool
}

func NewAvailabilityRepository(pool *db.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{pool: pool}
}

// Get loads a user's weekly template. The second return is false when the user
// has never set availability.
func (r *AvailabilityRepository) Get(ctx context.Context, userID string) (availability.WeeklyTemplate, bool, error) {
	var gap int
	err := r.pool.QueryRow(ctx, `
		SELECT time_gap_minutes
		FROM availability
		WHERE user_id = $1
	`, userID).Scan(&gap)
	if err != nil {
		if IsNotFound(err) {
			return availability.WeeklyTemplate{}, false, nil
		}
		return availability.WeeklyTemplate{}, false, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT weekday, start_minute, end_minute
		FROM availability_days
		WHERE user_id = $1
		ORDER BY weekday ASC
	`, userID)
	if err != nil {
		return availability.WeeklyTemplate{}, false, err
	}
	defer rows.Close()

	days := map[time.Weekday]availability.Window{}
	for rows.Next() {
		var weekday, startMin, endMin int
		if err := rows.Scan(&weekday, &startMin, &endMin); err != nil {
			return availability.WeeklyTemplate{}, false, err
		}
		days[time.Weekday(weekday)] = availability.Window{StartMinute: startMin, EndMinute: endMin}
	}
	if rows.Err() != nil {
		return availability.WeeklyTemplate{}, false, rows.Err()
	}

	return availability.WeeklyTemplate{TimeGapMinutes: gap, Days: days}, true, nil
}

// Replace swaps the whole template in one transaction: header upsert, delete
// of all day rows, insert of the new set. A crash mid-update can never leave
// the template half-written.
func (r *AvailabilityRepository) Replace(ctx context.Context, userID string, tmpl availability.WeeklyTemplate) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO availability (user_id, time_gap_minutes)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET time_gap_minutes = EXCLUDED.time_gap_minutes,
			updated_at = now()
	`, userID, tmpl.TimeGapMinutes); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM availability_days
		WHERE user_id = $1
	`, userID); err != nil {
		return err
	}

	for _, day := range availability.WeekDays() {
		win, ok := tmpl.Days[day]
		if !ok {
			continue
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO availability_days (user_id, weekday, start_minute, end_minute)
			VALUES ($1, $2, $3, $4)
		`, userID, int(day), win.StartMinute, win.EndMinute); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
