package storage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/slotbook/slotbook/internal/model"
	"github.com/slotbook/slotbook/libs/db"
)

type UserRepository struct {
	pool *db.Pool
}

func NewUserRepository(pool *db.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, tx pgx.Tx, user model.User) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO users (id, email, username, name, password_hash)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, user.Email, user.Username, user.Name, user.PasswordHash)
	return err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.get(ctx, `WHERE username = $1`, username)
}

func (r *UserRepository) get(ctx context.Context, where string, arg any) (model.User, error) {
	var user model.User
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, email, username, COALESCE(name, ''), password_hash, created_at
		FROM users
	`+where, arg).Scan(&user.ID, &user.Email, &user.Username, &user.Name, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (r *UserRepository) UpdateUsername(ctx context.Context, userID, username string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET username = $2
		WHERE id = $1
	`, userID, username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SaveGoogleToken stores the host's Google OAuth token (opaque JSON) used for
// calendar event creation. A repeat connect replaces the previous token.
func (r *UserRepository) SaveGoogleToken(ctx context.Context, userID string, token []byte) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO google_credentials (user_id, token)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET token = EXCLUDED.token,
			updated_at = now()
	`, userID, token)
	return err
}

func (r *UserRepository) GetGoogleToken(ctx context.Context, userID string) ([]byte, error) {
	var token []byte
	err := r.pool.QueryRow(ctx, `
		SELECT token
		FROM google_credentials
		WHERE user_id = $1
	`, userID).Scan(&token)
	if err != nil {
		return nil, err
	}
	return token, nil
}
