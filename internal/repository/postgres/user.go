package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/miniapp-server/internal/model"
)

const uniqueViolation = "23505"

const userColumns = `id, external_id, username, first_name, last_name, language_code,
	is_premium, avatar_url, settings, created_at, updated_at`

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) FindByExternalID(ctx context.Context, externalID int64) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE external_id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by external id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// Insert creates the user. A row with the same external id makes it return
// ErrConflict without modifying anything.
func (r *UserRepository) Insert(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (` + userColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  ON CONFLICT (external_id) DO NOTHING
			  RETURNING ` + userColumns

	settings := user.Settings
	if settings == nil {
		settings = map[string]any{}
	}

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.ExternalID, user.Username, user.FirstName, user.LastName, user.LanguageCode,
		user.IsPremium, user.AvatarURL, settings, user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrConflict
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.User{}, model.ErrConflict
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, profile model.Profile) (model.User, error) {
	query := `UPDATE users
			  SET username = $2, first_name = $3, last_name = $4, language_code = $5,
			      is_premium = $6, avatar_url = $7, updated_at = $8
			  WHERE id = $1
			  RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query,
		id, profile.Username, profile.FirstName, profile.LastName, profile.LanguageCode,
		profile.IsPremium, profile.AvatarURL, profile.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update user profile: %w", err)
	}

	return user, nil
}

func (r *UserRepository) UpdateSettings(ctx context.Context, id uuid.UUID, settings map[string]any, updatedAt time.Time) (model.User, error) {
	query := `UPDATE users SET settings = $2, updated_at = $3
			  WHERE id = $1
			  RETURNING ` + userColumns

	if settings == nil {
		settings = map[string]any{}
	}

	user, err := scanUser(r.db.QueryRow(ctx, query, id, settings, updatedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update user settings: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.ExternalID, &user.Username, &user.FirstName, &user.LastName, &user.LanguageCode,
		&user.IsPremium, &user.AvatarURL, &user.Settings, &user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}
