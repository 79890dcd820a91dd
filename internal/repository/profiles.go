package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"GREENPATH_BACK-END/internal/models"
)

// ProfileRepository stores application profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	if err := row.Scan(&p.ID, &p.Email, &p.Name, &p.Role, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Get returns the profile of userID
func (r *ProfileRepository) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, `
		SELECT id, email, name, role, created_at, updated_at FROM profiles WHERE id = $1
	`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", userID, err)
	}
	return p, nil
}

// Upsert creates the profile or refreshes email and name. The stored role is never changed.
// An empty name keeps the stored one.
func (r *ProfileRepository) Upsert(ctx context.Context, userID uuid.UUID, email, name string) (*models.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, `
		INSERT INTO profiles (id, email, name, role)
		VALUES ($1, $2, $3, 'user')
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = COALESCE(NULLIF(EXCLUDED.name, ''), profiles.name),
			updated_at = NOW()
		RETURNING id, email, name, role, created_at, updated_at
	`, userID, email, name))
	if err != nil {
		return nil, fmt.Errorf("upsert profile %s: %w", userID, err)
	}
	return p, nil
}

// UpdateName changes the display name
func (r *ProfileRepository) UpdateName(ctx context.Context, userID uuid.UUID, name string) (*models.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, `
		UPDATE profiles SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, email, name, role, created_at, updated_at
	`, userID, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile %s: %w", userID, err)
	}
	return p, nil
}

// SetRole grants or revokes the admin role
func (r *ProfileRepository) SetRole(ctx context.Context, userID uuid.UUID, role string) error {
	if role != models.RoleUser && role != models.RoleAdmin {
		return fmt.Errorf("invalid role %q", role)
	}
	cmd, err := r.db.Exec(ctx, `UPDATE profiles SET role = $2, updated_at = NOW() WHERE id = $1`, userID, role)
	if err != nil {
		return fmt.Errorf("set role for %s: %w", userID, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetRole returns the stored role of userID
func (r *ProfileRepository) GetRole(ctx context.Context, userID uuid.UUID) (string, error) {
	var role string
	err := r.db.QueryRow(ctx, `SELECT role FROM profiles WHERE id = $1`, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get role for %s: %w", userID, err)
	}
	return role, nil
}
