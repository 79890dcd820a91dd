package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"GREENPATH_BACK-END/internal/models"
)

const wastePostColumns = `id, user_id, user_email, user_name, type, title, location, description,
	latitude, longitude, image_url, image_path, status, item_name, bin_type, recyclable, tips,
	created_at, updated_at`

// WastePostRepository stores waste posts
type WastePostRepository struct {
	db *pgxpool.Pool
}

// NewWastePostRepository creates a WastePostRepository
func NewWastePostRepository(db *pgxpool.Pool) *WastePostRepository {
	return &WastePostRepository{db: db}
}

func scanWastePost(row pgx.Row) (*models.WastePost, error) {
	var p models.WastePost
	err := row.Scan(
		&p.ID, &p.UserID, &p.UserEmail, &p.UserName, &p.Type, &p.Title, &p.Location, &p.Description,
		&p.Latitude, &p.Longitude, &p.ImageURL, &p.ImagePath, &p.Status, &p.ItemName, &p.BinType,
		&p.Recyclable, &p.Tips, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Tips == nil {
		p.Tips = []string{}
	}
	return &p, nil
}

// List returns posts newest first together with the number of matching rows
func (r *WastePostRepository) List(ctx context.Context, f models.WastePostFilter) ([]models.WastePost, int, error) {
	var where whereBuilder
	if f.UserID != nil {
		where.add("user_id = %s", *f.UserID)
	}
	if f.Status != "" {
		where.add("status = %s", f.Status)
	}
	if f.Type != "" {
		where.add("type = %s", f.Type)
	}

	var total int
	if err := r.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT COUNT(1) FROM waste_posts %s`, where.sql()), where.args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count waste posts: %w", err)
	}

	limit := clampLimit(f.Limit)
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	page := where.page(limit, offset)
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM waste_posts %s
		ORDER BY created_at DESC, id
		%s
	`, wastePostColumns, where.sql(), page), where.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query waste posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.WastePost, 0, limit)
	for rows.Next() {
		p, err := scanWastePost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan waste post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate waste posts: %w", err)
	}
	return posts, total, nil
}

// All returns every post newest first, for aggregation
func (r *WastePostRepository) All(ctx context.Context) ([]models.WastePost, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM waste_posts ORDER BY created_at DESC, id
	`, wastePostColumns))
	if err != nil {
		return nil, fmt.Errorf("query waste posts: %w", err)
	}
	defer rows.Close()

	posts := []models.WastePost{}
	for rows.Next() {
		p, err := scanWastePost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan waste post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// Get returns a single post
func (r *WastePostRepository) Get(ctx context.Context, id uuid.UUID) (*models.WastePost, error) {
	p, err := scanWastePost(r.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM waste_posts WHERE id = $1`, wastePostColumns), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get waste post %s: %w", id, err)
	}
	return p, nil
}

// Create inserts p. ID, status and timestamps are filled in when empty.
func (r *WastePostRepository) Create(ctx context.Context, p *models.WastePost) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = models.StatusPending
	}
	if p.Tips == nil {
		p.Tips = []string{}
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = p.CreatedAt

	_, err := r.db.Exec(ctx, `
		INSERT INTO waste_posts (id, user_id, user_email, user_name, type, title, location, description,
			latitude, longitude, image_url, image_path, status, item_name, bin_type, recyclable, tips,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`, p.ID, p.UserID, p.UserEmail, p.UserName, p.Type, p.Title, p.Location, p.Description,
		p.Latitude, p.Longitude, p.ImageURL, p.ImagePath, p.Status, p.ItemName, p.BinType, p.Recyclable, p.Tips,
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert waste post: %w", err)
	}
	return nil
}

// Delete removes a post
func (r *WastePostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM waste_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete waste post %s: %w", id, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus sets the moderation status and returns the updated post
func (r *WastePostRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.WastePost, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	p, err := scanWastePost(r.db.QueryRow(ctx, fmt.Sprintf(`
		UPDATE waste_posts SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, wastePostColumns), id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update waste post %s: %w", id, err)
	}
	return p, nil
}

// Stats counts posts per status and per type
func (r *WastePostRepository) Stats(ctx context.Context) (*models.WasteStats, error) {
	stats := &models.WasteStats{ByType: map[string]int{}}
	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(1),
			COUNT(1) FILTER (WHERE status = 'pending'),
			COUNT(1) FILTER (WHERE status = 'in_progress'),
			COUNT(1) FILTER (WHERE status = 'collected')
		FROM waste_posts
	`).Scan(&stats.Total, &stats.Pending, &stats.InProgress, &stats.Collected); err != nil {
		return nil, fmt.Errorf("count waste posts by status: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT type, COUNT(1) FROM waste_posts GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("count waste posts by type: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			typ string
			n   int
		)
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("scan type count: %w", err)
		}
		stats.ByType[typ] = n
	}
	return stats, rows.Err()
}
