package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors.Is for sql.ErrNoRows

	"github.com/iliyamo/vidtube/internal/model" // model holds row and response types
)

type TweetRepo struct {
	db *sql.DB
}

func NewTweetRepo(db *sql.DB) *TweetRepo { return &TweetRepo{db: db} }

func (r *TweetRepo) Create(ctx context.Context, t *model.Tweet) error {
	if t.ID == "" {
		t.ID = newID()
	}
	ts := now()
	t.CreatedAt, t.UpdatedAt = ts, ts
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO tweets (id, owner_id, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		t.ID, t.OwnerID, t.Content, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *TweetRepo) Exists(ctx context.Context, id string) (bool, error) {
	return rowExists(ctx, r.db, "SELECT 1 FROM tweets WHERE id = ?", id)
}

func (r *TweetRepo) GetByID(ctx context.Context, id string) (*model.Tweet, error) {
	var t model.Tweet
	err := r.db.QueryRowContext(ctx,
		"SELECT id, owner_id, content, created_at, updated_at FROM tweets WHERE id = ?", id).
		Scan(&t.ID, &t.OwnerID, &t.Content, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByOwner returns a user's tweets, newest first.
func (r *TweetRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.TweetWithOwner, error) {
	const q = `SELECT t.id, t.owner_id, t.content, t.created_at, t.updated_at,
		u.id, u.username, u.full_name, u.avatar_url
		FROM tweets t JOIN users u ON u.id = t.owner_id
		WHERE t.owner_id = ?
		ORDER BY t.created_at DESC, t.id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.TweetWithOwner{}
	for rows.Next() {
		var tw model.TweetWithOwner
		t, o := &tw.Tweet, &tw.OwnerDetails
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Content, &t.CreatedAt, &t.UpdatedAt,
			&o.ID, &o.Username, &o.FullName, &o.Avatar); err != nil {
			return nil, err
		}
		out = append(out, tw)
	}
	return out, rows.Err()
}

func (r *TweetRepo) Update(ctx context.Context, id, ownerID, content string) error {
	return expectOne(r.db.ExecContext(ctx,
		"UPDATE tweets SET content = ?, updated_at = ? WHERE id = ? AND owner_id = ?",
		content, now(), id, ownerID))
}

func (r *TweetRepo) Delete(ctx context.Context, id, ownerID string) error {
	return expectOne(r.db.ExecContext(ctx, "DELETE FROM tweets WHERE id = ? AND owner_id = ?", id, ownerID))
}
