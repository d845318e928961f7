package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors.Is for sql.ErrNoRows

	"github.com/iliyamo/vidtube/internal/model" // model holds row and response types
)

type CommentRepo struct {
	db *sql.DB
}

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{db: db} }

// Create inserts c. A video deleted in the meantime yields ErrNotFound.
func (r *CommentRepo) Create(ctx context.Context, c *model.Comment) error {
	if c.ID == "" {
		c.ID = newID()
	}
	ts := now()
	c.CreatedAt, c.UpdatedAt = ts, ts
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO comments (id, video_id, owner_id, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		c.ID, c.VideoID, c.OwnerID, c.Content, c.CreatedAt, c.UpdatedAt)
	if isMissingParent(err) {
		return ErrNotFound
	}
	return err
}

func (r *CommentRepo) Exists(ctx context.Context, id string) (bool, error) {
	return rowExists(ctx, r.db, "SELECT 1 FROM comments WHERE id = ?", id)
}

func (r *CommentRepo) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	err := r.db.QueryRowContext(ctx,
		"SELECT id, video_id, owner_id, content, created_at, updated_at FROM comments WHERE id = ?", id).
		Scan(&c.ID, &c.VideoID, &c.OwnerID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByVideo returns one page of a video's comments, newest first, and
// the total comment count.
func (r *CommentRepo) ListByVideo(ctx context.Context, videoID string, page, limit int) ([]model.CommentWithOwner, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments WHERE video_id = ?", videoID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `SELECT c.id, c.video_id, c.owner_id, c.content, c.created_at, c.updated_at,
		u.id, u.username, u.full_name, u.avatar_url
		FROM comments c JOIN users u ON u.id = c.owner_id
		WHERE c.video_id = ?
		ORDER BY c.created_at DESC, c.id
		LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, videoID, limit, offset(page, limit))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []model.CommentWithOwner{}
	for rows.Next() {
		var cw model.CommentWithOwner
		c, o := &cw.Comment, &cw.OwnerDetails
		if err := rows.Scan(&c.ID, &c.VideoID, &c.OwnerID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
			&o.ID, &o.Username, &o.FullName, &o.Avatar); err != nil {
			return nil, 0, err
		}
		out = append(out, cw)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update rewrites the content of a comment owned by ownerID.
func (r *CommentRepo) Update(ctx context.Context, id, ownerID, content string) error {
	return expectOne(r.db.ExecContext(ctx,
		"UPDATE comments SET content = ?, updated_at = ? WHERE id = ? AND owner_id = ?",
		content, now(), id, ownerID))
}

func (r *CommentRepo) Delete(ctx context.Context, id, ownerID string) error {
	return expectOne(r.db.ExecContext(ctx, "DELETE FROM comments WHERE id = ? AND owner_id = ?", id, ownerID))
}
