package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors.Is for sql.ErrNoRows
	"strings"      // strings for query building and trimming

	"github.com/iliyamo/vidtube/internal/model" // model holds row and response types
)

type VideoRepo struct {
	db *sql.DB
}

func NewVideoRepo(db *sql.DB) *VideoRepo { return &VideoRepo{db: db} }

const videoCols = `v.id, v.owner_id, v.title, v.description, v.video_url, v.video_id,
	v.thumbnail_url, v.thumbnail_id, v.duration, v.views, v.is_published, v.created_at, v.updated_at`

// videoWithOwnerCols expects videos aliased as v and the owner as u.
const videoWithOwnerCols = videoCols + `, u.id, u.username, u.full_name, u.avatar_url`

func videoDest(v *model.Video) []any {
	return []any{&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.VideoFile, &v.VideoFileID,
		&v.Thumbnail, &v.ThumbnailID, &v.Duration, &v.Views, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt}
}

func scanVideoWithOwner(s rowScanner, extra ...any) (model.VideoWithOwner, error) {
	var vw model.VideoWithOwner
	o := &vw.OwnerDetails
	dest := append(videoDest(&vw.Video), &o.ID, &o.Username, &o.FullName, &o.Avatar)
	err := s.Scan(append(dest, extra...)...)
	return vw, err
}

func queryVideosWithOwner(ctx context.Context, db *sql.DB, q string, args ...any) ([]model.VideoWithOwner, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.VideoWithOwner{}
	for rows.Next() {
		vw, err := scanVideoWithOwner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, vw)
	}
	return out, rows.Err()
}

// Create inserts v, assigning ID and timestamps when empty.
func (r *VideoRepo) Create(ctx context.Context, v *model.Video) error {
	if v.ID == "" {
		v.ID = newID()
	}
	ts := now()
	v.CreatedAt, v.UpdatedAt = ts, ts
	const q = `INSERT INTO videos
		(id, owner_id, title, description, video_url, video_id, thumbnail_url, thumbnail_id,
		 duration, views, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, v.ID, v.OwnerID, v.Title, v.Description, v.VideoFile, v.VideoFileID,
		v.Thumbnail, v.ThumbnailID, v.Duration, v.Views, v.IsPublished, v.CreatedAt, v.UpdatedAt)
	return err
}

func (r *VideoRepo) Exists(ctx context.Context, id string) (bool, error) {
	return rowExists(ctx, r.db, "SELECT 1 FROM videos WHERE id = ?", id)
}

// GetByID fetches a video regardless of publish state.
func (r *VideoRepo) GetByID(ctx context.Context, id string) (*model.Video, error) {
	var v model.Video
	err := r.db.QueryRowContext(ctx, "SELECT "+videoCols+" FROM videos v WHERE v.id = ?", id).Scan(videoDest(&v)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetWithOwner fetches a video joined with its owner summary.
func (r *VideoRepo) GetWithOwner(ctx context.Context, id string) (*model.VideoWithOwner, error) {
	q := "SELECT " + videoWithOwnerCols + " FROM videos v JOIN users u ON u.id = v.owner_id WHERE v.id = ?"
	vw, err := scanVideoWithOwner(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vw, nil
}

var videoSortColumns = map[string]string{
	"createdAt": "v.created_at",
	"views":     "v.views",
	"duration":  "v.duration",
	"title":     "v.title",
}

// List returns one page of published videos matching q and the total
// number of matches.
func (r *VideoRepo) List(ctx context.Context, q model.VideoQuery) ([]model.VideoWithOwner, int64, error) {
	where := []string{"v.is_published = TRUE"}
	args := []any{}
	if s := strings.TrimSpace(q.Query); s != "" {
		where = append(where, "(LOWER(v.title) LIKE ? OR LOWER(v.description) LIKE ?)")
		like := "%" + strings.ToLower(s) + "%"
		args = append(args, like, like)
	}
	if q.OwnerID != "" {
		where = append(where, "v.owner_id = ?")
		args = append(args, q.OwnerID)
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM videos v WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col, ok := videoSortColumns[q.SortBy]
	if !ok {
		col = videoSortColumns["createdAt"]
	}
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}
	dataSQL := "SELECT " + videoWithOwnerCols + `
		FROM videos v JOIN users u ON u.id = v.owner_id
		WHERE ` + cond + `
		ORDER BY ` + col + " " + dir + `, v.id
		LIMIT ? OFFSET ?`
	docs, err := queryVideosWithOwner(ctx, r.db, dataSQL, append(args, q.Limit, offset(q.Page, q.Limit))...)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// ListByOwner returns every video of ownerID, published or not, newest first.
func (r *VideoRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Video, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+videoCols+" FROM videos v WHERE v.owner_id = ? ORDER BY v.created_at DESC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Video{}
	for rows.Next() {
		var v model.Video
		if err := rows.Scan(videoDest(&v)...); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Update sets title and description, and the thumbnail when thumbURL is
// non-empty. Only the owner's row can match.
func (r *VideoRepo) Update(ctx context.Context, id, ownerID, title, description, thumbURL, thumbKey string) error {
	const q = `UPDATE videos
		SET title = ?, description = ?,
		    thumbnail_url = COALESCE(NULLIF(?, ''), thumbnail_url),
		    thumbnail_id = COALESCE(NULLIF(?, ''), thumbnail_id),
		    updated_at = ?
		WHERE id = ? AND owner_id = ?`
	return expectOne(r.db.ExecContext(ctx, q, title, description, thumbURL, thumbKey, now(), id, ownerID))
}

func (r *VideoRepo) Delete(ctx context.Context, id, ownerID string) error {
	return expectOne(r.db.ExecContext(ctx, "DELETE FROM videos WHERE id = ? AND owner_id = ?", id, ownerID))
}

// TogglePublish flips is_published under a row lock and returns the new
// state. Concurrent toggles serialize on the lock.
func (r *VideoRepo) TogglePublish(ctx context.Context, id, ownerID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var published bool
	err = tx.QueryRowContext(ctx,
		"SELECT is_published FROM videos WHERE id = ? AND owner_id = ? FOR UPDATE", id, ownerID).Scan(&published)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}
	published = !published
	if _, err := tx.ExecContext(ctx,
		"UPDATE videos SET is_published = ?, updated_at = ? WHERE id = ?", published, now(), id); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return published, nil
}

// RecordView increments the view counter and, for a signed-in viewer,
// moves the video to the top of their watch history.
func (r *VideoRepo) RecordView(ctx context.Context, videoID, viewerID string) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE videos SET views = views + 1 WHERE id = ?", videoID); err != nil {
		return err
	}
	if viewerID == "" {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO watch_history (user_id, video_id, watched_at) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE watched_at = VALUES(watched_at)`, viewerID, videoID, now())
	return err
}
