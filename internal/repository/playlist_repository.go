package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors.Is for sql.ErrNoRows
	"strings"      // strings for query building and trimming

	"github.com/iliyamo/vidtube/internal/model" // model holds row and response types
)

type PlaylistRepo struct {
	db *sql.DB
}

func NewPlaylistRepo(db *sql.DB) *PlaylistRepo { return &PlaylistRepo{db: db} }

const playlistCols = `p.id, p.owner_id, p.name, p.description,
	(SELECT COUNT(*) FROM playlist_videos pv WHERE pv.playlist_id = p.id),
	p.created_at, p.updated_at`

func playlistDest(p *model.Playlist) []any {
	return []any{&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.TotalVideos, &p.CreatedAt, &p.UpdatedAt}
}

// Create inserts p. A name the owner already uses yields ErrDuplicate.
func (r *PlaylistRepo) Create(ctx context.Context, p *model.Playlist) error {
	if p.ID == "" {
		p.ID = newID()
	}
	ts := now()
	p.CreatedAt, p.UpdatedAt = ts, ts
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO playlists (id, owner_id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		p.ID, p.OwnerID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PlaylistRepo) GetByID(ctx context.Context, id string) (*model.Playlist, error) {
	var p model.Playlist
	err := r.db.QueryRowContext(ctx, "SELECT "+playlistCols+" FROM playlists p WHERE p.id = ?", id).Scan(playlistDest(&p)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlaylistRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Playlist, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+playlistCols+" FROM playlists p WHERE p.owner_id = ? ORDER BY p.created_at DESC, p.id", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Playlist{}
	for rows.Next() {
		var p model.Playlist
		if err := rows.Scan(playlistDest(&p)...); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Videos lists the playlist's videos in the order they were added.
// Unpublished videos are hidden unless viewerID owns them.
func (r *PlaylistRepo) Videos(ctx context.Context, playlistID, viewerID string) ([]model.VideoWithOwner, error) {
	q := `SELECT ` + videoWithOwnerCols + `
		FROM playlist_videos pv
		JOIN videos v ON v.id = pv.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE pv.playlist_id = ? AND (v.is_published = TRUE OR v.owner_id = ?)
		ORDER BY pv.added_at, v.id`
	return queryVideosWithOwner(ctx, r.db, q, playlistID, viewerID)
}

// Update changes name and/or description; empty keeps the current value.
func (r *PlaylistRepo) Update(ctx context.Context, id, ownerID, name, description string) error {
	const q = `UPDATE playlists
		SET name = COALESCE(NULLIF(?, ''), name),
		    description = COALESCE(NULLIF(?, ''), description),
		    updated_at = ?
		WHERE id = ? AND owner_id = ?`
	err := expectOne(r.db.ExecContext(ctx, q, strings.TrimSpace(name), strings.TrimSpace(description), now(), id, ownerID))
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PlaylistRepo) Delete(ctx context.Context, id, ownerID string) error {
	return expectOne(r.db.ExecContext(ctx, "DELETE FROM playlists WHERE id = ? AND owner_id = ?", id, ownerID))
}

// AddVideo appends videoID to a playlist owned by ownerID. It returns
// ErrDuplicate when the video is already present and ErrNotFound when the
// playlist (for this owner) or the video is gone.
func (r *PlaylistRepo) AddVideo(ctx context.Context, playlistID, videoID, ownerID string) error {
	const q = `INSERT INTO playlist_videos (playlist_id, video_id, added_at)
		SELECT p.id, ?, ? FROM playlists p WHERE p.id = ? AND p.owner_id = ?`
	err := expectOne(r.db.ExecContext(ctx, q, videoID, now(), playlistID, ownerID))
	switch {
	case isDuplicate(err):
		return ErrDuplicate
	case isMissingParent(err):
		return ErrNotFound
	}
	return err
}

// RemoveVideo drops videoID from a playlist owned by ownerID. ErrNotFound
// means the video was not in the playlist.
func (r *PlaylistRepo) RemoveVideo(ctx context.Context, playlistID, videoID, ownerID string) error {
	const q = `DELETE pv FROM playlist_videos pv
		JOIN playlists p ON p.id = pv.playlist_id
		WHERE pv.playlist_id = ? AND pv.video_id = ? AND p.owner_id = ?`
	return expectOne(r.db.ExecContext(ctx, q, playlistID, videoID, ownerID))
}
