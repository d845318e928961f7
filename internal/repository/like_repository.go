package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"fmt"          // fmt builds table-specific queries

	"github.com/iliyamo/vidtube/internal/model" // model holds row and response types
)

type LikeRepo struct {
	db *sql.DB
}

func NewLikeRepo(db *sql.DB) *LikeRepo { return &LikeRepo{db: db} }

var likeColumns = map[model.LikeTarget]string{
	model.LikeVideo:   "video_id",
	model.LikeComment: "comment_id",
	model.LikeTweet:   "tweet_id",
}

// Toggle flips userID's like on a target and returns whether it is now
// liked. The DELETE decides the direction atomically; a racing request
// that inserts first surfaces as a duplicate key, which also means liked.
func (r *LikeRepo) Toggle(ctx context.Context, userID string, target model.LikeTarget, targetID string) (bool, error) {
	col, ok := likeColumns[target]
	if !ok {
		return false, fmt.Errorf("unknown like target %q", target)
	}

	res, err := r.db.ExecContext(ctx, "DELETE FROM likes WHERE liked_by = ? AND "+col+" = ?", userID, targetID)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, err
	} else if n > 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO likes (id, liked_by, "+col+", created_at) VALUES (?, ?, ?, ?)",
		newID(), userID, targetID, now())
	switch {
	case err == nil, isDuplicate(err):
		return true, nil
	case isMissingParent(err):
		return false, ErrNotFound
	}
	return false, err
}

// LikedVideos lists the published videos userID liked, most recent like first.
func (r *LikeRepo) LikedVideos(ctx context.Context, userID string) ([]model.LikedVideo, error) {
	q := `SELECT ` + videoWithOwnerCols + `, l.created_at
		FROM likes l
		JOIN videos v ON v.id = l.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE l.liked_by = ? AND v.is_published = TRUE
		ORDER BY l.created_at DESC, v.id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.LikedVideo{}
	for rows.Next() {
		var lv model.LikedVideo
		vw, err := scanVideoWithOwner(rows, &lv.LikedAt)
		if err != nil {
			return nil, err
		}
		lv.VideoWithOwner = vw
		out = append(out, lv)
	}
	return out, rows.Err()
}
