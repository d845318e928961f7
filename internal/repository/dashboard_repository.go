package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives

	"github.com/iliyamo/vidtube/internal/model" // model holds row and response types
)

type DashboardRepo struct {
	db *sql.DB
}

func NewDashboardRepo(db *sql.DB) *DashboardRepo { return &DashboardRepo{db: db} }

// Stats aggregates the channel totals of ownerID in one round trip.
// Views and likes count every video of the channel, published or not.
func (r *DashboardRepo) Stats(ctx context.Context, ownerID string) (model.ChannelStats, error) {
	const q = `SELECT
		(SELECT COUNT(*) FROM subscriptions WHERE channel_id = ?),
		(SELECT COUNT(*) FROM videos WHERE owner_id = ?),
		(SELECT COALESCE(SUM(views), 0) FROM videos WHERE owner_id = ?),
		(SELECT COUNT(*) FROM likes l JOIN videos v ON v.id = l.video_id WHERE v.owner_id = ?)`
	var s model.ChannelStats
	err := r.db.QueryRowContext(ctx, q, ownerID, ownerID, ownerID, ownerID).
		Scan(&s.TotalSubscribers, &s.TotalVideos, &s.TotalViews, &s.TotalLikes)
	return s, err
}
