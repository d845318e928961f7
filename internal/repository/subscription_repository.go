package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives

	"github.com/iliyamo/vidtube/internal/model" // model holds row and response types
)

type SubscriptionRepo struct {
	db *sql.DB
}

func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

// Toggle subscribes or unsubscribes subscriberID to channelID and returns
// whether the subscription now exists.
func (r *SubscriptionRepo) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM subscriptions WHERE subscriber_id = ? AND channel_id = ?", subscriberID, channelID)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, err
	} else if n > 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO subscriptions (subscriber_id, channel_id, created_at) VALUES (?, ?, ?)",
		subscriberID, channelID, now())
	switch {
	case err == nil, isDuplicate(err):
		return true, nil
	case isMissingParent(err):
		return false, ErrNotFound
	}
	return false, err
}

// Subscribers lists the users subscribed to channelID.
func (r *SubscriptionRepo) Subscribers(ctx context.Context, channelID string) ([]model.UserSummary, error) {
	return r.summaries(ctx, `SELECT u.id, u.username, u.full_name, u.avatar_url
		FROM subscriptions s JOIN users u ON u.id = s.subscriber_id
		WHERE s.channel_id = ? ORDER BY s.created_at DESC, u.id`, channelID)
}

// Channels lists the channels subscriberID follows.
func (r *SubscriptionRepo) Channels(ctx context.Context, subscriberID string) ([]model.UserSummary, error) {
	return r.summaries(ctx, `SELECT u.id, u.username, u.full_name, u.avatar_url
		FROM subscriptions s JOIN users u ON u.id = s.channel_id
		WHERE s.subscriber_id = ? ORDER BY s.created_at DESC, u.id`, subscriberID)
}

func (r *SubscriptionRepo) summaries(ctx context.Context, q string, arg string) ([]model.UserSummary, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.UserSummary{}
	for rows.Next() {
		var s model.UserSummary
		if err := rows.Scan(&s.ID, &s.Username, &s.FullName, &s.Avatar); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
