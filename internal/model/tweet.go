package model

import "time"

// Tweet is a short text post on a user's channel.
type Tweet struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Tweet) Owner() string { return t.OwnerID }

type TweetWithOwner struct {
	Tweet
	OwnerDetails UserSummary `json:"ownerDetails"`
}
