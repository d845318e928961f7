package model

import "time"

// Comment represents a row in the `comments` table.
type Comment struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video"`
	OwnerID   string    `json:"owner"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Comment) Owner() string { return c.OwnerID }

type CommentWithOwner struct {
	Comment
	OwnerDetails UserSummary `json:"ownerDetails"`
}
