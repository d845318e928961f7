package model

import "time"

// Video represents a row in the `videos` table. Unpublished videos are
// visible to their owner only.
type Video struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"videoFile"`
	VideoFileID string    `json:"-"`
	Thumbnail   string    `json:"thumbnail"`
	ThumbnailID string    `json:"-"`
	Duration    float64   `json:"duration"` // seconds
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (v *Video) Owner() string { return v.OwnerID }

// VideoWithOwner is a video joined with its owner's summary.
type VideoWithOwner struct {
	Video
	OwnerDetails UserSummary `json:"ownerDetails"`
}

// VideoQuery filters and pages the public video listing.
type VideoQuery struct {
	Query    string // substring of title or description
	OwnerID  string
	SortBy   string // createdAt | views | duration | title
	SortDesc bool
	Page     int
	Limit    int
}
