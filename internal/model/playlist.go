package model

import "time"

// Playlist represents a row in the `playlists` table. Names are unique
// per owner.
type Playlist struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TotalVideos int64     `json:"totalVideos"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Playlist) Owner() string { return p.OwnerID }

// PlaylistDetail is a playlist with its videos in insertion order.
type PlaylistDetail struct {
	Playlist
	Videos []VideoWithOwner `json:"videos"`
}
