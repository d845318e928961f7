package model

import "time"

// LikeTarget is the kind of entity a like points at. A like row refers
// to exactly one target.
type LikeTarget string

const (
	LikeVideo   LikeTarget = "video"
	LikeComment LikeTarget = "comment"
	LikeTweet   LikeTarget = "tweet"
)

// LikedVideo is an entry of a user's liked-videos list.
type LikedVideo struct {
	VideoWithOwner
	LikedAt time.Time `json:"likedAt"`
}
