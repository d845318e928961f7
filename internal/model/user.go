package model

import "time"

// User represents an account record as stored in the `users` table.
// The credential columns never leave the process: PasswordHash and
// RefreshTokenHash carry json:"-" so any response embedding a User is
// already sanitized.
//
// Fields:
//  ID               – UUID primary key.
//  Username         – unique, lower-cased handle.
//  Email            – unique, lower-cased address.
//  FullName         – display name.
//  Avatar           – public URL of the avatar image (required).
//  AvatarID         – blob store key of the avatar.
//  CoverImage       – public URL of the cover image (optional).
//  CoverImageID     – blob store key of the cover image.
//  PasswordHash     – bcrypt hash.
//  RefreshTokenHash – SHA-256 of the single active refresh token, empty when logged out.
type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	FullName         string    `json:"fullName"`
	Avatar           string    `json:"avatar"`
	AvatarID         string    `json:"-"`
	CoverImage       string    `json:"coverImage"`
	CoverImageID     string    `json:"-"`
	PasswordHash     string    `json:"-"`
	RefreshTokenHash string    `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// UserSummary is the owner projection joined into videos, comments,
// tweets and subscription lists.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// ChannelProfile is a user's public channel page as seen by a viewer.
type ChannelProfile struct {
	ID                   string `json:"id"`
	Username             string `json:"username"`
	Email                string `json:"email"`
	FullName             string `json:"fullName"`
	Avatar               string `json:"avatar"`
	CoverImage           string `json:"coverImage"`
	SubscribersCount     int64  `json:"subscribersCount"`
	ChannelsSubscribedTo int64  `json:"channelsSubscribedTo"`
	IsSubscribed         bool   `json:"isSubscribed"`
}
