package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors.Is for sql.ErrNoRows
	"strings"      // strings for query building and trimming

	"github.com/iliyamo/vidtube/internal/model" // model holds row and response types
)

// UserRepo is the credential store. Username and email are normalized
// (trimmed, lower-cased) on every write and lookup.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Normalize trims and lower-cases a username or email.
func Normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

const userCols = `id, username, email, full_name, password_hash, avatar_url, avatar_id,
	cover_image_url, cover_image_id, refresh_token_hash, created_at, updated_at`

func scanUser(s rowScanner) (*model.User, error) {
	var (
		u       model.User
		refresh sql.NullString
	)
	err := s.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash, &u.Avatar, &u.AvatarID,
		&u.CoverImage, &u.CoverImageID, &refresh, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.RefreshTokenHash = refresh.String
	return &u, nil
}

// Create inserts u. ID and timestamps are assigned when empty. A taken
// username or email yields ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = newID()
	}
	u.Username = Normalize(u.Username)
	u.Email = Normalize(u.Email)
	ts := now()
	u.CreatedAt, u.UpdatedAt = ts, ts

	const q = `INSERT INTO users
		(id, username, email, full_name, password_hash, avatar_url, avatar_id, cover_image_url, cover_image_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, u.ID, u.Username, u.Email, u.FullName, u.PasswordHash,
		u.Avatar, u.AvatarID, u.CoverImage, u.CoverImageID, u.CreatedAt, u.UpdatedAt)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// ExistsByUsernameOrEmail reports whether either identifier is taken.
func (r *UserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	return rowExists(ctx, r.db, "SELECT 1 FROM users WHERE username = ? OR email = ? LIMIT 1",
		Normalize(username), Normalize(email))
}

// Exists reports whether a user with id exists.
func (r *UserRepo) Exists(ctx context.Context, id string) (bool, error) {
	return rowExists(ctx, r.db, "SELECT 1 FROM users WHERE id = ?", id)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, "SELECT "+userCols+" FROM users WHERE id = ?", id))
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, "SELECT "+userCols+" FROM users WHERE username = ?", Normalize(username)))
}

// FindByUsernameOrEmail looks a user up by whichever identifier is
// non-empty; when both are given either may match.
func (r *UserRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	username, email = Normalize(username), Normalize(email)
	var (
		where []string
		args  []any
	)
	if username != "" {
		where = append(where, "username = ?")
		args = append(args, username)
	}
	if email != "" {
		where = append(where, "email = ?")
		args = append(args, email)
	}
	if len(where) == 0 {
		return nil, ErrNotFound
	}
	q := "SELECT " + userCols + " FROM users WHERE " + strings.Join(where, " OR ") + " LIMIT 1"
	return scanUser(r.db.QueryRowContext(ctx, q, args...))
}

// SetRefreshToken overwrites the stored refresh token hash. This is the
// login rotation point: any previously issued refresh token stops
// matching.
func (r *UserRepo) SetRefreshToken(ctx context.Context, id, hash string) error {
	return expectOne(r.db.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash = ? WHERE id = ?", hash, id))
}

// SwapRefreshToken replaces oldHash with newHash only if oldHash is still
// the stored value. It returns false when another request rotated or
// cleared the token first.
func (r *UserRepo) SwapRefreshToken(ctx context.Context, id, oldHash, newHash string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash = ? WHERE id = ? AND refresh_token_hash = ?",
		newHash, id, oldHash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *UserRepo) ClearRefreshToken(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET refresh_token_hash = NULL WHERE id = ?", id)
	return err
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return expectOne(r.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?", hash, now(), id))
}

// UpdateAccount changes full name and/or email; an empty argument keeps
// the current value.
func (r *UserRepo) UpdateAccount(ctx context.Context, id, fullName, email string) error {
	const q = `UPDATE users
		SET full_name = COALESCE(NULLIF(?, ''), full_name),
		    email = COALESCE(NULLIF(?, ''), email),
		    updated_at = ?
		WHERE id = ?`
	err := expectOne(r.db.ExecContext(ctx, q, strings.TrimSpace(fullName), Normalize(email), now(), id))
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (r *UserRepo) UpdateAvatar(ctx context.Context, id, url, key string) error {
	return expectOne(r.db.ExecContext(ctx,
		"UPDATE users SET avatar_url = ?, avatar_id = ?, updated_at = ? WHERE id = ?", url, key, now(), id))
}

func (r *UserRepo) UpdateCoverImage(ctx context.Context, id, url, key string) error {
	return expectOne(r.db.ExecContext(ctx,
		"UPDATE users SET cover_image_url = ?, cover_image_id = ?, updated_at = ? WHERE id = ?", url, key, now(), id))
}

// ChannelProfile loads the public channel page of username. viewerID may
// be empty for anonymous viewers, in which case IsSubscribed is false.
func (r *UserRepo) ChannelProfile(ctx context.Context, username, viewerID string) (*model.ChannelProfile, error) {
	const q = `SELECT u.id, u.username, u.email, u.full_name, u.avatar_url, u.cover_image_url,
		(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id),
		(SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id),
		EXISTS(SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = ?)
		FROM users u WHERE u.username = ?`
	var p model.ChannelProfile
	err := r.db.QueryRowContext(ctx, q, viewerID, Normalize(username)).Scan(
		&p.ID, &p.Username, &p.Email, &p.FullName, &p.Avatar, &p.CoverImage,
		&p.SubscribersCount, &p.ChannelsSubscribedTo, &p.IsSubscribed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// WatchHistory lists the videos userID watched, most recent first.
// Videos unpublished since being watched are omitted.
func (r *UserRepo) WatchHistory(ctx context.Context, userID string) ([]model.VideoWithOwner, error) {
	q := `SELECT ` + videoWithOwnerCols + `
		FROM watch_history h
		JOIN videos v ON v.id = h.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE h.user_id = ? AND v.is_published = TRUE
		ORDER BY h.watched_at DESC`
	return queryVideosWithOwner(ctx, r.db, q, userID)
}
