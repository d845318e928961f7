package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/vidtube/internal/model"
	"github.com/iliyamo/vidtube/internal/queue"
	"github.com/iliyamo/vidtube/internal/repository"
	"github.com/iliyamo/vidtube/internal/storage"
	"github.com/iliyamo/vidtube/internal/utils"
)

// memUsers is an in-memory users table implementing CredentialStore and
// ProfileStore.
type memUsers struct {
	mu   sync.Mutex
	rows map[string]*model.User
	seq  int
}

func newMemUsers() *memUsers { return &memUsers{rows: map[string]*model.User{}} }

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Username == u.Username || r.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	m.seq++
	u.ID = fmt.Sprintf("user-%d", m.seq)
	u.CreatedAt = time.Now().UTC()
	cp := *u
	m.rows[u.ID] = &cp
	return nil
}

func (m *memUsers) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Username == username || r.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[id]
	return ok, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memUsers) FindByUsernameOrEmail(_ context.Context, username, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if (username != "" && r.Username == username) || (email != "" && r.Email == email) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) SetRefreshToken(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.RefreshTokenHash = hash
	return nil
}

func (m *memUsers) SwapRefreshToken(_ context.Context, id, oldHash, newHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || r.RefreshTokenHash != oldHash {
		return false, nil
	}
	r.RefreshTokenHash = newHash
	return true, nil
}

func (m *memUsers) ClearRefreshToken(_ context.Context, id string) error {
	return m.SetRefreshToken(context.Background(), id, "")
}

func (m *memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.PasswordHash = hash
	return nil
}

func (m *memUsers) UpdateAccount(_ context.Context, id, fullName, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if email != "" {
		for _, o := range m.rows {
			if o.ID != id && o.Email == email {
				return repository.ErrDuplicate
			}
		}
		r.Email = email
	}
	if fullName != "" {
		r.FullName = fullName
	}
	return nil
}

func (m *memUsers) UpdateAvatar(_ context.Context, id, url, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.Avatar, r.AvatarID = url, key
	return nil
}

func (m *memUsers) UpdateCoverImage(_ context.Context, id, url, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.CoverImage, r.CoverImageID = url, key
	return nil
}

func (m *memUsers) ChannelProfile(_ context.Context, username, _ string) (*model.ChannelProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Username == username {
			return &model.ChannelProfile{ID: r.ID, Username: r.Username, FullName: r.FullName}, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) WatchHistory(context.Context, string) ([]model.VideoWithOwner, error) {
	return []model.VideoWithOwner{}, nil
}

// memBlobs records uploads and destroys.
type memBlobs struct {
	mu        sync.Mutex
	n         int
	live      map[string]bool
	destroyed []string
	failOn    string // folder whose uploads fail
}

func newMemBlobs() *memBlobs { return &memBlobs{live: map[string]bool{}} }

func (b *memBlobs) Upload(_ context.Context, folder string, _ storage.Asset) (storage.UploadResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if folder == b.failOn {
		return storage.UploadResult{}, fmt.Errorf("upload to %s refused", folder)
	}
	b.n++
	key := fmt.Sprintf("%s/%d", folder, b.n)
	b.live[key] = true
	return storage.UploadResult{URL: "https://cdn.test/" + key, PublicID: key}, nil
}

func (b *memBlobs) Destroy(_ context.Context, key string) (storage.DestroyResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.destroyed = append(b.destroyed, key)
	if !b.live[key] {
		return storage.DestroyResult{Result: storage.ResultNotFound}, nil
	}
	delete(b.live, key)
	return storage.DestroyResult{Result: storage.ResultOK}, nil
}

// memEvents captures published events.
type memEvents struct {
	mu         sync.Mutex
	registered []queue.UserRegisteredEvent
	published  []queue.VideoPublishedEvent
}

func (e *memEvents) UserRegistered(_ context.Context, ev queue.UserRegisteredEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.registered = append(e.registered, ev)
}

func (e *memEvents) VideoPublished(_ context.Context, ev queue.VideoPublishedEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.published = append(e.published, ev)
}

// memBoundary stands in for the cookie jar.
type memBoundary struct {
	refresh string
	access  string
	cleared bool
}

func (b *memBoundary) RefreshToken() string { return b.refresh }

func (b *memBoundary) Issue(a utils.AccessToken, r utils.RefreshToken) {
	b.access, b.refresh, b.cleared = a.Token, r.Raw, false
}

func (b *memBoundary) Clear() { b.access, b.refresh, b.cleared = "", "", true }

// memComments is an in-memory comments table.
type memComments struct {
	mu   sync.Mutex
	rows map[string]*model.Comment
	seq  int
}

func newMemComments() *memComments { return &memComments{rows: map[string]*model.Comment{}} }

func (m *memComments) Create(_ context.Context, c *model.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	c.ID = fmt.Sprintf("comment-%d", m.seq)
	cp := *c
	m.rows[c.ID] = &cp
	return nil
}

func (m *memComments) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[id]
	return ok, nil
}

func (m *memComments) GetByID(_ context.Context, id string) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memComments) ListByVideo(_ context.Context, videoID string, _, _ int) ([]model.CommentWithOwner, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.CommentWithOwner
	for _, r := range m.rows {
		if r.VideoID == videoID {
			out = append(out, model.CommentWithOwner{Comment: *r})
		}
	}
	return out, int64(len(out)), nil
}

func (m *memComments) Update(_ context.Context, id, ownerID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || r.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	r.Content = content
	return nil
}

func (m *memComments) Delete(_ context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || r.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// memVideos is an in-memory videos table.
type memVideos struct {
	mu   sync.Mutex
	rows map[string]*model.Video
	seq  int
}

func newMemVideos() *memVideos { return &memVideos{rows: map[string]*model.Video{}} }

func (m *memVideos) put(v model.Video) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[v.ID] = &v
}

func (m *memVideos) Create(_ context.Context, v *model.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	v.ID = fmt.Sprintf("video-%d", m.seq)
	v.CreatedAt = time.Now().UTC()
	cp := *v
	m.rows[v.ID] = &cp
	return nil
}

func (m *memVideos) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[id]
	return ok, nil
}

func (m *memVideos) GetByID(_ context.Context, id string) (*model.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memVideos) GetWithOwner(ctx context.Context, id string) (*model.VideoWithOwner, error) {
	v, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.VideoWithOwner{Video: *v, OwnerDetails: model.UserSummary{ID: v.OwnerID}}, nil
}

func (m *memVideos) List(_ context.Context, q model.VideoQuery) ([]model.VideoWithOwner, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.VideoWithOwner
	for _, r := range m.rows {
		if r.IsPublished && strings.Contains(strings.ToLower(r.Title), strings.ToLower(q.Query)) {
			out = append(out, model.VideoWithOwner{Video: *r})
		}
	}
	return out, int64(len(out)), nil
}

func (m *memVideos) ListByOwner(_ context.Context, ownerID string) ([]model.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Video{}
	for _, r := range m.rows {
		if r.OwnerID == ownerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memVideos) Update(_ context.Context, id, ownerID, title, description, thumbURL, thumbKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || r.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	r.Title, r.Description = title, description
	if thumbURL != "" {
		r.Thumbnail, r.ThumbnailID = thumbURL, thumbKey
	}
	return nil
}

func (m *memVideos) Delete(_ context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || r.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memVideos) TogglePublish(_ context.Context, id, ownerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || r.OwnerID != ownerID {
		return false, repository.ErrNotFound
	}
	r.IsPublished = !r.IsPublished
	return r.IsPublished, nil
}

func (m *memVideos) RecordView(_ context.Context, id, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		r.Views++
	}
	return nil
}

// memToggles is a set of (actor, target) pairs used for likes and
// subscriptions.
type memToggles struct {
	mu  sync.Mutex
	set map[string]bool
}

func newMemToggles() *memToggles { return &memToggles{set: map[string]bool{}} }

func (m *memToggles) flip(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.set[key] {
		delete(m.set, key)
		return false
	}
	m.set[key] = true
	return true
}

func (m *memToggles) Toggle(_ context.Context, a string, target model.LikeTarget, id string) (bool, error) {
	return m.flip(a + "|" + string(target) + "|" + id), nil
}

func (m *memToggles) LikedVideos(context.Context, string) ([]model.LikedVideo, error) {
	return []model.LikedVideo{}, nil
}

type memSubs struct{ *memToggles }

func (m memSubs) Toggle(_ context.Context, subscriber, channel string) (bool, error) {
	return m.flip(subscriber + "|" + channel), nil
}

func (m memSubs) Subscribers(context.Context, string) ([]model.UserSummary, error) {
	return []model.UserSummary{}, nil
}

func (m memSubs) Channels(context.Context, string) ([]model.UserSummary, error) {
	return []model.UserSummary{}, nil
}

// asset builds an in-memory upload with the given content type.
func asset(name, contentType string) *storage.Asset {
	return &storage.Asset{Name: name, ContentType: contentType, Size: 3, Body: strings.NewReader("abc")}
}

// memTweets is an in-memory tweets table.
type memTweets struct {
	mu   sync.Mutex
	rows map[string]*model.Tweet
	seq  int
}

func newMemTweets() *memTweets { return &memTweets{rows: map[string]*model.Tweet{}} }

func (m *memTweets) Create(_ context.Context, t *model.Tweet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t.ID = fmt.Sprintf("tweet-%d", m.seq)
	cp := *t
	m.rows[t.ID] = &cp
	return nil
}

func (m *memTweets) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[id]
	return ok, nil
}

func (m *memTweets) GetByID(_ context.Context, id string) (*model.Tweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memTweets) ListByOwner(_ context.Context, ownerID string) ([]model.TweetWithOwner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.TweetWithOwner{}
	for _, r := range m.rows {
		if r.OwnerID == ownerID {
			out = append(out, model.TweetWithOwner{Tweet: *r})
		}
	}
	return out, nil
}

func (m *memTweets) Update(_ context.Context, id, ownerID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || r.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	r.Content = content
	return nil
}

func (m *memTweets) Delete(_ context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || r.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}
