// Package storage is the blob store for avatars, cover images, video
// files and thumbnails.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Destroy outcomes.
const (
	ResultOK       = "ok"
	ResultNotFound = "not found"
)

// Folders group assets by what they are used for.
const (
	FolderAvatars    = "avatars"
	FolderCovers     = "covers"
	FolderVideos     = "videos"
	FolderThumbnails = "thumbnails"
)

var (
	ErrEmptyAsset      = errors.New("empty file")
	ErrInvalidMimeType = errors.New("unsupported file type")
)

// Asset is an upload held by the server, typically a multipart file.
type Asset struct {
	Name        string // client-supplied file name, used for the extension only
	ContentType string // sniffed from the content
	Size        int64
	Body        io.ReadSeeker
}

// UploadResult locates a stored asset. PublicID is the storage key and
// is what Destroy takes.
type UploadResult struct {
	URL      string
	PublicID string
}

type DestroyResult struct {
	Result string // ResultOK or ResultNotFound
}

// BlobStore uploads and destroys assets by key.
type BlobStore interface {
	Upload(ctx context.Context, folder string, a Asset) (UploadResult, error)
	Destroy(ctx context.Context, publicID string) (DestroyResult, error)
}

// NewAsset sniffs the first 512 bytes of body to fill ContentType and
// rewinds it.
func NewAsset(name string, size int64, body io.ReadSeeker) (Asset, error) {
	if size == 0 {
		return Asset{}, ErrEmptyAsset
	}
	buf := make([]byte, 512)
	n, err := io.ReadFull(body, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Asset{}, err
	}
	if n == 0 {
		return Asset{}, ErrEmptyAsset
	}
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return Asset{}, err
	}
	mimeType := strings.Split(http.DetectContentType(buf[:n]), ";")[0] // strip charset params
	return Asset{Name: name, ContentType: mimeType, Size: size, Body: body}, nil
}

func (a Asset) IsImage() bool { return strings.HasPrefix(a.ContentType, "image/") }

// IsVideo accepts what the content sniffer recognizes as video. MP4 and
// WebM are reported as video/mp4 and video/webm.
func (a Asset) IsVideo() bool { return strings.HasPrefix(a.ContentType, "video/") }

// storageKey builds folder/yyyy/mm/dd/<uuid><ext>.
func storageKey(folder, name, contentType string, at time.Time) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" || len(ext) > 6 {
		ext = mimeToExt(contentType)
	}
	return fmt.Sprintf("%s/%d/%02d/%02d/%s%s", folder, at.Year(), at.Month(), at.Day(), uuid.NewString(), ext)
}

func mimeToExt(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	default:
		return ""
	}
}
