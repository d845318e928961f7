package handler // handler package contains the HTTP handlers for each resource

import (
	"errors"   // errors.As and errors.Is for bind and upload errors
	"net/http" // http provides status code constants
	"strconv"  // strconv parses query parameters

	"github.com/google/uuid"      // uuid validates path ids
	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/vidtube/internal/apperr"     // typed application errors
	"github.com/iliyamo/vidtube/internal/middleware" // authenticated user id
	"github.com/iliyamo/vidtube/internal/storage"    // uploaded file assets
)

// pathID reads a UUID path parameter.
func pathID(c echo.Context, name string) (string, error) {
	return parseID(c.Param(name), name)
}

func parseID(raw, name string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperr.Validation("invalid " + name)
	}
	return id.String(), nil
}

// actor is the authenticated user id; "" on optional routes.
func actor(c echo.Context) string { return middleware.UserID(c) }

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation(name + " must be a number")
	}
	return n, nil
}

// bind decodes the request body into v.
func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusUnsupportedMediaType {
			return apperr.Validation("unsupported content type")
		}
		return apperr.Validation("invalid request body")
	}
	return nil
}

// formFile opens an optional multipart file. The returned closer must be
// called once the asset has been uploaded; it is a no-op when the file is
// absent.
func formFile(c echo.Context, name string) (*storage.Asset, func(), error) {
	fh, err := c.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, apperr.Validation("invalid multipart form")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, apperr.Internal("failed to read "+name, err)
	}
	closer := func() { _ = f.Close() }
	a, err := storage.NewAsset(fh.Filename, fh.Size, f)
	if err != nil {
		closer()
		if errors.Is(err, storage.ErrEmptyAsset) {
			return nil, func() {}, apperr.Validation(name + " is empty")
		}
		return nil, func() {}, apperr.Internal("failed to read "+name, err)
	}
	return &a, closer, nil
}

