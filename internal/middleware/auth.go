package middleware // request authentication and other cross-cutting HTTP concerns

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/vidtube/internal/apperr"
	"github.com/iliyamo/vidtube/internal/utils"
)

// Context keys set by JWTAuth and OptionalAuth.
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// AccessCookie is the cookie carrying the access token.
const AccessCookie = "accessToken"

// JWTAuth returns a middleware that requires a valid access token, read
// from the accessToken cookie or an "Authorization: Bearer" header. The
// subject and username claims are stored under ContextUserID and
// ContextUsername.
func JWTAuth(tokens *utils.Tokens) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := accessToken(c)
			if raw == "" {
				return apperr.Unauthorized("unauthorized request")
			}
			claims, err := tokens.Verify(raw, utils.KindAccess)
			if err != nil {
				if errors.Is(err, utils.ErrSigningKey) {
					return apperr.Internal("token verification unavailable", err)
				}
				return apperr.Wrap(apperr.KindTokenInvalid, "invalid access token", err)
			}
			c.Set(ContextUserID, claims.Subject)
			c.Set(ContextUsername, claims.Username)
			return next(c)
		}
	}
}

// OptionalAuth identifies the viewer when a valid access token is present
// and lets the request through anonymously otherwise.
func OptionalAuth(tokens *utils.Tokens) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := accessToken(c); raw != "" {
				if claims, err := tokens.Verify(raw, utils.KindAccess); err == nil {
					c.Set(ContextUserID, claims.Subject)
					c.Set(ContextUsername, claims.Username)
				}
			}
			return next(c)
		}
	}
}

// accessToken prefers the cookie over the header.
func accessToken(c echo.Context) string {
	if ck, err := c.Cookie(AccessCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// UserID returns the authenticated user's id, or "" for anonymous requests.
func UserID(c echo.Context) string {
	if s, ok := c.Get(ContextUserID).(string); ok {
		return s
	}
	return ""
}
