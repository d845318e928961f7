package handler // handler package contains the HTTP handlers for each resource

import (
	"net/http" // http provides status code constants
	"time"     // cookie expiry

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/vidtube/internal/middleware" // access cookie name
	"github.com/iliyamo/vidtube/internal/utils"      // token types
)

const refreshCookie = "refreshToken"

// cookieBoundary carries the token pair in HttpOnly cookies.
type cookieBoundary struct {
	c      echo.Context
	secure bool
}

func newCookieBoundary(c echo.Context, secure bool) *cookieBoundary {
	return &cookieBoundary{c: c, secure: secure}
}

func (b *cookieBoundary) RefreshToken() string {
	ck, err := b.c.Cookie(refreshCookie)
	if err != nil {
		return ""
	}
	return ck.Value
}

func (b *cookieBoundary) Issue(access utils.AccessToken, refresh utils.RefreshToken) {
	b.c.SetCookie(b.cookie(middleware.AccessCookie, access.Token, access.Exp))
	b.c.SetCookie(b.cookie(refreshCookie, refresh.Raw, refresh.Exp))
}

func (b *cookieBoundary) Clear() {
	for _, name := range []string{middleware.AccessCookie, refreshCookie} {
		ck := b.cookie(name, "", time.Unix(0, 0))
		ck.MaxAge = -1
		b.c.SetCookie(ck)
	}
}

func (b *cookieBoundary) cookie(name, value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   b.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
