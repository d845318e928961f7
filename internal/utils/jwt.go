package utils // package utils provides helpers for token issuing, credential hashing and ids

import (
	"crypto/sha256" // SHA-256 digest of refresh tokens before they are stored
	"encoding/hex"  // hex encoding of digests
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for signing and parsing tokens
	"github.com/google/uuid"       // random jti so two tokens issued in the same second differ
)

// TokenKind distinguishes the two token families. It is written into the
// "typ" claim and checked on verification, in addition to the families
// being signed with different secrets.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

var (
	// ErrSigningKey is returned when the secret for a token kind is missing.
	ErrSigningKey = errors.New("signing key unavailable")
	// ErrTokenInvalid covers bad signatures, wrong algorithm, wrong kind,
	// malformed input and expiry.
	ErrTokenInvalid = errors.New("token invalid")
)

// Principal is the profile snapshot denormalized into an access token.
type Principal struct {
	ID       string
	Username string
	Email    string
	FullName string
}

// Claims is the payload of both token kinds. Profile fields are empty in
// refresh tokens.
type Claims struct {
	Kind     TokenKind `json:"typ"`
	Username string    `json:"username,omitempty"`
	Email    string    `json:"email,omitempty"`
	FullName string    `json:"fullName,omitempty"`
	jwt.RegisteredClaims
}

// AccessToken is a signed access JWT along with its expiry.
type AccessToken struct {
	Token string    // serialized JWT
	Exp   time.Time // UTC expiration time
}

// RefreshToken is a signed refresh JWT along with its expiry. Only the
// SHA-256 of Raw is persisted.
type RefreshToken struct {
	Raw string    // serialized JWT returned to the client
	Exp time.Time // UTC expiration time
}

// Tokens issues and verifies access and refresh tokens. It is safe for
// concurrent use.
type Tokens struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokens builds a token service. The two secrets must differ so that
// neither kind can be verified with the other's key.
func NewTokens(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Tokens {
	return &Tokens{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// IssueAccess signs a short-lived token for p.
func (t *Tokens) IssueAccess(p Principal) (AccessToken, error) {
	now := t.now()
	exp := now.Add(t.accessTTL)
	claims := Claims{
		Kind:             KindAccess,
		Username:         p.Username,
		Email:            p.Email,
		FullName:         p.FullName,
		RegisteredClaims: t.registered(p.ID, now, exp),
	}
	signed, err := sign(t.accessSecret, claims)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// IssueRefresh signs a long-lived token that binds only the user id.
func (t *Tokens) IssueRefresh(userID string) (RefreshToken, error) {
	now := t.now()
	exp := now.Add(t.refreshTTL)
	claims := Claims{
		Kind:             KindRefresh,
		RegisteredClaims: t.registered(userID, now, exp),
	}
	signed, err := sign(t.refreshSecret, claims)
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{Raw: signed, Exp: exp}, nil
}

// Verify checks signature, algorithm, expiry and kind of raw and returns
// its claims. Every failure is reported as ErrTokenInvalid, except a
// missing secret which is ErrSigningKey.
func (t *Tokens) Verify(raw string, kind TokenKind) (*Claims, error) {
	secret := t.secretFor(kind)
	if len(secret) == 0 {
		return nil, ErrSigningKey
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !tok.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Kind != kind || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (t *Tokens) secretFor(kind TokenKind) []byte {
	switch kind {
	case KindAccess:
		return t.accessSecret
	case KindRefresh:
		return t.refreshSecret
	}
	return nil
}

func (t *Tokens) registered(sub string, now, exp time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   sub,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
}

func sign(secret []byte, claims Claims) (string, error) {
	if len(secret) == 0 {
		return "", ErrSigningKey
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// HashRefreshRaw returns the SHA-256 hex digest of a raw refresh token.
// The credential store keeps only this digest, so a leaked users table
// cannot be replayed against the refresh endpoint.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
