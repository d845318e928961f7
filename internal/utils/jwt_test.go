package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokens() *Tokens {
	return NewTokens("access-secret", "refresh-secret", 15*time.Minute, 240*time.Hour)
}

func TestIssueAccessRoundTrip(t *testing.T) {
	tk := newTestTokens()
	p := Principal{ID: "5c3e2a4e-8d55-4c8f-9f6f-1d2b7b0a1c11", Username: "ana", Email: "ana@x.com", FullName: "Ana"}

	at, err := tk.IssueAccess(p)
	require.NoError(t, err)
	assert.NotEmpty(t, at.Token)

	claims, err := tk.Verify(at.Token, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, p.ID, claims.Subject)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "ana@x.com", claims.Email)
	assert.Equal(t, "Ana", claims.FullName)
	assert.Equal(t, KindAccess, claims.Kind)
	assert.WithinDuration(t, at.Exp, claims.ExpiresAt.Time, time.Second)
}

func TestRefreshCarriesOnlyIdentity(t *testing.T) {
	tk := newTestTokens()
	rt, err := tk.IssueRefresh("u-1")
	require.NoError(t, err)

	claims, err := tk.Verify(rt.Raw, KindRefresh)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Empty(t, claims.Username)
	assert.Empty(t, claims.Email)
}

func TestKindsAreNotInterchangeable(t *testing.T) {
	tk := newTestTokens()
	at, err := tk.IssueAccess(Principal{ID: "u-1"})
	require.NoError(t, err)
	rt, err := tk.IssueRefresh("u-1")
	require.NoError(t, err)

	_, err = tk.Verify(at.Token, KindRefresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = tk.Verify(rt.Raw, KindAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTypClaimChecked(t *testing.T) {
	// Same secret for both kinds: only the typ claim separates them.
	tk := NewTokens("same", "same", time.Minute, time.Hour)
	at, err := tk.IssueAccess(Principal{ID: "u-1"})
	require.NoError(t, err)

	_, err = tk.Verify(at.Token, KindRefresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiredTokenRejected(t *testing.T) {
	tk := newTestTokens()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tk.now = func() time.Time { return base }
	at, err := tk.IssueAccess(Principal{ID: "u-1"})
	require.NoError(t, err)

	tk.now = func() time.Time { return base.Add(16 * time.Minute) }
	_, err = tk.Verify(at.Token, KindAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTamperedAndForeignTokensRejected(t *testing.T) {
	tk := newTestTokens()
	at, err := tk.IssueAccess(Principal{ID: "u-1"})
	require.NoError(t, err)

	_, err = tk.Verify(at.Token+"x", KindAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = tk.Verify("not-a-jwt", KindAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	other := NewTokens("other-access", "other-refresh", time.Minute, time.Hour)
	foreign, err := other.IssueAccess(Principal{ID: "u-1"})
	require.NoError(t, err)
	_, err = tk.Verify(foreign.Token, KindAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestNoneAlgorithmRejected(t *testing.T) {
	tk := newTestTokens()
	claims := Claims{
		Kind: KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tk.Verify(raw, KindAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestMissingSecret(t *testing.T) {
	tk := NewTokens("", "refresh", time.Minute, time.Hour)
	_, err := tk.IssueAccess(Principal{ID: "u-1"})
	assert.ErrorIs(t, err, ErrSigningKey)
	_, err = tk.Verify("x.y.z", KindAccess)
	assert.ErrorIs(t, err, ErrSigningKey)
}

func TestConsecutiveRefreshTokensDiffer(t *testing.T) {
	tk := newTestTokens()
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tk.now = func() time.Time { return fixed }

	a, err := tk.IssueRefresh("u-1")
	require.NoError(t, err)
	b, err := tk.IssueRefresh("u-1")
	require.NoError(t, err)

	assert.NotEqual(t, a.Raw, b.Raw)
	assert.NotEqual(t, HashRefreshRaw(a.Raw), HashRefreshRaw(b.Raw))
}

func TestHashRefreshRaw(t *testing.T) {
	h := HashRefreshRaw("abc")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashRefreshRaw("abc"))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", h)
}
