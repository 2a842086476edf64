package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner([]byte("test_secret"), "HS256")
	require.NoError(t, err)
	return s
}

func testClaims() UserClaims {
	return UserClaims{
		UserID:    42,
		Email:     "a@b.com",
		FirstName: "first",
		LastName:  "last",
	}
}

func TestNewSignerUnknownAlgorithm(t *testing.T) {
	_, err := NewSigner([]byte("secret"), "XX999")
	require.Error(t, err)

	_, err = NewSigner([]byte("secret"), "RS256")
	require.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	s := newTestSigner(t)

	raw, err := s.IssueAccess(testClaims(), time.Minute)
	require.NoError(t, err)
	require.Equal(t, 3, len(strings.Split(raw, ".")))

	claims, err := s.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, uint(42), claims.UserID)
	require.Equal(t, "a@b.com", claims.Email)
	require.Equal(t, "first", claims.FirstName)
	require.Equal(t, "last", claims.LastName)
	require.NotNil(t, claims.ExpiresAt)
}

func TestAccessTokenExpired(t *testing.T) {
	s := newTestSigner(t)

	raw, err := s.IssueAccess(testClaims(), -time.Minute)
	require.NoError(t, err)

	_, err = s.Verify(raw)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshTokenHasNoExpiry(t *testing.T) {
	s := newTestSigner(t)

	raw, err := s.IssueRefresh(testClaims())
	require.NoError(t, err)

	claims, err := s.Verify(raw)
	require.NoError(t, err)
	require.Nil(t, claims.ExpiresAt)
	require.Equal(t, uint(42), claims.UserID)
}

func TestVerifyTamperedSignature(t *testing.T) {
	s := newTestSigner(t)

	raw, err := s.IssueAccess(testClaims(), time.Minute)
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = s.Verify(tampered)
	require.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVerifyWrongSecret(t *testing.T) {
	s := newTestSigner(t)
	raw, err := s.IssueAccess(testClaims(), time.Minute)
	require.NoError(t, err)

	other, err := NewSigner([]byte("other_secret"), "HS256")
	require.NoError(t, err)

	_, err = other.Verify(raw)
	require.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVerifyMalformed(t *testing.T) {
	s := newTestSigner(t)

	_, err := s.Verify("garbage")
	require.ErrorIs(t, err, ErrTokenMalformed)

	_, err = s.Verify("")
	require.ErrorIs(t, err, ErrTokenMalformed)
}
