package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashRoundTrip(t *testing.T) {
	h, err := HashPassword("password")
	require.NoError(t, err)
	require.NotEmpty(t, h)
	require.NotEqual(t, "password", h)

	require.True(t, CheckPassword(h, "password"))
	require.False(t, CheckPassword(h, "other_password"))
}

func TestHashFreshSalt(t *testing.T) {
	h1, err := HashPassword("password")
	require.NoError(t, err)
	h2, err := HashPassword("password")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2)
	require.True(t, CheckPassword(h1, "password"))
	require.True(t, CheckPassword(h2, "password"))
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	require.False(t, CheckPassword("not_a_bcrypt_hash", "password"))
	require.False(t, CheckPassword("", "password"))
}
