package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret"))

	_, err = HashPassword("")
	assert.Error(t, err)
}

func TestTokens(t *testing.T) {
	now := time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)
	tok, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)
	tok.now = func() time.Time { return now }

	signed, exp, err := tok.Issue("admin")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	t.Run("valid", func(t *testing.T) {
		claims, err := tok.Verify(signed)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Subject)
	})

	t.Run("expired", func(t *testing.T) {
		late := *tok
		late.now = func() time.Time { return now.Add(2 * time.Hour) }
		_, err := late.Verify(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := NewTokens("other", time.Hour)
		require.NoError(t, err)
		other.now = tok.now
		_, err = other.Verify(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tok.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewTokens_Validation(t *testing.T) {
	_, err := NewTokens("", time.Hour)
	assert.Error(t, err)
	_, err = NewTokens("s", 0)
	assert.Error(t, err)
}
