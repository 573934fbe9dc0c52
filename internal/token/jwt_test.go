package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GenerateAndParse(t *testing.T) {
	m := NewManager("test-secret", 24*time.Hour)

	tok, err := m.Generate("u1", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestManager_Parse_Expired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	tok, err := m.Generate("u1", "alice")
	require.NoError(t, err)

	_, err = m.Parse(tok)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestManager_Parse_WrongSecret(t *testing.T) {
	m := NewManager("right-secret", time.Hour)
	tok, err := m.Generate("u1", "alice")
	require.NoError(t, err)

	other := NewManager("wrong-secret", time.Hour)
	_, err = other.Parse(tok)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestManager_Parse_Tampered(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	tok, err := m.Generate("u1", "alice")
	require.NoError(t, err)

	// Flip a character in the payload segment.
	tampered := []byte(tok)
	mid := len(tampered) / 2
	if tampered[mid] == 'a' {
		tampered[mid] = 'b'
	} else {
		tampered[mid] = 'a'
	}

	_, err = m.Parse(string(tampered))
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestManager_Parse_Garbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	_, err := m.Parse("not-a-jwt")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestDecodeUnverified(t *testing.T) {
	m := NewManager("some-secret", time.Hour)
	tok, err := m.Generate("u2", "bob")
	require.NoError(t, err)

	// Decoding ignores the signature, so a manager with a different
	// secret is not needed.
	claims, err := DecodeUnverified(tok)
	require.NoError(t, err)
	assert.Equal(t, "u2", claims.UserID)
	assert.Equal(t, "bob", claims.Username)

	_, err = DecodeUnverified("garbage")
	require.ErrorIs(t, err, ErrTokenInvalid)
}
