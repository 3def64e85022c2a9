package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_SignVerify(t *testing.T) {
	j := NewJWT("test-secret")

	token, err := j.Sign(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := j.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
}

func TestJWT_WrongSecret(t *testing.T) {
	token, err := NewJWT("secret-a").Sign(1)
	require.NoError(t, err)

	_, err = NewJWT("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_Garbage(t *testing.T) {
	_, err := NewJWT("secret").Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("pa55word")
	require.NoError(t, err)
	assert.NotEqual(t, "pa55word", hash)

	assert.True(t, ComparePassword(hash, "pa55word"))
	assert.False(t, ComparePassword(hash, "wrong"))
}
