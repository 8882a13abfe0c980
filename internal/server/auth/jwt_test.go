package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken("acc-123", secret, time.Hour)
	require.NoError(t, err)

	got, err := GetAccountIDFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "acc-123", got)
}

func TestGetAccountIDFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken("a1", secret, -1*time.Second)
	require.NoError(t, err)

	_, err = GetAccountIDFromToken(tok, secret)
	assert.Error(t, err)
}

func TestGetAccountIDFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("a2", []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	_, err = GetAccountIDFromToken(tok, []byte("wrong-secret"))
	assert.Error(t, err)
}

func TestGetAccountIDFromToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := GetAccountIDFromToken("not.a.jwt", []byte("k"))
	assert.Error(t, err)
}
