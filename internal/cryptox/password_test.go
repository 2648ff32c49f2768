package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	Cost = bcrypt.MinCost
}

func TestHashPassword_RoundTrip(t *testing.T) {
	h, err := HashPassword("senha123")
	require.NoError(t, err)
	assert.NotEqual(t, "senha123", h)

	ok, err := CheckPassword(h, "senha123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(h, "senha124")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("same-password1")
	require.NoError(t, err)
	b, err := HashPassword("same-password1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPassword_TruncatesLongInput(t *testing.T) {
	long := strings.Repeat("x", MaxPasswordBytes) + "tail"
	h, err := HashPassword(long)
	require.NoError(t, err)

	ok, err := CheckPassword(h, strings.Repeat("x", MaxPasswordBytes))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	ok, err := CheckPassword("not-a-hash", "senha123")
	require.Error(t, err)
	assert.False(t, ok)
}
