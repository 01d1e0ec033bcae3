package auth

import (
	"testing"

	"github.com/jon4hz/decksmith/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSHA256(t *testing.T) {
	h := SHA256{}

	tests := []struct {
		password string
		want     string
	}{
		{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"x", "2d711642b726b04401627ca9fbac32f5c8530fb1903cc4db02258717921a4881"},
		{"password", "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8"},
	}
	for _, tt := range tests {
		got, err := h.Hash(tt.password)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Len(t, got, 64)
		assert.True(t, h.Verify(tt.want, tt.password))
	}

	assert.False(t, h.Verify(tests[1].want, "y"))
	assert.True(t, h.Verify("2D711642B726B04401627CA9FBAC32F5C8530FB1903CC4DB02258717921A4881", "x"))
}

func TestBcrypt(t *testing.T) {
	h := &Bcrypt{Cost: bcrypt.MinCost}

	hash, err := h.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)
	assert.True(t, h.Verify(hash, "secret"))
	assert.False(t, h.Verify(hash, "Secret"))

	legacy, _ := SHA256{}.Hash("secret")
	assert.True(t, h.Verify(legacy, "secret"), "sha256 digests stay valid")
	assert.False(t, h.Verify(legacy, "other"))
}

func TestNewHasher(t *testing.T) {
	assert.IsType(t, SHA256{}, NewHasher(nil))
	assert.IsType(t, SHA256{}, NewHasher(&config.AuthConfig{PasswordHash: config.PasswordHashSHA256}))

	h := NewHasher(&config.AuthConfig{PasswordHash: config.PasswordHashBcrypt, BcryptCost: 4})
	require.IsType(t, &Bcrypt{}, h)
	assert.Equal(t, 4, h.(*Bcrypt).Cost)
}
