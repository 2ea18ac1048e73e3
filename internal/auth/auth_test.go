package auth

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviders(t *testing.T) {
	ctx := context.Background()
	fp, err := NewFileProvider(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	for name, p := range map[string]Provider{"file": fp, "memory": NewMemoryProvider()} {
		t.Run(name, func(t *testing.T) {
			ok, err := p.Authenticate(ctx, "alice", "secret1")
			require.NoError(t, err)
			assert.False(t, ok, "unknown user must not authenticate")

			created, err := p.CreateUser(ctx, "alice", "secret1")
			require.NoError(t, err)
			assert.True(t, created)

			created, err = p.CreateUser(ctx, "alice", "other-password")
			require.NoError(t, err)
			assert.False(t, created, "duplicate username")

			ok, err = p.Authenticate(ctx, "alice", "secret1")
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = p.Authenticate(ctx, "alice", "other-password")
			require.NoError(t, err)
			assert.False(t, ok, "duplicate create must not replace the password")
		})
	}
}

func TestFileProviderPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	p, err := NewFileProvider(path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "users:")

	_, err = p.CreateUser(ctx, "bob", "hunter22")
	require.NoError(t, err)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "bob:")
	assert.Contains(t, string(data), "$2a$")
	assert.NotContains(t, string(data), "hunter22")

	reopened, err := NewFileProvider(path)
	require.NoError(t, err)
	ok, err := reopened.Authenticate(ctx, "bob", "hunter22")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileProviderCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("users: [unclosed"), 0o600))
	p, err := NewFileProvider(path)
	require.NoError(t, err)
	_, err = p.Authenticate(context.Background(), "x", "y")
	assert.Error(t, err)
}

func TestTokenIssuer(t *testing.T) {
	secret := strings.Repeat("k", 32)
	ti := NewTokenIssuer(secret, time.Hour)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	ti.now = func() time.Time { return now }

	token, err := ti.Issue("alice")
	require.NoError(t, err)

	user, err := ti.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", user)

	t.Run("expired", func(t *testing.T) {
		later := NewTokenIssuer(secret, time.Hour)
		later.now = func() time.Time { return now.Add(2 * time.Hour) }
		_, err := later.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenIssuer(strings.Repeat("x", 32), time.Hour)
		other.now = ti.now
		_, err := other.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ti.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
