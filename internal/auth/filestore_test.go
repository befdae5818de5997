package auth_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"pawtrades/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	t.Run("missing file means no session", func(t *testing.T) {
		fs, err := auth.NewFileStore(filepath.Join(t.TempDir(), "nested", "session.yaml"))
		require.NoError(t, err)

		got, err := fs.Load()

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("round trip", func(t *testing.T) {
		fs, err := auth.NewFileStore(filepath.Join(t.TempDir(), "session.yaml"))
		require.NoError(t, err)
		want := &auth.Session{
			Subject:      "owner@example.com",
			UserID:       "u-1",
			AccessToken:  "access",
			RefreshToken: "refresh",
			ExpiresAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}

		require.NoError(t, fs.Save(want))
		got, err := fs.Load()

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want.Subject, got.Subject)
		assert.Equal(t, want.AccessToken, got.AccessToken)
		assert.Equal(t, want.RefreshToken, got.RefreshToken)
		assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt))

		info, err := os.Stat(fs.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("saving nil clears", func(t *testing.T) {
		fs, err := auth.NewFileStore(filepath.Join(t.TempDir(), "session.yaml"))
		require.NoError(t, err)
		require.NoError(t, fs.Save(&auth.Session{AccessToken: "a"}))

		require.NoError(t, fs.Save(nil))

		_, err = os.Stat(fs.Path())
		assert.True(t, os.IsNotExist(err))
		assert.NoError(t, fs.Clear())
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.yaml")
		require.NoError(t, os.WriteFile(path, []byte("session: [unclosed"), 0o600))
		fs, err := auth.NewFileStore(path)
		require.NoError(t, err)

		_, err = fs.Load()

		assert.ErrorContains(t, err, "failed to parse session file")
	})
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, (*auth.Session)(nil).Expired(now))
	assert.False(t, (&auth.Session{}).Expired(now))
	assert.False(t, (&auth.Session{ExpiresAt: now.Add(time.Minute)}).Expired(now))
	assert.True(t, (&auth.Session{ExpiresAt: now}).Expired(now))
}
