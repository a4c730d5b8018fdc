package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salabelleza/agenda-console/internal/model"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_EmptyOnFirstOpen(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "session.db"))

	require.False(t, s.IsLoggedIn())
	require.Empty(t, s.Token())
	_, ok := s.User()
	require.False(t, ok)
}

func TestStore_SessionSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	s := openStore(t, path)
	user := model.User{ID: 3, Username: "ana", Role: "ADMIN", State: model.StateActive}
	require.NoError(t, s.Set("tok-abc", user))
	require.NoError(t, s.Close())

	reopened := openStore(t, path)
	require.True(t, reopened.IsLoggedIn())
	require.Equal(t, "tok-abc", reopened.Token())

	got, ok := reopened.User()
	require.True(t, ok)
	require.Equal(t, user, got)
}

func TestStore_ClearWipesEverything(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	s := openStore(t, path)
	require.NoError(t, s.Set("tok-abc", model.User{ID: 3, Username: "ana"}))
	require.NoError(t, s.Clear())

	require.False(t, s.IsLoggedIn())
	_, ok := s.User()
	require.False(t, ok)
	require.NoError(t, s.Close())

	// Nothing comes back after a restart either.
	reopened := openStore(t, path)
	require.False(t, reopened.IsLoggedIn())
}

func TestStore_ClearOnEmptySessionIsNoOp(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
}

func TestStore_HasRoleIsCaseInsensitive(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, s.Set("tok", model.User{Username: "ana", Role: "Admin"}))

	require.True(t, s.HasRole("ADMIN"))
	require.True(t, s.HasRole("admin"))
	require.False(t, s.HasRole("RECEPCION"))
}

func TestStore_Ping(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, s.Ping(context.Background()))
}
