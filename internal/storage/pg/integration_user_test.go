package pg

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/newsroom-dev/newsroom/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/lib/pq"
)

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	e, ok := err.(*errors.ErrorWithStatusCode)
	require.True(t, ok, "Expected ErrorWithStatusCode, got %T", err)
	assert.Equal(t, status, e.StatusCode)
}

func TestSaveUser(t *testing.T) {
	user := newTestUser("save@example.com")
	require.NoError(t, storage.SaveUser(user))

	dup := newTestUser("save@example.com")
	requireStatus(t, storage.SaveUser(dup), 409)
}

func TestSaveUserEmailCaseInsensitive(t *testing.T) {
	require.NoError(t, storage.SaveUser(newTestUser("case@example.com")))
	requireStatus(t, storage.SaveUser(newTestUser("CASE@Example.COM")), 409)
}

func TestUserByEmail(t *testing.T) {
	user := newTestUser("lookup@example.com")
	require.NoError(t, storage.SaveUser(user))

	got, err := storage.UserByEmail("lookup@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.Id, got.Id)
	assert.Equal(t, "lookup@example.com", got.Email)
	assert.Equal(t, "hash", got.PassHash)
	assert.True(t, got.Active)
	assert.False(t, got.EmailVerified)
	assert.False(t, got.CreatedAt.IsZero())

	// Lookup is case-insensitive.
	got, err = storage.UserByEmail("LOOKUP@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.Id, got.Id)

	_, err = storage.UserByEmail("nonexistent@example.com")
	requireStatus(t, err, 404)
}

func TestUserById(t *testing.T) {
	user := newTestUser("byid@example.com")
	require.NoError(t, storage.SaveUser(user))

	got, err := storage.UserById(user.Id)
	require.NoError(t, err)
	assert.Equal(t, "byid@example.com", got.Email)

	_, err = storage.UserById(uuid.New())
	requireStatus(t, err, 404)
}

func TestUpdatePassword(t *testing.T) {
	user := newTestUser("password@example.com")
	require.NoError(t, storage.SaveUser(user))

	require.NoError(t, storage.UpdatePassword(user.Id, "newhash"))

	got, err := storage.UserById(user.Id)
	require.NoError(t, err)
	assert.Equal(t, "newhash", got.PassHash)

	requireStatus(t, storage.UpdatePassword(uuid.New(), "newhash"), 404)
}

func TestUpdateName(t *testing.T) {
	user := newTestUser("rename@example.com")
	require.NoError(t, storage.SaveUser(user))

	require.NoError(t, storage.UpdateName(user.Id, "New Name"))

	got, err := storage.UserById(user.Id)
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)

	requireStatus(t, storage.UpdateName(uuid.New(), "New Name"), 404)
}

func TestUpdateLastLogin(t *testing.T) {
	user := newTestUser("lastlogin@example.com")
	require.NoError(t, storage.SaveUser(user))

	at := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, storage.UpdateLastLogin(user.Id, at))

	got, err := storage.UserById(user.Id)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.WithinDuration(t, at, *got.LastLogin, time.Second)
}
