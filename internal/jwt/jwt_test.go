package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/newsroom-dev/newsroom/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secretKey = "testJwtKey"

func testUser() domain.User {
	return domain.User{Id: uuid.New(), Email: "test@mail.ru"}
}

func TestIssuePairAndValidate(t *testing.T) {
	svc := New(secretKey, 5*time.Minute, 24*time.Hour)
	user := testUser()

	pair, err := svc.IssuePair(user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	uid, err := svc.Validate(pair.Access, Access)
	require.NoError(t, err)
	assert.Equal(t, user.Id, uid)

	uid, err = svc.Validate(pair.Refresh, Refresh)
	require.NoError(t, err)
	assert.Equal(t, user.Id, uid)
}

func TestValidateWrongKind(t *testing.T) {
	svc := New(secretKey, 5*time.Minute, 24*time.Hour)
	pair, err := svc.IssuePair(testUser())
	require.NoError(t, err)

	_, err = svc.Validate(pair.Refresh, Access)
	assert.Error(t, err, "refresh token must not pass as access token")

	_, err = svc.Validate(pair.Access, Refresh)
	assert.Error(t, err, "access token must not pass as refresh token")
}

func TestValidateExpired(t *testing.T) {
	svc := New(secretKey, -time.Second, -time.Second)
	pair, err := svc.IssuePair(testUser())
	require.NoError(t, err)

	_, err = svc.Validate(pair.Access, Access)
	assert.Error(t, err)
}

func TestValidateWrongSecret(t *testing.T) {
	pair, err := New(secretKey, time.Minute, time.Minute).IssuePair(testUser())
	require.NoError(t, err)

	_, err = New("otherSecret", time.Minute, time.Minute).Validate(pair.Access, Access)
	assert.Error(t, err)
}

func TestValidateMalformed(t *testing.T) {
	svc := New(secretKey, time.Minute, time.Minute)

	_, err := svc.Validate("not.a.jwt", Access)
	assert.Error(t, err)

	_, err = svc.Validate("", Access)
	assert.Error(t, err)
}

func TestRefreshAccess(t *testing.T) {
	svc := New(secretKey, 5*time.Minute, 24*time.Hour)
	user := testUser()
	pair, err := svc.IssuePair(user)
	require.NoError(t, err)

	access, err := svc.RefreshAccess(pair.Refresh)
	require.NoError(t, err)

	uid, err := svc.Validate(access, Access)
	require.NoError(t, err)
	assert.Equal(t, user.Id, uid)

	// access token must not be usable to refresh
	_, err = svc.RefreshAccess(pair.Access)
	assert.Error(t, err)
}
