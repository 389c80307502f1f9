package redis

import (
	"testing"
	"time"

	domainauth "github.com/lovenote/lovenote-web/internal/domain/auth"
	"github.com/lovenote/lovenote-web/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_SaveGetDelete(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client, "")
	ctx := t.Context()

	session := domainauth.Session{
		ID:          "test-session-1",
		UserID:      "user-123",
		Email:       "camille@example.com",
		Roles:       []domainauth.Role{domainauth.RoleUser, domainauth.RolePremium},
		Permissions: []string{"guests.read"},
		ExpiresAt:   time.Now().Add(30 * time.Minute),
	}
	require.NoError(t, store.Save(ctx, session))

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Roles, got.Roles)
	assert.Equal(t, session.Permissions, got.Permissions)
	assert.WithinDuration(t, session.ExpiresAt, got.ExpiresAt, time.Second)

	ttl, err := client.TTL(ctx, DefaultSessionPrefix+session.ID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 29*time.Minute)

	require.NoError(t, store.Delete(ctx, session.ID))
	_, err = store.Get(ctx, session.ID)
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_Validation(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client, "test:session:")
	ctx := t.Context()

	_, err := store.Get(ctx, "")
	assert.Equal(t, ErrNotFound, err)
	_, err = store.Get(ctx, "missing")
	assert.Equal(t, ErrNotFound, err)

	assert.Error(t, store.Save(ctx, domainauth.Session{ExpiresAt: time.Now().Add(time.Minute)}))
	assert.Error(t, store.Save(ctx, domainauth.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)}))
	assert.NoError(t, store.Delete(ctx, ""))
}
