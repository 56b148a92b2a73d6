package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/storefront-golang/internal/auth"
	"github.com/01moynul/storefront-golang/internal/models"
)

func TestCreateUserAndAuthenticate(t *testing.T) {
	f := newFixture(t)

	u, err := f.CreateUser(f.ctx, "ann", "secret1", "superuser")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, u.Role, "unknown roles fall back to customer")
	assert.True(t, auth.IsHashed(u.PasswordHash))

	_, err = f.CreateUser(f.ctx, "ann", "other", models.RoleCustomer)
	assert.ErrorIs(t, err, ErrDuplicate)

	got, upgraded, err := f.Authenticate(f.ctx, "ann", "secret1")
	require.NoError(t, err)
	assert.False(t, upgraded)
	assert.Equal(t, u.ID, got.ID)

	_, _, err = f.Authenticate(f.ctx, "ann", "wrong")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = f.Authenticate(f.ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthenticateUpgradesLegacyPassword(t *testing.T) {
	f := newFixture(t)
	_, err := f.DB.Exec("INSERT INTO users (username, password, role) VALUES ('old', 'plain-pass', 'customer')")
	require.NoError(t, err)

	u, upgraded, err := f.Authenticate(f.ctx, "old", "plain-pass")
	require.NoError(t, err)
	assert.True(t, upgraded)

	stored, err := f.UserByID(f.ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, auth.IsHashed(stored.PasswordHash))

	_, upgraded, err = f.Authenticate(f.ctx, "old", "plain-pass")
	require.NoError(t, err)
	assert.False(t, upgraded)
}

func TestSetUsername(t *testing.T) {
	f := newFixture(t)
	ann := f.user(t, "ann")
	f.user(t, "bob")

	assert.ErrorIs(t, f.SetUsername(f.ctx, ann, "bob"), ErrDuplicate)
	require.NoError(t, f.SetUsername(f.ctx, ann, "ann"), "keeping your own name is fine")
	require.NoError(t, f.SetUsername(f.ctx, ann, "annie"))
	assert.ErrorIs(t, f.SetUsername(f.ctx, 999, "ghost"), ErrNotFound)

	u, err := f.UserByID(f.ctx, ann)
	require.NoError(t, err)
	assert.Equal(t, "annie", u.Username)
}

func TestPasswordChange(t *testing.T) {
	f := newFixture(t)
	id := f.user(t, "ann")

	ok, err := f.CheckPassword(f.ctx, id, "secret1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, f.SetPassword(f.ctx, id, "newsecret"))
	ok, err = f.CheckPassword(f.ctx, id, "secret1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.CheckPassword(f.ctx, 999, "secret1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	f := newFixture(t)

	created, err := f.EnsureAdmin(f.ctx, "root", "rootpass")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.EnsureAdmin(f.ctx, "root", "ignored")
	require.NoError(t, err)
	assert.False(t, created)

	users, err := f.ListUsers(f.ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, models.RoleAdmin, users[0].Role)
}
