package services_test

import (
	"context"
	"testing"
	"time"

	"movie-catalog/internal/repository"
	"movie-catalog/internal/services"
	"movie-catalog/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	auth  services.AuthService
	users repository.UserRepository
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	db := testutil.NewDatabase(t)
	cfg := testutil.AuthConfig()

	users := repository.NewUserRepository(db)
	store := services.NewDatabaseRevocationStore(repository.NewRevokedTokenRepository(db))
	auth := services.NewAuthService(users, services.NewTokenManager(cfg), store, cfg.BcryptCost, testutil.NewLogger())

	return authFixture{auth: auth, users: users}
}

func TestRegisterThenLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, pair, err := f.auth.Register(ctx, services.RegisterInput{
		Email:    "Alice@Example.com",
		Username: "alice",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	login, err := f.auth.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	me, err := f.auth.Authenticate(ctx, login.Access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := f.auth.Register(ctx, services.RegisterInput{Email: "a@example.com", Username: "a", Password: "password1"})
	require.NoError(t, err)

	_, _, err = f.auth.Register(ctx, services.RegisterInput{Email: "A@example.com", Username: "a", Password: "password1"})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "username")
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := f.auth.Register(ctx, services.RegisterInput{Email: "bob@example.com", Username: "bob", Password: "right-password"})
	require.NoError(t, err)

	_, wrongPassword := f.auth.Login(ctx, "bob@example.com", "wrong-password")
	_, unknownEmail := f.auth.Login(ctx, "nobody@example.com", "right-password")

	assert.ErrorIs(t, wrongPassword, services.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, services.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, pair, err := f.auth.Register(ctx, services.RegisterInput{Email: "c@example.com", Username: "c", Password: "password1"})
	require.NoError(t, err)

	access, err := f.auth.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	require.NoError(t, f.auth.Logout(ctx, user, pair.Refresh))

	err = f.auth.Logout(ctx, user, pair.Refresh)
	assert.ErrorIs(t, err, services.ErrTokenRevoked)

	_, err = f.auth.Refresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, services.ErrTokenRevoked)
}

func TestLogoutRejectsAccessTokenAndForeignToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	alice, alicePair, err := f.auth.Register(ctx, services.RegisterInput{Email: "alice@example.com", Username: "alice", Password: "password1"})
	require.NoError(t, err)
	_, bobPair, err := f.auth.Register(ctx, services.RegisterInput{Email: "bob@example.com", Username: "bob", Password: "password1"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.auth.Logout(ctx, alice, alicePair.Access), services.ErrInvalidToken)
	assert.ErrorIs(t, f.auth.Logout(ctx, alice, bobPair.Refresh), services.ErrInvalidToken)
	assert.ErrorIs(t, f.auth.Logout(ctx, alice, "garbage"), services.ErrInvalidToken)
}

func TestEnsureStaffUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.auth.EnsureStaffUser(ctx, "admin@example.com", "admin", ""))
	missing, err := f.users.FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, f.auth.EnsureStaffUser(ctx, "admin@example.com", "admin", "admin-password"))
	require.NoError(t, f.auth.EnsureStaffUser(ctx, "admin@example.com", "admin", "admin-password"))

	admin, err := f.users.FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.True(t, admin.IsStaff)
}

func TestRedisRevocationStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := services.NewRedisRevocationStore(rdb)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", 1, time.Now().Add(time.Hour)))
	assert.ErrorIs(t, store.Revoke(ctx, "jti-1", 1, time.Now().Add(time.Hour)), services.ErrTokenRevoked)

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Hour)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
