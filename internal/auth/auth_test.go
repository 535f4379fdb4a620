package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/shop-inventory/internal/repo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (*Service, *repo.InMemoryUserRepository) {
	t.Helper()
	users := repo.NewInMemoryUserRepository()
	s := NewService(users, NewTokens("test-secret", time.Hour), NewMemoryRevocations(), zerolog.Nop())
	s.cost = bcrypt.MinCost

	created, err := s.EnsureDefaultUser(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	require.True(t, created)
	return s, users
}

func TestEnsureDefaultUserOnlyOnEmptyStore(t *testing.T) {
	s, users := newTestService(t)

	created, err := s.EnsureDefaultUser(context.Background(), "other", "pw")
	require.NoError(t, err)
	assert.False(t, created)

	n, _ := users.Count(context.Background())
	assert.Equal(t, 1, n)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	token, session, err := s.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", session.Username)
	assert.NotEmpty(t, session.TokenID)

	got, err := s.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, session.Username, got.Username)
	assert.Equal(t, session.TokenID, got.TokenID)

	_, _, errWrong := s.Login(ctx, "admin", "nope")
	_, _, errUnknown := s.Login(ctx, "ghost", "admin123")
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.Equal(t, errWrong, errUnknown)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	_, err := s.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign, _, err := NewTokens("another-secret", time.Hour).Issue("admin")
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokens("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Issue("admin")
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "admin", ID: "x"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	token, session, err := s.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	require.NoError(t, s.Logout(ctx, session))

	_, err = s.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, _, err := s.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, other)
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	_, session, err := s.Login(ctx, "admin", "admin123")
	require.NoError(t, err)

	assert.ErrorIs(t, s.ChangePassword(ctx, session, "admin123", "new-pass", "other-pass"), ErrPasswordMismatch)
	assert.ErrorIs(t, s.ChangePassword(ctx, session, "wrong", "new-pass", "new-pass"), ErrWrongPassword)
	assert.ErrorIs(t, s.ChangePassword(ctx, session, "admin123", "", ""), ErrEmptyPassword)

	// Every rejection above keeps the old password valid.
	_, _, err = s.Login(ctx, "admin", "admin123")
	require.NoError(t, err)

	require.NoError(t, s.ChangePassword(ctx, session, "admin123", "new-pass", "new-pass"))
	_, _, err = s.Login(ctx, "admin", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.Login(ctx, "admin", "new-pass")
	assert.NoError(t, err)
}

func TestSessionContext(t *testing.T) {
	_, ok := SessionFrom(context.Background())
	assert.False(t, ok)

	ctx := WithSession(context.Background(), Session{Username: "admin"})
	s, ok := SessionFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "admin", s.Username)
}

func TestMemoryRevocationsExpire(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	m := NewMemoryRevocations()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Revoke(ctx, "a", now.Add(time.Minute)))
	require.NoError(t, m.Revoke(ctx, "b", now.Add(-time.Minute)))

	revoked, _ := m.IsRevoked(ctx, "a")
	assert.True(t, revoked)
	revoked, _ = m.IsRevoked(ctx, "b")
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, _ = m.IsRevoked(ctx, "a")
	assert.False(t, revoked)
}

func TestRedisRevocations(t *testing.T) {
	addr := os.Getenv("INVENTORY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("INVENTORY_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	r := NewRedisRevocations(rdb)
	id := "test-" + time.Now().Format(time.RFC3339Nano)

	revoked, err := r.IsRevoked(ctx, id)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, id, time.Now().Add(time.Minute)))
	revoked, err = r.IsRevoked(ctx, id)
	require.NoError(t, err)
	assert.True(t, revoked)
}
