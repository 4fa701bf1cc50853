package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTokens(t *testing.T) (*fakeUserRepository, *fakeTokenRepository, *tokenService) {
	t.Helper()
	users := newFakeUserRepository()
	repo := newFakeTokenRepository(users.users)
	svc := NewTokenService(repo, "test-secret", time.Hour).(*tokenService)
	return users, repo, svc
}

func TestIssueAndResolve(t *testing.T) {
	users, repo, svc := setupTokens(t)
	ctx := context.Background()

	token, expiresAt, err := svc.Issue(ctx, users.users[3])
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)
	assert.Len(t, repo.rows, 1)

	actor, tokenID, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), actor.ID)
	assert.True(t, actor.IsAdmin())
	assert.Contains(t, repo.rows, tokenID)
}

func TestResolveReadsCurrentRole(t *testing.T) {
	users, _, svc := setupTokens(t)
	ctx := context.Background()

	token, _, err := svc.Issue(ctx, users.users[1])
	require.NoError(t, err)

	users.users[1].Role = entity.RoleAdmin
	actor, _, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, actor.Role)
}

func TestRevokedTokenIsRejected(t *testing.T) {
	users, _, svc := setupTokens(t)
	ctx := context.Background()

	token, _, err := svc.Issue(ctx, users.users[1])
	require.NoError(t, err)
	_, tokenID, err := svc.Resolve(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, tokenID))
	_, _, err = svc.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	users, _, svc := setupTokens(t)
	ctx := context.Background()

	token, _, err := svc.Issue(ctx, users.users[1])
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, _, err = svc.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestForeignTokensAreRejected(t *testing.T) {
	_, _, svc := setupTokens(t)
	ctx := context.Background()

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        "0b5e2f5c-8a77-4f37-9e49-5d6f1c3f7a10",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := other.SignedString([]byte("another-secret"))
	require.NoError(t, err)

	_, _, err = svc.Resolve(ctx, signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = svc.Resolve(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestInvalidTokenIsUnauthorized(t *testing.T) {
	_, _, svc := setupTokens(t)

	_, _, err := svc.Resolve(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestTokenStoreFailureIsNotUnauthorized(t *testing.T) {
	users, repo, svc := setupTokens(t)
	ctx := context.Background()

	token, _, err := svc.Issue(ctx, users.users[1])
	require.NoError(t, err)

	repo.findErr = errors.New("connection refused")
	_, _, err = svc.Resolve(ctx, token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
	assert.NotErrorIs(t, err, apperror.ErrUnauthorized)
}
