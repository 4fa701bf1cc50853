package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"anoa.com/moviecatalog/internal/modules/policy"
	"anoa.com/moviecatalog/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	tokens map[string]*policy.Actor
}

func (f *fakeResolver) Resolve(_ context.Context, token string) (*policy.Actor, uuid.UUID, error) {
	if token == "store-down" {
		return nil, uuid.Nil, errors.New("connection refused")
	}
	actor, ok := f.tokens[token]
	if !ok {
		return nil, uuid.Nil, fmt.Errorf("%w: unknown token", apperror.ErrUnauthorized)
	}
	return actor, uuid.New(), nil
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	p, err := policy.New("")
	require.NoError(t, err)

	m := NewAuthMiddleware(&fakeResolver{tokens: map[string]*policy.Actor{
		"user-token":  {ID: 2, Role: "user"},
		"admin-token": {ID: 1, Role: "admin"},
	}}, p)

	r := gin.New()
	r.Use(m.Authenticate())
	ok := func(c *gin.Context) {
		actor := CurrentActor(c)
		var id uint
		if actor != nil {
			id = actor.ID
		}
		c.JSON(http.StatusOK, gin.H{"actor": id})
	}

	r.GET("/movies/:id", m.Allow(policy.KindMovie, policy.ActionRead), ok)
	r.PUT("/movies/:id", m.RequireAuth(), m.Allow(policy.KindMovie, policy.ActionUpdate), ok)
	r.GET("/user", m.RequireAuth(), ok)
	return r
}

func do(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAnonymousCanBrowse(t *testing.T) {
	r := setupRouter(t)

	rec := do(r, http.MethodGet, "/movies/5", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthWithoutToken(t *testing.T) {
	r := setupRouter(t)

	rec := do(r, http.MethodGet, "/user", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Unauthenticated.", body["message"])
}

func TestStaleTokenBrowsesAnonymously(t *testing.T) {
	r := setupRouter(t)

	rec := do(r, http.MethodGet, "/movies/5", "revoked-after-logout")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"actor":0}`, rec.Body.String())
}

func TestStaleTokenOnProtectedRoute(t *testing.T) {
	r := setupRouter(t)

	rec := do(r, http.MethodGet, "/user", "revoked-after-logout")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Unauthenticated.", body["message"])
}

func TestResolverFailureIsServerError(t *testing.T) {
	r := setupRouter(t)

	rec := do(r, http.MethodGet, "/movies/5", "store-down")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Internal server error", body["message"])
}

func TestNonAdminCannotUpdateMovie(t *testing.T) {
	r := setupRouter(t)

	rec := do(r, http.MethodPut, "/movies/5", "user-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminCanUpdateMovie(t *testing.T) {
	r := setupRouter(t)

	rec := do(r, http.MethodPut, "/movies/5", "admin-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"actor":1}`, rec.Body.String())
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Empty(t, bearerToken("Basic abc"))
	assert.Empty(t, bearerToken("abc"))
}
