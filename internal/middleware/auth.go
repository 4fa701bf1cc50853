package middleware

import (
	"context"
	"errors"
	"strings"

	"anoa.com/moviecatalog/internal/modules/policy"
	"anoa.com/moviecatalog/pkg/apperror"
	"anoa.com/moviecatalog/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	actorKey   = "actor"
	tokenIDKey = "token_id"
)

// IdentityResolver turns a bearer token into the caller it belongs to.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*policy.Actor, uuid.UUID, error)
}

type AuthMiddleware struct {
	resolver IdentityResolver
	policy   policy.Policy
}

func NewAuthMiddleware(resolver IdentityResolver, p policy.Policy) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver, policy: p}
}

// Authenticate resolves the bearer token when one is sent. Requests without
// a usable token continue anonymously and RequireAuth rejects them where a
// caller is needed. Resolver failures other than a bad credential are 500s.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.Next()
			return
		}

		actor, tokenID, err := m.resolver.Resolve(c.Request.Context(), tokenString)
		if errors.Is(err, apperror.ErrUnauthorized) {
			log.WithError(err).Debug("ignoring unusable bearer token")
			c.Next()
			return
		}
		if err != nil {
			response.ResponseError(c, err)
			return
		}

		c.Set(actorKey, actor)
		c.Set(tokenIDKey, tokenID)
		c.Next()
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentActor(c) == nil {
			response.ResponseError(c, apperror.Unauthorized("Unauthenticated."))
			return
		}
		c.Next()
	}
}

// Allow gates a route on the role tiers alone, before the body is read.
// Ownership checks stay in the services, after the record is loaded.
func (m *AuthMiddleware) Allow(kind policy.Kind, action policy.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := m.policy.Authorize(CurrentActor(c), action, policy.Of(kind))
		if err := decision.Err(); err != nil {
			response.ResponseError(c, err)
			return
		}
		c.Next()
	}
}

// CurrentActor returns the authenticated caller, or nil for anonymous requests.
func CurrentActor(c *gin.Context) *policy.Actor {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*policy.Actor)
	return actor
}

func CurrentTokenID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(tokenIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
