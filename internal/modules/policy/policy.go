// Package policy decides whether an actor may perform an action on a
// resource. Role tiers come from a casbin RBAC model; ownership is compared
// here because it depends on the concrete record.
package policy

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/pkg/apperror"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	log "github.com/sirupsen/logrus"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

type Action string

const (
	ActionRead   Action = "read"
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Kind string

const (
	KindMovie         Kind = "movie"
	KindGenre         Kind = "genre"
	KindActor         Kind = "actor"
	KindMovieRelation Kind = "movie_relation"
	KindReview        Kind = "review"
	KindWatchHistory  Kind = "watch_history"
	KindUser          Kind = "user"
)

const (
	roleGuest = "guest"
	scopeAny  = "any"
	scopeOwn  = "own"
)

// Actor is the authenticated caller. A nil *Actor is an anonymous caller.
type Actor struct {
	ID   uint
	Role string
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == entity.RoleAdmin
}

type Resource struct {
	Kind    Kind
	OwnerID *uint
}

// Of describes a resource without an owner, such as a catalog entry or a collection.
func Of(kind Kind) Resource {
	return Resource{Kind: kind}
}

// Owned describes a resource belonging to ownerID.
func Owned(kind Kind, ownerID uint) Resource {
	return Resource{Kind: kind, OwnerID: &ownerID}
}

type Reason string

const (
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonNotOwner        Reason = "forbidden-not-owner"
	ReasonNotAdmin        Reason = "forbidden-not-admin"
)

type Decision struct {
	Allowed bool
	Reason  Reason
	action  Action
	kind    Kind
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason Reason, action Action, kind Kind) Decision {
	return Decision{Reason: reason, action: action, kind: kind}
}

// Err converts a denial into an apperror; it is nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonUnauthenticated:
		return apperror.Unauthorized("Unauthenticated.")
	case ReasonNotOwner:
		return apperror.Forbidden(fmt.Sprintf("Forbidden. You can only %s your own %s.", verbs[d.action], nouns[d.kind]))
	default:
		return apperror.Forbidden("Forbidden. Admin access required.")
	}
}

var verbs = map[Action]string{
	ActionRead:   "view",
	ActionList:   "view",
	ActionCreate: "create",
	ActionUpdate: "update",
	ActionDelete: "delete",
}

var nouns = map[Kind]string{
	KindReview:       "reviews",
	KindWatchHistory: "watch history",
	KindUser:         "account",
}

type Policy interface {
	Authorize(actor *Actor, action Action, resource Resource) Decision
}

type casbinPolicy struct {
	enforcer *casbin.SyncedEnforcer
}

// New builds the policy from the embedded model. policyPath, when it names
// an existing file, replaces the embedded rules.
func New(policyPath string) (Policy, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if policyPath != "" && fileExists(policyPath) {
		enforcer, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(policyPath))
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	return &casbinPolicy{enforcer: enforcer}, nil
}

// loadEmbeddedPolicy parses the embedded policy CSV.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		ptype, rule := parts[0], parts[1:]
		switch ptype {
		case "p":
			if _, err := enforcer.AddPolicy(rule); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", rule, err)
			}
		case "g":
			if _, err := enforcer.AddGroupingPolicy(rule); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", rule, err)
			}
		}
	}
	return nil
}

func (p *casbinPolicy) Authorize(actor *Actor, action Action, resource Resource) Decision {
	subject := subjectOf(actor)

	if p.enforce(subject, resource.Kind, action, scopeAny) {
		return allow()
	}

	if actor == nil {
		return deny(ReasonUnauthenticated, action, resource.Kind)
	}

	if p.enforce(subject, resource.Kind, action, scopeOwn) {
		if resource.OwnerID != nil && *resource.OwnerID == actor.ID {
			return allow()
		}
		return deny(ReasonNotOwner, action, resource.Kind)
	}

	return deny(ReasonNotAdmin, action, resource.Kind)
}

func (p *casbinPolicy) enforce(subject string, kind Kind, action Action, scope string) bool {
	ok, err := p.enforcer.Enforce(subject, string(kind), string(action), scope)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"subject": subject,
			"kind":    kind,
			"action":  action,
		}).Error("policy enforcement failed")
		return false
	}
	return ok
}

func subjectOf(actor *Actor) string {
	switch {
	case actor == nil:
		return roleGuest
	case actor.Role == entity.RoleAdmin:
		return entity.RoleAdmin
	default:
		return entity.RoleUser
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
