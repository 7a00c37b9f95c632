package httpapi

import (
	"net/http"
	"strings"

	"github.com/norrbil/rentals/internal/auth"
	"github.com/norrbil/rentals/internal/domain/authz"
	"github.com/norrbil/rentals/internal/domain/customers"
	"github.com/norrbil/rentals/internal/domain/identity"
)

// actorResolver turns an inbound request into the authorization decision for
// that request. Resolution happens once; handlers and services only see the
// resulting Actor.
type actorResolver func(r *http.Request) authz.Actor

func newActorResolver(sessions *auth.Store, identitySvc identity.Service, customerSvc customers.Service) actorResolver {
	return func(r *http.Request) authz.Actor {
		token := bearerToken(r)
		if token == "" {
			return authz.Anonymous
		}

		session, ok := sessions.Get(token)
		if !ok {
			return authz.Anonymous
		}

		user, err := identitySvc.Get(session.UserID)
		if err != nil {
			return authz.Anonymous
		}

		actor := authz.Actor{UserID: user.ID, Admin: user.IsAdmin()}
		if customer, err := customerSvc.ForUser(user.ID); err == nil {
			actor.CustomerID = customer.ID
		}
		return actor
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
