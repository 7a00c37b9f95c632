package authz

import "errors"

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
)

// Actor is the authorization decision for one request, resolved once from the
// session and passed into every service operation. Services branch on it
// instead of re-querying role membership.
type Actor struct {
	UserID     string
	CustomerID string // customer record linked to the user, empty when none
	Admin      bool
}

// Anonymous is the actor for requests without a session.
var Anonymous = Actor{}

// Authenticated reports whether the actor carries a user identity.
func (a Actor) Authenticated() bool {
	return a.UserID != ""
}

// OwnsCustomer reports whether the actor's linked customer record is id.
func (a Actor) OwnsCustomer(id string) bool {
	return id != "" && a.CustomerID == id
}
