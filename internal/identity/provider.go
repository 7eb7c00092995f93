// Package identity abstracts the authentication provider: who is signed in,
// how sessions are established and torn down, and a change feed that the
// session resolver consumes.
package identity

import "context"

// Identity is the provider-managed authenticated-user record. The portal
// never stores credentials itself beyond the provider's own collection.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Session struct {
	Identity Identity `json:"identity"`
	Access   string   `json:"access"`
	Refresh  string   `json:"refresh"`
}

type ChangeEvent string

const (
	EventSignedIn       ChangeEvent = "signed_in"
	EventSignedOut      ChangeEvent = "signed_out"
	EventTokenRefreshed ChangeEvent = "token_refreshed"
)

// AuthChange is one entry in the auth-state change feed. Identity is nil for
// sign-out. Consumers must treat the most recently delivered value as
// authoritative regardless of any in-flight calls of their own.
type AuthChange struct {
	Event    ChangeEvent
	Identity *Identity
}

// PasswordAuthenticator is the slice of the provider the sign-in fallback
// needs.
type PasswordAuthenticator interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
}

type Provider interface {
	PasswordAuthenticator

	// CurrentSession returns the provider's current session, if any.
	CurrentSession(ctx context.Context) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, refresh string) error

	// Subscribe returns a feed of auth-state changes and a cancel func that
	// closes the feed.
	Subscribe() (<-chan AuthChange, func())
}
