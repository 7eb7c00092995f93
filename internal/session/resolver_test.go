package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/WalesndWebs/project-prodigyloan/internal/domain"
	"github.com/WalesndWebs/project-prodigyloan/internal/identity"
	"github.com/WalesndWebs/project-prodigyloan/internal/session"
)

type fakeProvider struct {
	cur    *identity.Session
	events chan identity.AuthChange
}

func newFakeProvider(cur *identity.Session) *fakeProvider {
	return &fakeProvider{cur: cur, events: make(chan identity.AuthChange, 16)}
}

func (f *fakeProvider) SignInWithPassword(context.Context, string, string) (*identity.Session, error) {
	return nil, domain.ErrInvalidCredentials
}
func (f *fakeProvider) SignUp(context.Context, string, string) (*identity.Session, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeProvider) SignOut(context.Context, string) error { return nil }
func (f *fakeProvider) CurrentSession(context.Context) (*identity.Session, error) {
	return f.cur, nil
}
func (f *fakeProvider) Subscribe() (<-chan identity.AuthChange, func()) {
	return f.events, func() {}
}

// fakeProfiles releases each lookup only when its gate channel is closed,
// so tests control completion order.
type fakeProfiles struct {
	profiles map[string]*domain.Profile
	gates    map[string]chan struct{}
	err      error
}

func (f *fakeProfiles) ProfileByID(_ context.Context, id string) (*domain.Profile, error) {
	if g, ok := f.gates[id]; ok {
		<-g
	}
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.profiles[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func ident(id, email string) *identity.Identity {
	return &identity.Identity{ID: id, Email: email}
}

func TestResolverStartsAnonymousWithoutSession(t *testing.T) {
	r := session.NewResolver(newFakeProvider(nil), &fakeProfiles{})
	r.Start(context.Background())
	defer r.Close()

	waitFor(t, func() bool { return r.Snapshot().Readiness == session.Anonymous })
}

func TestResolverResolvesExistingSession(t *testing.T) {
	p := newFakeProvider(&identity.Session{Identity: identity.Identity{ID: "a", Email: "a@x.com"}})
	profiles := &fakeProfiles{profiles: map[string]*domain.Profile{
		"a": {ID: "a", Email: "a@x.com", Role: domain.RoleBorrower},
	}}
	r := session.NewResolver(p, profiles)
	r.Start(context.Background())
	defer r.Close()

	waitFor(t, func() bool {
		st := r.Snapshot()
		return st.Readiness == session.Authenticated && st.Profile != nil && st.Profile.ID == "a"
	})
}

func TestResolverSignOutClearsProfileWithoutLookup(t *testing.T) {
	p := newFakeProvider(&identity.Session{Identity: identity.Identity{ID: "a", Email: "a@x.com"}})
	profiles := &fakeProfiles{profiles: map[string]*domain.Profile{"a": {ID: "a"}}}
	r := session.NewResolver(p, profiles)
	r.Start(context.Background())
	defer r.Close()

	waitFor(t, func() bool { return r.Snapshot().Readiness == session.Authenticated })

	p.events <- identity.AuthChange{Event: identity.EventSignedOut}
	waitFor(t, func() bool {
		st := r.Snapshot()
		return st.Readiness == session.Anonymous && st.Identity == nil && st.Profile == nil
	})
}

func TestResolverDegradesToIdentityOnlyOnLookupFailure(t *testing.T) {
	p := newFakeProvider(nil)
	profiles := &fakeProfiles{err: errors.New("store unreachable")}
	r := session.NewResolver(p, profiles)
	r.Start(context.Background())
	defer r.Close()

	p.events <- identity.AuthChange{Event: identity.EventSignedIn, Identity: ident("a", "a@x.com")}
	waitFor(t, func() bool {
		st := r.Snapshot()
		return st.Readiness == session.Authenticated && st.Identity != nil && st.Profile == nil
	})
}

func TestResolverDiscardsStaleLookup(t *testing.T) {
	gateA := make(chan struct{})
	profiles := &fakeProfiles{
		profiles: map[string]*domain.Profile{
			"a": {ID: "a", Email: "a@x.com"},
			"b": {ID: "b", Email: "b@x.com"},
		},
		gates: map[string]chan struct{}{"a": gateA},
	}
	p := newFakeProvider(nil)
	r := session.NewResolver(p, profiles)
	r.Start(context.Background())
	defer r.Close()

	// identity A arrives; its profile lookup blocks on the gate
	p.events <- identity.AuthChange{Event: identity.EventSignedIn, Identity: ident("a", "a@x.com")}
	waitFor(t, func() bool {
		st := r.Snapshot()
		return st.Identity != nil && st.Identity.ID == "a"
	})

	// identity B arrives and resolves before A's lookup completes
	p.events <- identity.AuthChange{Event: identity.EventSignedIn, Identity: ident("b", "b@x.com")}
	waitFor(t, func() bool {
		st := r.Snapshot()
		return st.Readiness == session.Authenticated && st.Profile != nil && st.Profile.ID == "b"
	})

	// A's lookup now completes late; it must not overwrite B
	close(gateA)
	time.Sleep(20 * time.Millisecond)
	st := r.Snapshot()
	if st.Identity == nil || st.Identity.ID != "b" || st.Profile == nil || st.Profile.ID != "b" {
		t.Fatalf("stale lookup overwrote state: %+v", st)
	}
}

func TestResolverCloseIsIdempotent(t *testing.T) {
	r := session.NewResolver(newFakeProvider(nil), &fakeProfiles{})
	r.Start(context.Background())

	r.Close()
	r.Close()
}

func TestResolvedHelper(t *testing.T) {
	if st := session.Resolved(nil, nil); st.Readiness != session.Anonymous {
		t.Fatalf("nil identity must be anonymous, got %v", st.Readiness)
	}
	st := session.Resolved(ident("a", "a@x.com"), nil)
	if st.Readiness != session.Authenticated || st.Profile != nil {
		t.Fatalf("unexpected state: %+v", st)
	}
}
