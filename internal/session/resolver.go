// Package session maintains the resolved (identity, profile) pair for an
// application session and keeps it synchronized with the identity provider's
// auth-state change feed.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/WalesndWebs/project-prodigyloan/internal/domain"
	"github.com/WalesndWebs/project-prodigyloan/internal/identity"
	"github.com/WalesndWebs/project-prodigyloan/internal/log"
)

type Readiness int

const (
	// Loading means a resolution is in flight; protected content must not be
	// served on this state.
	Loading Readiness = iota
	// Authenticated means an identity is present. Profile may still be nil if
	// the lookup failed; downstream policy treats that as not fully
	// authenticated.
	Authenticated
	// Anonymous means no session exists.
	Anonymous
)

// State is the readiness-tagged (Identity, Profile) pair.
type State struct {
	Readiness Readiness
	Identity  *identity.Identity
	Profile   *domain.Profile
}

// Resolved builds a State for an already-completed resolution, as the HTTP
// layer does per request.
func Resolved(id *identity.Identity, p *domain.Profile) State {
	if id == nil {
		return State{Readiness: Anonymous}
	}
	return State{Readiness: Authenticated, Identity: id, Profile: p}
}

// ProfileLookup reads the profile row bound to an identity ID.
type ProfileLookup interface {
	ProfileByID(ctx context.Context, id string) (*domain.Profile, error)
}

type lookupResult struct {
	forID   string
	profile *domain.Profile
}

// Resolver tracks the current identity and profile. A single goroutine owns
// all state transitions; it is driven exclusively by provider events. Profile
// lookups run concurrently but each result is tagged with the identity it was
// issued for, and a result whose tag no longer matches the current identity
// is discarded. The most recently delivered identity always wins.
type Resolver struct {
	provider identity.Provider
	profiles ProfileLookup

	mu sync.RWMutex
	st State

	updates   chan State
	stop      chan struct{}
	done      chan struct{}
	cancel    func()
	closeOnce sync.Once
}

func NewResolver(p identity.Provider, profiles ProfileLookup) *Resolver {
	return &Resolver{
		provider: p,
		profiles: profiles,
		st:       State{Readiness: Loading},
		updates:  make(chan State, 16),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start subscribes to the provider's change feed, asks it for any existing
// session, and launches the state-update loop.
func (r *Resolver) Start(ctx context.Context) {
	events, cancel := r.provider.Subscribe()
	r.cancel = cancel

	var initial *identity.Identity
	cur, err := r.provider.CurrentSession(ctx)
	if err != nil {
		log.L().Warn("session: current-session lookup failed", zap.Error(err))
	} else if cur != nil {
		id := cur.Identity
		initial = &id
	}

	go r.run(ctx, events, initial)
}

// Close unsubscribes from the change feed and stops the loop. In-flight
// profile lookups are left to finish; their results are discarded. Safe to
// call more than once.
func (r *Resolver) Close() {
	r.closeOnce.Do(func() {
		if r.cancel != nil {
			r.cancel()
		}
		close(r.stop)
		<-r.done
	})
}

func (r *Resolver) Snapshot() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.st
}

// Updates delivers a snapshot after every state transition. The channel is
// buffered and lossy under backpressure; Snapshot is always authoritative.
func (r *Resolver) Updates() <-chan State {
	return r.updates
}

func (r *Resolver) run(ctx context.Context, events <-chan identity.AuthChange, initial *identity.Identity) {
	defer close(r.done)

	lookups := make(chan lookupResult)
	var curID string

	apply := func(id *identity.Identity) {
		if id == nil {
			curID = ""
			r.publish(State{Readiness: Anonymous})
			return
		}
		curID = id.ID
		r.publish(State{Readiness: Loading, Identity: id})
		go r.lookup(ctx, id.ID, lookups)
	}

	apply(initial)

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			apply(ev.Identity)
		case res := <-lookups:
			if res.forID != curID {
				continue // stale: a newer identity arrived while this was in flight
			}
			st := r.Snapshot()
			r.publish(State{Readiness: Authenticated, Identity: st.Identity, Profile: res.profile})
		case <-r.stop:
			return
		}
	}
}

func (r *Resolver) lookup(ctx context.Context, id string, out chan<- lookupResult) {
	p, err := r.profiles.ProfileByID(ctx, id)
	if err != nil {
		// not fatal: the session degrades to identity-only, no profile
		log.L().Warn("session: profile lookup failed", zap.String("uid", id), zap.Error(err))
		p = nil
	}
	select {
	case out <- lookupResult{forID: id, profile: p}:
	case <-r.stop:
	}
}

func (r *Resolver) publish(st State) {
	r.mu.Lock()
	r.st = st
	r.mu.Unlock()
	select {
	case r.updates <- st:
	default:
	}
}
