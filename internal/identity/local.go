package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/WalesndWebs/project-prodigyloan/internal/domain"
	"github.com/WalesndWebs/project-prodigyloan/internal/log"
	"github.com/WalesndWebs/project-prodigyloan/internal/repo"
	"github.com/WalesndWebs/project-prodigyloan/internal/security"
)

// LocalProvider implements Provider on top of the portal's own credential
// store: bcrypt password hashes, HS256 access tokens and opaque refresh
// tokens persisted hashed with a TTL.
type LocalProvider struct {
	store      *repo.Store
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration

	mu      sync.Mutex
	cur     *Session
	subs    map[int]chan AuthChange
	nextSub int
}

func NewLocalProvider(store *repo.Store, secret string, accessTTL, refreshTTL time.Duration) *LocalProvider {
	return &LocalProvider{
		store:      store,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		subs:       make(map[int]chan AuthChange),
	}
}

func (p *LocalProvider) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	cred, err := p.store.FindCredentialByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if cred == nil || !security.CheckPassword(cred.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return p.establish(ctx, Identity{ID: cred.ID, Email: cred.Email}, EventSignedIn)
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if existing, err := p.store.FindCredentialByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrEmailTaken
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}
	cred := &repo.Credential{ID: uuid.NewString(), Email: email, PasswordHash: hash}
	if err := p.store.CreateCredential(ctx, cred); err != nil {
		// unique email index lost the race
		return nil, domain.ErrEmailTaken
	}
	return p.establish(ctx, Identity{ID: cred.ID, Email: cred.Email}, EventSignedIn)
}

func (p *LocalProvider) SignOut(ctx context.Context, refresh string) error {
	if refresh != "" {
		if err := p.store.RevokeRefresh(ctx, refresh); err != nil {
			return err
		}
	}
	p.mu.Lock()
	p.cur = nil
	p.mu.Unlock()
	p.broadcast(AuthChange{Event: EventSignedOut})
	return nil
}

// Refresh exchanges a live refresh token for a fresh access token. The
// refresh token itself is kept; rotation is handled by logout + login.
func (p *LocalProvider) Refresh(ctx context.Context, refresh string) (*Session, error) {
	rt, err := p.store.FindValidRefresh(ctx, refresh)
	if err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, domain.ErrInvalidCredentials
	}
	cred, err := p.store.FindCredentialByID(ctx, rt.UserID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, domain.ErrInvalidCredentials
	}
	access, err := security.MakeAccess(p.secret, cred.ID, cred.Email, p.accessTTL)
	if err != nil {
		return nil, err
	}
	id := Identity{ID: cred.ID, Email: cred.Email}
	s := &Session{Identity: id, Access: access, Refresh: refresh}
	p.mu.Lock()
	p.cur = s
	p.mu.Unlock()
	p.broadcast(AuthChange{Event: EventTokenRefreshed, Identity: &id})
	return s, nil
}

func (p *LocalProvider) CurrentSession(ctx context.Context) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cur == nil {
		return nil, nil
	}
	s := *p.cur
	return &s, nil
}

func (p *LocalProvider) Subscribe() (<-chan AuthChange, func()) {
	ch := make(chan AuthChange, 16)
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch
	p.mu.Unlock()
	cancel := func() {
		p.mu.Lock()
		if c, ok := p.subs[id]; ok {
			delete(p.subs, id)
			close(c)
		}
		p.mu.Unlock()
	}
	return ch, cancel
}

// ParseAccess validates a bearer token and returns the identity it carries.
func (p *LocalProvider) ParseAccess(token string) (*Identity, error) {
	c, err := security.ParseAccess(p.secret, token)
	if err != nil {
		return nil, err
	}
	return &Identity{ID: c.UID, Email: c.Email}, nil
}

func (p *LocalProvider) establish(ctx context.Context, id Identity, ev ChangeEvent) (*Session, error) {
	access, err := security.MakeAccess(p.secret, id.ID, id.Email, p.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := security.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := p.store.SaveRefresh(ctx, id.ID, refresh, p.refreshTTL); err != nil {
		return nil, err
	}
	s := &Session{Identity: id, Access: access, Refresh: refresh}
	p.mu.Lock()
	p.cur = s
	p.mu.Unlock()
	p.broadcast(AuthChange{Event: ev, Identity: &id})
	return s, nil
}

func (p *LocalProvider) broadcast(ev AuthChange) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range p.subs {
		select {
		case ch <- ev:
		default:
			log.L().Warn("auth change feed full, dropping event",
				zap.String("event", string(ev.Event)))
		}
	}
}
