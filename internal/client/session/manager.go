// Package session owns the client's authentication state.
//
// A Manager holds at most one Session (token plus user) in memory, mirrors it
// to a persistent Store, and moves between two states:
//
//	Anonymous     --Login/Register ok-->  Authenticated
//	Authenticated --UpdateProfile ok-->   Authenticated (user replaced)
//	Authenticated --Logout / 401------->  Anonymous
//
// Any failed operation leaves the state as it was. Mutating operations are
// serialized; read accessors never wait on the network.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/flock/internal/client/client"
	"github.com/dmitrijs2005/flock/internal/client/credentials"
	"github.com/dmitrijs2005/flock/internal/client/models"
	"github.com/dmitrijs2005/flock/internal/client/validation"
	"github.com/dmitrijs2005/flock/internal/logging"
)

type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var ErrNotAuthenticated = errors.New("not authenticated")

// Store persists the session between runs. credentials.Store implements it.
type Store interface {
	Save(ctx context.Context, s *models.Session) error
	Load(ctx context.Context) (*models.Session, error)
	Clear(ctx context.Context) error
}

var _ Store = (*credentials.Store)(nil)

type Manager struct {
	client    client.Client
	store     Store
	validator *validation.Validator
	logger    logging.Logger
	nav       Navigator
	now       func() time.Time

	expireOnUnauthorized bool

	// sem serializes Restore, Login, Register, UpdateProfile and Logout.
	sem chan struct{}

	mu        sync.RWMutex
	session   *models.Session
	observers map[int]func(State)
	nextID    int
}

type Option func(*Manager)

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithNavigator sets where Logout and an expired session send the user.
func WithNavigator(n Navigator) Option {
	return func(m *Manager) { m.nav = n }
}

// WithExpireOnUnauthorized controls whether a 401 on an authenticated call
// ends the session. Enabled by default.
func WithExpireOnUnauthorized(v bool) Option {
	return func(m *Manager) { m.expireOnUnauthorized = v }
}

// WithClock overrides time.Now for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(c client.Client, store Store, opts ...Option) *Manager {
	m := &Manager{
		client:               c,
		store:                store,
		validator:            validation.New(),
		logger:               logging.Discard(),
		nav:                  NavigatorFunc(func(Route) {}),
		now:                  time.Now,
		expireOnUnauthorized: true,
		sem:                  make(chan struct{}, 1),
		observers:            make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("module", "session")
	return m
}

func (m *Manager) acquire(ctx context.Context) error {
	select {
	case m.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) release() { <-m.sem }

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return Anonymous
	}
	return Authenticated
}

// Session returns a copy of the current session, or nil.
func (m *Manager) Session() *models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Clone()
}

// User returns a copy of the current user, or nil.
func (m *Manager) User() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil
	}
	return m.session.User.Clone()
}

// Subscribe registers fn to be called after every transition. fn runs while
// the mutating call still holds the manager, so it may read state but must
// not call Login, Logout or the like. The returned function removes it.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.observers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.observers, id)
		m.mu.Unlock()
	}
}

// set swaps the in-memory session and notifies observers outside the lock.
func (m *Manager) set(s *models.Session) {
	m.mu.Lock()
	m.session = s
	state := Anonymous
	if s != nil {
		state = Authenticated
	}
	fns := make([]func(State), 0, len(m.observers))
	for _, fn := range m.observers {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// Restore loads the persisted session. A corrupt store or an expired JWT is
// cleared and counts as no session. A store that cannot be read is reported
// and leaves the manager Anonymous.
func (m *Manager) Restore(ctx context.Context) (State, error) {
	if err := m.acquire(ctx); err != nil {
		return m.State(), err
	}
	defer m.release()

	s, err := m.store.Load(ctx)
	switch {
	case errors.Is(err, credentials.ErrCorruptSession):
		m.logger.Warn(ctx, "discarding corrupt persisted session", "error", err)
		m.discard(ctx)
		return Anonymous, nil
	case err != nil:
		return Anonymous, fmt.Errorf("restore session: %w", err)
	case s == nil:
		return Anonymous, nil
	}

	if tokenExpired(s.Token, m.now()) {
		m.logger.Info(ctx, "persisted token has expired", "email", s.User.Email)
		m.discard(ctx)
		return Anonymous, nil
	}

	m.set(s)
	m.logger.Debug(ctx, "session restored", "email", s.User.Email)
	return Authenticated, nil
}

func (m *Manager) discard(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error(ctx, "failed to clear persisted session", "error", err)
	}
}

// tokenExpired reports whether token is a JWT whose exp is not after now.
// Opaque tokens and JWTs without exp never expire client-side.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}

// Login validates req, authenticates and persists the new session. The
// request is not sent if validation fails. On any error nothing is
// persisted and the state is unchanged.
func (m *Manager) Login(ctx context.Context, req models.LoginRequest) error {
	if err := m.validator.Struct(req); err != nil {
		return err
	}
	return m.establish(ctx, "login", func(ctx context.Context) (*models.Session, error) {
		return m.client.Login(ctx, req)
	})
}

// Register validates req, creates the account and signs the user in.
func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) error {
	if err := m.validator.Struct(req); err != nil {
		return err
	}
	if !req.IsMinistryLeader {
		req.MinistryID = nil
	}
	return m.establish(ctx, "register", func(ctx context.Context) (*models.Session, error) {
		return m.client.Register(ctx, req)
	})
}

func (m *Manager) establish(ctx context.Context, op string, call func(context.Context) (*models.Session, error)) error {
	if err := m.acquire(ctx); err != nil {
		return err
	}
	defer m.release()

	s, err := call(ctx)
	if err != nil {
		m.logger.Info(ctx, op+" rejected", "error", err)
		return err
	}

	if err := m.store.Save(ctx, s); err != nil {
		m.logger.Error(ctx, "failed to persist session", "op", op, "error", err)
		return err
	}

	m.set(s)
	m.logger.Info(ctx, op+" succeeded", "email", s.User.Email)
	return nil
}

// UpdateProfile sends the edited fields and replaces the user record with
// the server's answer. A 401 ends the session unless disabled with
// WithExpireOnUnauthorized(false), so by default a stale token leaves the
// manager Anonymous rather than unchanged; other rejections always keep the
// current session. If clearing the store fails while ending the session,
// that error is joined to the returned one.
func (m *Manager) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	if err := m.validator.Struct(upd); err != nil {
		return nil, err
	}
	if err := m.acquire(ctx); err != nil {
		return nil, err
	}
	defer m.release()

	current := m.Session()
	if current == nil {
		return nil, ErrNotAuthenticated
	}

	user, err := m.client.UpdateProfile(ctx, current.Token, upd)
	if err != nil {
		var ae *client.AuthError
		if m.expireOnUnauthorized && errors.As(err, &ae) && ae.Expired() {
			m.logger.Info(ctx, "session expired", "email", current.User.Email)
			if cerr := m.endSession(ctx); cerr != nil {
				return nil, errors.Join(err, cerr)
			}
		}
		return nil, err
	}

	next := &models.Session{Token: current.Token, User: user}
	if err := m.store.Save(ctx, next); err != nil {
		m.logger.Error(ctx, "failed to persist updated profile", "error", err)
		return nil, err
	}

	m.set(next)
	return user.Clone(), nil
}

// Logout ends the session and sends the user to the login route. Calling
// it without a session is not an error. The in-memory session is dropped
// even when clearing the store fails; that error is returned.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.acquire(ctx); err != nil {
		return err
	}
	defer m.release()

	return m.endSession(ctx)
}

func (m *Manager) endSession(ctx context.Context) error {
	err := m.store.Clear(ctx)
	if err != nil {
		m.logger.Error(ctx, "failed to clear persisted session", "error", err)
	}

	if m.State() == Authenticated {
		m.set(nil)
	}
	m.nav.Replace(RouteLogin)
	return err
}
