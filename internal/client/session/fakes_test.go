package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/flock/internal/client/models"
)

// ---- fake client ----

type fakeClient struct {
	mu sync.Mutex

	loginResp *models.Session
	loginErr  error

	registerResp *models.Session
	registerErr  error

	updateResp *models.User
	updateErr  error
	// updateGate, when set, blocks UpdateProfile until closed.
	updateGate chan struct{}
	// updateStarted is signalled once UpdateProfile is entered.
	updateStarted chan struct{}

	loginCalls    int
	registerCalls int
	updateCalls   int

	lastRegister models.RegisterRequest
	lastToken    string
	lastUpdate   models.ProfileUpdate
}

func (f *fakeClient) Login(ctx context.Context, req models.LoginRequest) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	return f.loginResp.Clone(), f.loginErr
}

func (f *fakeClient) Register(ctx context.Context, req models.RegisterRequest) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registerCalls++
	f.lastRegister = req
	return f.registerResp.Clone(), f.registerErr
}

func (f *fakeClient) UpdateProfile(ctx context.Context, token string, req models.ProfileUpdate) (*models.User, error) {
	f.mu.Lock()
	f.updateCalls++
	f.lastToken = token
	f.lastUpdate = req
	gate, started := f.updateGate, f.updateStarted
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updateResp.Clone(), f.updateErr
}

func (f *fakeClient) ListOutreaches(ctx context.Context) ([]models.Outreach, error) { return nil, nil }
func (f *fakeClient) ListMinistries(ctx context.Context) ([]models.Ministry, error) { return nil, nil }
func (f *fakeClient) ListMedia(ctx context.Context) ([]models.MediaItem, error)     { return nil, nil }

func (f *fakeClient) calls() (login, register, update int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls, f.registerCalls, f.updateCalls
}

// ---- fake store ----

type fakeStore struct {
	mu sync.Mutex

	session *models.Session

	saveErr  error
	loadErr  error
	clearErr error

	saves  int
	clears int
}

func (f *fakeStore) Save(ctx context.Context, s *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.session = s.Clone()
	return nil
}

func (f *fakeStore) Load(ctx context.Context) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.session.Clone(), nil
}

func (f *fakeStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	if f.clearErr != nil {
		return f.clearErr
	}
	f.session = nil
	return nil
}

func (f *fakeStore) persisted() *models.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session.Clone()
}

// ---- fake navigator ----

type fakeNav struct {
	mu     sync.Mutex
	routes []Route
}

func (f *fakeNav) Replace(r Route) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes = append(f.routes, r)
}

func (f *fakeNav) got() []Route {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Route(nil), f.routes...)
}

// ---- fixtures ----

func sampleUser() *models.User {
	return &models.User{
		FirstName:   "Grace",
		LastName:    "Hopper",
		Email:       "grace@example.com",
		PhoneNumber: "+1 555 0100",
		Birthday:    "1985-12-09",
		OutreachID:  1,
	}
}

func sampleSession(token string) *models.Session {
	return &models.Session{Token: token, User: sampleUser()}
}
