package session

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/flock/internal/client/client"
	"github.com/dmitrijs2005/flock/internal/client/credentials"
	"github.com/dmitrijs2005/flock/internal/client/localdb"
	"github.com/dmitrijs2005/flock/internal/client/models"
	"github.com/dmitrijs2005/flock/internal/client/validation"
	"github.com/dmitrijs2005/flock/internal/logging"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newManager(c *fakeClient, s *fakeStore, opts ...Option) (*Manager, *fakeNav) {
	nav := &fakeNav{}
	opts = append([]Option{
		WithNavigator(nav),
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(logging.Discard()),
	}, opts...)
	return NewManager(c, s, opts...), nav
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "grace@example.com",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func validRegister() models.RegisterRequest {
	return models.RegisterRequest{
		FirstName:   "Grace",
		LastName:    "Hopper",
		Email:       "grace@example.com",
		Password:    "cobol1959",
		Birthday:    "1985-12-09",
		OutreachID:  1,
		PhoneNumber: "+1 555 0100",
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "anonymous", Anonymous.String())
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "State(7)", State(7).String())
}

/*************
 * Login
 *************/

func TestLogin_Success_PersistsAndNotifies(t *testing.T) {
	fc := &fakeClient{loginResp: sampleSession("tok-1")}
	fs := &fakeStore{}
	m, _ := newManager(fc, fs)

	var seen []State
	m.Subscribe(func(s State) { seen = append(seen, s) })

	err := m.Login(context.Background(), models.LoginRequest{Email: "grace@example.com", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, Authenticated, m.State())
	assert.Empty(t, cmp.Diff(sampleSession("tok-1"), m.Session()))
	assert.Empty(t, cmp.Diff(sampleSession("tok-1"), fs.persisted()))
	assert.Equal(t, []State{Authenticated}, seen)
}

func TestLogin_EmptyPassword_NoNetwork(t *testing.T) {
	fc := &fakeClient{loginResp: sampleSession("tok")}
	fs := &fakeStore{}
	m, _ := newManager(fc, fs)

	err := m.Login(context.Background(), models.LoginRequest{Email: "a@b.co", Password: ""})

	var ve *validation.Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Password is required", ve.Error())
	assert.ErrorIs(t, err, validation.ErrValidation)

	login, _, _ := fc.calls()
	assert.Zero(t, login)
	assert.Equal(t, Anonymous, m.State())
	assert.Zero(t, fs.saves)
}

func TestLogin_InvalidEmail_NoNetwork(t *testing.T) {
	fc := &fakeClient{}
	m, _ := newManager(fc, &fakeStore{})

	err := m.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "pw"})

	require.Error(t, err)
	assert.Equal(t, "Invalid email address", err.Error())
	login, _, _ := fc.calls()
	assert.Zero(t, login)
}

func TestLogin_NeverPartial(t *testing.T) {
	tests := []struct {
		name    string
		client  *fakeClient
		store   *fakeStore
		wantErr func(t *testing.T, err error)
	}{
		{
			name:   "server rejects",
			client: &fakeClient{loginErr: &client.AuthError{StatusCode: http.StatusBadRequest, Message: "Invalid credentials"}},
			store:  &fakeStore{},
			wantErr: func(t *testing.T, err error) {
				var ae *client.AuthError
				require.ErrorAs(t, err, &ae)
				assert.Equal(t, "Invalid credentials", ae.Message)
			},
		},
		{
			name:   "network down",
			client: &fakeClient{loginErr: &client.NetworkError{Op: "login", Err: errors.New("connection refused")}},
			store:  &fakeStore{},
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, client.ErrUnavailable)
			},
		},
		{
			name:   "persist fails",
			client: &fakeClient{loginResp: sampleSession("tok")},
			store:  &fakeStore{saveErr: &credentials.StorageError{Op: "save", Err: errors.New("disk full")}},
			wantErr: func(t *testing.T, err error) {
				var se *credentials.StorageError
				require.ErrorAs(t, err, &se)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newManager(tt.client, tt.store)
			notified := false
			m.Subscribe(func(State) { notified = true })

			err := m.Login(context.Background(), models.LoginRequest{Email: "a@b.co", Password: "pw"})
			tt.wantErr(t, err)

			assert.Equal(t, Anonymous, m.State())
			assert.Nil(t, m.Session())
			assert.Nil(t, tt.store.persisted())
			assert.False(t, notified)
		})
	}
}

func TestLogin_NeverPartial_RealStore(t *testing.T) {
	ctx := context.Background()
	db, err := localdb.Open(ctx, filepath.Join(t.TempDir(), "flock.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store := credentials.NewStore(db, logging.Discard())

	fc := &fakeClient{loginErr: &client.AuthError{StatusCode: http.StatusUnauthorized, Message: "Login failed"}}
	m := NewManager(fc, store)

	require.Error(t, m.Login(ctx, models.LoginRequest{Email: "a@b.co", Password: "pw"}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	_, ok := store.LoadUser(ctx)
	assert.False(t, ok)
}

/*************
 * Register
 *************/

func TestRegister_Success_Authenticates(t *testing.T) {
	fc := &fakeClient{registerResp: sampleSession("tok-r")}
	fs := &fakeStore{}
	m, _ := newManager(fc, fs)

	require.NoError(t, m.Register(context.Background(), validRegister()))

	assert.Equal(t, Authenticated, m.State())
	assert.Equal(t, "tok-r", fs.persisted().Token)
}

func TestRegister_MinistryLeaderBoundary(t *testing.T) {
	ministry := int64(4)

	t.Run("leader without ministry is rejected locally", func(t *testing.T) {
		fc := &fakeClient{registerResp: sampleSession("tok")}
		m, _ := newManager(fc, &fakeStore{})

		req := validRegister()
		req.IsMinistryLeader = true

		err := m.Register(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, "Ministry ID is required", err.Error())
		_, reg, _ := fc.calls()
		assert.Zero(t, reg)
	})

	t.Run("leader with ministry sends it", func(t *testing.T) {
		fc := &fakeClient{registerResp: sampleSession("tok")}
		m, _ := newManager(fc, &fakeStore{})

		req := validRegister()
		req.IsMinistryLeader = true
		req.MinistryID = &ministry

		require.NoError(t, m.Register(context.Background(), req))
		require.NotNil(t, fc.lastRegister.MinistryID)
		assert.Equal(t, int64(4), *fc.lastRegister.MinistryID)
	})

	t.Run("non leader never sends ministry", func(t *testing.T) {
		fc := &fakeClient{registerResp: sampleSession("tok")}
		m, _ := newManager(fc, &fakeStore{})

		req := validRegister()
		req.MinistryID = &ministry

		require.NoError(t, m.Register(context.Background(), req))
		assert.Nil(t, fc.lastRegister.MinistryID)
	})
}

func TestRegister_ShortPassword(t *testing.T) {
	fc := &fakeClient{}
	m, _ := newManager(fc, &fakeStore{})

	req := validRegister()
	req.Password = "short"

	err := m.Register(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "Password must be at least 8 characters", err.Error())
}

func TestRegister_Rejected_StateUnchanged(t *testing.T) {
	fc := &fakeClient{registerErr: &client.AuthError{StatusCode: http.StatusConflict, Message: "Email already registered"}}
	fs := &fakeStore{}
	m, _ := newManager(fc, fs)

	err := m.Register(context.Background(), validRegister())
	require.EqualError(t, err, "Email already registered")
	assert.Equal(t, Anonymous, m.State())
	assert.Zero(t, fs.saves)
}

/*************
 * UpdateProfile
 *************/

func loggedIn(t *testing.T, fc *fakeClient, fs *fakeStore, opts ...Option) (*Manager, *fakeNav) {
	t.Helper()
	fc.loginResp = sampleSession("tok-1")
	m, nav := newManager(fc, fs, opts...)
	require.NoError(t, m.Login(context.Background(), models.LoginRequest{Email: "grace@example.com", Password: "pw"}))
	return m, nav
}

func TestUpdateProfile_Success_ReplacesUserKeepsToken(t *testing.T) {
	updated := sampleUser()
	updated.FirstName = "Amazing"
	fc := &fakeClient{updateResp: updated}
	fs := &fakeStore{}
	m, _ := loggedIn(t, fc, fs)

	upd := models.ProfileUpdate{FirstName: "Amazing", LastName: "Hopper", PhoneNumber: "+1 555 0100"}
	u, err := m.UpdateProfile(context.Background(), upd)
	require.NoError(t, err)

	assert.Equal(t, "Amazing", u.FirstName)
	assert.Equal(t, "tok-1", fc.lastToken)
	assert.Equal(t, upd, fc.lastUpdate)
	assert.Equal(t, "Amazing", m.User().FirstName)
	assert.Equal(t, "tok-1", m.Session().Token)
	assert.Equal(t, "Amazing", fs.persisted().User.FirstName)
}

func TestUpdateProfile_Anonymous(t *testing.T) {
	fc := &fakeClient{}
	m, _ := newManager(fc, &fakeStore{})

	_, err := m.UpdateProfile(context.Background(), models.ProfileUpdate{FirstName: "a", LastName: "b", PhoneNumber: "c"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, _, upd := fc.calls()
	assert.Zero(t, upd)
}

func TestUpdateProfile_Validation(t *testing.T) {
	fc := &fakeClient{}
	m, _ := loggedIn(t, fc, &fakeStore{})

	_, err := m.UpdateProfile(context.Background(), models.ProfileUpdate{FirstName: "", LastName: "b", PhoneNumber: "c"})
	require.Error(t, err)
	assert.Equal(t, "First name is required", err.Error())
	_, _, upd := fc.calls()
	assert.Zero(t, upd)
}

func TestUpdateProfile_StaleToken(t *testing.T) {
	stale := &client.AuthError{StatusCode: http.StatusUnauthorized, Message: "Token expired"}
	upd := models.ProfileUpdate{FirstName: "X", LastName: "Y", PhoneNumber: "Z"}

	t.Run("expires session by default", func(t *testing.T) {
		fc := &fakeClient{updateErr: stale}
		fs := &fakeStore{}
		m, nav := loggedIn(t, fc, fs)

		var seen []State
		m.Subscribe(func(s State) { seen = append(seen, s) })

		_, err := m.UpdateProfile(context.Background(), upd)
		require.ErrorIs(t, err, client.ErrUnauthorized)

		assert.Equal(t, Anonymous, m.State())
		assert.Nil(t, fs.persisted())
		assert.Equal(t, []Route{RouteLogin}, nav.got())
		assert.Equal(t, []State{Anonymous}, seen)
	})

	t.Run("state unchanged when expiry disabled", func(t *testing.T) {
		fc := &fakeClient{updateErr: stale}
		fs := &fakeStore{}
		m, nav := loggedIn(t, fc, fs, WithExpireOnUnauthorized(false))

		_, err := m.UpdateProfile(context.Background(), upd)
		var ae *client.AuthError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "Token expired", ae.Message)

		assert.Equal(t, Authenticated, m.State())
		assert.Equal(t, "Grace", m.User().FirstName)
		assert.NotNil(t, fs.persisted())
		assert.Empty(t, nav.got())
	})

	t.Run("clear failure is reported with the rejection", func(t *testing.T) {
		fc := &fakeClient{updateErr: stale}
		fs := &fakeStore{}
		m, nav := loggedIn(t, fc, fs)
		locked := errors.New("locked")
		fs.clearErr = locked

		_, err := m.UpdateProfile(context.Background(), upd)
		require.ErrorIs(t, err, client.ErrUnauthorized)
		assert.ErrorIs(t, err, locked)

		var ae *client.AuthError
		require.ErrorAs(t, err, &ae)
		assert.True(t, ae.Expired())
		assert.Equal(t, Anonymous, m.State())
		assert.Equal(t, []Route{RouteLogin}, nav.got())
	})

	t.Run("forbidden never expires", func(t *testing.T) {
		fc := &fakeClient{updateErr: &client.AuthError{StatusCode: http.StatusForbidden, Message: "Profile update failed"}}
		fs := &fakeStore{}
		m, nav := loggedIn(t, fc, fs)

		_, err := m.UpdateProfile(context.Background(), upd)
		require.Error(t, err)
		assert.Equal(t, Authenticated, m.State())
		assert.Empty(t, nav.got())
	})
}

func TestUpdateProfile_PersistFails_StateUnchanged(t *testing.T) {
	updated := sampleUser()
	updated.FirstName = "New"
	fc := &fakeClient{updateResp: updated}
	fs := &fakeStore{}
	m, _ := loggedIn(t, fc, fs)
	fs.saveErr = &credentials.StorageError{Op: "save", Err: errors.New("readonly")}

	_, err := m.UpdateProfile(context.Background(), models.ProfileUpdate{FirstName: "New", LastName: "Hopper", PhoneNumber: "1"})
	require.Error(t, err)
	assert.Equal(t, "Grace", m.User().FirstName)
}

/*************
 * Logout
 *************/

func TestLogout_Idempotent(t *testing.T) {
	fc := &fakeClient{}
	fs := &fakeStore{}
	m, nav := loggedIn(t, fc, fs)

	var seen []State
	m.Subscribe(func(s State) { seen = append(seen, s) })

	require.NoError(t, m.Logout(context.Background()))
	require.NoError(t, m.Logout(context.Background()))

	assert.Equal(t, Anonymous, m.State())
	assert.Nil(t, m.Session())
	assert.Nil(t, fs.persisted())
	assert.Equal(t, []Route{RouteLogin, RouteLogin}, nav.got())
	assert.Equal(t, []State{Anonymous}, seen)
}

func TestLogout_ClearFails_StillAnonymous(t *testing.T) {
	fc := &fakeClient{}
	fs := &fakeStore{}
	m, nav := loggedIn(t, fc, fs)
	fs.clearErr = errors.New("locked")

	err := m.Logout(context.Background())
	require.Error(t, err)
	assert.Equal(t, Anonymous, m.State())
	assert.Equal(t, []Route{RouteLogin}, nav.got())
}

func TestLogout_WaitsForPendingUpdate(t *testing.T) {
	updated := sampleUser()
	updated.FirstName = "Late"
	fc := &fakeClient{
		updateResp:    updated,
		updateGate:    make(chan struct{}),
		updateStarted: make(chan struct{}),
	}
	fs := &fakeStore{}
	m, _ := loggedIn(t, fc, fs)

	updateDone := make(chan error, 1)
	go func() {
		_, err := m.UpdateProfile(context.Background(), models.ProfileUpdate{FirstName: "Late", LastName: "H", PhoneNumber: "1"})
		updateDone <- err
	}()
	<-fc.updateStarted

	logoutDone := make(chan error, 1)
	go func() { logoutDone <- m.Logout(context.Background()) }()

	select {
	case <-logoutDone:
		t.Fatal("logout interleaved with a pending profile update")
	case <-time.After(50 * time.Millisecond):
	}

	close(fc.updateGate)
	require.NoError(t, <-updateDone)
	require.NoError(t, <-logoutDone)

	assert.Equal(t, Anonymous, m.State())
	assert.Nil(t, fs.persisted())
}

func TestMutations_HonourCancelWhileWaiting(t *testing.T) {
	fc := &fakeClient{
		updateResp:    sampleUser(),
		updateGate:    make(chan struct{}),
		updateStarted: make(chan struct{}),
	}
	m, _ := loggedIn(t, fc, &fakeStore{})

	go func() {
		_, _ = m.UpdateProfile(context.Background(), models.ProfileUpdate{FirstName: "a", LastName: "b", PhoneNumber: "c"})
	}()
	<-fc.updateStarted
	defer close(fc.updateGate)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := m.Logout(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, Authenticated, m.State())
}

/*************
 * Restore
 *************/

func TestRestore(t *testing.T) {
	tests := []struct {
		name      string
		store     func(t *testing.T) *fakeStore
		want      State
		wantErr   bool
		wantClear bool
	}{
		{
			name:  "empty store",
			store: func(*testing.T) *fakeStore { return &fakeStore{} },
			want:  Anonymous,
		},
		{
			name:  "opaque token",
			store: func(*testing.T) *fakeStore { return &fakeStore{session: sampleSession("opaque")} },
			want:  Authenticated,
		},
		{
			name: "valid jwt",
			store: func(t *testing.T) *fakeStore {
				return &fakeStore{session: sampleSession(signedToken(t, fixedNow.Add(time.Hour)))}
			},
			want: Authenticated,
		},
		{
			name: "expired jwt",
			store: func(t *testing.T) *fakeStore {
				return &fakeStore{session: sampleSession(signedToken(t, fixedNow.Add(-time.Minute)))}
			},
			want:      Anonymous,
			wantClear: true,
		},
		{
			name:      "corrupt store",
			store:     func(*testing.T) *fakeStore { return &fakeStore{loadErr: credentials.ErrCorruptSession} },
			want:      Anonymous,
			wantClear: true,
		},
		{
			name: "unreadable store",
			store: func(*testing.T) *fakeStore {
				return &fakeStore{loadErr: &credentials.StorageError{Op: "load", Err: errors.New("io")}}
			},
			want:    Anonymous,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := tt.store(t)
			m, nav := newManager(&fakeClient{}, fs)

			got, err := m.Restore(context.Background())
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, m.State())
			assert.Equal(t, tt.wantClear, fs.clears > 0)
			assert.Empty(t, nav.got(), "restore never navigates")
		})
	}
}

func TestRestore_RoundTripThroughRealStore(t *testing.T) {
	ctx := context.Background()
	db, err := localdb.Open(ctx, filepath.Join(t.TempDir(), "flock.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store := credentials.NewStore(db, logging.Discard())

	fc := &fakeClient{loginResp: sampleSession("tok-persisted")}
	first := NewManager(fc, store)
	require.NoError(t, first.Login(ctx, models.LoginRequest{Email: "grace@example.com", Password: "pw"}))

	second := NewManager(&fakeClient{}, store)
	state, err := second.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, Authenticated, state)
	assert.Empty(t, cmp.Diff(first.Session(), second.Session()))
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	fc := &fakeClient{loginResp: sampleSession("tok")}
	m, _ := newManager(fc, &fakeStore{})

	calls := 0
	unsubscribe := m.Subscribe(func(State) { calls++ })
	unsubscribe()

	require.NoError(t, m.Login(context.Background(), models.LoginRequest{Email: "a@b.co", Password: "pw"}))
	assert.Zero(t, calls)
}

func TestAccessors_ReturnCopies(t *testing.T) {
	fc := &fakeClient{loginResp: sampleSession("tok")}
	m, _ := newManager(fc, &fakeStore{})
	require.NoError(t, m.Login(context.Background(), models.LoginRequest{Email: "a@b.co", Password: "pw"}))

	m.User().FirstName = "Mutated"
	m.Session().User.LastName = "Mutated"

	assert.Equal(t, "Grace", m.User().FirstName)
	assert.Equal(t, "Hopper", m.User().LastName)
}
