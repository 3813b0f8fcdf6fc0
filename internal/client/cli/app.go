package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"math"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/flock/internal/client/catalog"
	"github.com/dmitrijs2005/flock/internal/client/client"
	"github.com/dmitrijs2005/flock/internal/client/config"
	"github.com/dmitrijs2005/flock/internal/client/credentials"
	"github.com/dmitrijs2005/flock/internal/client/localdb"
	"github.com/dmitrijs2005/flock/internal/client/models"
	"github.com/dmitrijs2005/flock/internal/client/session"
	"github.com/dmitrijs2005/flock/internal/client/validation"
	"github.com/dmitrijs2005/flock/internal/logging"
	"github.com/dmitrijs2005/flock/internal/metrics"
)

const metricsSubsystem = "api_client"

// sessionService is the part of *session.Manager the screens use.
type sessionService interface {
	State() session.State
	User() *models.User
	Login(ctx context.Context, req models.LoginRequest) error
	Register(ctx context.Context, req models.RegisterRequest) error
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error)
	Logout(ctx context.Context) error
}

type catalogService interface {
	Outreaches(ctx context.Context) []models.Outreach
	Ministries(ctx context.Context) []models.Ministry
	Media(ctx context.Context) []models.MediaItem
}

type startGuard interface {
	Start(ctx context.Context) session.Route
}

type App struct {
	config    *config.Config
	db        *sql.DB
	sessions  sessionService
	guard     startGuard
	catalog   catalogService
	validator *validation.Validator
	logger    logging.Logger
	registry  prometheus.Gatherer
	reader    *bufio.Reader
	out       io.Writer

	mu       sync.Mutex
	redirect session.Route
}

var _ session.Navigator = (*App)(nil)

// NewApp opens the local database and wires the API client, session
// manager, route guard and catalog.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewText(os.Stderr, c.LogLevel)

	db, err := localdb.Open(ctx, c.DBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DBPath, "error", err)
		return nil, err
	}

	reg := prometheus.NewRegistry()
	api, err := client.NewHTTPClient(c.APIURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithRateLimit(c.RequestsPerSecond, burstFor(c.RequestsPerSecond)),
		client.WithRecorder(metrics.NewCollector(reg, metricsSubsystem)),
		client.WithLogger(logger),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{
		config:    c,
		db:        db,
		catalog:   catalog.NewService(api, logger),
		validator: validation.New(),
		logger:    logger.With("module", "cli"),
		registry:  reg,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}

	mgr := session.NewManager(api, credentials.NewStore(db, logger),
		session.WithLogger(logger),
		session.WithNavigator(a),
	)
	mgr.Subscribe(func(s session.State) {
		a.logger.Debug(context.Background(), "session state changed", "state", s.String())
	})

	a.sessions = mgr
	a.guard = session.NewGuard(mgr, a, logger)
	return a, nil
}

func burstFor(rps float64) int {
	if rps <= 1 {
		return 1
	}
	return int(math.Ceil(rps))
}

// Run makes the startup routing decision and then serves the REPL until the
// user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to Flock (type 'help' for commands)")

	if a.guard.Start(ctx) == session.RouteHome {
		if u := a.sessions.User(); u != nil {
			printlnFn(fmt.Sprintf("Welcome back, %s!", u.FullName()))
		}
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn(context.Background(), "closing database", "error", err)
		}
	}
}

// Replace records a navigation request; the REPL acts on it before the
// next prompt.
func (a *App) Replace(r session.Route) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.redirect = r
}

func (a *App) takeRedirect() (session.Route, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	r := a.redirect
	a.redirect = ""
	return r, r != ""
}

func (a *App) isLoggedIn() bool {
	return a.sessions.State() == session.Authenticated
}

func (a *App) getStatus() string {
	if u := a.sessions.User(); u != nil {
		return fmt.Sprintf("(%s)", u.FullName())
	}
	return "(guest)"
}
