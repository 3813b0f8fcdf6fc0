package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/flock/internal/logging"
)

// Route names a front-end entry point.
type Route string

const (
	RouteLogin Route = "login"
	RouteHome  Route = "home"
)

// Navigator moves the front-end to a route, replacing history so the user
// cannot go back to where they were.
type Navigator interface {
	Replace(r Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Route)

func (f NavigatorFunc) Replace(r Route) { f(r) }

// Guard makes the startup routing decision.
type Guard struct {
	manager *Manager
	nav     Navigator
	logger  logging.Logger

	once  sync.Once
	route Route
}

func NewGuard(m *Manager, nav Navigator, logger logging.Logger) *Guard {
	return &Guard{manager: m, nav: nav, logger: logger.With("module", "guard")}
}

// Start restores the persisted session once per Guard. Without a session
// it replaces the current route with RouteLogin; with one it returns
// RouteHome and navigates nowhere. Later calls return the first decision
// and have no side effects.
func (g *Guard) Start(ctx context.Context) Route {
	g.once.Do(func() {
		state, err := g.manager.Restore(ctx)
		if err != nil {
			g.logger.Warn(ctx, "could not restore session", "error", err)
		}
		if state == Authenticated {
			g.route = RouteHome
			return
		}
		g.route = RouteLogin
		g.nav.Replace(RouteLogin)
	})
	return g.route
}
