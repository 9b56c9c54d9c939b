// Package guard gates navigation between public and private views based on
// session state. Guards never decide while the session is loading; they
// wait, so an unrehydrated session is never mistaken for an anonymous one.
package guard

import "github.com/CPU-JIA/axiom-cli/internal/session"

// Application routes, matching the web client.
const (
	LoginRoute     = "/login"
	DashboardRoute = "/dashboard"
	ProjectsRoute  = "/projects"
	TasksRoute     = "/tasks"
	SettingsRoute  = "/settings"
)

// State is the guard's view of the session.
type State int

const (
	Loading State = iota
	Authed
	Anon
)

func (s State) String() string {
	switch s {
	case Loading:
		return "LOADING"
	case Authed:
		return "AUTHED"
	default:
		return "ANON"
	}
}

// StateOf derives the guard state from a session snapshot.
func StateOf(st session.State) State {
	switch {
	case st.Loading:
		return Loading
	case st.Authenticated:
		return Authed
	default:
		return Anon
	}
}

// Action is what a guard tells the caller to do.
type Action int

const (
	// Wait: session state is not authoritative yet; render a placeholder
	// and make no redirect decision.
	Wait Action = iota
	// Render the wrapped view.
	Render
	// Redirect to Target, replacing history.
	Redirect
)

// Decision is a guard's verdict for one navigation instance. Redirects are
// history-replacing: the guarded route must not be reachable via back
// navigation afterwards.
type Decision struct {
	Action Action
	Target string
}

// Private admits authenticated sessions and redirects anonymous ones to the
// login route.
type Private struct {
	// LoginRoute overrides the redirect target; empty means LoginRoute.
	LoginRoute string
}

func (g Private) Decide(st session.State) Decision {
	switch StateOf(st) {
	case Loading:
		return Decision{Action: Wait}
	case Authed:
		return Decision{Action: Render}
	default:
		target := g.LoginRoute
		if target == "" {
			target = LoginRoute
		}
		return Decision{Action: Redirect, Target: target}
	}
}

// Public admits anonymous sessions (the login view) and redirects
// authenticated ones to the default landing route.
type Public struct {
	// HomeRoute overrides the redirect target; empty means DashboardRoute.
	HomeRoute string
}

func (g Public) Decide(st session.State) Decision {
	switch StateOf(st) {
	case Loading:
		return Decision{Action: Wait}
	case Anon:
		return Decision{Action: Render}
	default:
		target := g.HomeRoute
		if target == "" {
			target = DashboardRoute
		}
		return Decision{Action: Redirect, Target: target}
	}
}
