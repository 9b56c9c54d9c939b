package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/CPU-JIA/axiom-cli/internal/api"
	"github.com/CPU-JIA/axiom-cli/internal/authn"
	"github.com/CPU-JIA/axiom-cli/internal/config"
	"github.com/CPU-JIA/axiom-cli/internal/guard"
	"github.com/CPU-JIA/axiom-cli/internal/session"
)

type Globals struct {
	Debug      bool
	Offline    bool
	ConfigFile string
	Version    string
}

// app is the wired client for one command invocation: config, session store
// (already initialized), and the API client over the interceptor pipeline.
type app struct {
	cfg    config.Config
	store  *session.Store
	client *api.Client
}

// setup builds the app. The session is initialized here, before any guard
// runs, so guards never observe an unresolved session.
func (g *Globals) setup() (*app, error) {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if g.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(g.ConfigFile)
	if err != nil {
		return nil, err
	}
	if g.Offline {
		cfg.Mode = config.ModeOffline
	}

	slot, err := session.NewSlot(cfg.StateDir)
	if err != nil {
		return nil, err
	}

	var auth session.Authenticator
	switch cfg.Mode {
	case config.ModeOffline:
		auth = &authn.Mock{}
	default:
		auth = authn.NewHTTP(cfg.ServerURL, cfg.Timeout())
	}

	store := session.NewStore(auth, slot)
	store.Initialize()

	client := api.NewClient(api.Config{
		BaseURL:    cfg.ServerURL,
		Timeout:    cfg.Timeout(),
		CacheDir:   cfg.CacheDir,
		MaxRetries: cfg.MaxRetries,
	}, store, func(route string) {
		fmt.Fprintf(os.Stderr, "Session expired. Sent back to %s — run 'axiom login'.\n", route)
	})

	return &app{cfg: cfg, store: store, client: client}, nil
}

// enterPrivate runs the private guard before a protected view.
func (a *app) enterPrivate() error {
	decision := guard.Private{}.Decide(a.store.Snapshot())
	switch decision.Action {
	case guard.Render:
		return nil
	case guard.Redirect:
		return fmt.Errorf("not signed in (redirected to %s): run 'axiom login'", decision.Target)
	default:
		return fmt.Errorf("session state not resolved yet, try again")
	}
}

// truncate shortens s for fixed-width table columns.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
