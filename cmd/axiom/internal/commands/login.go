package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/CPU-JIA/axiom-cli/internal/guard"
)

type LoginCmd struct {
	Email    string `help:"Account email." short:"e" required:""`
	Password string `help:"Account password." short:"p" env:"AXIOM_PASSWORD" required:""`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.setup()
	if err != nil {
		return err
	}

	// The login view is public: an authenticated session is sent to the
	// dashboard instead.
	if decision := (guard.Public{}).Decide(app.store.Snapshot()); decision.Action == guard.Redirect {
		st := app.store.Snapshot()
		fmt.Printf("Already signed in as %s — see %s\n", st.User.Email, decision.Target)
		return nil
	}

	fmt.Printf("Signing in to %s...\n", app.cfg.ServerURL)

	result := app.store.Login(ctx, l.Email, l.Password)
	if !result.OK {
		return errors.New(result.Message())
	}

	st := app.store.Snapshot()
	fmt.Printf("Signed in as %s (%s)\n", st.User.DisplayName, st.User.Email)
	return nil
}

type LogoutCmd struct{}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.setup()
	if err != nil {
		return err
	}

	if !app.store.Snapshot().Authenticated {
		fmt.Println("Not signed in.")
		return nil
	}

	app.store.Logout()
	fmt.Println("Signed out.")
	return nil
}
