package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type WhoamiCmd struct{}

func (w *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.setup()
	if err != nil {
		return err
	}
	if err := app.enterPrivate(); err != nil {
		return err
	}

	st := app.store.Snapshot()
	fmt.Printf("User:   %s (%s)\n", st.User.DisplayName, st.User.Email)
	fmt.Printf("Role:   %s\n", st.User.Role)
	if st.User.TenantID != "" {
		fmt.Printf("Tenant: %s\n", st.User.TenantID)
	}

	if expiry, ok := tokenExpiry(st.Token); ok {
		fmt.Printf("Token:  expires %s\n", expiry.Local().Format(time.RFC1123))
	}
	return nil
}

// tokenExpiry reads the exp claim without verifying the signature. The
// token is an opaque credential to this client; the expiry is shown purely
// as a convenience and absent for non-JWT tokens.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
