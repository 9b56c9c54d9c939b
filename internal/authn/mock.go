package authn

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/CPU-JIA/axiom-cli/internal/session"
)

// The single credential pair the offline authenticator accepts, matching
// the demo account the product ships with.
const (
	MockEmail    = "jia@axiom.dev"
	MockPassword = "password123"

	// mockDelay simulates the latency of a real credential check.
	mockDelay = 1500 * time.Millisecond

	tokenTTL = time.Hour
	issuer   = "axiom-cli"
)

// Mock is an offline authenticator: a fixed delay, one hardcoded credential
// pair, and a freshly minted token per login. The token is JWT-shaped but
// treated as an opaque bearer string everywhere else.
type Mock struct {
	// Delay overrides the simulated latency; zero means the default.
	Delay time.Duration
}

// Authenticate checks the pair against the fixed demo account.
func (m *Mock) Authenticate(ctx context.Context, email, password string) (*session.Grant, error) {
	if err := checkCredentials(email, password); err != nil {
		return nil, err
	}

	delay := m.Delay
	if delay == 0 {
		delay = mockDelay
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("login cancelled: %w", ctx.Err())
	case <-timer.C:
	}

	if email != MockEmail || password != MockPassword {
		return nil, session.ErrInvalidCredentials
	}

	user := &session.User{
		ID:          "1",
		Email:       MockEmail,
		DisplayName: "JIA",
		AvatarURL:   "https://ui-avatars.com/api/?name=JIA&background=0ea5e9&color=fff",
		Role:        session.RoleAdmin,
		TenantID:    "tenant-1",
	}

	token, err := mintToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to mint token: %w", err)
	}

	log.Debug().Str("email", email).Msg("offline login accepted")

	return &session.Grant{
		User:      user,
		Token:     token,
		ExpiresIn: int(tokenTTL.Seconds()),
	}, nil
}

// mintToken signs a short-lived HS256 token with a throwaway key. Nothing
// verifies it; it only has to look like what the IAM service issues.
func mintToken(user *session.User) (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Subject:   user.ID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}
