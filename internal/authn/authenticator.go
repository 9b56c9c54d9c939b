// Package authn implements the credential-checking collaborators behind
// session login: the IAM service over HTTP, and an offline stand-in.
package authn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/CPU-JIA/axiom-cli/internal/session"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// checkCredentials rejects malformed input before any network round trip.
// A malformed pair can never match, so it maps to the same failure as a
// rejected one.
func checkCredentials(email, password string) error {
	if err := validate.Struct(credentials{Email: email, Password: password}); err != nil {
		return fmt.Errorf("%w: %v", session.ErrInvalidCredentials, err)
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type wireUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Role      string `json:"role,omitempty"`
	TenantID  string `json:"tenant_id,omitempty"`
}

type loginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int       `json:"expires_in"`
	TokenType    string    `json:"token_type"`
	User         *wireUser `json:"user"`
}

type loginEnvelope struct {
	Data  *loginResponse `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// HTTP authenticates against the IAM service login endpoint.
type HTTP struct {
	loginURL string
	client   *http.Client
}

// NewHTTP creates an authenticator for the given API base URL.
func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	return &HTTP{
		loginURL: strings.TrimRight(baseURL, "/") + "/auth/login",
		client:   &http.Client{Timeout: timeout},
	}
}

// Authenticate posts the credential pair and maps the response to a grant.
// A 401 (or 400 on the pair itself) is a credential rejection; transport
// failures surface as wrapped network errors.
func (h *HTTP) Authenticate(ctx context.Context, email, password string) (*session.Grant, error) {
	if err := checkCredentials(email, password); err != nil {
		return nil, err
	}

	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.loginURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read login response: %w", err)
	}

	var envelope loginEnvelope
	if len(data) > 0 {
		// Decode best-effort; an unparsable error body still maps by status.
		_ = json.Unmarshal(data, &envelope)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusBadRequest:
		if envelope.Error != nil {
			log.Debug().Str("code", envelope.Error.Code).Msg("login rejected")
		}
		return nil, fmt.Errorf("%w: server rejected login", session.ErrInvalidCredentials)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("login failed: unexpected status %d", resp.StatusCode)
	}

	if envelope.Data == nil || envelope.Data.User == nil || envelope.Data.AccessToken == "" {
		return nil, fmt.Errorf("login response missing user or token")
	}

	u := envelope.Data.User
	return &session.Grant{
		User: &session.User{
			ID:          u.ID,
			Email:       u.Email,
			DisplayName: u.FullName,
			AvatarURL:   u.AvatarURL,
			Role:        u.Role,
			TenantID:    u.TenantID,
		},
		Token:        envelope.Data.AccessToken,
		RefreshToken: envelope.Data.RefreshToken,
		ExpiresIn:    envelope.Data.ExpiresIn,
	}, nil
}
