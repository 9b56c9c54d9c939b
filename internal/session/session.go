package session

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/rs/zerolog/log"
)

// Sentinel errors
var (
	// ErrInvalidCredentials is returned by Authenticators when the
	// email/password pair is rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrIncompleteLogin is returned when a login transition is attempted
	// without both a user and a token.
	ErrIncompleteLogin = errors.New("login requires both user and token")

	// ErrNotAuthenticated is returned by the partial setters when no
	// session is established.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Grant is what a successful credential check yields.
type Grant struct {
	User         *User
	Token        string
	RefreshToken string
	ExpiresIn    int
}

// Authenticator is the credential-checking collaborator behind Login. It is
// an opaque async boundary that can fail or time out; implementations must
// honor ctx cancellation.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*Grant, error)
}

// State is a point-in-time copy of the session, safe to hand to guards.
type State struct {
	User          *User
	Token         string
	Authenticated bool
	Loading       bool
}

// Store owns the process-wide session: the authenticated user, the bearer
// token, and the loading flag gating guard decisions. All mutations go
// through Store methods; the persisted slot is rewritten whenever a
// persisted field changes.
//
// Invariant: Authenticated implies both a user and a token are present. The
// only transition that sets Authenticated is CompleteLogin, which rejects
// partial input.
type Store struct {
	auth Authenticator
	slot *Slot

	mu            sync.Mutex
	user          *User
	token         string
	refreshToken  string
	authenticated bool
	loading       bool

	initialized bool
	epoch       uint64
}

// NewStore creates a session store. The loading flag is seeded true so
// guards always wait until Initialize has run. A nil slot disables
// persistence (ephemeral sessions).
func NewStore(auth Authenticator, slot *Slot) *Store {
	return &Store{
		auth:    auth,
		slot:    slot,
		loading: true,
	}
}

// Initialize rehydrates the session from the persisted slot and resolves
// the loading flag. It must run before the first guard decision; repeat
// calls are no-ops beyond re-clearing the loading flag. A missing or
// corrupt snapshot starts the session anonymous.
func (s *Store) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		s.loading = false
		return
	}
	s.initialized = true
	s.loading = false

	if s.slot == nil {
		s.authenticated = false
		return
	}

	snap, err := s.slot.Load()
	if err != nil {
		log.Warn().Err(err).Msg("discarding unreadable session snapshot")
		s.authenticated = false
		return
	}

	if snap != nil && snap.User != nil && snap.Token != "" {
		s.user = snap.User
		s.token = snap.Token
		s.refreshToken = snap.RefreshToken
		s.authenticated = true
		log.Debug().Str("email", snap.User.Email).Msg("session restored")
		return
	}

	s.authenticated = false
}

// Login performs a credential check against the authenticator. The loading
// flag is raised synchronously before the check and lowered when it
// settles. Login never returns a Go error; failures are classified into
// the result. A result arriving after a newer attempt (or a logout) has
// started is discarded.
func (s *Store) Login(ctx context.Context, email, password string) LoginResult {
	s.mu.Lock()
	s.loading = true
	s.epoch++
	attempt := s.epoch
	s.mu.Unlock()

	grant, err := s.auth.Authenticate(ctx, email, password)

	s.mu.Lock()
	defer s.mu.Unlock()

	if attempt != s.epoch {
		// A newer attempt owns the loading flag and the outcome.
		log.Debug().Str("email", email).Msg("discarding superseded login result")
		return LoginResult{Kind: KindSuperseded}
	}

	s.loading = false

	if err != nil {
		kind := classifyLoginError(err)
		log.Debug().Err(err).Str("email", email).Str("kind", string(kind)).Msg("login failed")
		return LoginResult{Kind: kind}
	}

	if grant == nil || grant.User == nil || grant.Token == "" {
		log.Warn().Str("email", email).Msg("authenticator returned incomplete grant")
		return LoginResult{Kind: KindUnknown}
	}

	s.completeLoginLocked(grant.User, grant.Token, grant.RefreshToken)
	log.Info().Str("email", grant.User.Email).Msg("login succeeded")
	return LoginResult{OK: true}
}

// CompleteLogin is the single atomic authenticating transition. Both pieces
// are required together so the authenticated flag can never be raised on a
// partial session.
func (s *Store) CompleteLogin(user *User, token string) error {
	return s.CompleteLoginSession(user, token, "")
}

// CompleteLoginSession is CompleteLogin carrying the optional refresh token.
func (s *Store) CompleteLoginSession(user *User, token, refreshToken string) error {
	if user == nil || token == "" {
		return ErrIncompleteLogin
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.completeLoginLocked(user, token, refreshToken)
	return nil
}

// Logout clears the session and erases the persisted slot. Idempotent. An
// in-flight login settling afterwards is discarded.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	log.Debug().Msg("logged out")
}

// Invalidate is the forced-logout path used by the request pipeline when
// the server rejects the session. It reports whether this call performed
// the authenticated-to-anonymous transition, so concurrent 401s trigger
// exactly one redirect.
func (s *Store) Invalidate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	was := s.authenticated
	s.clearLocked()
	if was {
		log.Info().Msg("session invalidated by server")
	}
	return was
}

// UpdateUser replaces the user record on an already-authenticated session
// (profile edits). It cannot establish a session.
func (s *Store) UpdateUser(user *User) error {
	if user == nil {
		return ErrIncompleteLogin
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authenticated {
		return ErrNotAuthenticated
	}
	s.user = user
	s.persistLocked()
	return nil
}

// RotateToken replaces the bearer token on an already-authenticated session.
func (s *Store) RotateToken(token string) error {
	if token == "" {
		return ErrIncompleteLogin
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authenticated {
		return ErrNotAuthenticated
	}
	s.token = token
	s.persistLocked()
	return nil
}

// Token returns the current bearer token, empty when anonymous.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Snapshot returns a value copy of the session for guard evaluation.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Token:         s.token,
		Authenticated: s.authenticated,
		Loading:       s.loading,
	}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

// completeLoginLocked applies the authenticated state. Caller holds mu.
func (s *Store) completeLoginLocked(user *User, token, refreshToken string) {
	s.user = user
	s.token = token
	s.refreshToken = refreshToken
	s.authenticated = true
	s.loading = false
	s.persistLocked()
}

// clearLocked resets to the anonymous state and erases the slot. Bumping
// the epoch discards any in-flight login. Caller holds mu.
func (s *Store) clearLocked() {
	s.user = nil
	s.token = ""
	s.refreshToken = ""
	s.authenticated = false
	s.loading = false
	s.epoch++

	if s.slot != nil {
		if err := s.slot.Erase(); err != nil {
			log.Warn().Err(err).Msg("failed to erase session snapshot")
		}
	}
}

// persistLocked writes the current snapshot to the slot. Caller holds mu.
func (s *Store) persistLocked() {
	if s.slot == nil {
		return
	}
	snap := snapshot{
		User:          s.user,
		Token:         s.token,
		RefreshToken:  s.refreshToken,
		Authenticated: s.authenticated,
	}
	if err := s.slot.Save(snap); err != nil {
		log.Warn().Err(err).Msg("failed to persist session snapshot")
	}
}

// classifyLoginError collapses authenticator failures into result kinds.
func classifyLoginError(err error) FailureKind {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return KindTransport
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindTransport
	}
	return KindUnknown
}
