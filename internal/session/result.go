package session

// FailureKind classifies why a login attempt did not authenticate.
type FailureKind string

const (
	// KindInvalidCredentials means the email/password pair was rejected.
	KindInvalidCredentials FailureKind = "invalid_credentials"

	// KindTransport means the credential check never completed (network
	// unreachable, timeout, cancelled).
	KindTransport FailureKind = "network_error"

	// KindSuperseded means a newer login attempt started before this one
	// settled; its result was discarded.
	KindSuperseded FailureKind = "superseded"

	// KindUnknown covers everything else.
	KindUnknown FailureKind = "unknown"
)

// LoginResult is the outcome of Store.Login. Login never returns a Go error;
// failures are carried here so callers can render differentiated messaging.
type LoginResult struct {
	OK   bool
	Kind FailureKind
}

// Message returns a user-facing description of a failed attempt.
func (r LoginResult) Message() string {
	if r.OK {
		return ""
	}
	switch r.Kind {
	case KindInvalidCredentials:
		return "email or password incorrect"
	case KindTransport:
		return "could not reach the server, try again"
	case KindSuperseded:
		return "a newer sign-in attempt replaced this one"
	default:
		return "sign-in failed"
	}
}
