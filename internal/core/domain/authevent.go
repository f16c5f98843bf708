package domain

// AuthEventKind tags the asynchronous notifications emitted by the remote
// auth provider.
type AuthEventKind string

const (
	AuthSignedIn       AuthEventKind = "signed_in"
	AuthTokenRefreshed AuthEventKind = "token_refreshed"
	AuthSignedOut      AuthEventKind = "signed_out"
	AuthAccountDeleted AuthEventKind = "account_deleted"
)

// AuthEvent is delivered on the provider's event stream. IdentityID is empty
// for sign-out style events.
type AuthEvent struct {
	Kind       AuthEventKind
	IdentityID string
}
