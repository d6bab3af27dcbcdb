package auth

import "errors"

// Token and principal failure kinds. All are terminal for the current
// request; only ErrStoreUnavailable is safe to retry from a layer above.
var (
	// ErrMalformedToken covers tokens that cannot be parsed or whose
	// signature does not check out against the configured public key.
	ErrMalformedToken = errors.New("malformed token")

	// ErrExpiredToken is returned once the embedded expiry has elapsed.
	// The boundary is inclusive: a token is already expired at exp.
	ErrExpiredToken = errors.New("token expired")

	// ErrUntrustedToken is returned when issuer or audience do not match
	// the configured values.
	ErrUntrustedToken = errors.New("untrusted token")

	// ErrTokenTypeMismatch is returned when the token's type tag differs
	// from the type the caller expected.
	ErrTokenTypeMismatch = errors.New("token type mismatch")

	// ErrSessionRevoked is returned when a structurally valid token has no
	// live ledger entry backing it.
	ErrSessionRevoked = errors.New("session revoked")

	// ErrPrincipalNotFound is returned when a verified subject id maps to
	// no record in the selected store.
	ErrPrincipalNotFound = errors.New("principal not found")

	// ErrStoreUnavailable wraps transport failures talking to the ledger
	// or a principal store.
	ErrStoreUnavailable = errors.New("store unavailable")
)
