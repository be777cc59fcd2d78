package session

import (
	"time"

	"github.com/minhnghia2k3/lumigram/internal/domain"
)

// DefaultTTL is the credential lifetime, matching the 3-day cookie the web
// client sets.
const DefaultTTL = 72 * time.Hour

// Store holds the opaque bearer credential. Implementations must read the
// underlying storage at call time, not cache a value captured at
// construction, so login/logout within the same process is always observed.
type Store interface {
	// Token returns the current credential. It returns
	// errors.ErrNotAuthenticated when no credential is present or the stored
	// one has expired.
	Token() (string, error)

	// Set persists a new credential with the given lifetime.
	Set(token string, ttl time.Duration) error

	// Clear removes the credential. It is idempotent.
	Clear() error

	// Authenticated is a pure predicate on credential presence. It performs
	// no network I/O.
	Authenticated() bool

	// CurrentUser returns the cached current-user record, or nil when none
	// has been stored.
	CurrentUser() *domain.User

	// SetCurrentUser replaces the cached current-user record. A nil user
	// clears it.
	SetCurrentUser(user *domain.User) error
}
