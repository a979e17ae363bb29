package ledger

import "errors"

// Sentinel errors returned by the engine, the session and the store.
// Callers are expected to test them with errors.Is; every return site
// wraps them with context using fmt.Errorf and %w.
var (
	// ErrInvalidAmount reports a transaction amount that is not a
	// strictly positive number.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidReference reports a category or account id that does not
	// resolve to a live record in the partition.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrNotFound reports an update or delete whose target record does
	// not exist in the partition.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUser reports a registration with an already taken username.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrAuthFailure reports a credential mismatch on login. The message
	// never reveals whether the username or the password was wrong.
	ErrAuthFailure = errors.New("invalid credentials")

	// ErrStorageCorrupt reports persisted bytes that fail to parse.
	// Corrupt data is surfaced, never silently read as an empty collection.
	ErrStorageCorrupt = errors.New("storage corrupt")

	// ErrNoIdentity reports that no partition could be resolved: there is
	// no logged-in user and the guest mode was not opted into.
	ErrNoIdentity = errors.New("no identity resolved")
)
