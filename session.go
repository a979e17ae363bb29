package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// GuestPartition is the partition key used when no user is logged in
// and the guest mode was opted into.
const GuestPartition = "guest"

// Session is the explicit session context: it holds at most one current
// user identity, or none, plus the guest opt-in flag. Both are
// persisted so the session survives process restarts; Logout clears it.
//
// Session is also the data partition resolver: Partition fails closed
// when no identity can be resolved.
type Session struct {
	store    *Store
	current  *User
	skipAuth bool
}

// OpenSession restores the persisted session state from the store.
func OpenSession(store *Store) (*Session, error) {
	current, err := store.CurrentUser()
	if err != nil {
		return nil, err
	}
	skip, err := store.SkipAuth()
	if err != nil {
		return nil, err
	}
	return &Session{store: store, current: current, skipAuth: skip}, nil
}

// Current returns the logged-in user, or nil.
func (s *Session) Current() *User { return s.current }

// GuestEnabled reports whether the guest opt-in is set.
func (s *Session) GuestEnabled() bool { return s.skipAuth }

// Partition resolves the storage partition for the current identity:
// the user's own partition when logged in, the guest partition when the
// guest mode was opted into, and ErrNoIdentity otherwise.
func (s *Session) Partition() (string, error) {
	if s.current != nil {
		return "user_" + s.current.ID, nil
	}
	if s.skipAuth {
		return GuestPartition, nil
	}
	return "", ErrNoIdentity
}

// Register creates a new user in the registry and logs it in. The
// credential is stored as a bcrypt hash, never in clear.
func (s *Session) Register(username, password string) (User, error) {
	if username == "" || password == "" {
		return User{}, fmt.Errorf("username and password must not be empty")
	}
	users, err := s.store.Users()
	if err != nil {
		return User{}, err
	}
	if _, taken := users[username]; taken {
		return User{}, fmt.Errorf("%q: %w", username, ErrDuplicateUser)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("could not hash password: %w", err)
	}
	user := User{ID: uuid.NewString(), Username: username}
	users[username] = StoredUser{User: user, PasswordHash: hash}
	if err := s.store.SaveUsers(users); err != nil {
		return User{}, err
	}
	if err := s.setCurrent(&user); err != nil {
		return User{}, err
	}
	logrus.WithField("user", username).Info("user registered")
	return user, nil
}

// Login checks the credential against the registry and makes the user
// current. The error never reveals whether the username or the password
// was wrong.
func (s *Session) Login(username, password string) (User, error) {
	users, err := s.store.Users()
	if err != nil {
		return User{}, err
	}
	stored, ok := users[username]
	if !ok {
		return User{}, ErrAuthFailure
	}
	if bcrypt.CompareHashAndPassword(stored.PasswordHash, []byte(password)) != nil {
		return User{}, ErrAuthFailure
	}
	if err := s.setCurrent(&stored.User); err != nil {
		return User{}, err
	}
	logrus.WithField("user", username).Info("user logged in")
	return stored.User, nil
}

// Logout clears the current identity. The guest opt-in is cleared too,
// so the next partition resolution fails closed until an explicit
// login or guest opt-in.
func (s *Session) Logout() error {
	if err := s.setCurrent(nil); err != nil {
		return err
	}
	if err := s.store.SetSkipAuth(false); err != nil {
		return err
	}
	s.skipAuth = false
	return nil
}

// EnableGuest opts into the guest partition for anonymous use.
func (s *Session) EnableGuest() error {
	if err := s.store.SetSkipAuth(true); err != nil {
		return err
	}
	s.skipAuth = true
	return nil
}

func (s *Session) setCurrent(u *User) error {
	if err := s.store.SetCurrentUser(u); err != nil {
		return err
	}
	s.current = u
	return nil
}
