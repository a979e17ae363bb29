package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// KV is the storage substrate: a synchronous, local, single-writer
// key-value store. It offers no multi-key atomicity; the engine orders
// its writes accordingly.
type KV interface {
	// Get returns the value stored under key, or ok=false if absent.
	Get(key string) (value []byte, ok bool, err error)
	// Put stores value under key, overwriting any previous value.
	Put(key string, value []byte) error
	// Del removes key. Removing an absent key is not an error.
	Del(key string) error
	// Close releases the substrate.
	Close() error
}

// Base keys of the persisted state layout. Collections are suffixed
// with the partition key; user and session records are process-wide.
const (
	keyTransactions = "zenledger_transactions"
	keyAccounts     = "zenledger_accounts"
	keyCategories   = "zenledger_categories"
	keyUsers        = "zenledger_users_registry"
	keyCurrentUser  = "zenledger_current_session"
	keySkipAuth     = "zenledger_skip_auth"
)

// Store persists the three record collections per partition, plus the
// process-wide user registry and session records. It exclusively owns
// the persisted bytes: every read decodes a whole collection, every
// write re-encodes it.
type Store struct {
	kv KV
}

// NewStore creates a store over the given substrate.
func NewStore(kv KV) *Store { return &Store{kv: kv} }

// Close releases the underlying substrate.
func (s *Store) Close() error { return s.kv.Close() }

// StoredUser is a registry entry: a user record plus its credential.
type StoredUser struct {
	User
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte `json:"passwordHash"`
}

func collectionKey(base, partition string) string {
	return base + "_" + partition
}

// getJSON decodes the collection stored under key into out. An absent
// key leaves out untouched and reports found=false. Bytes that fail to
// parse are surfaced as ErrStorageCorrupt, never as an empty collection.
func (s *Store) getJSON(key string, out any) (found bool, err error) {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		return false, fmt.Errorf("could not read %q: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("%w: key %q: %v", ErrStorageCorrupt, key, err)
	}
	return true, nil
}

func (s *Store) putJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not encode %q: %w", key, err)
	}
	if err := s.kv.Put(key, raw); err != nil {
		return fmt.Errorf("could not write %q: %w", key, err)
	}
	logrus.WithField("key", key).Debug("collection written")
	return nil
}

// Accounts returns the partition's accounts collection.
func (s *Store) Accounts(partition string) ([]Account, error) {
	var accounts []Account
	if _, err := s.getJSON(collectionKey(keyAccounts, partition), &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// SaveAccounts overwrites the partition's accounts collection.
func (s *Store) SaveAccounts(partition string, accounts []Account) error {
	return s.putJSON(collectionKey(keyAccounts, partition), accounts)
}

// Transactions returns the partition's transactions collection.
func (s *Store) Transactions(partition string) ([]Transaction, error) {
	var txs []Transaction
	if _, err := s.getJSON(collectionKey(keyTransactions, partition), &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// SaveTransactions overwrites the partition's transactions collection.
func (s *Store) SaveTransactions(partition string, txs []Transaction) error {
	return s.putJSON(collectionKey(keyTransactions, partition), txs)
}

// Categories returns the partition's categories collection. A missing
// collection is returned as nil; seeding defaults is the engine's call.
func (s *Store) Categories(partition string) ([]Category, error) {
	var cats []Category
	if _, err := s.getJSON(collectionKey(keyCategories, partition), &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// SaveCategories overwrites the partition's categories collection.
func (s *Store) SaveCategories(partition string, cats []Category) error {
	return s.putJSON(collectionKey(keyCategories, partition), cats)
}

// Users returns the registry mapping username to stored user record.
// The registry is process-wide, not partitioned.
func (s *Store) Users() (map[string]StoredUser, error) {
	users := make(map[string]StoredUser)
	if _, err := s.getJSON(keyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SaveUsers overwrites the user registry.
func (s *Store) SaveUsers(users map[string]StoredUser) error {
	return s.putJSON(keyUsers, users)
}

// CurrentUser returns the persisted session identity, or nil when no
// session exists.
func (s *Store) CurrentUser() (*User, error) {
	var u User
	found, err := s.getJSON(keyCurrentUser, &u)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &u, nil
}

// SetCurrentUser persists the session identity, or clears it when nil.
func (s *Store) SetCurrentUser(u *User) error {
	if u == nil {
		if err := s.kv.Del(keyCurrentUser); err != nil {
			return fmt.Errorf("could not clear session: %w", err)
		}
		return nil
	}
	return s.putJSON(keyCurrentUser, u)
}

// SkipAuth returns the persisted guest opt-in flag.
func (s *Store) SkipAuth() (bool, error) {
	var skip bool
	if _, err := s.getJSON(keySkipAuth, &skip); err != nil {
		return false, err
	}
	return skip, nil
}

// SetSkipAuth persists the guest opt-in flag.
func (s *Store) SetSkipAuth(skip bool) error {
	return s.putJSON(keySkipAuth, skip)
}
