package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Engine is the ledger consistency engine for one partition. It is the
// only component allowed to translate account and transaction mutations
// into storage writes, and it maintains the invariant that every
// account balance equals its opening balance plus the sum of signed
// effects of the live transactions referencing it.
//
// The substrate offers no multi-record atomicity, so every mutation
// computes the complete new state of all affected collections in memory
// before issuing the first write. Callers must serialize engine calls
// per partition; there is no internal locking.
type Engine struct {
	store     *Store
	partition string
}

// NewEngine creates an engine scoped to the given partition.
func NewEngine(store *Store, partition string) *Engine {
	return &Engine{store: store, partition: partition}
}

// Partition returns the partition this engine is scoped to.
func (e *Engine) Partition() string { return e.partition }

// CreateAccount creates an account with the given opening balance.
// Unknown kinds are accepted: the account kind is an open enumeration
// and unknown values merely fall back to a default rendering.
func (e *Engine) CreateAccount(name string, kind AccountKind, opening decimal.Decimal) (Account, error) {
	if name == "" {
		return Account{}, fmt.Errorf("account name must not be empty")
	}
	accounts, err := e.store.Accounts(e.partition)
	if err != nil {
		return Account{}, err
	}
	account := Account{
		ID:      uuid.NewString(),
		Name:    name,
		Kind:    kind,
		Balance: opening,
	}
	accounts = append(accounts, account)
	if err := e.store.SaveAccounts(e.partition, accounts); err != nil {
		return Account{}, err
	}
	logrus.WithFields(logrus.Fields{"partition": e.partition, "account": account.ID}).
		Info("account created")
	return account, nil
}

// RemoveAccount deletes the account record. It does not touch
// transactions: entries referencing the removed id become orphans,
// retained in storage but excluded from balances and aggregates.
func (e *Engine) RemoveAccount(id string) error {
	accounts, err := e.store.Accounts(e.partition)
	if err != nil {
		return err
	}
	kept := accounts[:0]
	found := false
	for _, a := range accounts {
		if a.ID == id {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return fmt.Errorf("account %q: %w", id, ErrNotFound)
	}
	if err := e.store.SaveAccounts(e.partition, kept); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"partition": e.partition, "account": id}).
		Info("account removed")
	return nil
}

// Record validates the draft, appends the transaction, and applies its
// signed effect to the referenced account balances. The category and
// every account reference must resolve in the partition; dangling
// references are rejected rather than silently stored.
func (e *Engine) Record(d Draft) (Transaction, error) {
	accounts, txs, err := e.load()
	if err != nil {
		return Transaction{}, err
	}
	if err := e.validate(d, accounts); err != nil {
		return Transaction{}, err
	}
	tx := Transaction{
		ID:               uuid.NewString(),
		Amount:           d.Amount,
		Kind:             d.Kind,
		CategoryID:       d.CategoryID,
		AccountID:        d.AccountID,
		CounterAccountID: d.CounterAccountID,
		Date:             d.Date,
		Note:             d.Note,
	}
	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}
	txs = append(txs, tx)
	applyEffects(accounts, tx.effects())

	// Record first, then balances: a crash in between leaves a
	// transaction whose effect can be recomputed, not a balance whose
	// transaction is missing.
	if err := e.store.SaveTransactions(e.partition, txs); err != nil {
		return Transaction{}, err
	}
	if err := e.store.SaveAccounts(e.partition, accounts); err != nil {
		return Transaction{}, err
	}
	logrus.WithFields(logrus.Fields{"partition": e.partition, "tx": tx.ID, "kind": tx.Kind}).
		Info("transaction recorded")
	return tx, nil
}

// Update replaces the transaction's content, keeping balances
// equivalent to deleting the old entry and recording the new one, even
// when the account reference changes. The old effect is always computed
// from the stored record, never from caller-supplied data.
func (e *Engine) Update(id string, d Draft) (Transaction, error) {
	accounts, txs, err := e.load()
	if err != nil {
		return Transaction{}, err
	}
	idx := -1
	for i := range txs {
		if txs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Transaction{}, fmt.Errorf("transaction %q: %w", id, ErrNotFound)
	}
	if err := e.validate(d, accounts); err != nil {
		return Transaction{}, err
	}
	old := txs[idx]
	updated := Transaction{
		ID:               old.ID,
		Amount:           d.Amount,
		Kind:             d.Kind,
		CategoryID:       d.CategoryID,
		AccountID:        d.AccountID,
		CounterAccountID: d.CounterAccountID,
		Date:             d.Date,
		Note:             d.Note,
	}
	if updated.Date.IsZero() {
		updated.Date = old.Date
	}

	// Reverse the stored old effect on its original account(s), then
	// apply the new effect on the (possibly different) new account(s).
	applyEffects(accounts, old.effects().negated())
	applyEffects(accounts, updated.effects())
	txs[idx] = updated

	if err := e.store.SaveTransactions(e.partition, txs); err != nil {
		return Transaction{}, err
	}
	if err := e.store.SaveAccounts(e.partition, accounts); err != nil {
		return Transaction{}, err
	}
	logrus.WithFields(logrus.Fields{"partition": e.partition, "tx": id}).
		Info("transaction updated")
	return updated, nil
}

// Delete reverses the transaction's balance effect and removes the
// record. Sides whose account no longer exists are skipped: reversing
// an orphan is a no-op on balances.
func (e *Engine) Delete(id string) error {
	accounts, txs, err := e.load()
	if err != nil {
		return err
	}
	idx := -1
	for i := range txs {
		if txs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("transaction %q: %w", id, ErrNotFound)
	}
	applyEffects(accounts, txs[idx].effects().negated())
	txs = append(txs[:idx], txs[idx+1:]...)

	if err := e.store.SaveTransactions(e.partition, txs); err != nil {
		return err
	}
	if err := e.store.SaveAccounts(e.partition, accounts); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"partition": e.partition, "tx": id}).
		Info("transaction deleted")
	return nil
}

// Accounts returns the partition's accounts.
func (e *Engine) Accounts() ([]Account, error) {
	return e.store.Accounts(e.partition)
}

// Transactions returns the partition's transactions, orphans included.
func (e *Engine) Transactions() ([]Transaction, error) {
	return e.store.Transactions(e.partition)
}

// Transaction returns the transaction with the given id.
func (e *Engine) Transaction(id string) (Transaction, error) {
	txs, err := e.store.Transactions(e.partition)
	if err != nil {
		return Transaction{}, err
	}
	for _, tx := range txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return Transaction{}, fmt.Errorf("transaction %q: %w", id, ErrNotFound)
}

// Categories returns the partition's categories, seeding the default
// set on first access. The seeded list is persisted, so repeated reads
// are stable.
func (e *Engine) Categories() ([]Category, error) {
	cats, err := e.store.Categories(e.partition)
	if err != nil {
		return nil, err
	}
	if len(cats) > 0 {
		return cats, nil
	}
	cats = DefaultCategories()
	if err := e.store.SaveCategories(e.partition, cats); err != nil {
		return nil, err
	}
	logrus.WithField("partition", e.partition).Info("default categories seeded")
	return cats, nil
}

func (e *Engine) load() ([]Account, []Transaction, error) {
	accounts, err := e.store.Accounts(e.partition)
	if err != nil {
		return nil, nil, err
	}
	txs, err := e.store.Transactions(e.partition)
	if err != nil {
		return nil, nil, err
	}
	return accounts, txs, nil
}

// validate checks a draft against the partition state. No balance
// mutation can occur unless validation passes in full.
func (e *Engine) validate(d Draft, accounts []Account) error {
	if !d.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidAmount, d.Amount)
	}
	switch d.Kind {
	case Expense, Income, Transfer:
	default:
		return fmt.Errorf("unknown flow kind: %q", d.Kind)
	}
	cats, err := e.Categories()
	if err != nil {
		return err
	}
	if !hasCategory(cats, d.CategoryID) {
		return fmt.Errorf("%w: category %q", ErrInvalidReference, d.CategoryID)
	}
	if !hasAccount(accounts, d.AccountID) {
		return fmt.Errorf("%w: account %q", ErrInvalidReference, d.AccountID)
	}
	if d.Kind == Transfer {
		if !hasAccount(accounts, d.CounterAccountID) {
			return fmt.Errorf("%w: counter account %q", ErrInvalidReference, d.CounterAccountID)
		}
		if d.CounterAccountID == d.AccountID {
			return fmt.Errorf("%w: transfer to the same account", ErrInvalidReference)
		}
	}
	return nil
}

func hasCategory(cats []Category, id string) bool {
	for _, c := range cats {
		if c.ID == id {
			return true
		}
	}
	return false
}

func hasAccount(accounts []Account, id string) bool {
	for _, a := range accounts {
		if a.ID == id {
			return true
		}
	}
	return false
}

// effects is the set of per-account balance deltas a transaction applies.
type effects map[string]decimal.Decimal

// effects returns the signed balance deltas of the transaction:
// expense subtracts from its account, income adds to it, and a transfer
// moves the amount from the source to the counter account.
func (t Transaction) effects() effects {
	switch t.Kind {
	case Expense:
		return effects{t.AccountID: t.Amount.Neg()}
	case Income:
		return effects{t.AccountID: t.Amount}
	case Transfer:
		return effects{
			t.AccountID:        t.Amount.Neg(),
			t.CounterAccountID: t.Amount,
		}
	default:
		return effects{}
	}
}

func (f effects) negated() effects {
	n := make(effects, len(f))
	for id, delta := range f {
		n[id] = delta.Neg()
	}
	return n
}

// applyEffects adds each delta to its account's balance. Deltas aimed
// at accounts that no longer exist are skipped: orphaned sides have no
// balance to maintain.
func applyEffects(accounts []Account, f effects) {
	for i := range accounts {
		if delta, ok := f[accounts[i].ID]; ok {
			accounts[i].Balance = accounts[i].Balance.Add(delta)
		}
	}
}
