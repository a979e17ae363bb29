package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	store := NewStore(NewMemoryKV())
	t.Cleanup(func() { store.Close() })
	return NewEngine(store, "user_test")
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func assertBalance(t *testing.T, e *Engine, accountID, want string) {
	t.Helper()
	accounts, err := e.Accounts()
	require.NoError(t, err)
	for _, a := range accounts {
		if a.ID == accountID {
			assert.True(t, a.Balance.Equal(dec(t, want)),
				"account %s balance = %s, want %s", a.Name, a.Balance, want)
			return
		}
	}
	t.Fatalf("account %s not found", accountID)
}

// -- CreateAccount / RemoveAccount --

func TestCreateAccount(t *testing.T) {
	e := newTestEngine(t)

	a, err := e.CreateAccount("checking", Bank, dec(t, "1200"))
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assertBalance(t, e, a.ID, "1200")

	// unknown kinds are accepted, the enumeration is open
	b, err := e.CreateAccount("points", AccountKind("loyalty-card"), dec(t, "0"))
	require.NoError(t, err)
	assert.False(t, b.Kind.Known())

	_, err = e.CreateAccount("", Cash, dec(t, "0"))
	assert.Error(t, err)
}

func TestRemoveAccount(t *testing.T) {
	e := newTestEngine(t)

	a, err := e.CreateAccount("cash", Cash, dec(t, "0"))
	require.NoError(t, err)

	require.NoError(t, e.RemoveAccount(a.ID))
	accounts, err := e.Accounts()
	require.NoError(t, err)
	assert.Empty(t, accounts)

	assert.ErrorIs(t, e.RemoveAccount(a.ID), ErrNotFound)
}

// -- Record --

func TestRecordAppliesSignedEffect(t *testing.T) {
	e := newTestEngine(t)
	a, err := e.CreateAccount("cash", Cash, dec(t, "100"))
	require.NoError(t, err)

	_, err = e.Record(Draft{Amount: dec(t, "25"), Kind: Expense, CategoryID: "c1", AccountID: a.ID})
	require.NoError(t, err)
	assertBalance(t, e, a.ID, "75")

	_, err = e.Record(Draft{Amount: dec(t, "50"), Kind: Income, CategoryID: "c9", AccountID: a.ID})
	require.NoError(t, err)
	assertBalance(t, e, a.ID, "125")
}

func TestRecordValidation(t *testing.T) {
	e := newTestEngine(t)
	a, err := e.CreateAccount("cash", Cash, dec(t, "0"))
	require.NoError(t, err)

	testCases := []struct {
		name  string
		draft Draft
		want  error
	}{
		{
			name:  "zero amount",
			draft: Draft{Amount: dec(t, "0"), Kind: Expense, CategoryID: "c1", AccountID: a.ID},
			want:  ErrInvalidAmount,
		},
		{
			name:  "negative amount",
			draft: Draft{Amount: dec(t, "-5"), Kind: Expense, CategoryID: "c1", AccountID: a.ID},
			want:  ErrInvalidAmount,
		},
		{
			name:  "dangling category",
			draft: Draft{Amount: dec(t, "5"), Kind: Expense, CategoryID: "nope", AccountID: a.ID},
			want:  ErrInvalidReference,
		},
		{
			name:  "dangling account",
			draft: Draft{Amount: dec(t, "5"), Kind: Expense, CategoryID: "c1", AccountID: "nope"},
			want:  ErrInvalidReference,
		},
		{
			name:  "transfer without counter account",
			draft: Draft{Amount: dec(t, "5"), Kind: Transfer, CategoryID: "c8", AccountID: a.ID},
			want:  ErrInvalidReference,
		},
		{
			name:  "transfer to itself",
			draft: Draft{Amount: dec(t, "5"), Kind: Transfer, CategoryID: "c8", AccountID: a.ID, CounterAccountID: a.ID},
			want:  ErrInvalidReference,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.Record(tc.draft)
			assert.ErrorIs(t, err, tc.want)
			// no partial application: the balance must be untouched
			assertBalance(t, e, a.ID, "0")
		})
	}
}

func TestTransferMovesBetweenAccounts(t *testing.T) {
	e := newTestEngine(t)
	src, err := e.CreateAccount("checking", Bank, dec(t, "500"))
	require.NoError(t, err)
	dst, err := e.CreateAccount("savings", Bank, dec(t, "0"))
	require.NoError(t, err)

	tx, err := e.Record(Draft{Amount: dec(t, "200"), Kind: Transfer, CategoryID: "c8",
		AccountID: src.ID, CounterAccountID: dst.ID})
	require.NoError(t, err)
	assertBalance(t, e, src.ID, "300")
	assertBalance(t, e, dst.ID, "200")

	require.NoError(t, e.Delete(tx.ID))
	assertBalance(t, e, src.ID, "500")
	assertBalance(t, e, dst.ID, "0")
}

// -- Update / Delete --

// The scenario from the drawing board: expense 25 on a zero account,
// edited to 40, then deleted.
func TestEditThenDeleteScenario(t *testing.T) {
	e := newTestEngine(t)
	a, err := e.CreateAccount("cash", Cash, dec(t, "0"))
	require.NoError(t, err)

	tx, err := e.Record(Draft{Amount: dec(t, "25"), Kind: Expense, CategoryID: "c1", AccountID: a.ID})
	require.NoError(t, err)
	assertBalance(t, e, a.ID, "-25")

	_, err = e.Update(tx.ID, Draft{Amount: dec(t, "40"), Kind: Expense, CategoryID: "c1", AccountID: a.ID})
	require.NoError(t, err)
	assertBalance(t, e, a.ID, "-40")

	require.NoError(t, e.Delete(tx.ID))
	assertBalance(t, e, a.ID, "0")
}

func TestUpdateMovesEffectAcrossAccounts(t *testing.T) {
	e := newTestEngine(t)
	a, err := e.CreateAccount("a", Cash, dec(t, "100"))
	require.NoError(t, err)
	b, err := e.CreateAccount("b", Cash, dec(t, "0"))
	require.NoError(t, err)

	tx, err := e.Record(Draft{Amount: dec(t, "50"), Kind: Income, CategoryID: "c9", AccountID: a.ID})
	require.NoError(t, err)
	assertBalance(t, e, a.ID, "150")

	// retargeting the income must revert a and credit b
	_, err = e.Update(tx.ID, Draft{Amount: dec(t, "50"), Kind: Income, CategoryID: "c9", AccountID: b.ID})
	require.NoError(t, err)
	assertBalance(t, e, a.ID, "100")
	assertBalance(t, e, b.ID, "50")
}

// Update must be balance-equivalent to delete-then-record, even when
// kind, amount and account all change at once.
func TestUpdateEquivalence(t *testing.T) {
	newFixture := func(t *testing.T) (*Engine, Account, Account, Transaction) {
		e := newTestEngine(t)
		a, err := e.CreateAccount("a", Cash, dec(t, "100"))
		require.NoError(t, err)
		b, err := e.CreateAccount("b", Bank, dec(t, "20"))
		require.NoError(t, err)
		tx, err := e.Record(Draft{Amount: dec(t, "30"), Kind: Expense, CategoryID: "c1", AccountID: a.ID})
		require.NoError(t, err)
		return e, a, b, tx
	}
	replacement := func(b Account) Draft {
		return Draft{Amount: dec(t, "45.50"), Kind: Income, CategoryID: "c9", AccountID: b.ID}
	}

	// once via Update
	e1, _, b1, tx1 := newFixture(t)
	_, err := e1.Update(tx1.ID, replacement(b1))
	require.NoError(t, err)

	// once via Delete + Record
	e2, _, b2, tx2 := newFixture(t)
	require.NoError(t, e2.Delete(tx2.ID))
	_, err = e2.Record(replacement(b2))
	require.NoError(t, err)

	accs1, err := e1.Accounts()
	require.NoError(t, err)
	accs2, err := e2.Accounts()
	require.NoError(t, err)
	require.Len(t, accs1, 2)
	require.Len(t, accs2, 2)
	for i := range accs1 {
		assert.True(t, accs1[i].Balance.Equal(accs2[i].Balance),
			"account %s: update gave %s, delete+record gave %s", accs1[i].Name, accs1[i].Balance, accs2[i].Balance)
	}
}

// Record then delete must restore every balance to the exact
// pre-creation value, with no decimal drift.
func TestRecordDeleteRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	a, err := e.CreateAccount("cash", Cash, dec(t, "123.45"))
	require.NoError(t, err)

	tx, err := e.Record(Draft{Amount: dec(t, "0.1"), Kind: Expense, CategoryID: "c1", AccountID: a.ID})
	require.NoError(t, err)
	require.NoError(t, e.Delete(tx.ID))
	assertBalance(t, e, a.ID, "123.45")
}

// A failed update validation must leave both the stored transaction
// and the balances exactly as they were: the old effect is not
// reversed for a replacement that never gets applied.
func TestUpdateValidationLeavesStateUntouched(t *testing.T) {
	e := newTestEngine(t)
	a, err := e.CreateAccount("cash", Cash, dec(t, "0"))
	require.NoError(t, err)
	tx, err := e.Record(Draft{Amount: dec(t, "25"), Kind: Expense, CategoryID: "c1", AccountID: a.ID})
	require.NoError(t, err)

	_, err = e.Update(tx.ID, Draft{Amount: dec(t, "40"), Kind: Expense, CategoryID: "c1", AccountID: "nope"})
	assert.ErrorIs(t, err, ErrInvalidReference)
	assertBalance(t, e, a.ID, "-25")

	stored, err := e.Transaction(tx.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(dec(t, "25")), "stored amount = %s, want 25", stored.Amount)
	assert.Equal(t, a.ID, stored.AccountID)
}

func TestUpdateDeleteNotFound(t *testing.T) {
	e := newTestEngine(t)
	a, err := e.CreateAccount("cash", Cash, dec(t, "0"))
	require.NoError(t, err)

	_, err = e.Update("missing", Draft{Amount: dec(t, "1"), Kind: Expense, CategoryID: "c1", AccountID: a.ID})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, e.Delete("missing"), ErrNotFound)

	_, err = e.Transaction("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

// -- Orphans --

func TestOrphanedTransactionsStayInStorage(t *testing.T) {
	e := newTestEngine(t)
	a, err := e.CreateAccount("doomed", Cash, dec(t, "0"))
	require.NoError(t, err)
	keep, err := e.CreateAccount("keep", Cash, dec(t, "10"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = e.Record(Draft{Amount: dec(t, "5"), Kind: Expense, CategoryID: "c1", AccountID: a.ID})
		require.NoError(t, err)
	}
	require.NoError(t, e.RemoveAccount(a.ID))
	assertBalance(t, e, keep.ID, "10")

	// records survive the account
	txs, err := e.Transactions()
	require.NoError(t, err)
	assert.Len(t, txs, 3)

	// but no aggregate counts them anymore
	accounts, err := e.Accounts()
	require.NoError(t, err)
	assert.True(t, NetWorth(accounts).Equal(dec(t, "10")))
	s := SummarizeMonth(accounts, txs, Today())
	assert.True(t, s.Expense.IsZero(), "orphaned expenses leaked into the summary: %s", s.Expense)
}

func TestDeleteOrphanIsBalanceNoop(t *testing.T) {
	e := newTestEngine(t)
	a, err := e.CreateAccount("doomed", Cash, dec(t, "0"))
	require.NoError(t, err)
	keep, err := e.CreateAccount("keep", Cash, dec(t, "50"))
	require.NoError(t, err)

	tx, err := e.Record(Draft{Amount: dec(t, "5"), Kind: Expense, CategoryID: "c1", AccountID: a.ID})
	require.NoError(t, err)
	require.NoError(t, e.RemoveAccount(a.ID))

	// reversing an orphan touches no surviving balance
	require.NoError(t, e.Delete(tx.ID))
	assertBalance(t, e, keep.ID, "50")

	txs, err := e.Transactions()
	require.NoError(t, err)
	assert.Empty(t, txs)
}

// -- Categories --

func TestCategoriesSeededOnFirstRead(t *testing.T) {
	e := newTestEngine(t)

	cats, err := e.Categories()
	require.NoError(t, err)
	require.Len(t, cats, 11)

	var expense, income int
	for _, c := range cats {
		switch c.Kind {
		case Expense:
			expense++
		case Income:
			income++
		}
	}
	assert.Equal(t, 8, expense)
	assert.Equal(t, 3, income)

	// the seeded list is stable across repeated reads
	again, err := e.Categories()
	require.NoError(t, err)
	assert.Equal(t, cats, again)
}

func TestPartitionsAreIsolated(t *testing.T) {
	store := NewStore(NewMemoryKV())
	defer store.Close()
	alice := NewEngine(store, "user_alice")
	bob := NewEngine(store, "user_bob")

	_, err := alice.CreateAccount("cash", Cash, dec(t, "100"))
	require.NoError(t, err)

	accounts, err := bob.Accounts()
	require.NoError(t, err)
	assert.Empty(t, accounts, "bob can see alice's accounts")
}

func TestRecordDefaultsDateToNow(t *testing.T) {
	e := newTestEngine(t)
	a, err := e.CreateAccount("cash", Cash, dec(t, "0"))
	require.NoError(t, err)

	tx, err := e.Record(Draft{Amount: dec(t, "1"), Kind: Expense, CategoryID: "c1", AccountID: a.ID})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), tx.Date, time.Minute)
}
