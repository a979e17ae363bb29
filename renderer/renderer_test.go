package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	ledger "github.com/zenledger/zenledger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestIconGlyph(t *testing.T) {
	if got := IconGlyph(ledger.IconUtensils); got != "🍜" {
		t.Errorf("IconGlyph(utensils) = %q", got)
	}
	if got := IconGlyph(ledger.Icon("sparkles")); got != iconFallback {
		t.Errorf("unknown icon = %q, want fallback", got)
	}
}

func TestAccounts(t *testing.T) {
	got := Accounts([]ledger.Account{
		{ID: "a1", Name: "checking", Kind: ledger.Bank, Balance: d("1200")},
		{ID: "a2", Name: "wallet", Kind: ledger.AccountKind("mystery"), Balance: d("-50")},
	}, "USD")

	for _, want := range []string{"checking", "bank", "$1,200.00", "other", "**Net worth**: $1,150.00"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}

	if got := Accounts(nil, "USD"); !strings.Contains(got, "No accounts yet.") {
		t.Errorf("empty list rendering:\n%s", got)
	}
}

func TestTransactions(t *testing.T) {
	accounts := []ledger.Account{
		{ID: "a1", Name: "checking"},
		{ID: "a2", Name: "savings"},
	}
	cats := []ledger.Category{{ID: "c1", Name: "Food & Drinks", Icon: ledger.IconUtensils, Kind: ledger.Expense}}
	date := time.Date(2026, time.March, 28, 0, 0, 0, 0, time.UTC)
	txs := []ledger.Transaction{
		{ID: "t1", Kind: ledger.Expense, Amount: d("25"), CategoryID: "c1", AccountID: "a1", Date: date, Note: "lunch"},
		{ID: "t2", Kind: ledger.Transfer, Amount: d("100"), AccountID: "a1", CounterAccountID: "a2", Date: date},
		{ID: "t3", Kind: ledger.Income, Amount: d("10"), CategoryID: "c1", AccountID: "gone", Date: date},
	}

	got := Transactions(txs, accounts, cats, "USD")
	for _, want := range []string{
		"2026-03-28",
		"🍜",
		"-$25.00",            // expenses rendered negative
		"checking → savings", // transfer shows both ends
		"(orphaned)",         // dangling account stays visible, marked
		"lunch",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestSummary(t *testing.T) {
	month := ledger.MonthSummary{Year: 2026, Month: time.March, Income: d("1000"), Expense: d("250")}
	got := Summary([]ledger.Account{{ID: "a", Balance: d("500")}}, month, "USD")
	for _, want := range []string{"March 2026", "$500.00", "$1,000.00", "$250.00", "+$750.00"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestStats(t *testing.T) {
	breakdown := []ledger.CategoryTotal{{CategoryID: "c1", Name: "Food & Drinks", Total: d("60")}}
	series := []ledger.MonthSummary{
		{Year: 2026, Month: time.February, Income: d("0"), Expense: d("0")},
		{Year: 2026, Month: time.March, Income: d("100"), Expense: d("60")},
	}
	got := Stats(breakdown, series, "USD")
	for _, want := range []string{"Food & Drinks", "$60.00", "Feb 2026", "Mar 2026", "$100.00"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}
