package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func on(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 12, 0, 0, 0, time.UTC)
}

func TestNetWorth(t *testing.T) {
	accounts := []Account{
		{ID: "a", Balance: d("100.50")},
		{ID: "b", Balance: d("-20")},
		{ID: "c", Balance: d("0.50")},
	}
	if got, want := NetWorth(accounts), d("81"); !got.Equal(want) {
		t.Errorf("NetWorth() = %s, want %s", got, want)
	}
	if got := NetWorth(nil); !got.IsZero() {
		t.Errorf("NetWorth(nil) = %s, want 0", got)
	}
}

func TestSummarizeMonth(t *testing.T) {
	accounts := []Account{{ID: "a"}, {ID: "b"}}
	txs := []Transaction{
		{ID: "1", Kind: Income, Amount: d("1000"), AccountID: "a", Date: on(2026, time.March, 1)},
		{ID: "2", Kind: Expense, Amount: d("250"), AccountID: "a", Date: on(2026, time.March, 15)},
		{ID: "3", Kind: Expense, Amount: d("50"), AccountID: "b", Date: on(2026, time.March, 31)},
		// different month, must not count
		{ID: "4", Kind: Expense, Amount: d("999"), AccountID: "a", Date: on(2026, time.April, 1)},
		// transfer, must not count
		{ID: "5", Kind: Transfer, Amount: d("500"), AccountID: "a", CounterAccountID: "b", Date: on(2026, time.March, 10)},
		// orphan, must not count
		{ID: "6", Kind: Income, Amount: d("77"), AccountID: "gone", Date: on(2026, time.March, 20)},
	}

	s := SummarizeMonth(accounts, txs, NewDate(2026, time.March, 28))
	if !s.Income.Equal(d("1000")) {
		t.Errorf("Income = %s, want 1000", s.Income)
	}
	if !s.Expense.Equal(d("300")) {
		t.Errorf("Expense = %s, want 300", s.Expense)
	}
}

func TestExpenseBreakdown(t *testing.T) {
	accounts := []Account{{ID: "a"}}
	cats := []Category{
		{ID: "c1", Name: "Food & Drinks"},
		{ID: "c2", Name: "Transport"},
		{ID: "c3", Name: "Shopping"},
	}
	txs := []Transaction{
		{ID: "1", Kind: Expense, Amount: d("10"), CategoryID: "c2", AccountID: "a"},
		{ID: "2", Kind: Expense, Amount: d("60"), CategoryID: "c1", AccountID: "a"},
		{ID: "3", Kind: Expense, Amount: d("15"), CategoryID: "c2", AccountID: "a"},
		{ID: "4", Kind: Income, Amount: d("500"), CategoryID: "c3", AccountID: "a"},
		{ID: "5", Kind: Expense, Amount: d("5"), CategoryID: "ghost", AccountID: "a"},
		{ID: "6", Kind: Expense, Amount: d("40"), CategoryID: "c1", AccountID: "gone"},
	}

	rows := ExpenseBreakdown(accounts, txs, cats)
	want := []struct {
		name  string
		total string
	}{
		{"Food & Drinks", "60"},
		{"Transport", "25"},
		{"ghost", "5"}, // dangling category shows the raw id
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d: %v", len(rows), len(want), rows)
	}
	for i, w := range want {
		if rows[i].Name != w.name || !rows[i].Total.Equal(d(w.total)) {
			t.Errorf("row %d = %s %s, want %s %s", i, rows[i].Name, rows[i].Total, w.name, w.total)
		}
	}
}

func TestMonthlySeries(t *testing.T) {
	accounts := []Account{{ID: "a"}}
	txs := []Transaction{
		{ID: "1", Kind: Income, Amount: d("100"), AccountID: "a", Date: on(2026, time.January, 5)},
		{ID: "2", Kind: Expense, Amount: d("30"), AccountID: "a", Date: on(2026, time.March, 5)},
		{ID: "3", Kind: Expense, Amount: d("70"), AccountID: "a", Date: on(2025, time.December, 5)},
	}

	series := MonthlySeries(accounts, txs, NewDate(2026, time.March, 20), 3)
	if len(series) != 3 {
		t.Fatalf("got %d buckets, want 3", len(series))
	}
	// chronological: january, february, march
	if series[0].Month != time.January || series[2].Month != time.March {
		t.Fatalf("buckets out of order: %v", series)
	}
	if !series[0].Income.Equal(d("100")) {
		t.Errorf("january income = %s, want 100", series[0].Income)
	}
	if !series[1].Income.IsZero() || !series[1].Expense.IsZero() {
		t.Errorf("february should be a zero bucket, got %+v", series[1])
	}
	if !series[2].Expense.Equal(d("30")) {
		t.Errorf("march expense = %s, want 30", series[2].Expense)
	}
}

// Series spanning a year boundary must bucket by year+month, not month alone.
func TestMonthlySeriesYearBoundary(t *testing.T) {
	accounts := []Account{{ID: "a"}}
	txs := []Transaction{
		{ID: "1", Kind: Expense, Amount: d("10"), AccountID: "a", Date: on(2025, time.November, 5)},
		{ID: "2", Kind: Expense, Amount: d("20"), AccountID: "a", Date: on(2026, time.February, 5)},
	}

	series := MonthlySeries(accounts, txs, NewDate(2026, time.February, 10), 6)
	if len(series) != 6 {
		t.Fatalf("got %d buckets, want 6", len(series))
	}
	if series[0].Year != 2025 || series[0].Month != time.September {
		t.Fatalf("first bucket = %d-%s, want 2025-September", series[0].Year, series[0].Month)
	}
	if !series[2].Expense.Equal(d("10")) {
		t.Errorf("november expense = %s, want 10", series[2].Expense)
	}
	if !series[5].Expense.Equal(d("20")) {
		t.Errorf("february expense = %s, want 20", series[5].Expense)
	}
}

func TestMonthlySeriesNonPositiveCount(t *testing.T) {
	for _, n := range []int{0, -1, -6} {
		if got := MonthlySeries(nil, nil, NewDate(2026, time.March, 1), n); len(got) != 0 {
			t.Errorf("MonthlySeries(n=%d) = %v, want empty", n, got)
		}
	}
}

func TestTopExpenseCategories(t *testing.T) {
	accounts := []Account{{ID: "a"}}
	cats := []Category{{ID: "c1", Name: "Food"}, {ID: "c2", Name: "Rent"}, {ID: "c3", Name: "Fun"}}
	txs := []Transaction{
		{ID: "1", Kind: Expense, Amount: d("800"), CategoryID: "c2", AccountID: "a"},
		{ID: "2", Kind: Expense, Amount: d("120"), CategoryID: "c1", AccountID: "a"},
		{ID: "3", Kind: Expense, Amount: d("40"), CategoryID: "c3", AccountID: "a"},
	}

	got := TopExpenseCategories(accounts, txs, cats, 2)
	if len(got) != 2 || got[0] != "Rent" || got[1] != "Food" {
		t.Errorf("TopExpenseCategories() = %v, want [Rent Food]", got)
	}
}
