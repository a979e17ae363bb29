package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Aggregation views are pure functions over a snapshot of accounts and
// transactions. They never mutate and never cache: every call
// recomputes from the given slices. Transactions referencing a
// non-existent account are discarded first (orphan exclusion), and
// transfers are never counted as income or expense.

// NetWorth returns the sum of all account balances.
func NetWorth(accounts []Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// MonthSummary holds the income and expense totals of one calendar month.
type MonthSummary struct {
	Year    int
	Month   time.Month
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// SummarizeMonth sums income and expense for the calendar month of on.
func SummarizeMonth(accounts []Account, txs []Transaction, on Date) MonthSummary {
	s := MonthSummary{Year: on.Year(), Month: on.Month(), Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range live(accounts, txs) {
		if !on.SameMonth(tx.Date) {
			continue
		}
		switch tx.Kind {
		case Income:
			s.Income = s.Income.Add(tx.Amount)
		case Expense:
			s.Expense = s.Expense.Add(tx.Amount)
		}
	}
	return s
}

// CategoryTotal is one row of an expense breakdown.
type CategoryTotal struct {
	CategoryID string
	Name       string
	Total      decimal.Decimal
}

// ExpenseBreakdown groups expenses by category and returns the totals
// in descending order. The sort is stable, so equal totals keep the
// category order of first appearance.
func ExpenseBreakdown(accounts []Account, txs []Transaction, cats []Category) []CategoryTotal {
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, tx := range live(accounts, txs) {
		if tx.Kind != Expense {
			continue
		}
		if _, seen := totals[tx.CategoryID]; !seen {
			order = append(order, tx.CategoryID)
		}
		totals[tx.CategoryID] = totals[tx.CategoryID].Add(tx.Amount)
	}

	rows := make([]CategoryTotal, 0, len(order))
	for _, id := range order {
		name := names[id]
		if name == "" {
			name = id // dangling category reference, show the raw id
		}
		rows = append(rows, CategoryTotal{CategoryID: id, Name: name, Total: totals[id]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total.GreaterThan(rows[j].Total)
	})
	return rows
}

// MonthlySeries returns the income/expense sums of the n calendar
// months ending at the month of until, in chronological order. Months
// without transactions yield zero buckets; a non-positive n yields an
// empty series.
func MonthlySeries(accounts []Account, txs []Transaction, until Date, n int) []MonthSummary {
	if n <= 0 {
		return nil
	}
	series := make([]MonthSummary, 0, n)
	start := until.StartOfMonth().AddMonth(1 - n)
	valid := live(accounts, txs)
	for i := 0; i < n; i++ {
		on := start.AddMonth(i)
		bucket := MonthSummary{Year: on.Year(), Month: on.Month(), Income: decimal.Zero, Expense: decimal.Zero}
		for _, tx := range valid {
			if !on.SameMonth(tx.Date) {
				continue
			}
			switch tx.Kind {
			case Income:
				bucket.Income = bucket.Income.Add(tx.Amount)
			case Expense:
				bucket.Expense = bucket.Expense.Add(tx.Amount)
			}
		}
		series = append(series, bucket)
	}
	return series
}

// TopExpenseCategories returns the names of the n largest expense
// categories, for the advice prompt.
func TopExpenseCategories(accounts []Account, txs []Transaction, cats []Category, n int) []string {
	rows := ExpenseBreakdown(accounts, txs, cats)
	if len(rows) > n {
		rows = rows[:n]
	}
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
	}
	return names
}

// live filters out orphaned transactions: entries whose account
// reference does not resolve to an existing account.
func live(accounts []Account, txs []Transaction) []Transaction {
	ids := make(map[string]struct{}, len(accounts))
	for _, a := range accounts {
		ids[a.ID] = struct{}{}
	}
	valid := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if _, ok := ids[tx.AccountID]; ok {
			valid = append(valid, tx)
		}
	}
	return valid
}
