// Package renderer turns ledger values into markdown strings. It is a
// pure presentation helper: it reads aggregates and records, never
// mutates them, and resolves symbolic icon names to glyphs exactly
// once, with an explicit fallback for unknown names.
package renderer

import (
	"fmt"
	"strings"

	ledger "github.com/zenledger/zenledger"
)

// icons maps the closed icon vocabulary to terminal glyphs. Unknown
// names render as the fallback.
var icons = map[ledger.Icon]string{
	ledger.IconUtensils:      "🍜",
	ledger.IconBus:           "🚌",
	ledger.IconShoppingBag:   "🛍",
	ledger.IconClapperboard:  "🎬",
	ledger.IconStethoscope:   "🩺",
	ledger.IconGraduationCap: "🎓",
	ledger.IconHome:          "🏠",
	ledger.IconZap:           "⚡",
	ledger.IconBriefcase:     "💼",
	ledger.IconDollarSign:    "💵",
	ledger.IconGift:          "🎁",
}

const iconFallback = "💳"

// IconGlyph resolves a symbolic icon name, falling back for unknown names.
func IconGlyph(icon ledger.Icon) string {
	if g, ok := icons[icon]; ok {
		return g
	}
	return iconFallback
}

// kindLabel renders an account kind, falling back for unknown kinds of
// the open enumeration.
func kindLabel(k ledger.AccountKind) string {
	if k.Known() {
		return string(k)
	}
	return "other"
}

// Accounts renders the accounts as a markdown table with a net worth line.
func Accounts(accounts []ledger.Account, currency string) string {
	var b strings.Builder
	b.WriteString("# Accounts\n\n")
	if len(accounts) == 0 {
		b.WriteString("No accounts yet.\n")
		return b.String()
	}
	b.WriteString("| Account | Kind | Balance |\n")
	b.WriteString("|---|---|--:|\n")
	for _, a := range accounts {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", a.Name, kindLabel(a.Kind), ledger.M(a.Balance, currency))
	}
	fmt.Fprintf(&b, "\n**Net worth**: %s\n", ledger.M(ledger.NetWorth(accounts), currency))
	return b.String()
}

// Transactions renders transactions as a markdown table. Orphaned
// entries (account no longer resolvable) are kept visible but marked.
func Transactions(txs []ledger.Transaction, accounts []ledger.Account, cats []ledger.Category, currency string) string {
	var b strings.Builder
	b.WriteString("# Transactions\n\n")
	if len(txs) == 0 {
		b.WriteString("No transactions yet.\n")
		return b.String()
	}

	accountNames := make(map[string]string, len(accounts))
	for _, a := range accounts {
		accountNames[a.ID] = a.Name
	}
	categories := make(map[string]ledger.Category, len(cats))
	for _, c := range cats {
		categories[c.ID] = c
	}

	b.WriteString("| Date | | Category | Account | Amount | Note | Id |\n")
	b.WriteString("|---|---|---|---|--:|---|---|\n")
	for _, tx := range txs {
		cat := categories[tx.CategoryID]
		account, ok := accountNames[tx.AccountID]
		if !ok {
			account = "(orphaned)"
		}
		if tx.Kind == ledger.Transfer {
			counter, ok := accountNames[tx.CounterAccountID]
			if !ok {
				counter = "(orphaned)"
			}
			account = account + " → " + counter
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			tx.Date.Format(ledger.DateFormat),
			IconGlyph(cat.Icon),
			cat.Name,
			account,
			signedAmount(tx, currency),
			tx.Note,
			tx.ID,
		)
	}
	return b.String()
}

func signedAmount(tx ledger.Transaction, currency string) string {
	m := ledger.M(tx.Amount, currency)
	switch tx.Kind {
	case ledger.Expense:
		return m.Neg().SignedString()
	case ledger.Income:
		return m.SignedString()
	default:
		return m.String()
	}
}

// Summary renders the net worth and current month totals.
func Summary(accounts []ledger.Account, month ledger.MonthSummary, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Summary %s %d\n\n", month.Month, month.Year)
	fmt.Fprintf(&b, "**Net worth**: %s\n\n", ledger.M(ledger.NetWorth(accounts), currency))
	b.WriteString("| | This month |\n|---|--:|\n")
	fmt.Fprintf(&b, "| Income | %s |\n", ledger.M(month.Income, currency))
	fmt.Fprintf(&b, "| Expense | %s |\n", ledger.M(month.Expense, currency))
	fmt.Fprintf(&b, "| Net | %s |\n", ledger.M(month.Income.Sub(month.Expense), currency).SignedString())
	return b.String()
}

// Stats renders the expense breakdown and the monthly series.
func Stats(breakdown []ledger.CategoryTotal, series []ledger.MonthSummary, currency string) string {
	var b strings.Builder
	b.WriteString("# Statistics\n\n## Expenses by category\n\n")
	if len(breakdown) == 0 {
		b.WriteString("No expenses recorded.\n")
	} else {
		b.WriteString("| Category | Total |\n|---|--:|\n")
		for _, row := range breakdown {
			fmt.Fprintf(&b, "| %s | %s |\n", row.Name, ledger.M(row.Total, currency))
		}
	}
	b.WriteString("\n## Last months\n\n")
	b.WriteString("| Month | Income | Expense |\n|---|--:|--:|\n")
	for _, m := range series {
		fmt.Fprintf(&b, "| %s %d | %s | %s |\n",
			m.Month.String()[:3], m.Year,
			ledger.M(m.Income, currency), ledger.M(m.Expense, currency))
	}
	return b.String()
}
