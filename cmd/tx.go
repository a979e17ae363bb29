package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	ledger "github.com/zenledger/zenledger"
	"github.com/zenledger/zenledger/renderer"
)

type addCmd struct {
	amount   string
	kind     string
	category string
	account  string
	to       string
	date     string
	note     string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a transaction" }
func (*addCmd) Usage() string {
	return `zl add -a <amount> -t <expense|income|transfer> -c <category> -on <account> [-to <account>] [-d <date>] [-n <note>]

  Records a transaction and applies its effect to the account balance.
  A transfer needs a -to counter account and moves the amount between
  the two.

Usage Examples:
# Record a 12.50 lunch on the cash account.
$ zl add -a 12.50 -t expense -c Dining -on cash

# Move 200 from checking to savings.
$ zl add -a 200 -t transfer -c Bills -on checking -to savings
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Amount (positive).")
	f.StringVar(&c.kind, "t", string(ledger.Expense), "Flow kind: expense, income or transfer.")
	f.StringVar(&c.category, "c", "", "Category name or id.")
	f.StringVar(&c.account, "on", "", "Account name or id.")
	f.StringVar(&c.to, "to", "", "Counter account for transfers.")
	f.StringVar(&c.date, "d", "", "Transaction date (defaults to now).")
	f.StringVar(&c.note, "n", "", "Free-text note.")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, store, status := openEngine()
	if status != subcommands.ExitSuccess {
		return status
	}
	defer store.Close()

	draft, err := c.draft(engine)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	tx, err := engine.Record(draft)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s of %s (%s)\n", tx.Kind, ledger.M(tx.Amount, Currency()), tx.ID)
	return subcommands.ExitSuccess
}

// draft resolves the flags into an engine draft.
func (c *addCmd) draft(engine *ledger.Engine) (ledger.Draft, error) {
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		return ledger.Draft{}, fmt.Errorf("%w: %q", ledger.ErrInvalidAmount, c.amount)
	}
	kind, err := ledger.ParseFlowKind(c.kind)
	if err != nil {
		return ledger.Draft{}, err
	}
	category, err := resolveCategory(engine, c.category)
	if err != nil {
		return ledger.Draft{}, err
	}
	account, err := resolveAccount(engine, c.account)
	if err != nil {
		return ledger.Draft{}, err
	}
	draft := ledger.Draft{
		Amount:     amount,
		Kind:       kind,
		CategoryID: category.ID,
		AccountID:  account.ID,
		Note:       c.note,
	}
	if kind == ledger.Transfer {
		counter, err := resolveAccount(engine, c.to)
		if err != nil {
			return ledger.Draft{}, err
		}
		draft.CounterAccountID = counter.ID
	}
	if c.date != "" {
		day, err := ledger.ParseDate(c.date)
		if err != nil {
			return ledger.Draft{}, err
		}
		draft.Date = day.Time()
	}
	return draft, nil
}

type editCmd struct {
	addCmd
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "edit a transaction" }
func (*editCmd) Usage() string {
	return `zl edit <id> -a <amount> -t <kind> -c <category> -on <account> [-to <account>] [-d <date>] [-n <note>]

  Replaces the transaction's content. Balances end up exactly as if the
  old entry had been deleted and the new one recorded, even when the
  account changes.
`
}

func (c *editCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one transaction id")
		return subcommands.ExitUsageError
	}
	engine, store, status := openEngine()
	if status != subcommands.ExitSuccess {
		return status
	}
	defer store.Close()

	draft, err := c.draft(engine)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	tx, err := engine.Update(f.Arg(0), draft)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Updated %s (%s)\n", tx.ID, ledger.M(tx.Amount, Currency()))
	return subcommands.ExitSuccess
}

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete a transaction" }
func (*rmCmd) Usage() string {
	return `zl rm <id>

  Deletes a transaction and reverses its effect on the account balance.
`
}

func (*rmCmd) SetFlags(_ *flag.FlagSet) {}

func (c *rmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one transaction id")
		return subcommands.ExitUsageError
	}
	engine, store, status := openEngine()
	if status != subcommands.ExitSuccess {
		return status
	}
	defer store.Close()

	if err := engine.Delete(f.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Deleted", f.Arg(0))
	return subcommands.ExitSuccess
}

type txCmd struct {
	month string
	from  string
	to    string
	tail  int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions" }
func (*txCmd) Usage() string {
	return `zl tx [-m <yyyy-mm>] [-from <date>] [-to <date>] [-tail <n>]

  Lists transactions, newest last, optionally restricted to one month
  or to a date range (both bounds inclusive).
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "Restrict to a month, e.g. 2026-08.")
	f.StringVar(&c.from, "from", "", "Keep only transactions on or after this date.")
	f.StringVar(&c.to, "to", "", "Keep only transactions on or before this date.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N transactions.")
}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, store, status := openEngine()
	if status != subcommands.ExitSuccess {
		return status
	}
	defer store.Close()

	txs, err := engine.Transactions()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if c.month != "" {
		anchor, err := ledger.ParseDate(c.month + "-1")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid month %q\n", c.month)
			return subcommands.ExitUsageError
		}
		filtered := txs[:0]
		for _, tx := range txs {
			if anchor.SameMonth(tx.Date) {
				filtered = append(filtered, tx)
			}
		}
		txs = filtered
	}
	if c.from != "" || c.to != "" {
		filtered, err := filterRange(txs, c.from, c.to)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitUsageError
		}
		txs = filtered
	}
	sortByDate(txs)
	if c.tail > 0 && len(txs) > c.tail {
		txs = txs[len(txs)-c.tail:]
	}

	accounts, err := engine.Accounts()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	cats, err := engine.Categories()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Transactions(txs, accounts, cats, Currency()))
	return subcommands.ExitSuccess
}

// filterRange keeps the transactions whose day falls inside the
// inclusive [from, to] bounds. An empty bound is open.
func filterRange(txs []ledger.Transaction, from, to string) ([]ledger.Transaction, error) {
	var lo, hi ledger.Date
	var err error
	if from != "" {
		if lo, err = ledger.ParseDate(from); err != nil {
			return nil, err
		}
	}
	if to != "" {
		if hi, err = ledger.ParseDate(to); err != nil {
			return nil, err
		}
	}
	kept := txs[:0]
	for _, tx := range txs {
		day := ledger.DateOf(tx.Date)
		if from != "" && day.Before(lo) {
			continue
		}
		if to != "" && day.After(hi) {
			continue
		}
		kept = append(kept, tx)
	}
	return kept, nil
}

// sortByDate orders transactions chronologically, stable on equal dates.
func sortByDate(txs []ledger.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.Before(txs[j].Date)
	})
}
