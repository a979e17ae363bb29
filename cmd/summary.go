package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	ledger "github.com/zenledger/zenledger"
	"github.com/zenledger/zenledger/renderer"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	date string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display net worth and the month's totals" }
func (*summaryCmd) Usage() string {
	return `zl summary [-d <date>]

  Displays the net worth and the income/expense totals of the date's
  calendar month.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", ledger.Today().String(), "Date whose month is summarized.")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := ledger.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	engine, store, status := openEngine()
	if status != subcommands.ExitSuccess {
		return status
	}
	defer store.Close()

	accounts, txs, err := snapshot(engine)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	month := ledger.SummarizeMonth(accounts, txs, on)
	printMarkdown(renderer.Summary(accounts, month, Currency()))
	return subcommands.ExitSuccess
}

type statsCmd struct {
	date   string
	months int
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "display expense breakdown and monthly series" }
func (*statsCmd) Usage() string {
	return `zl stats [-d <date>] [-months <n>]

  Displays the expense breakdown by category and the income/expense
  series of the last months.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", ledger.Today().String(), "End date of the series.")
	f.IntVar(&c.months, "months", 6, "Number of months in the series.")
}

func (c *statsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	until, err := ledger.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.months <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -months must be positive")
		return subcommands.ExitUsageError
	}
	engine, store, status := openEngine()
	if status != subcommands.ExitSuccess {
		return status
	}
	defer store.Close()

	accounts, txs, err := snapshot(engine)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	cats, err := engine.Categories()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	breakdown := ledger.ExpenseBreakdown(accounts, txs, cats)
	series := ledger.MonthlySeries(accounts, txs, until, c.months)
	printMarkdown(renderer.Stats(breakdown, series, Currency()))
	return subcommands.ExitSuccess
}

// snapshot reads the accounts and transactions the views aggregate over.
func snapshot(engine *ledger.Engine) ([]ledger.Account, []ledger.Transaction, error) {
	accounts, err := engine.Accounts()
	if err != nil {
		return nil, nil, err
	}
	txs, err := engine.Transactions()
	if err != nil {
		return nil, nil, err
	}
	return accounts, txs, nil
}
