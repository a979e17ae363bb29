package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	ledger "github.com/zenledger/zenledger"
	"github.com/zenledger/zenledger/renderer"
)

type newAccountCmd struct {
	name    string
	kind    string
	opening string
}

func (*newAccountCmd) Name() string     { return "new-account" }
func (*newAccountCmd) Synopsis() string { return "create an account" }
func (*newAccountCmd) Usage() string {
	return `zl new-account -n <name> [-k <kind>] [-b <opening balance>]

  Creates an account. Kind is free-form; cash, bank, credit, ewallet and
  investment get dedicated rendering, anything else falls back to a
  default one.
`
}

func (c *newAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Account name.")
	f.StringVar(&c.kind, "k", string(ledger.Cash), "Account kind.")
	f.StringVar(&c.opening, "b", "0", "Opening balance.")
}

func (c *newAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	opening, err := decimal.NewFromString(c.opening)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid opening balance %q: %v\n", c.opening, err)
		return subcommands.ExitUsageError
	}
	engine, store, status := openEngine()
	if status != subcommands.ExitSuccess {
		return status
	}
	defer store.Close()

	account, err := engine.CreateAccount(c.name, ledger.AccountKind(strings.ToLower(c.kind)), opening)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created account %q (%s)\n", account.Name, account.ID)
	return subcommands.ExitSuccess
}

type rmAccountCmd struct{}

func (*rmAccountCmd) Name() string     { return "rm-account" }
func (*rmAccountCmd) Synopsis() string { return "delete an account" }
func (*rmAccountCmd) Usage() string {
	return `zl rm-account <account>

  Deletes an account by name or id. Its transactions are kept in storage
  but no longer count towards balances or statistics.
`
}

func (*rmAccountCmd) SetFlags(_ *flag.FlagSet) {}

func (c *rmAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one account name or id")
		return subcommands.ExitUsageError
	}
	engine, store, status := openEngine()
	if status != subcommands.ExitSuccess {
		return status
	}
	defer store.Close()

	account, err := resolveAccount(engine, f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := engine.RemoveAccount(account.ID); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Removed account %q\n", account.Name)
	return subcommands.ExitSuccess
}

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list accounts and net worth" }
func (*accountsCmd) Usage() string {
	return `zl accounts

  Lists all accounts with their balances and the total net worth.
`
}

func (*accountsCmd) SetFlags(_ *flag.FlagSet) {}

func (c *accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, store, status := openEngine()
	if status != subcommands.ExitSuccess {
		return status
	}
	defer store.Close()

	accounts, err := engine.Accounts()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Accounts(accounts, Currency()))
	return subcommands.ExitSuccess
}

// openEngine wraps OpenEngine with CLI error reporting.
func openEngine() (*ledger.Engine, *ledger.Store, subcommands.ExitStatus) {
	engine, store, err := OpenEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return nil, nil, subcommands.ExitFailure
	}
	return engine, store, subcommands.ExitSuccess
}

// resolveAccount finds an account by exact id, exact name, or
// case-insensitive name.
func resolveAccount(engine *ledger.Engine, ref string) (ledger.Account, error) {
	accounts, err := engine.Accounts()
	if err != nil {
		return ledger.Account{}, err
	}
	for _, a := range accounts {
		if a.ID == ref || a.Name == ref {
			return a, nil
		}
	}
	for _, a := range accounts {
		if strings.EqualFold(a.Name, ref) {
			return a, nil
		}
	}
	return ledger.Account{}, fmt.Errorf("account %q: %w", ref, ledger.ErrNotFound)
}

// resolveCategory finds a category by exact id, exact name, or
// case-insensitive name.
func resolveCategory(engine *ledger.Engine, ref string) (ledger.Category, error) {
	cats, err := engine.Categories()
	if err != nil {
		return ledger.Category{}, err
	}
	for _, c := range cats {
		if c.ID == ref || c.Name == ref {
			return c, nil
		}
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}
	return ledger.Category{}, fmt.Errorf("category %q: %w", ref, ledger.ErrNotFound)
}
