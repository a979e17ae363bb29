package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"google.golang.org/genai"

	ledger "github.com/zenledger/zenledger"
	"github.com/zenledger/zenledger/agent"
)

// suggestCmd is the subcommand for the AI transaction suggester.
type suggestCmd struct {
	account string
	save    bool
}

func (*suggestCmd) Name() string     { return "suggest" }
func (*suggestCmd) Synopsis() string { return "draft a transaction from free text" }
func (*suggestCmd) Usage() string {
	return `zl suggest [-on <account> -save] <free text>

  Asks the AI to draft a transaction from free text. Without -save the
  draft is only printed; with -save and an account it is recorded
  through the normal validation path.

Usage Examples:
$ zl suggest bought lunch for 15
$ zl suggest -on cash -save coffee 3.20
`
}

func (c *suggestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "on", "", "Account to record the draft on.")
	f.BoolVar(&c.save, "save", false, "Record the draft instead of only printing it.")
}

func (c *suggestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: nothing to parse, give some free text")
		return subcommands.ExitUsageError
	}
	input := strings.Join(f.Args(), " ")

	client, err := newGeminiClient(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	suggestion, err := agent.ParseTransaction(ctx, client, input)
	if err != nil {
		// suggester failures are always recoverable
		fmt.Fprintln(os.Stderr, "Could not parse, try manual entry:", err)
		return subcommands.ExitFailure
	}

	engine, store, status := openEngine()
	if status != subcommands.ExitSuccess {
		return status
	}
	defer store.Close()

	cats, err := engine.Categories()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	category, matched := agent.MatchCategory(suggestion.CategoryName, suggestion.Kind, cats)

	categoryLabel := suggestion.CategoryName + " (no matching category)"
	if matched {
		categoryLabel = category.Name
	}
	fmt.Printf("Draft: %s %s, category %s, note %q, on %s\n",
		suggestion.Kind, ledger.M(suggestion.Amount, Currency()), categoryLabel,
		suggestion.Note, suggestion.Date.Format(ledger.DateFormat))

	if !c.save {
		fmt.Println("Re-run with -on <account> -save to record it.")
		return subcommands.ExitSuccess
	}
	if !matched {
		fmt.Fprintln(os.Stderr, "Error: no category matched, record manually with 'zl add'")
		return subcommands.ExitFailure
	}
	account, err := resolveAccount(engine, c.account)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	tx, err := engine.Record(ledger.Draft{
		Amount:     suggestion.Amount,
		Kind:       suggestion.Kind,
		CategoryID: category.ID,
		AccountID:  account.ID,
		Date:       suggestion.Date,
		Note:       suggestion.Note,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s of %s (%s)\n", tx.Kind, ledger.M(tx.Amount, Currency()), tx.ID)
	return subcommands.ExitSuccess
}

// adviseCmd is the subcommand for the AI financial advisor.
type adviseCmd struct {
	date string
}

func (*adviseCmd) Name() string     { return "advise" }
func (*adviseCmd) Synopsis() string { return "get a short piece of financial advice" }
func (*adviseCmd) Usage() string {
	return `zl advise [-d <date>]

  Sends the month's totals and top expense categories to the AI and
  prints a short piece of advice.
`
}

func (c *adviseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", ledger.Today().String(), "Date whose month is analyzed.")
}

func (c *adviseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	cats, err := engine.Categories()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	month := ledger.SummarizeMonth(accounts, txs, on)
	top := ledger.TopExpenseCategories(accounts, txs, cats, 3)

	client, err := newGeminiClient(ctx)
	if err != nil {
		fmt.Println(agent.AdviceFallback)
		return subcommands.ExitSuccess
	}
	printMarkdown(agent.Advise(ctx, client, month.Income, month.Expense, top))
	return subcommands.ExitSuccess
}

// newGeminiClient builds a genai client from the configured API key.
func newGeminiClient(ctx context.Context) (*genai.Client, error) {
	cc := &genai.ClientConfig{}
	if config.GeminiAPIKey != "" {
		cc.APIKey = config.GeminiAPIKey
	}
	return genai.NewClient(ctx, cc)
}
