// Package cmd implements the CLI application to manage a personal
// finance ledger. It is a thin presentation layer: commands only read
// aggregates and issue engine calls, never write storage directly.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v8"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	ledger "github.com/zenledger/zenledger"
)

// Commands lists every subcommand. A main package registers them all
// and executes the user-selected one.
var Commands = []subcommands.Command{
	&registerCmd{},
	&loginCmd{},
	&logoutCmd{},
	&guestCmd{},
	&newAccountCmd{},
	&rmAccountCmd{},
	&accountsCmd{},
	&addCmd{},
	&editCmd{},
	&rmCmd{},
	&txCmd{},
	&summaryCmd{},
	&statsCmd{},
	&suggestCmd{},
	&adviseCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dataDir = flag.String("data-dir", "", "Path to the ledger data directory (defaults to $ZL_DATA_DIR or ~/.zenledger)")
var displayCurrency = flag.String("currency", "", "Display currency code (defaults to $ZL_CURRENCY or USD)")

// appConfig is the environment-backed configuration, loaded once after
// an optional .env file.
type appConfig struct {
	DataDir      string `env:"ZL_DATA_DIR"`
	Currency     string `env:"ZL_CURRENCY" envDefault:"USD"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	Verbose      bool   `env:"ZL_VERBOSE"`
}

var config appConfig

// LoadConfig reads .env (when present) and the environment, and
// configures logging. It must run after flag.Parse.
func LoadConfig() error {
	_ = godotenv.Load() // a missing .env file is fine
	if err := env.Parse(&config); err != nil {
		return fmt.Errorf("could not parse environment: %w", err)
	}
	if config.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
	return nil
}

// Currency returns the display currency label. No conversion ever
// happens; the label only drives formatting.
func Currency() string {
	if *displayCurrency != "" {
		return *displayCurrency
	}
	return config.Currency
}

// DataDir returns the resolved data directory.
func DataDir() (string, error) {
	if *dataDir != "" {
		return *dataDir, nil
	}
	if config.DataDir != "" {
		return config.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not resolve home directory: %w", err)
	}
	return filepath.Join(home, ".zenledger"), nil
}

// OpenStore opens the durable store under the data directory.
func OpenStore() (*ledger.Store, error) {
	dir, err := DataDir()
	if err != nil {
		return nil, err
	}
	kv, err := ledger.OpenBadger(filepath.Join(dir, "ledger.db"))
	if err != nil {
		return nil, err
	}
	return ledger.NewStore(kv), nil
}

// OpenEngine opens the store, restores the session and resolves the
// partition, failing closed when no identity is available. The caller
// must Close the returned store.
func OpenEngine() (*ledger.Engine, *ledger.Store, error) {
	store, err := OpenStore()
	if err != nil {
		return nil, nil, err
	}
	session, err := ledger.OpenSession(store)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	partition, err := session.Partition()
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("not signed in (run 'zl login' or 'zl guest'): %w", err)
	}
	return ledger.NewEngine(store, partition), store, nil
}

// printMarkdown renders markdown for the terminal, falling back to the
// raw text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}
