package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	ledger "github.com/zenledger/zenledger"
)

type registerCmd struct {
	username string
	password string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "register a new user and sign in" }
func (*registerCmd) Usage() string {
	return `zl register -u <username> -p <password>

  Registers a new user and signs in. The credential is stored hashed.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "Username to register.")
	f.StringVar(&c.password, "p", "", "Password for the new user.")
}

func (c *registerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	session, store, status := openSession()
	if status != subcommands.ExitSuccess {
		return status
	}
	defer store.Close()

	user, err := session.Register(c.username, c.password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Registered and signed in as %s\n", user.Username)
	return subcommands.ExitSuccess
}

type loginCmd struct {
	username string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "sign in as an existing user" }
func (*loginCmd) Usage() string {
	return `zl login -u <username> -p <password>

  Signs in and switches to the user's own data partition.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "Username.")
	f.StringVar(&c.password, "p", "", "Password.")
}

func (c *loginCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	session, store, status := openSession()
	if status != subcommands.ExitSuccess {
		return status
	}
	defer store.Close()

	user, err := session.Login(c.username, c.password)
	if err != nil {
		// never reveal whether the username or the password was wrong
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Signed in as %s\n", user.Username)
	return subcommands.ExitSuccess
}

type logoutCmd struct{}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "sign out and clear the session" }
func (*logoutCmd) Usage() string {
	return `zl logout

  Clears the current session, including the guest opt-in.
`
}

func (*logoutCmd) SetFlags(_ *flag.FlagSet) {}

func (c *logoutCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	session, store, status := openSession()
	if status != subcommands.ExitSuccess {
		return status
	}
	defer store.Close()

	if err := session.Logout(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Signed out")
	return subcommands.ExitSuccess
}

type guestCmd struct{}

func (*guestCmd) Name() string     { return "guest" }
func (*guestCmd) Synopsis() string { return "use the ledger without an account" }
func (*guestCmd) Usage() string {
	return `zl guest

  Opts into the guest partition. Data recorded as guest stays separate
  from every user partition.
`
}

func (*guestCmd) SetFlags(_ *flag.FlagSet) {}

func (c *guestCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	session, store, status := openSession()
	if status != subcommands.ExitSuccess {
		return status
	}
	defer store.Close()

	if err := session.EnableGuest(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Guest mode enabled")
	return subcommands.ExitSuccess
}

// openSession opens the store and restores the persisted session.
func openSession() (*ledger.Session, *ledger.Store, subcommands.ExitStatus) {
	store, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return nil, nil, subcommands.ExitFailure
	}
	session, err := ledger.OpenSession(store)
	if err != nil {
		store.Close()
		fmt.Fprintln(os.Stderr, "Error:", err)
		return nil, nil, subcommands.ExitFailure
	}
	return session, store, subcommands.ExitSuccess
}
