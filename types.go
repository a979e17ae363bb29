package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FlowKind is a typed string classifying a transaction or category as
// expense, income, or transfer.
type FlowKind string

// Flow kinds used in transactions and categories.
const (
	Expense  FlowKind = "expense"
	Income   FlowKind = "income"
	Transfer FlowKind = "transfer"
)

// ParseFlowKind parses a string into a FlowKind.
func ParseFlowKind(s string) (FlowKind, error) {
	switch FlowKind(strings.ToLower(s)) {
	case Expense:
		return Expense, nil
	case Income:
		return Income, nil
	case Transfer:
		return Transfer, nil
	default:
		return "", fmt.Errorf("unknown flow kind: %q", s)
	}
}

// AccountKind is the open enumeration of account types. Unknown kinds
// are accepted and fall back to a default rendering, never rejected.
type AccountKind string

// Well-known account kinds.
const (
	Cash       AccountKind = "cash"
	Bank       AccountKind = "bank"
	Credit     AccountKind = "credit"
	EWallet    AccountKind = "ewallet"
	Investment AccountKind = "investment"
)

// Known reports whether the kind is one of the well-known account kinds.
func (k AccountKind) Known() bool {
	switch k {
	case Cash, Bank, Credit, EWallet, Investment:
		return true
	}
	return false
}

// Icon is a symbolic icon name carried by categories. The set of known
// icons is closed; resolution to a glyph happens once, at the
// presentation boundary, with an explicit fallback for unknown names.
type Icon string

// Icons used by the default category set.
const (
	IconUtensils      Icon = "utensils"
	IconBus           Icon = "bus"
	IconShoppingBag   Icon = "shopping-bag"
	IconClapperboard  Icon = "clapperboard"
	IconStethoscope   Icon = "stethoscope"
	IconGraduationCap Icon = "graduation-cap"
	IconHome          Icon = "home"
	IconZap           Icon = "zap"
	IconBriefcase     Icon = "briefcase"
	IconDollarSign    Icon = "dollar-sign"
	IconGift          Icon = "gift"
	IconUnknown       Icon = "unknown"
)

// Account is a container for money. Its balance is always derivable as
// the opening balance plus the sum of signed effects of all live
// transactions referencing it; the engine is the only writer of Balance.
type Account struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Kind    AccountKind     `json:"type"`
	Balance decimal.Decimal `json:"balance"`
	Color   string          `json:"color,omitempty"`
}

// Category is a descriptive label for transactions. Categories are
// immutable after creation and hold no derived state.
type Category struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Icon  Icon     `json:"icon"`
	Color string   `json:"color,omitempty"`
	Kind  FlowKind `json:"type"`
}

// Transaction is a single ledger entry. Amount is a magnitude only; the
// sign of its balance effect is implied by Kind. A transfer carries a
// CounterAccountID and moves Amount from AccountID to it.
//
// A transaction whose account no longer resolves is orphaned: it stays
// in storage but is excluded from balances and aggregates.
type Transaction struct {
	ID               string          `json:"id"`
	Amount           decimal.Decimal `json:"amount"`
	Kind             FlowKind        `json:"type"`
	CategoryID       string          `json:"categoryId"`
	AccountID        string          `json:"accountId"`
	CounterAccountID string          `json:"counterAccountId,omitempty"`
	Date             time.Time       `json:"date"`
	Note             string          `json:"note,omitempty"`
}

// Draft is the caller-supplied content of a transaction, before the
// engine validates it and assigns an id.
type Draft struct {
	Amount           decimal.Decimal
	Kind             FlowKind
	CategoryID       string
	AccountID        string
	CounterAccountID string
	Date             time.Time
	Note             string
}

// User is a registered identity. The stored credential lives in the
// users registry, never on this struct.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Guest    bool   `json:"isGuest,omitempty"`
}
