// Package ledger provides the core of a personal finance ledger: users
// record income, expense and transfer transactions against accounts,
// categorize them, and derive aggregate statistics from the history.
//
// The central piece is the consistency engine, which keeps per-account
// balances equal to the sum of signed transaction effects as
// transactions are created, edited, and deleted, on top of a key-value
// substrate that offers no multi-record atomicity.
//
// The core functionalities include:
//   - Partitioning: every user identity (or the guest identity) owns an
//     isolated data namespace; all engine operations are partition-scoped.
//   - Ledger Engine: create/update/delete operations for transactions and
//     accounts that preserve the balance invariant, including the
//     reverse-then-reapply dance on edits.
//   - Aggregation Views: pure, on-demand summaries such as net worth,
//     monthly income/expense totals, category breakdowns and time series.
//   - Sessions: explicit session state with registration, login and a
//     guest opt-in, resolving to a storage partition.
//   - Persistence: whole-collection JSON snapshots stored per partition
//     in a local key-value store.
//
// This package serves as the foundational logic for the `zl` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package ledger
