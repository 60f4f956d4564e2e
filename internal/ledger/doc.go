// Package ledger keeps a SQLite record of every archive date a harvest has
// processed: whether the page came from the cache or the network, whether
// it parsed, and how many records it produced.
//
// The ledger is a side table. The cached HTML and the per-date CSV files
// remain the source of truth, so deleting ledger.db only loses history; the
// next run rebuilds it.
//
// SQLite is accessed through modernc.org/sqlite, which needs no cgo.
package ledger
