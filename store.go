package ledger

import "errors"

// ErrDuplicateReference is reported by transaction and trade repositories
// when an appended row collides with an already persisted reference. The
// engines regenerate the reference and retry a bounded number of times.
var ErrDuplicateReference = errors.New("duplicate reference")

// Store is the durable holder of all ledger aggregates. Implementations
// must guarantee that the function passed to InTransaction observes and
// mutates the aggregates as one atomic unit: either every mutation made
// through the received Store is committed, or none is. Reads of Account,
// Stock, Position and WealthPortfolio rows performed inside a transaction
// must be guarded against concurrent writers for the duration of the
// transaction, either by row-level locks or by serializable isolation.
type Store interface {
	Users() UserRepository

	Accounts() AccountRepository

	Stocks() StockRepository

	Positions() PositionRepository

	Transactions() TransactionRepository

	Trades() TradeRepository

	Portfolios() WealthPortfolioRepository

	// InTransaction runs the given function atomically. A non-nil error
	// returned from the function rolls every mutation back and is passed
	// through to the caller. Transactions do not nest.
	InTransaction(fn func(store Store) error) error
}
