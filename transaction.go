package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionRepository interface {
	// CreateTransaction appends an immutable transfer row. It fails with
	// ErrDuplicateReference when the reference is already taken.
	CreateTransaction(transaction *Transaction) error

	TransactionByReference(reference string) (*Transaction, error)

	// RecentTransactionsByAccounts returns up to limit transfers touching
	// any of the given accounts as source or destination, newest first.
	RecentTransactionsByAccounts(
		accountIDs []uuid.UUID,
		limit int,
	) ([]*Transaction, error)
}

// Transaction is an append-only ledger entry describing a committed funds
// transfer. Account numbers are denormalized for read convenience.
type Transaction struct {
	Reference         string
	FromAccountID     uuid.UUID
	FromAccountNumber string
	ToAccountID       uuid.UUID
	ToAccountNumber   string
	Amount            decimal.Decimal
	Description       string
	Timestamp         time.Time
}
