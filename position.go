package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PositionRepository interface {
	CreatePosition(position *Position) error

	UpdatePosition(position *Position) error

	DeletePosition(accountID uuid.UUID, symbol string) error

	// Position resolves the unique holding for the (account, symbol)
	// pair and fails with a NotFound error when the account holds no
	// shares of the symbol.
	Position(accountID uuid.UUID, symbol string) (*Position, error)

	PositionsByAccounts(accountIDs []uuid.UUID) ([]*Position, error)
}

// Position is an account's holding of one stock. The average cost basis is
// the weighted mean purchase price across all buys into the position; it
// is recomputed on every buy and left untouched on sells. A position is
// deleted once its share count drops to zero.
type Position struct {
	AccountID        uuid.UUID
	Symbol           string
	Shares           int64
	AverageCostBasis decimal.Decimal
}
