package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TradeSide int

const (
	SideBuy TradeSide = iota
	SideSell
)

func ParseTradeSide(value string) (TradeSide, error) {
	switch value {
	case "BUY":
		return SideBuy, nil
	case "SELL":
		return SideSell, nil
	}

	return -1, fmt.Errorf("unknown trade side: [%v]", value)
}

func (ts TradeSide) String() string {
	switch ts {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		panic("unknown trade side")
	}
}

type TradeRepository interface {
	// CreateTrade appends an immutable trade row. It fails with
	// ErrDuplicateReference when the reference is already taken.
	CreateTrade(trade *Trade) error

	TradeByReference(reference string) (*Trade, error)

	RecentTradesByAccounts(
		accountIDs []uuid.UUID,
		limit int,
	) ([]*Trade, error)
}

// Trade is an append-only record of an executed stock buy or sell.
// ProfitLoss is populated on sells only and carries the realized result
// against the position's average cost basis; it is nil on buys.
type Trade struct {
	Reference     string
	AccountID     uuid.UUID
	Symbol        string
	Side          TradeSide
	Quantity      int64
	PricePerShare decimal.Decimal
	TotalAmount   decimal.Decimal
	ProfitLoss    *decimal.Decimal
	Timestamp     time.Time
}
