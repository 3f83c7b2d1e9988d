package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/summitwealth/ledger"
)

type TradeRepository struct {
	store *Store
}

func (tr *TradeRepository) CreateTrade(trade *ledger.Trade) error {
	query := `INSERT INTO
		stock_trade (reference, account_id, symbol, side, quantity,
		             price_per_share, total_amount, profit_loss, timestamp)
		VALUES (:reference, :account_id, :symbol, :side, :quantity,
		        :price_per_share, :total_amount, :profit_loss, :timestamp)`

	row, err := newTradeRow(trade)
	if err != nil {
		return fmt.Errorf(
			"could not convert trade [%v] to pg row: [%v]",
			trade.Reference,
			err,
		)
	}

	_, err = tr.store.runner().NamedExec(query, row)
	if isUniqueViolation(err) {
		return ledger.ErrDuplicateReference
	}
	if err != nil {
		return fmt.Errorf(
			"could not execute command for trade [%v]: [%v]",
			trade.Reference,
			err,
		)
	}

	return nil
}

func (tr *TradeRepository) TradeByReference(
	reference string,
) (*ledger.Trade, error) {
	var row tradeRow

	query := `SELECT * FROM stock_trade WHERE reference = $1`

	err := tr.store.runner().Get(&row, query, reference)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.NewNotFoundError(
			"trade not found with reference: [%v]",
			reference,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("could not execute query: [%v]", err)
	}

	return row.unwrap()
}

func (tr *TradeRepository) RecentTradesByAccounts(
	accountIDs []uuid.UUID,
	limit int,
) ([]*ledger.Trade, error) {
	rows := make([]tradeRow, 0)

	query, args, err := sqlx.In(
		`SELECT * FROM stock_trade
		WHERE account_id IN (?)
		ORDER BY timestamp DESC
		LIMIT ?`,
		accountIDs,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("could not build query: [%v]", err)
	}

	query = tr.store.runner().Rebind(query)

	err = tr.store.runner().Select(&rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not execute query: [%v]", err)
	}

	trades := make([]*ledger.Trade, len(rows))
	for i, row := range rows {
		trades[i], err = row.unwrap()
		if err != nil {
			return nil, err
		}
	}

	return trades, nil
}

type tradeRow struct {
	Reference     string          `db:"reference"`
	AccountID     uuid.UUID       `db:"account_id"`
	Symbol        string          `db:"symbol"`
	Side          string          `db:"side"`
	Quantity      int64           `db:"quantity"`
	PricePerShare decimal.Decimal `db:"price_per_share"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	ProfitLoss    pgtype.Numeric  `db:"profit_loss"`
	Timestamp     time.Time       `db:"timestamp"`
}

func newTradeRow(trade *ledger.Trade) (*tradeRow, error) {
	profitLoss, err := decimalToNumeric(trade.ProfitLoss)
	if err != nil {
		return nil, err
	}

	return &tradeRow{
		Reference:     trade.Reference,
		AccountID:     trade.AccountID,
		Symbol:        trade.Symbol,
		Side:          trade.Side.String(),
		Quantity:      trade.Quantity,
		PricePerShare: trade.PricePerShare,
		TotalAmount:   trade.TotalAmount,
		ProfitLoss:    profitLoss,
		Timestamp:     trade.Timestamp,
	}, nil
}

func (tr tradeRow) unwrap() (*ledger.Trade, error) {
	side, err := ledger.ParseTradeSide(tr.Side)
	if err != nil {
		return nil, err
	}

	return &ledger.Trade{
		Reference:     tr.Reference,
		AccountID:     tr.AccountID,
		Symbol:        tr.Symbol,
		Side:          side,
		Quantity:      tr.Quantity,
		PricePerShare: tr.PricePerShare,
		TotalAmount:   tr.TotalAmount,
		ProfitLoss:    numericToDecimal(tr.ProfitLoss),
		Timestamp:     tr.Timestamp,
	}, nil
}
