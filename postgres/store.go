package postgres

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/summitwealth/ledger"
)

// runner is the query surface shared by *sqlx.DB and *sqlx.Tx.
type runner interface {
	sqlx.Ext

	Get(dest interface{}, query string, args ...interface{}) error

	Select(dest interface{}, query string, args ...interface{}) error

	NamedExec(query string, arg interface{}) (sql.Result, error)
}

// Store implements ledger.Store. The zero lockSuffix applies outside
// transactions; inside one, aggregate reads append FOR UPDATE so that the
// touched Account/Stock/Position/WealthPortfolio rows stay locked for the
// duration of the operation.
type Store struct {
	client *Client
	tx     *sqlx.Tx
}

func NewStore(client *Client) *Store {
	return &Store{client: client}
}

func (s *Store) runner() runner {
	if s.tx != nil {
		return s.tx
	}
	return s.client.instance()
}

func (s *Store) lockSuffix() string {
	if s.tx != nil {
		return " FOR UPDATE"
	}
	return ""
}

func (s *Store) Users() ledger.UserRepository {
	return &UserRepository{s}
}

func (s *Store) Accounts() ledger.AccountRepository {
	return &AccountRepository{s}
}

func (s *Store) Stocks() ledger.StockRepository {
	return &StockRepository{s}
}

func (s *Store) Positions() ledger.PositionRepository {
	return &PositionRepository{s}
}

func (s *Store) Transactions() ledger.TransactionRepository {
	return &TransactionRepository{s}
}

func (s *Store) Trades() ledger.TradeRepository {
	return &TradeRepository{s}
}

func (s *Store) Portfolios() ledger.WealthPortfolioRepository {
	return &WealthPortfolioRepository{s}
}

func (s *Store) InTransaction(fn func(store ledger.Store) error) error {
	if s.tx != nil {
		return fmt.Errorf("transactions do not nest")
	}

	tx, err := s.client.instance().Beginx()
	if err != nil {
		return fmt.Errorf("could not begin transaction: [%v]", err)
	}

	txStore := &Store{client: s.client, tx: tx}

	if err := fn(txStore); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: [%v]", err)
	}

	return nil
}
