package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/summitwealth/ledger"
)

type WealthPortfolioRepository struct {
	store *Store
}

func (wr *WealthPortfolioRepository) CreatePortfolio(
	portfolio *ledger.WealthPortfolio,
) error {
	query := `INSERT INTO
		wealth_portfolio (account_id, stock_percentage, bond_percentage,
		                  stock_units, bond_units)
		VALUES (:account_id, :stock_percentage, :bond_percentage,
		        :stock_units, :bond_units)`

	_, err := wr.store.runner().NamedExec(query, newPortfolioRow(portfolio))
	if err != nil {
		return fmt.Errorf(
			"could not execute command for portfolio [%v]: [%v]",
			portfolio.AccountID,
			err,
		)
	}

	return nil
}

func (wr *WealthPortfolioRepository) UpdatePortfolio(
	portfolio *ledger.WealthPortfolio,
) error {
	query := `UPDATE wealth_portfolio
		SET stock_percentage = :stock_percentage,
		    bond_percentage = :bond_percentage,
		    stock_units = :stock_units,
		    bond_units = :bond_units
		WHERE account_id = :account_id`

	_, err := wr.store.runner().NamedExec(query, newPortfolioRow(portfolio))
	if err != nil {
		return fmt.Errorf(
			"could not execute command for portfolio [%v]: [%v]",
			portfolio.AccountID,
			err,
		)
	}

	return nil
}

func (wr *WealthPortfolioRepository) PortfolioByAccount(
	accountID uuid.UUID,
) (*ledger.WealthPortfolio, error) {
	var row portfolioRow

	query := `SELECT * FROM wealth_portfolio
		WHERE account_id = $1` + wr.store.lockSuffix()

	err := wr.store.runner().Get(&row, query, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.NewNotFoundError(
			"portfolio not found for account: [%v]",
			accountID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("could not execute query: [%v]", err)
	}

	return row.unwrap(), nil
}

func (wr *WealthPortfolioRepository) PortfoliosByAccounts(
	accountIDs []uuid.UUID,
) ([]*ledger.WealthPortfolio, error) {
	rows := make([]portfolioRow, 0)

	query, args, err := sqlx.In(
		`SELECT * FROM wealth_portfolio WHERE account_id IN (?)`,
		accountIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("could not build query: [%v]", err)
	}

	query = wr.store.runner().Rebind(query)

	err = wr.store.runner().Select(&rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not execute query: [%v]", err)
	}

	portfolios := make([]*ledger.WealthPortfolio, len(rows))
	for i, row := range rows {
		portfolios[i] = row.unwrap()
	}

	return portfolios, nil
}

type portfolioRow struct {
	AccountID       uuid.UUID       `db:"account_id"`
	StockPercentage decimal.Decimal `db:"stock_percentage"`
	BondPercentage  decimal.Decimal `db:"bond_percentage"`
	StockUnits      decimal.Decimal `db:"stock_units"`
	BondUnits       decimal.Decimal `db:"bond_units"`
}

func newPortfolioRow(portfolio *ledger.WealthPortfolio) *portfolioRow {
	return &portfolioRow{
		AccountID:       portfolio.AccountID,
		StockPercentage: portfolio.StockPercentage,
		BondPercentage:  portfolio.BondPercentage,
		StockUnits:      portfolio.StockUnits,
		BondUnits:       portfolio.BondUnits,
	}
}

func (pr portfolioRow) unwrap() *ledger.WealthPortfolio {
	return &ledger.WealthPortfolio{
		AccountID:       pr.AccountID,
		StockPercentage: pr.StockPercentage,
		BondPercentage:  pr.BondPercentage,
		StockUnits:      pr.StockUnits,
		BondUnits:       pr.BondUnits,
	}
}
