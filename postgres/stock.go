package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/summitwealth/ledger"
)

type StockRepository struct {
	store *Store
}

func (sr *StockRepository) CreateStock(stock *ledger.Stock) error {
	query := `INSERT INTO
		stock (symbol, company_name, current_price, total_shares,
		       available_shares, sector, description)
		VALUES (:symbol, :company_name, :current_price, :total_shares,
		        :available_shares, :sector, :description)`

	_, err := sr.store.runner().NamedExec(query, newStockRow(stock))
	if err != nil {
		return fmt.Errorf(
			"could not execute command for stock [%v]: [%v]",
			stock.Symbol,
			err,
		)
	}

	return nil
}

func (sr *StockRepository) UpdateStock(stock *ledger.Stock) error {
	query := `UPDATE stock
		SET current_price = :current_price,
		    available_shares = :available_shares
		WHERE symbol = :symbol`

	_, err := sr.store.runner().NamedExec(query, newStockRow(stock))
	if err != nil {
		return fmt.Errorf(
			"could not execute command for stock [%v]: [%v]",
			stock.Symbol,
			err,
		)
	}

	return nil
}

func (sr *StockRepository) DeleteStock(symbol string) error {
	query := `DELETE FROM stock WHERE symbol = $1`

	_, err := sr.store.runner().Exec(query, symbol)
	if err != nil {
		return fmt.Errorf(
			"could not execute command for stock [%v]: [%v]",
			symbol,
			err,
		)
	}

	return nil
}

func (sr *StockRepository) Stock(symbol string) (*ledger.Stock, error) {
	var row stockRow

	query := `SELECT * FROM stock WHERE symbol = $1` + sr.store.lockSuffix()

	err := sr.store.runner().Get(&row, query, symbol)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.NewNotFoundError("stock not found: [%v]", symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("could not execute query: [%v]", err)
	}

	return row.unwrap(), nil
}

func (sr *StockRepository) Stocks() ([]*ledger.Stock, error) {
	rows := make([]stockRow, 0)

	query := `SELECT * FROM stock ORDER BY company_name ASC`

	err := sr.store.runner().Select(&rows, query)
	if err != nil {
		return nil, fmt.Errorf("could not execute query: [%v]", err)
	}

	stocks := make([]*ledger.Stock, len(rows))
	for i, row := range rows {
		stocks[i] = row.unwrap()
	}

	return stocks, nil
}

type stockRow struct {
	Symbol          string          `db:"symbol"`
	CompanyName     string          `db:"company_name"`
	CurrentPrice    decimal.Decimal `db:"current_price"`
	TotalShares     int64           `db:"total_shares"`
	AvailableShares int64           `db:"available_shares"`
	Sector          string          `db:"sector"`
	Description     string          `db:"description"`
}

func newStockRow(stock *ledger.Stock) *stockRow {
	return &stockRow{
		Symbol:          stock.Symbol,
		CompanyName:     stock.CompanyName,
		CurrentPrice:    stock.CurrentPrice,
		TotalShares:     stock.TotalShares,
		AvailableShares: stock.AvailableShares,
		Sector:          stock.Sector,
		Description:     stock.Description,
	}
}

func (sr stockRow) unwrap() *ledger.Stock {
	return &ledger.Stock{
		Symbol:          sr.Symbol,
		CompanyName:     sr.CompanyName,
		CurrentPrice:    sr.CurrentPrice,
		TotalShares:     sr.TotalShares,
		AvailableShares: sr.AvailableShares,
		Sector:          sr.Sector,
		Description:     sr.Description,
	}
}
