package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

type StockRepository interface {
	CreateStock(stock *Stock) error

	UpdateStock(stock *Stock) error

	DeleteStock(symbol string) error

	Stock(symbol string) (*Stock, error)

	Stocks() ([]*Stock, error)
}

// Stock is the counterparty share pool for instrument trading. Available
// shares decrease on buys and return on sells; the invariant
// 0 <= AvailableShares <= TotalShares must hold after every commit.
type Stock struct {
	Symbol          string
	CompanyName     string
	CurrentPrice    decimal.Decimal
	TotalShares     int64
	AvailableShares int64
	Sector          string
	Description     string
}

// StockAdminService owns the administrative stock lifecycle. Repricing is
// the only flow allowed to mutate a stock price.
type StockAdminService struct {
	store Store
}

func NewStockAdminService(store Store) *StockAdminService {
	return &StockAdminService{store}
}

func (sas *StockAdminService) CreateStock(
	symbol string,
	companyName string,
	currentPrice decimal.Decimal,
	totalShares int64,
	sector string,
	description string,
) (*Stock, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if len(symbol) == 0 {
		return nil, errInvalidArgument("stock symbol must not be blank")
	}

	if currentPrice.Sign() <= 0 {
		return nil, errInvalidArgument(
			"stock price must be greater than zero",
		)
	}

	if totalShares <= 0 {
		return nil, errInvalidArgument(
			"total shares must be greater than zero",
		)
	}

	stock := &Stock{
		Symbol:          symbol,
		CompanyName:     companyName,
		CurrentPrice:    currentPrice.Round(2),
		TotalShares:     totalShares,
		AvailableShares: totalShares,
		Sector:          sector,
		Description:     description,
	}

	err := sas.store.InTransaction(func(tx Store) error {
		_, err := tx.Stocks().Stock(symbol)
		if err == nil {
			return errInvalidArgument(
				"stock with symbol [%v] already exists",
				symbol,
			)
		}
		if !IsNotFound(err) {
			return err
		}

		return tx.Stocks().CreateStock(stock)
	})
	if err != nil {
		return nil, err
	}

	return stock, nil
}

func (sas *StockAdminService) UpdateStockPrice(
	symbol string,
	newPrice decimal.Decimal,
) (*Stock, error) {
	if newPrice.Sign() <= 0 {
		return nil, errInvalidArgument(
			"stock price must be greater than zero",
		)
	}

	var stock *Stock

	err := sas.store.InTransaction(func(tx Store) error {
		var err error

		stock, err = tx.Stocks().Stock(symbol)
		if err != nil {
			return err
		}

		stock.CurrentPrice = newPrice.Round(2)

		return tx.Stocks().UpdateStock(stock)
	})
	if err != nil {
		return nil, err
	}

	return stock, nil
}

// DeleteStock removes a stock from the pool. Deletion is refused while any
// shares are held by accounts, as open positions would dangle otherwise.
func (sas *StockAdminService) DeleteStock(symbol string) error {
	return sas.store.InTransaction(func(tx Store) error {
		stock, err := tx.Stocks().Stock(symbol)
		if err != nil {
			return err
		}

		if stock.AvailableShares < stock.TotalShares {
			return errInvalidState(
				"cannot delete stock [%v] with active positions",
				symbol,
			)
		}

		return tx.Stocks().DeleteStock(symbol)
	})
}

func (sas *StockAdminService) ListStocks() ([]*Stock, error) {
	return sas.store.Stocks().Stocks()
}
