package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AssetClass int

const (
	AssetStock AssetClass = iota
	AssetBond
)

func (ac AssetClass) String() string {
	switch ac {
	case AssetStock:
		return "STOCK"
	case AssetBond:
		return "BOND"
	default:
		panic("unknown asset class")
	}
}

// PriceSource provides the current unit price of a wealth asset class.
// Consecutive calls may return different values, so the engine queries
// each asset class at most once per operation and reuses the quote within
// that operation.
type PriceSource interface {
	CurrentPrice(asset AssetClass) decimal.Decimal
}

type WealthPortfolioRepository interface {
	CreatePortfolio(portfolio *WealthPortfolio) error

	UpdatePortfolio(portfolio *WealthPortfolio) error

	// PortfolioByAccount fails with a NotFound error when the account has
	// never set a risk score.
	PortfolioByAccount(accountID uuid.UUID) (*WealthPortfolio, error)

	PortfoliosByAccounts(accountIDs []uuid.UUID) ([]*WealthPortfolio, error)
}

// WealthPortfolio is a per-account two-asset allocation. Percentages sum
// to 100; units are continuous with 4 fractional digits. Resetting the
// risk score rewrites the percentages but leaves already-held units
// untouched, so the actual allocation can drift from the target.
type WealthPortfolio struct {
	AccountID       uuid.UUID
	StockPercentage decimal.Decimal
	BondPercentage  decimal.Decimal
	StockUnits      decimal.Decimal
	BondUnits       decimal.Decimal
}

// WealthService rebalances per-account wealth portfolios against the
// simulated asset prices. Buys split the amount by the target allocation;
// sells liquidate both asset classes proportionally.
type WealthService struct {
	store  Store
	prices PriceSource
}

func NewWealthService(store Store, prices PriceSource) *WealthService {
	return &WealthService{store, prices}
}

// SetRiskScore maps a 1..5 risk score to a stock/bond split (1 -> 20/80,
// 5 -> 100/0) and creates the portfolio on first use. Existing unit
// holdings are not rebalanced.
func (ws *WealthService) SetRiskScore(
	accountID uuid.UUID,
	riskScore int,
) (*WealthPortfolio, error) {
	if riskScore < 1 || riskScore > 5 {
		return nil, errInvalidArgument(
			"risk score must be between 1 and 5; got [%v]",
			riskScore,
		)
	}

	stockPercentage := decimal.NewFromInt(int64(riskScore * 20))
	bondPercentage := decimal.NewFromInt(100).Sub(stockPercentage)

	var portfolio *WealthPortfolio

	err := ws.store.InTransaction(func(tx Store) error {
		if _, err := tx.Accounts().Account(accountID); err != nil {
			return err
		}

		created := false
		var err error

		portfolio, err = tx.Portfolios().PortfolioByAccount(accountID)
		if IsNotFound(err) {
			created = true
			portfolio = &WealthPortfolio{
				AccountID:  accountID,
				StockUnits: decimal.Zero,
				BondUnits:  decimal.Zero,
			}
		} else if err != nil {
			return err
		}

		portfolio.StockPercentage = stockPercentage
		portfolio.BondPercentage = bondPercentage

		if created {
			return tx.Portfolios().CreatePortfolio(portfolio)
		}
		return tx.Portfolios().UpdatePortfolio(portfolio)
	})
	if err != nil {
		return nil, err
	}

	return portfolio, nil
}

func (ws *WealthService) Buy(
	accountID uuid.UUID,
	amount decimal.Decimal,
) (*WealthPortfolio, error) {
	if amount.Sign() <= 0 {
		return nil, errInvalidArgument("amount must be greater than zero")
	}

	// One quote per asset class per operation.
	stockPrice := ws.prices.CurrentPrice(AssetStock)
	bondPrice := ws.prices.CurrentPrice(AssetBond)

	var portfolio *WealthPortfolio

	err := ws.store.InTransaction(func(tx Store) error {
		account, err := tx.Accounts().Account(accountID)
		if err != nil {
			return err
		}

		if account.Frozen {
			return errInvalidState("account is frozen")
		}

		if account.Balance.LessThan(amount) {
			return errInvalidArgument("not enough cash in account")
		}

		portfolio, err = tx.Portfolios().PortfolioByAccount(accountID)
		if IsNotFound(err) {
			return errInvalidState(
				"no portfolio allocated for account [%v]",
				accountID,
			)
		} else if err != nil {
			return err
		}

		hundred := decimal.NewFromInt(100)
		stockAmount := amount.Mul(portfolio.StockPercentage).Div(hundred)
		bondAmount := amount.Mul(portfolio.BondPercentage).Div(hundred)

		portfolio.StockUnits = portfolio.StockUnits.Add(
			stockAmount.Div(stockPrice).Round(4),
		)
		portfolio.BondUnits = portfolio.BondUnits.Add(
			bondAmount.Div(bondPrice).Round(4),
		)

		if err := account.debit(amount); err != nil {
			return err
		}
		if err := tx.Accounts().UpdateAccount(account); err != nil {
			return err
		}

		return tx.Portfolios().UpdatePortfolio(portfolio)
	})
	if err != nil {
		return nil, err
	}

	return portfolio, nil
}

// Sell liquidates amount worth of the portfolio proportionally across both
// asset classes, regardless of which one appreciated, and credits the
// account with exactly amount.
func (ws *WealthService) Sell(
	accountID uuid.UUID,
	amount decimal.Decimal,
) (*WealthPortfolio, error) {
	if amount.Sign() <= 0 {
		return nil, errInvalidArgument("amount must be greater than zero")
	}

	stockPrice := ws.prices.CurrentPrice(AssetStock)
	bondPrice := ws.prices.CurrentPrice(AssetBond)

	var portfolio *WealthPortfolio

	err := ws.store.InTransaction(func(tx Store) error {
		account, err := tx.Accounts().Account(accountID)
		if err != nil {
			return err
		}

		if account.Frozen {
			return errInvalidState("account is frozen")
		}

		portfolio, err = tx.Portfolios().PortfolioByAccount(accountID)
		if IsNotFound(err) {
			return errInvalidState(
				"no portfolio allocated for account [%v]",
				accountID,
			)
		} else if err != nil {
			return err
		}

		stockValue := portfolio.StockUnits.Mul(stockPrice)
		bondValue := portfolio.BondUnits.Mul(bondPrice)
		totalValue := stockValue.Add(bondValue)

		if amount.GreaterThan(totalValue) {
			return errInvalidArgument(
				"not enough assets in portfolio: value [%v], "+
					"requested [%v]",
				totalValue.StringFixed(2),
				amount.StringFixed(2),
			)
		}

		sellRatio := amount.Div(totalValue).Round(4)
		keepRatio := decimal.NewFromInt(1).Sub(sellRatio)

		portfolio.StockUnits = portfolio.StockUnits.Mul(keepRatio).Round(4)
		portfolio.BondUnits = portfolio.BondUnits.Mul(keepRatio).Round(4)

		account.credit(amount)
		if err := tx.Accounts().UpdateAccount(account); err != nil {
			return err
		}

		return tx.Portfolios().UpdatePortfolio(portfolio)
	})
	if err != nil {
		return nil, err
	}

	return portfolio, nil
}

// PortfolioValue prices the holdings with freshly queried quotes.
func (ws *WealthService) PortfolioValue(
	accountID uuid.UUID,
) (decimal.Decimal, error) {
	portfolio, err := ws.store.Portfolios().PortfolioByAccount(accountID)
	if IsNotFound(err) {
		return decimal.Zero, errInvalidState(
			"no portfolio allocated for account [%v]",
			accountID,
		)
	} else if err != nil {
		return decimal.Zero, err
	}

	stockValue := portfolio.StockUnits.Mul(ws.prices.CurrentPrice(AssetStock))
	bondValue := portfolio.BondUnits.Mul(ws.prices.CurrentPrice(AssetBond))

	return stockValue.Add(bondValue).Round(2), nil
}

func (ws *WealthService) PortfoliosForOwner(
	ownerEmail string,
) ([]*WealthPortfolio, error) {
	accounts, err := accountsForOwner(ws.store, ownerEmail)
	if err != nil {
		return nil, err
	}

	if len(accounts) == 0 {
		return []*WealthPortfolio{}, nil
	}

	return ws.store.Portfolios().PortfoliosByAccounts(accountIDs(accounts))
}

// TotalWealth sums account balances by type with the market value of the
// owner's stock positions.
type TotalWealth struct {
	CheckingBalance     decimal.Decimal
	SavingsBalance      decimal.Decimal
	StockPortfolioValue decimal.Decimal
	TotalWealth         decimal.Decimal
}

func (ws *WealthService) TotalWealth(
	ownerEmail string,
	trading *TradingService,
) (*TotalWealth, error) {
	accounts, err := accountsForOwner(ws.store, ownerEmail)
	if err != nil {
		return nil, err
	}

	checking := decimal.Zero
	savings := decimal.Zero
	for _, account := range accounts {
		switch account.Type {
		case Checking:
			checking = checking.Add(account.Balance)
		case Savings:
			savings = savings.Add(account.Balance)
		}
	}

	entries, err := trading.Portfolio(ownerEmail)
	if err != nil {
		return nil, fmt.Errorf(
			"could not aggregate stock portfolio: [%v]",
			err,
		)
	}

	stockValue := decimal.Zero
	for _, entry := range entries {
		stockValue = stockValue.Add(entry.MarketValue)
	}

	return &TotalWealth{
		CheckingBalance:     checking.Round(2),
		SavingsBalance:      savings.Round(2),
		StockPortfolioValue: stockValue.Round(2),
		TotalWealth:         checking.Add(savings).Add(stockValue).Round(2),
	}, nil
}
