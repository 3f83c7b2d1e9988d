package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradingService executes stock buys and sells against the shared share
// pool. A buy debits the account, takes shares from the pool and reweights
// the position's average cost basis; a sell returns shares to the pool,
// credits the proceeds and realizes profit or loss against the basis.
// Every operation runs as one store transaction.
type TradingService struct {
	store      Store
	references *ReferenceGenerator
	events     EventService
}

func NewTradingService(
	store Store,
	references *ReferenceGenerator,
	events EventService,
) *TradingService {
	return &TradingService{store, references, events}
}

func (ts *TradingService) Buy(
	accountID uuid.UUID,
	symbol string,
	quantity int64,
	ownerEmail string,
) (*Trade, error) {
	if quantity <= 0 {
		return nil, errInvalidArgument("quantity must be greater than zero")
	}

	var trade *Trade

	err := ts.store.InTransaction(func(tx Store) error {
		account, err := ts.tradableAccount(tx, accountID, ownerEmail)
		if err != nil {
			return err
		}

		stock, err := tx.Stocks().Stock(symbol)
		if err != nil {
			return err
		}

		if stock.AvailableShares < quantity {
			return errInvalidArgument(
				"not enough shares available: available [%v], "+
					"requested [%v]",
				stock.AvailableShares,
				quantity,
			)
		}

		totalCost := stock.CurrentPrice.Mul(decimal.NewFromInt(quantity))

		if account.Balance.LessThan(totalCost) {
			return errInvalidArgument("insufficient funds in account")
		}

		stock.AvailableShares -= quantity
		if err := tx.Stocks().UpdateStock(stock); err != nil {
			return err
		}

		// Load-or-initialize: the position is created explicitly on the
		// first buy, never upserted implicitly.
		created := false
		position, err := tx.Positions().Position(accountID, stock.Symbol)
		if IsNotFound(err) {
			created = true
			position = &Position{
				AccountID:        accountID,
				Symbol:           stock.Symbol,
				Shares:           0,
				AverageCostBasis: decimal.Zero,
			}
		} else if err != nil {
			return err
		}

		newShares := position.Shares + quantity

		existingValue := position.AverageCostBasis.Mul(
			decimal.NewFromInt(position.Shares),
		)
		position.AverageCostBasis = existingValue.
			Add(totalCost).
			Div(decimal.NewFromInt(newShares)).
			Round(2)
		position.Shares = newShares

		if created {
			err = tx.Positions().CreatePosition(position)
		} else {
			err = tx.Positions().UpdatePosition(position)
		}
		if err != nil {
			return err
		}

		if err := account.debit(totalCost); err != nil {
			return err
		}
		if err := tx.Accounts().UpdateAccount(account); err != nil {
			return err
		}

		trade = &Trade{
			AccountID:     accountID,
			Symbol:        stock.Symbol,
			Side:          SideBuy,
			Quantity:      quantity,
			PricePerShare: stock.CurrentPrice,
			TotalAmount:   totalCost,
			Timestamp:     time.Now(),
		}

		return appendTrade(tx, ts.references, trade)
	})
	if err != nil {
		return nil, err
	}

	if ts.events != nil {
		ts.events.Publish(NewTradeExecutedEvent(ownerEmail, trade))
	}

	return trade, nil
}

func (ts *TradingService) Sell(
	accountID uuid.UUID,
	symbol string,
	quantity int64,
	ownerEmail string,
) (*Trade, error) {
	if quantity <= 0 {
		return nil, errInvalidArgument("quantity must be greater than zero")
	}

	var trade *Trade

	err := ts.store.InTransaction(func(tx Store) error {
		account, err := ts.tradableAccount(tx, accountID, ownerEmail)
		if err != nil {
			return err
		}

		position, err := tx.Positions().Position(accountID, symbol)
		if IsNotFound(err) {
			return errNotFound("no position found for [%v]", symbol)
		} else if err != nil {
			return err
		}

		if position.Shares < quantity {
			return errInvalidArgument(
				"not enough shares: owned [%v], requested [%v]",
				position.Shares,
				quantity,
			)
		}

		stock, err := tx.Stocks().Stock(symbol)
		if err != nil {
			return err
		}

		quantityDecimal := decimal.NewFromInt(quantity)
		proceeds := stock.CurrentPrice.Mul(quantityDecimal)
		costBasis := position.AverageCostBasis.Mul(quantityDecimal)
		profitLoss := proceeds.Sub(costBasis)

		stock.AvailableShares += quantity
		if err := tx.Stocks().UpdateStock(stock); err != nil {
			return err
		}

		// The average cost basis has no meaning for an empty position, so
		// a full liquidation removes the row. A partial sell keeps the
		// basis untouched: realized gain does not alter remaining basis.
		remainingShares := position.Shares - quantity
		if remainingShares == 0 {
			err = tx.Positions().DeletePosition(accountID, stock.Symbol)
		} else {
			position.Shares = remainingShares
			err = tx.Positions().UpdatePosition(position)
		}
		if err != nil {
			return err
		}

		account.credit(proceeds)
		if err := tx.Accounts().UpdateAccount(account); err != nil {
			return err
		}

		trade = &Trade{
			AccountID:     accountID,
			Symbol:        stock.Symbol,
			Side:          SideSell,
			Quantity:      quantity,
			PricePerShare: stock.CurrentPrice,
			TotalAmount:   proceeds,
			ProfitLoss:    &profitLoss,
			Timestamp:     time.Now(),
		}

		return appendTrade(tx, ts.references, trade)
	})
	if err != nil {
		return nil, err
	}

	if ts.events != nil {
		ts.events.Publish(NewTradeExecutedEvent(ownerEmail, trade))
	}

	return trade, nil
}

// PortfolioEntry aggregates one position with the current market data of
// its stock.
type PortfolioEntry struct {
	Symbol            string
	CompanyName       string
	Shares            int64
	AverageCostBasis  decimal.Decimal
	CurrentPrice      decimal.Decimal
	MarketValue       decimal.Decimal
	ProfitLoss        decimal.Decimal
	ProfitLossPercent decimal.Decimal
}

// Portfolio aggregates all positions of the owner across all accounts
// into market value and unrealized profit/loss views.
func (ts *TradingService) Portfolio(
	ownerEmail string,
) ([]*PortfolioEntry, error) {
	accounts, err := accountsForOwner(ts.store, ownerEmail)
	if err != nil {
		return nil, err
	}

	if len(accounts) == 0 {
		return []*PortfolioEntry{}, nil
	}

	positions, err := ts.store.Positions().PositionsByAccounts(
		accountIDs(accounts),
	)
	if err != nil {
		return nil, err
	}

	entries := make([]*PortfolioEntry, 0, len(positions))
	for _, position := range positions {
		stock, err := ts.store.Stocks().Stock(position.Symbol)
		if err != nil {
			return nil, fmt.Errorf(
				"could not resolve stock for position [%v/%v]: [%v]",
				position.AccountID,
				position.Symbol,
				err,
			)
		}

		entries = append(entries, newPortfolioEntry(position, stock))
	}

	return entries, nil
}

func newPortfolioEntry(position *Position, stock *Stock) *PortfolioEntry {
	shares := decimal.NewFromInt(position.Shares)
	marketValue := stock.CurrentPrice.Mul(shares)
	costBasis := position.AverageCostBasis.Mul(shares)
	profitLoss := marketValue.Sub(costBasis)

	// Percent is computed at 4-decimal precision before scaling; a zero
	// cost basis yields zero to avoid division by zero.
	profitLossPercent := decimal.Zero
	if costBasis.Sign() > 0 {
		profitLossPercent = profitLoss.
			Div(costBasis).
			Round(4).
			Mul(decimal.NewFromInt(100))
	}

	return &PortfolioEntry{
		Symbol:            stock.Symbol,
		CompanyName:       stock.CompanyName,
		Shares:            position.Shares,
		AverageCostBasis:  position.AverageCostBasis,
		CurrentPrice:      stock.CurrentPrice,
		MarketValue:       marketValue,
		ProfitLoss:        profitLoss,
		ProfitLossPercent: profitLossPercent,
	}
}

// TradesForOwner returns up to limit recent trades across all accounts of
// the owner, newest first.
func (ts *TradingService) TradesForOwner(
	ownerEmail string,
	limit int,
) ([]*Trade, error) {
	accounts, err := accountsForOwner(ts.store, ownerEmail)
	if err != nil {
		return nil, err
	}

	if len(accounts) == 0 {
		return []*Trade{}, nil
	}

	return ts.store.Trades().RecentTradesByAccounts(
		accountIDs(accounts),
		limit,
	)
}

// TradeByReference resolves a trade by its reference. The requester must
// own the account the trade originated from.
func (ts *TradingService) TradeByReference(
	reference string,
	ownerEmail string,
) (*Trade, error) {
	trade, err := ts.store.Trades().TradeByReference(reference)
	if err != nil {
		return nil, err
	}

	accounts, err := accountsForOwner(ts.store, ownerEmail)
	if err != nil {
		return nil, err
	}

	for _, account := range accounts {
		if account.ID == trade.AccountID {
			return trade, nil
		}
	}

	return nil, errUnauthorized(
		"you do not have permission to view this trade",
	)
}

func (ts *TradingService) tradableAccount(
	tx Store,
	accountID uuid.UUID,
	ownerEmail string,
) (*Account, error) {
	account, err := tx.Accounts().Account(accountID)
	if err != nil {
		return nil, err
	}

	owned, err := accountOwnedBy(tx, account, ownerEmail)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, errUnauthorized(
			"you do not have permission to trade from this account",
		)
	}

	if account.Frozen {
		return nil, errInvalidState("account is frozen")
	}

	return account, nil
}

func appendTrade(
	tx Store,
	references *ReferenceGenerator,
	trade *Trade,
) error {
	for attempt := 0; attempt < referenceAttemptsLimit; attempt++ {
		trade.Reference = references.Generate(TradeReferencePrefix)

		err := tx.Trades().CreateTrade(trade)
		if errors.Is(err, ErrDuplicateReference) {
			continue
		}

		return err
	}

	return fmt.Errorf(
		"could not generate a unique trade reference in [%v] attempts",
		referenceAttemptsLimit,
	)
}
