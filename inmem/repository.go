package inmem

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/summitwealth/ledger"
)

type userRepository struct {
	store *Store
}

func (ur *userRepository) CreateUser(user *ledger.User) error {
	ur.store.lock()
	defer ur.store.unlock()

	if _, exists := ur.store.state.users[user.Email]; exists {
		return fmt.Errorf("user [%v] already exists", user.Email)
	}

	userCopy := *user
	ur.store.state.users[user.Email] = &userCopy

	return nil
}

func (ur *userRepository) UserByEmail(email string) (*ledger.User, error) {
	ur.store.lock()
	defer ur.store.unlock()

	user, exists := ur.store.state.users[email]
	if !exists {
		return nil, ledger.NewNotFoundError("user not found: [%v]", email)
	}

	userCopy := *user
	return &userCopy, nil
}

type accountRepository struct {
	store *Store
}

func (ar *accountRepository) CreateAccount(account *ledger.Account) error {
	ar.store.lock()
	defer ar.store.unlock()

	if _, exists := ar.store.state.accounts[account.ID]; exists {
		return fmt.Errorf("account [%v] already exists", account.ID)
	}

	accountCopy := *account
	ar.store.state.accounts[account.ID] = &accountCopy

	return nil
}

func (ar *accountRepository) UpdateAccount(account *ledger.Account) error {
	ar.store.lock()
	defer ar.store.unlock()

	if _, exists := ar.store.state.accounts[account.ID]; !exists {
		return ledger.NewNotFoundError(
			"account not found: [%v]",
			account.ID,
		)
	}

	accountCopy := *account
	ar.store.state.accounts[account.ID] = &accountCopy

	return nil
}

func (ar *accountRepository) Account(
	accountID uuid.UUID,
) (*ledger.Account, error) {
	ar.store.lock()
	defer ar.store.unlock()

	account, exists := ar.store.state.accounts[accountID]
	if !exists {
		return nil, ledger.NewNotFoundError(
			"account not found: [%v]",
			accountID,
		)
	}

	accountCopy := *account
	return &accountCopy, nil
}

func (ar *accountRepository) AccountsByUser(
	userID uuid.UUID,
) ([]*ledger.Account, error) {
	ar.store.lock()
	defer ar.store.unlock()

	accounts := make([]*ledger.Account, 0)
	for _, account := range ar.store.state.accounts {
		if account.UserID == userID {
			accountCopy := *account
			accounts = append(accounts, &accountCopy)
		}
	}

	return accounts, nil
}

type stockRepository struct {
	store *Store
}

func (sr *stockRepository) CreateStock(stock *ledger.Stock) error {
	sr.store.lock()
	defer sr.store.unlock()

	if _, exists := sr.store.state.stocks[stock.Symbol]; exists {
		return fmt.Errorf("stock [%v] already exists", stock.Symbol)
	}

	stockCopy := *stock
	sr.store.state.stocks[stock.Symbol] = &stockCopy

	return nil
}

func (sr *stockRepository) UpdateStock(stock *ledger.Stock) error {
	sr.store.lock()
	defer sr.store.unlock()

	if _, exists := sr.store.state.stocks[stock.Symbol]; !exists {
		return ledger.NewNotFoundError(
			"stock not found: [%v]",
			stock.Symbol,
		)
	}

	stockCopy := *stock
	sr.store.state.stocks[stock.Symbol] = &stockCopy

	return nil
}

func (sr *stockRepository) DeleteStock(symbol string) error {
	sr.store.lock()
	defer sr.store.unlock()

	if _, exists := sr.store.state.stocks[symbol]; !exists {
		return ledger.NewNotFoundError("stock not found: [%v]", symbol)
	}

	delete(sr.store.state.stocks, symbol)

	return nil
}

func (sr *stockRepository) Stock(symbol string) (*ledger.Stock, error) {
	sr.store.lock()
	defer sr.store.unlock()

	stock, exists := sr.store.state.stocks[symbol]
	if !exists {
		return nil, ledger.NewNotFoundError(
			"stock not found: [%v]",
			symbol,
		)
	}

	stockCopy := *stock
	return &stockCopy, nil
}

func (sr *stockRepository) Stocks() ([]*ledger.Stock, error) {
	sr.store.lock()
	defer sr.store.unlock()

	stocks := make([]*ledger.Stock, 0, len(sr.store.state.stocks))
	for _, stock := range sr.store.state.stocks {
		stockCopy := *stock
		stocks = append(stocks, &stockCopy)
	}

	return stocks, nil
}

type positionRepository struct {
	store *Store
}

func (pr *positionRepository) CreatePosition(
	position *ledger.Position,
) error {
	pr.store.lock()
	defer pr.store.unlock()

	key := positionKey{position.AccountID, position.Symbol}
	if _, exists := pr.store.state.positions[key]; exists {
		return fmt.Errorf(
			"position [%v/%v] already exists",
			position.AccountID,
			position.Symbol,
		)
	}

	positionCopy := *position
	pr.store.state.positions[key] = &positionCopy

	return nil
}

func (pr *positionRepository) UpdatePosition(
	position *ledger.Position,
) error {
	pr.store.lock()
	defer pr.store.unlock()

	key := positionKey{position.AccountID, position.Symbol}
	if _, exists := pr.store.state.positions[key]; !exists {
		return ledger.NewNotFoundError(
			"position not found: [%v/%v]",
			position.AccountID,
			position.Symbol,
		)
	}

	positionCopy := *position
	pr.store.state.positions[key] = &positionCopy

	return nil
}

func (pr *positionRepository) DeletePosition(
	accountID uuid.UUID,
	symbol string,
) error {
	pr.store.lock()
	defer pr.store.unlock()

	key := positionKey{accountID, symbol}
	if _, exists := pr.store.state.positions[key]; !exists {
		return ledger.NewNotFoundError(
			"position not found: [%v/%v]",
			accountID,
			symbol,
		)
	}

	delete(pr.store.state.positions, key)

	return nil
}

func (pr *positionRepository) Position(
	accountID uuid.UUID,
	symbol string,
) (*ledger.Position, error) {
	pr.store.lock()
	defer pr.store.unlock()

	position, exists := pr.store.state.positions[positionKey{
		accountID,
		symbol,
	}]
	if !exists {
		return nil, ledger.NewNotFoundError(
			"position not found: [%v/%v]",
			accountID,
			symbol,
		)
	}

	positionCopy := *position
	return &positionCopy, nil
}

func (pr *positionRepository) PositionsByAccounts(
	accountIDs []uuid.UUID,
) ([]*ledger.Position, error) {
	pr.store.lock()
	defer pr.store.unlock()

	wanted := make(map[uuid.UUID]bool, len(accountIDs))
	for _, accountID := range accountIDs {
		wanted[accountID] = true
	}

	positions := make([]*ledger.Position, 0)
	for _, position := range pr.store.state.positions {
		if wanted[position.AccountID] {
			positionCopy := *position
			positions = append(positions, &positionCopy)
		}
	}

	return positions, nil
}

type transactionRepository struct {
	store *Store
}

func (tr *transactionRepository) CreateTransaction(
	transaction *ledger.Transaction,
) error {
	tr.store.lock()
	defer tr.store.unlock()

	if _, exists := tr.store.state.transactions[transaction.Reference]; exists {
		return ledger.ErrDuplicateReference
	}

	transactionCopy := *transaction
	tr.store.state.transactions[transaction.Reference] = &transactionCopy
	tr.store.state.transactionLog = append(
		tr.store.state.transactionLog,
		transaction.Reference,
	)

	return nil
}

func (tr *transactionRepository) TransactionByReference(
	reference string,
) (*ledger.Transaction, error) {
	tr.store.lock()
	defer tr.store.unlock()

	transaction, exists := tr.store.state.transactions[reference]
	if !exists {
		return nil, ledger.NewNotFoundError(
			"transaction not found with reference: [%v]",
			reference,
		)
	}

	transactionCopy := *transaction
	return &transactionCopy, nil
}

func (tr *transactionRepository) RecentTransactionsByAccounts(
	accountIDs []uuid.UUID,
	limit int,
) ([]*ledger.Transaction, error) {
	tr.store.lock()
	defer tr.store.unlock()

	wanted := make(map[uuid.UUID]bool, len(accountIDs))
	for _, accountID := range accountIDs {
		wanted[accountID] = true
	}

	transactions := make([]*ledger.Transaction, 0)
	log := tr.store.state.transactionLog
	for i := len(log) - 1; i >= 0 && len(transactions) < limit; i-- {
		transaction := tr.store.state.transactions[log[i]]
		if wanted[transaction.FromAccountID] ||
			wanted[transaction.ToAccountID] {
			transactionCopy := *transaction
			transactions = append(transactions, &transactionCopy)
		}
	}

	return transactions, nil
}

type tradeRepository struct {
	store *Store
}

func (tr *tradeRepository) CreateTrade(trade *ledger.Trade) error {
	tr.store.lock()
	defer tr.store.unlock()

	if _, exists := tr.store.state.trades[trade.Reference]; exists {
		return ledger.ErrDuplicateReference
	}

	tr.store.state.trades[trade.Reference] = copyTrade(trade)
	tr.store.state.tradeLog = append(
		tr.store.state.tradeLog,
		trade.Reference,
	)

	return nil
}

func (tr *tradeRepository) TradeByReference(
	reference string,
) (*ledger.Trade, error) {
	tr.store.lock()
	defer tr.store.unlock()

	trade, exists := tr.store.state.trades[reference]
	if !exists {
		return nil, ledger.NewNotFoundError(
			"trade not found with reference: [%v]",
			reference,
		)
	}

	return copyTrade(trade), nil
}

func (tr *tradeRepository) RecentTradesByAccounts(
	accountIDs []uuid.UUID,
	limit int,
) ([]*ledger.Trade, error) {
	tr.store.lock()
	defer tr.store.unlock()

	wanted := make(map[uuid.UUID]bool, len(accountIDs))
	for _, accountID := range accountIDs {
		wanted[accountID] = true
	}

	trades := make([]*ledger.Trade, 0)
	log := tr.store.state.tradeLog
	for i := len(log) - 1; i >= 0 && len(trades) < limit; i-- {
		trade := tr.store.state.trades[log[i]]
		if wanted[trade.AccountID] {
			trades = append(trades, copyTrade(trade))
		}
	}

	return trades, nil
}

type portfolioRepository struct {
	store *Store
}

func (pr *portfolioRepository) CreatePortfolio(
	portfolio *ledger.WealthPortfolio,
) error {
	pr.store.lock()
	defer pr.store.unlock()

	if _, exists := pr.store.state.portfolios[portfolio.AccountID]; exists {
		return fmt.Errorf(
			"portfolio for account [%v] already exists",
			portfolio.AccountID,
		)
	}

	portfolioCopy := *portfolio
	pr.store.state.portfolios[portfolio.AccountID] = &portfolioCopy

	return nil
}

func (pr *portfolioRepository) UpdatePortfolio(
	portfolio *ledger.WealthPortfolio,
) error {
	pr.store.lock()
	defer pr.store.unlock()

	if _, exists := pr.store.state.portfolios[portfolio.AccountID]; !exists {
		return ledger.NewNotFoundError(
			"portfolio not found for account: [%v]",
			portfolio.AccountID,
		)
	}

	portfolioCopy := *portfolio
	pr.store.state.portfolios[portfolio.AccountID] = &portfolioCopy

	return nil
}

func (pr *portfolioRepository) PortfolioByAccount(
	accountID uuid.UUID,
) (*ledger.WealthPortfolio, error) {
	pr.store.lock()
	defer pr.store.unlock()

	portfolio, exists := pr.store.state.portfolios[accountID]
	if !exists {
		return nil, ledger.NewNotFoundError(
			"portfolio not found for account: [%v]",
			accountID,
		)
	}

	portfolioCopy := *portfolio
	return &portfolioCopy, nil
}

func (pr *portfolioRepository) PortfoliosByAccounts(
	accountIDs []uuid.UUID,
) ([]*ledger.WealthPortfolio, error) {
	pr.store.lock()
	defer pr.store.unlock()

	portfolios := make([]*ledger.WealthPortfolio, 0)
	for _, accountID := range accountIDs {
		if portfolio, exists := pr.store.state.portfolios[accountID]; exists {
			portfolioCopy := *portfolio
			portfolios = append(portfolios, &portfolioCopy)
		}
	}

	return portfolios, nil
}
