// Package inmem provides an in-memory ledger store used by tests and
// local runs. Transactions are serialized with a mutex and applied to a
// snapshot of the state, so a failed operation leaves no partial effects.
package inmem

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/summitwealth/ledger"
)

type positionKey struct {
	accountID uuid.UUID
	symbol    string
}

type state struct {
	users      map[string]*ledger.User
	accounts   map[uuid.UUID]*ledger.Account
	stocks     map[string]*ledger.Stock
	positions  map[positionKey]*ledger.Position
	portfolios map[uuid.UUID]*ledger.WealthPortfolio

	// Transfers and trades are append-only; the reference slices keep the
	// append order for recency queries.
	transactions   map[string]*ledger.Transaction
	transactionLog []string
	trades         map[string]*ledger.Trade
	tradeLog       []string
}

func newState() *state {
	return &state{
		users:        make(map[string]*ledger.User),
		accounts:     make(map[uuid.UUID]*ledger.Account),
		stocks:       make(map[string]*ledger.Stock),
		positions:    make(map[positionKey]*ledger.Position),
		portfolios:   make(map[uuid.UUID]*ledger.WealthPortfolio),
		transactions: make(map[string]*ledger.Transaction),
		trades:       make(map[string]*ledger.Trade),
	}
}

func (s *state) clone() *state {
	clone := newState()

	for email, user := range s.users {
		userCopy := *user
		clone.users[email] = &userCopy
	}
	for id, account := range s.accounts {
		accountCopy := *account
		clone.accounts[id] = &accountCopy
	}
	for symbol, stock := range s.stocks {
		stockCopy := *stock
		clone.stocks[symbol] = &stockCopy
	}
	for key, position := range s.positions {
		positionCopy := *position
		clone.positions[key] = &positionCopy
	}
	for id, portfolio := range s.portfolios {
		portfolioCopy := *portfolio
		clone.portfolios[id] = &portfolioCopy
	}
	for reference, transaction := range s.transactions {
		transactionCopy := *transaction
		clone.transactions[reference] = &transactionCopy
	}
	for reference, trade := range s.trades {
		tradeCopy := copyTrade(trade)
		clone.trades[reference] = tradeCopy
	}

	clone.transactionLog = append([]string{}, s.transactionLog...)
	clone.tradeLog = append([]string{}, s.tradeLog...)

	return clone
}

func copyTrade(trade *ledger.Trade) *ledger.Trade {
	tradeCopy := *trade
	if trade.ProfitLoss != nil {
		profitLoss := *trade.ProfitLoss
		tradeCopy.ProfitLoss = &profitLoss
	}
	return &tradeCopy
}

type Store struct {
	mutex sync.Mutex
	state *state
	inTx  bool
}

func NewStore() *Store {
	return &Store{state: newState()}
}

func (s *Store) Users() ledger.UserRepository {
	return &userRepository{s}
}

func (s *Store) Accounts() ledger.AccountRepository {
	return &accountRepository{s}
}

func (s *Store) Stocks() ledger.StockRepository {
	return &stockRepository{s}
}

func (s *Store) Positions() ledger.PositionRepository {
	return &positionRepository{s}
}

func (s *Store) Transactions() ledger.TransactionRepository {
	return &transactionRepository{s}
}

func (s *Store) Trades() ledger.TradeRepository {
	return &tradeRepository{s}
}

func (s *Store) Portfolios() ledger.WealthPortfolioRepository {
	return &portfolioRepository{s}
}

func (s *Store) InTransaction(fn func(store ledger.Store) error) error {
	if s.inTx {
		return fmt.Errorf("transactions do not nest")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	txStore := &Store{state: s.state.clone(), inTx: true}

	if err := fn(txStore); err != nil {
		return err
	}

	s.state = txStore.state

	return nil
}

// lock guards single-statement repository access. Inside a transaction the
// surrounding InTransaction already holds the store mutex and the
// transaction works on a private snapshot, so no locking is needed.
func (s *Store) lock() {
	if !s.inTx {
		s.mutex.Lock()
	}
}

func (s *Store) unlock() {
	if !s.inTx {
		s.mutex.Unlock()
	}
}
