package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/summitwealth/ledger"
)

const ownerEmailHeader = "X-User-Email"

const defaultHistoryLimit = 20

func (s *Server) handleOpenAccount(w http.ResponseWriter, r *http.Request) {
	email, ok := s.ownerEmail(w, r)
	if !ok {
		return
	}

	var request struct {
		Type           string          `json:"type"`
		InitialDeposit decimal.Decimal `json:"initialDeposit"`
	}
	if !s.decode(w, r, &request) {
		return
	}

	accountType, err := s.parseAccountType(w, request.Type)
	if err != nil {
		return
	}

	account, err := s.accounts.OpenAccount(
		email,
		accountType,
		request.InitialDeposit,
	)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newAccountResponse(account))
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	email, ok := s.ownerEmail(w, r)
	if !ok {
		return
	}

	accounts, err := s.accounts.AccountsForOwner(email)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newAccountResponses(accounts))
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	email, ok := s.ownerEmail(w, r)
	if !ok {
		return
	}

	accountID, ok := s.accountID(w, r)
	if !ok {
		return
	}

	account, err := s.accounts.Account(accountID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	owned, err := s.accounts.IsOwnedBy(account, email)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !owned {
		writeError(w, http.StatusForbidden, "account is not yours")
		return
	}

	writeJSON(w, http.StatusOK, newAccountResponse(account))
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	email, ok := s.ownerEmail(w, r)
	if !ok {
		return
	}

	accountID, ok := s.accountID(w, r)
	if !ok {
		return
	}

	var request struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if !s.decode(w, r, &request) {
		return
	}

	account, err := s.accounts.Deposit(accountID, request.Amount, email)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newAccountResponse(account))
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	email, ok := s.ownerEmail(w, r)
	if !ok {
		return
	}

	var request struct {
		FromAccountID uuid.UUID       `json:"fromAccountId"`
		ToAccountID   uuid.UUID       `json:"toAccountId"`
		Amount        decimal.Decimal `json:"amount"`
		Description   string          `json:"description"`
	}
	if !s.decode(w, r, &request) {
		return
	}

	transaction, err := s.transfers.Transfer(
		request.FromAccountID,
		request.ToAccountID,
		request.Amount,
		request.Description,
		email,
	)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newTransactionResponse(transaction))
}

func (s *Server) handleListTransactions(
	w http.ResponseWriter,
	r *http.Request,
) {
	email, ok := s.ownerEmail(w, r)
	if !ok {
		return
	}

	transactions, err := s.transfers.TransactionsForOwner(
		email,
		historyLimit(r),
	)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newTransactionResponses(transactions))
}

func (s *Server) handleTransactionByReference(
	w http.ResponseWriter,
	r *http.Request,
) {
	email, ok := s.ownerEmail(w, r)
	if !ok {
		return
	}

	transaction, err := s.transfers.TransactionByReference(
		chi.URLParam(r, "reference"),
		email,
	)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newTransactionResponse(transaction))
}

func (s *Server) handleListStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := s.stockAdmin.ListStocks()
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newStockResponses(stocks))
}

func (s *Server) handleBuyStock(w http.ResponseWriter, r *http.Request) {
	s.handleStockOrder(w, r, s.trading.Buy)
}

func (s *Server) handleSellStock(w http.ResponseWriter, r *http.Request) {
	s.handleStockOrder(w, r, s.trading.Sell)
}

func (s *Server) handleStockOrder(
	w http.ResponseWriter,
	r *http.Request,
	execute func(uuid.UUID, string, int64, string) (*ledger.Trade, error),
) {
	email, ok := s.ownerEmail(w, r)
	if !ok {
		return
	}

	var request struct {
		AccountID uuid.UUID `json:"accountId"`
		Quantity  int64     `json:"quantity"`
	}
	if !s.decode(w, r, &request) {
		return
	}

	trade, err := execute(
		request.AccountID,
		chi.URLParam(r, "symbol"),
		request.Quantity,
		email,
	)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newTradeResponse(trade))
}

func (s *Server) handleStockPortfolio(
	w http.ResponseWriter,
	r *http.Request,
) {
	email, ok := s.ownerEmail(w, r)
	if !ok {
		return
	}

	entries, err := s.trading.Portfolio(email)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newPortfolioEntryResponses(entries))
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	email, ok := s.ownerEmail(w, r)
	if !ok {
		return
	}

	trades, err := s.trading.TradesForOwner(email, historyLimit(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newTradeResponses(trades))
}

func (s *Server) handleTradeByReference(
	w http.ResponseWriter,
	r *http.Request,
) {
	email, ok := s.ownerEmail(w, r)
	if !ok {
		return
	}

	trade, err := s.trading.TradeByReference(
		chi.URLParam(r, "reference"),
		email,
	)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newTradeResponse(trade))
}

func (s *Server) handleSetRiskScore(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.ownerEmail(w, r); !ok {
		return
	}

	var request struct {
		AccountID uuid.UUID `json:"accountId"`
		RiskScore int       `json:"riskScore"`
	}
	if !s.decode(w, r, &request) {
		return
	}

	portfolio, err := s.wealth.SetRiskScore(
		request.AccountID,
		request.RiskScore,
	)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newWealthPortfolioResponse(portfolio))
}

func (s *Server) handleWealthBuy(w http.ResponseWriter, r *http.Request) {
	s.handleWealthOrder(w, r, s.wealth.Buy)
}

func (s *Server) handleWealthSell(w http.ResponseWriter, r *http.Request) {
	s.handleWealthOrder(w, r, s.wealth.Sell)
}

func (s *Server) handleWealthOrder(
	w http.ResponseWriter,
	r *http.Request,
	execute func(uuid.UUID, decimal.Decimal) (*ledger.WealthPortfolio, error),
) {
	if _, ok := s.ownerEmail(w, r); !ok {
		return
	}

	var request struct {
		AccountID uuid.UUID       `json:"accountId"`
		Amount    decimal.Decimal `json:"amount"`
	}
	if !s.decode(w, r, &request) {
		return
	}

	portfolio, err := execute(request.AccountID, request.Amount)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newWealthPortfolioResponse(portfolio))
}

func (s *Server) handleWealthValue(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.ownerEmail(w, r); !ok {
		return
	}

	accountID, ok := s.accountID(w, r)
	if !ok {
		return
	}

	value, err := s.wealth.PortfolioValue(accountID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"value": value})
}

func (s *Server) handleWealthPortfolios(
	w http.ResponseWriter,
	r *http.Request,
) {
	email, ok := s.ownerEmail(w, r)
	if !ok {
		return
	}

	portfolios, err := s.wealth.PortfoliosForOwner(email)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newWealthPortfolioResponses(portfolios))
}

func (s *Server) handleTotalWealth(w http.ResponseWriter, r *http.Request) {
	email, ok := s.ownerEmail(w, r)
	if !ok {
		return
	}

	totalWealth, err := s.wealth.TotalWealth(email, s.trading)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newTotalWealthResponse(totalWealth))
}

func (s *Server) handleCreateStock(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Symbol       string          `json:"symbol"`
		CompanyName  string          `json:"companyName"`
		CurrentPrice decimal.Decimal `json:"currentPrice"`
		TotalShares  int64           `json:"totalShares"`
		Sector       string          `json:"sector"`
		Description  string          `json:"description"`
	}
	if !s.decode(w, r, &request) {
		return
	}

	stock, err := s.stockAdmin.CreateStock(
		request.Symbol,
		request.CompanyName,
		request.CurrentPrice,
		request.TotalShares,
		request.Sector,
		request.Description,
	)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newStockResponse(stock))
}

func (s *Server) handleUpdateStockPrice(
	w http.ResponseWriter,
	r *http.Request,
) {
	var request struct {
		Price decimal.Decimal `json:"price"`
	}
	if !s.decode(w, r, &request) {
		return
	}

	stock, err := s.stockAdmin.UpdateStockPrice(
		chi.URLParam(r, "symbol"),
		request.Price,
	)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newStockResponse(stock))
}

func (s *Server) handleDeleteStock(w http.ResponseWriter, r *http.Request) {
	err := s.stockAdmin.DeleteStock(chi.URLParam(r, "symbol"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFreezeAccount(
	w http.ResponseWriter,
	r *http.Request,
) {
	accountID, ok := s.accountID(w, r)
	if !ok {
		return
	}

	if err := s.accounts.FreezeAccount(accountID); err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnfreezeAccount(
	w http.ResponseWriter,
	r *http.Request,
) {
	accountID, ok := s.accountID(w, r)
	if !ok {
		return
	}

	if err := s.accounts.UnfreezeAccount(accountID); err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
