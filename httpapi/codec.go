package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/summitwealth/ledger"
)

// ownerEmail resolves the authenticated owner identity from the request.
// A missing header means the upstream gateway did not authenticate the
// caller; such requests are rejected outright.
func (s *Server) ownerEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := r.Header.Get(ownerEmailHeader)
	if len(email) == 0 {
		writeError(w, http.StatusUnauthorized, "missing X-User-Email header")
		return "", false
	}

	return email, true
}

func (s *Server) accountID(
	w http.ResponseWriter,
	r *http.Request,
) (uuid.UUID, bool) {
	accountID, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed account id")
		return uuid.Nil, false
	}

	return accountID, true
}

func (s *Server) decode(
	w http.ResponseWriter,
	r *http.Request,
	request interface{},
) bool {
	err := json.NewDecoder(r.Body).Decode(request)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}

	return true
}

func (s *Server) parseAccountType(
	w http.ResponseWriter,
	value string,
) (ledger.AccountType, error) {
	accountType, err := ledger.ParseAccountType(value)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return accountType, err
	}

	return accountType, nil
}

// writeError maps an engine error onto an HTTP status using the error
// kind. Unclassified errors are logged and reported as a bare 500 so
// internals do not leak to the client.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsInvalidArgument(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case ledger.IsUnauthorized(err):
		writeError(w, http.StatusForbidden, err.Error())
	case ledger.IsInvalidState(err):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Errorf("request failed: [%v]", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(payload)
}

func historyLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return defaultHistoryLimit
	}

	return limit
}

type accountResponse struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	Status    string          `json:"status"`
	Number    string          `json:"number"`
	CreatedAt time.Time       `json:"createdAt"`
}

func newAccountResponse(account *ledger.Account) *accountResponse {
	return &accountResponse{
		ID:        account.ID,
		Type:      account.Type.String(),
		Balance:   account.Balance,
		Status:    account.Status(),
		Number:    account.Number,
		CreatedAt: account.CreatedAt,
	}
}

func newAccountResponses(accounts []*ledger.Account) []*accountResponse {
	responses := make([]*accountResponse, len(accounts))
	for i, account := range accounts {
		responses[i] = newAccountResponse(account)
	}

	return responses
}

type transactionResponse struct {
	Reference         string          `json:"reference"`
	FromAccountNumber string          `json:"fromAccountNumber"`
	ToAccountNumber   string          `json:"toAccountNumber"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	Timestamp         time.Time       `json:"timestamp"`
}

func newTransactionResponse(
	transaction *ledger.Transaction,
) *transactionResponse {
	return &transactionResponse{
		Reference:         transaction.Reference,
		FromAccountNumber: transaction.FromAccountNumber,
		ToAccountNumber:   transaction.ToAccountNumber,
		Amount:            transaction.Amount,
		Description:       transaction.Description,
		Timestamp:         transaction.Timestamp,
	}
}

func newTransactionResponses(
	transactions []*ledger.Transaction,
) []*transactionResponse {
	responses := make([]*transactionResponse, len(transactions))
	for i, transaction := range transactions {
		responses[i] = newTransactionResponse(transaction)
	}

	return responses
}

type stockResponse struct {
	Symbol          string          `json:"symbol"`
	CompanyName     string          `json:"companyName"`
	CurrentPrice    decimal.Decimal `json:"currentPrice"`
	TotalShares     int64           `json:"totalShares"`
	AvailableShares int64           `json:"availableShares"`
	Sector          string          `json:"sector"`
	Description     string          `json:"description"`
}

func newStockResponse(stock *ledger.Stock) *stockResponse {
	return &stockResponse{
		Symbol:          stock.Symbol,
		CompanyName:     stock.CompanyName,
		CurrentPrice:    stock.CurrentPrice,
		TotalShares:     stock.TotalShares,
		AvailableShares: stock.AvailableShares,
		Sector:          stock.Sector,
		Description:     stock.Description,
	}
}

func newStockResponses(stocks []*ledger.Stock) []*stockResponse {
	responses := make([]*stockResponse, len(stocks))
	for i, stock := range stocks {
		responses[i] = newStockResponse(stock)
	}

	return responses
}

type tradeResponse struct {
	Reference     string           `json:"reference"`
	AccountID     uuid.UUID        `json:"accountId"`
	Symbol        string           `json:"symbol"`
	Side          string           `json:"side"`
	Quantity      int64            `json:"quantity"`
	PricePerShare decimal.Decimal  `json:"pricePerShare"`
	TotalAmount   decimal.Decimal  `json:"totalAmount"`
	ProfitLoss    *decimal.Decimal `json:"profitLoss,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
}

func newTradeResponse(trade *ledger.Trade) *tradeResponse {
	return &tradeResponse{
		Reference:     trade.Reference,
		AccountID:     trade.AccountID,
		Symbol:        trade.Symbol,
		Side:          trade.Side.String(),
		Quantity:      trade.Quantity,
		PricePerShare: trade.PricePerShare,
		TotalAmount:   trade.TotalAmount,
		ProfitLoss:    trade.ProfitLoss,
		Timestamp:     trade.Timestamp,
	}
}

func newTradeResponses(trades []*ledger.Trade) []*tradeResponse {
	responses := make([]*tradeResponse, len(trades))
	for i, trade := range trades {
		responses[i] = newTradeResponse(trade)
	}

	return responses
}

type portfolioEntryResponse struct {
	Symbol            string          `json:"symbol"`
	CompanyName       string          `json:"companyName"`
	Shares            int64           `json:"shares"`
	AverageCostBasis  decimal.Decimal `json:"averageCostBasis"`
	CurrentPrice      decimal.Decimal `json:"currentPrice"`
	MarketValue       decimal.Decimal `json:"marketValue"`
	ProfitLoss        decimal.Decimal `json:"profitLoss"`
	ProfitLossPercent decimal.Decimal `json:"profitLossPercent"`
}

func newPortfolioEntryResponses(
	entries []*ledger.PortfolioEntry,
) []*portfolioEntryResponse {
	responses := make([]*portfolioEntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = &portfolioEntryResponse{
			Symbol:            entry.Symbol,
			CompanyName:       entry.CompanyName,
			Shares:            entry.Shares,
			AverageCostBasis:  entry.AverageCostBasis,
			CurrentPrice:      entry.CurrentPrice,
			MarketValue:       entry.MarketValue,
			ProfitLoss:        entry.ProfitLoss,
			ProfitLossPercent: entry.ProfitLossPercent,
		}
	}

	return responses
}

type wealthPortfolioResponse struct {
	AccountID       uuid.UUID       `json:"accountId"`
	StockPercentage decimal.Decimal `json:"stockPercentage"`
	BondPercentage  decimal.Decimal `json:"bondPercentage"`
	StockUnits      decimal.Decimal `json:"stockUnits"`
	BondUnits       decimal.Decimal `json:"bondUnits"`
}

func newWealthPortfolioResponse(
	portfolio *ledger.WealthPortfolio,
) *wealthPortfolioResponse {
	return &wealthPortfolioResponse{
		AccountID:       portfolio.AccountID,
		StockPercentage: portfolio.StockPercentage,
		BondPercentage:  portfolio.BondPercentage,
		StockUnits:      portfolio.StockUnits,
		BondUnits:       portfolio.BondUnits,
	}
}

func newWealthPortfolioResponses(
	portfolios []*ledger.WealthPortfolio,
) []*wealthPortfolioResponse {
	responses := make([]*wealthPortfolioResponse, len(portfolios))
	for i, portfolio := range portfolios {
		responses[i] = newWealthPortfolioResponse(portfolio)
	}

	return responses
}

type totalWealthResponse struct {
	CheckingBalance     decimal.Decimal `json:"checkingBalance"`
	SavingsBalance      decimal.Decimal `json:"savingsBalance"`
	StockPortfolioValue decimal.Decimal `json:"stockPortfolioValue"`
	TotalWealth         decimal.Decimal `json:"totalWealth"`
}

func newTotalWealthResponse(
	totalWealth *ledger.TotalWealth,
) *totalWealthResponse {
	return &totalWealthResponse{
		CheckingBalance:     totalWealth.CheckingBalance,
		SavingsBalance:      totalWealth.SavingsBalance,
		StockPortfolioValue: totalWealth.StockPortfolioValue,
		TotalWealth:         totalWealth.TotalWealth,
	}
}
