// Package httpapi exposes the ledger engines over HTTP. Authentication is
// performed upstream; the authenticated owner identity arrives in the
// X-User-Email header. The package holds no business logic: handlers
// decode the request, call an engine and encode the result.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/summitwealth/ledger"
)

type Config struct {
	Port int
}

type Server struct {
	router *chi.Mux
	server *http.Server
	logger ledger.Logger

	accounts   *ledger.AccountService
	transfers  *ledger.TransferService
	trading    *ledger.TradingService
	wealth     *ledger.WealthService
	stockAdmin *ledger.StockAdminService
}

func NewServer(
	config *Config,
	logger ledger.Logger,
	accounts *ledger.AccountService,
	transfers *ledger.TransferService,
	trading *ledger.TradingService,
	wealth *ledger.WealthService,
	stockAdmin *ledger.StockAdminService,
) *Server {
	server := &Server{
		router:     chi.NewRouter(),
		logger:     logger.WithField("component", "httpapi"),
		accounts:   accounts,
		transfers:  transfers,
		trading:    trading,
		wealth:     wealth,
		stockAdmin: stockAdmin,
	}

	server.setupMiddleware()
	server.setupRoutes()

	server.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      server.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-User-Email"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", s.handleOpenAccount)
			r.Get("/", s.handleListAccounts)
			r.Get("/{accountID}", s.handleGetAccount)
			r.Post("/{accountID}/deposit", s.handleDeposit)
		})

		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", s.handleTransfer)
			r.Get("/", s.handleListTransactions)
			r.Get("/{reference}", s.handleTransactionByReference)
		})

		r.Route("/stocks", func(r chi.Router) {
			r.Get("/", s.handleListStocks)
			r.Post("/{symbol}/buy", s.handleBuyStock)
			r.Post("/{symbol}/sell", s.handleSellStock)
			r.Get("/portfolio", s.handleStockPortfolio)
		})

		r.Route("/trades", func(r chi.Router) {
			r.Get("/", s.handleListTrades)
			r.Get("/{reference}", s.handleTradeByReference)
		})

		r.Route("/wealth", func(r chi.Router) {
			r.Post("/risk-score", s.handleSetRiskScore)
			r.Post("/buy", s.handleWealthBuy)
			r.Post("/sell", s.handleWealthSell)
			r.Get("/value/{accountID}", s.handleWealthValue)
			r.Get("/portfolios", s.handleWealthPortfolios)
			r.Get("/total", s.handleTotalWealth)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/stocks", s.handleCreateStock)
			r.Put("/stocks/{symbol}/price", s.handleUpdateStockPrice)
			r.Delete("/stocks/{symbol}", s.handleDeleteStock)
			r.Post("/accounts/{accountID}/freeze", s.handleFreezeAccount)
			r.Post("/accounts/{accountID}/unfreeze", s.handleUnfreezeAccount)
		})
	})
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		shutdownCtx, cancelCtx := context.WithTimeout(
			context.Background(),
			10*time.Second,
		)
		defer cancelCtx()

		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Infof("http server listening on [%v]", s.server.Addr)

	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not run http server: [%v]", err)
	}

	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
