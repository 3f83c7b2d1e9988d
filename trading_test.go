package ledger_test

import (
	"regexp"
	"testing"

	"github.com/summitwealth/ledger"
)

func TestTradingService_BuyAndSell(t *testing.T) {
	store := newTestStore(t)
	account := openAccount(t, store, aliceEmail, ledger.Checking, "1100.00")
	createStock(t, store, "ACME", "50.00", 1000)

	admin := ledger.NewStockAdminService(store)
	service := ledger.NewTradingService(
		store,
		ledger.NewReferenceGenerator(),
		nil,
	)

	// First buy at 50.00 establishes the basis.
	firstBuy, err := service.Buy(account.ID, "ACME", 10, aliceEmail)
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	assertDecimalEqual(t, "first buy total", "500.00", firstBuy.TotalAmount)
	assertDecimalEqual(
		t,
		"balance after first buy",
		"600.00",
		accountBalance(t, store, account.ID),
	)

	referencePattern := regexp.MustCompile(`^STK-\d{8}-[A-Z0-9]{6}$`)
	if !referencePattern.MatchString(firstBuy.Reference) {
		t.Errorf(
			"unexpected reference shape\nexpected: [%v]\nactual:   [%v]",
			referencePattern.String(),
			firstBuy.Reference,
		)
	}
	if firstBuy.ProfitLoss != nil {
		t.Errorf("buy trade must not carry profit/loss")
	}

	// Second buy at 60.00 reweights the basis to the quantity-weighted
	// average: (10*50 + 10*60) / 20 = 55.
	if _, err := admin.UpdateStockPrice("ACME", money(t, "60.00")); err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	if _, err := service.Buy(account.ID, "ACME", 10, aliceEmail); err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	position, err := store.Positions().Position(account.ID, "ACME")
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}
	if position.Shares != 20 {
		t.Errorf(
			"unexpected shares\nexpected: [%v]\nactual:   [%v]",
			20,
			position.Shares,
		)
	}
	assertDecimalEqual(t, "average cost basis", "55.00", position.AverageCostBasis)

	stock, err := store.Stocks().Stock("ACME")
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}
	if stock.AvailableShares != 980 {
		t.Errorf(
			"unexpected available shares\nexpected: [%v]\nactual:   [%v]",
			980,
			stock.AvailableShares,
		)
	}

	// Full liquidation at 70.00 realizes (70-55)*20 = 300 and removes the
	// position.
	if _, err := admin.UpdateStockPrice("ACME", money(t, "70.00")); err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	sell, err := service.Sell(account.ID, "ACME", 20, aliceEmail)
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	assertDecimalEqual(t, "sell proceeds", "1400.00", sell.TotalAmount)
	if sell.ProfitLoss == nil {
		t.Fatalf("sell trade must carry profit/loss")
	}
	assertDecimalEqual(t, "profit/loss", "300.00", *sell.ProfitLoss)
	assertDecimalEqual(
		t,
		"balance after sell",
		"1400.00",
		accountBalance(t, store, account.ID),
	)

	_, err = store.Positions().Position(account.ID, "ACME")
	if !ledger.IsNotFound(err) {
		t.Errorf("expected position to be deleted, got: [%v]", err)
	}

	stock, err = store.Stocks().Stock("ACME")
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}
	if stock.AvailableShares != 1000 {
		t.Errorf(
			"unexpected available shares\nexpected: [%v]\nactual:   [%v]",
			1000,
			stock.AvailableShares,
		)
	}
}

func TestTradingService_Buy_Failures(t *testing.T) {
	store := newTestStore(t)
	account := openAccount(t, store, aliceEmail, ledger.Checking, "100.00")
	createStock(t, store, "ACME", "50.00", 5)

	service := ledger.NewTradingService(
		store,
		ledger.NewReferenceGenerator(),
		nil,
	)

	tests := map[string]struct {
		symbol       string
		quantity     int64
		ownerEmail   string
		errPredicate func(error) bool
	}{
		"zero quantity": {
			symbol:       "ACME",
			quantity:     0,
			ownerEmail:   aliceEmail,
			errPredicate: ledger.IsInvalidArgument,
		},
		"unknown stock": {
			symbol:       "NOPE",
			quantity:     1,
			ownerEmail:   aliceEmail,
			errPredicate: ledger.IsNotFound,
		},
		"not enough shares in pool": {
			symbol:       "ACME",
			quantity:     6,
			ownerEmail:   aliceEmail,
			errPredicate: ledger.IsInvalidArgument,
		},
		"insufficient funds": {
			symbol:       "ACME",
			quantity:     3,
			ownerEmail:   aliceEmail,
			errPredicate: ledger.IsInvalidArgument,
		},
		"not the owner": {
			symbol:       "ACME",
			quantity:     1,
			ownerEmail:   bobEmail,
			errPredicate: ledger.IsUnauthorized,
		},
	}

	for testName, test := range tests {
		t.Run(testName, func(t *testing.T) {
			_, err := service.Buy(
				account.ID,
				test.symbol,
				test.quantity,
				test.ownerEmail,
			)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !test.errPredicate(err) {
				t.Errorf("unexpected error kind: [%v]", err)
			}
		})
	}

	// Failed buys leave the pool, the balance and the positions untouched.
	stock, err := store.Stocks().Stock("ACME")
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}
	if stock.AvailableShares != 5 {
		t.Errorf(
			"unexpected available shares\nexpected: [%v]\nactual:   [%v]",
			5,
			stock.AvailableShares,
		)
	}
	assertDecimalEqual(
		t,
		"balance",
		"100.00",
		accountBalance(t, store, account.ID),
	)
	if _, err := store.Positions().Position(account.ID, "ACME"); !ledger.IsNotFound(err) {
		t.Errorf("expected no position, got: [%v]", err)
	}
}

func TestTradingService_Sell_Failures(t *testing.T) {
	store := newTestStore(t)
	account := openAccount(t, store, aliceEmail, ledger.Checking, "1000.00")
	createStock(t, store, "ACME", "50.00", 100)

	service := ledger.NewTradingService(
		store,
		ledger.NewReferenceGenerator(),
		nil,
	)

	_, err := service.Sell(account.ID, "ACME", 1, aliceEmail)
	if !ledger.IsNotFound(err) {
		t.Errorf("unexpected error kind: [%v]", err)
	}

	if _, err := service.Buy(account.ID, "ACME", 5, aliceEmail); err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	_, err = service.Sell(account.ID, "ACME", 6, aliceEmail)
	if !ledger.IsInvalidArgument(err) {
		t.Errorf("unexpected error kind: [%v]", err)
	}

	// Partial sell keeps the basis on the remaining shares.
	if _, err := service.Sell(account.ID, "ACME", 2, aliceEmail); err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	position, err := store.Positions().Position(account.ID, "ACME")
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}
	if position.Shares != 3 {
		t.Errorf(
			"unexpected shares\nexpected: [%v]\nactual:   [%v]",
			3,
			position.Shares,
		)
	}
	assertDecimalEqual(t, "average cost basis", "50.00", position.AverageCostBasis)
}

func TestTradingService_FrozenAccount(t *testing.T) {
	store := newTestStore(t)
	account := openAccount(t, store, aliceEmail, ledger.Checking, "1000.00")
	createStock(t, store, "ACME", "50.00", 100)

	accounts := ledger.NewAccountService(store)
	service := ledger.NewTradingService(
		store,
		ledger.NewReferenceGenerator(),
		nil,
	)

	if _, err := service.Buy(account.ID, "ACME", 2, aliceEmail); err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	if err := accounts.FreezeAccount(account.ID); err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	if _, err := service.Buy(account.ID, "ACME", 1, aliceEmail); !ledger.IsInvalidState(err) {
		t.Errorf("unexpected error kind: [%v]", err)
	}
	if _, err := service.Sell(account.ID, "ACME", 1, aliceEmail); !ledger.IsInvalidState(err) {
		t.Errorf("unexpected error kind: [%v]", err)
	}
}

func TestTradingService_Portfolio(t *testing.T) {
	store := newTestStore(t)
	account := openAccount(t, store, aliceEmail, ledger.Checking, "10000.00")
	createStock(t, store, "ACME", "50.00", 1000)
	createStock(t, store, "GLOBEX", "20.00", 1000)

	admin := ledger.NewStockAdminService(store)
	service := ledger.NewTradingService(
		store,
		ledger.NewReferenceGenerator(),
		nil,
	)

	if _, err := service.Buy(account.ID, "ACME", 10, aliceEmail); err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}
	if _, err := service.Buy(account.ID, "GLOBEX", 5, aliceEmail); err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	// ACME appreciates 10%: P/L 50.00 on a 500.00 basis.
	if _, err := admin.UpdateStockPrice("ACME", money(t, "55.00")); err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	entries, err := service.Portfolio(aliceEmail)
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}
	if len(entries) != 2 {
		t.Fatalf(
			"unexpected entries count\nexpected: [%v]\nactual:   [%v]",
			2,
			len(entries),
		)
	}

	entriesBySymbol := make(map[string]*ledger.PortfolioEntry)
	for _, entry := range entries {
		entriesBySymbol[entry.Symbol] = entry
	}

	acme := entriesBySymbol["ACME"]
	if acme == nil {
		t.Fatalf("missing ACME entry")
	}
	assertDecimalEqual(t, "ACME market value", "550.00", acme.MarketValue)
	assertDecimalEqual(t, "ACME profit/loss", "50.00", acme.ProfitLoss)
	assertDecimalEqual(t, "ACME profit/loss percent", "10", acme.ProfitLossPercent)

	globex := entriesBySymbol["GLOBEX"]
	if globex == nil {
		t.Fatalf("missing GLOBEX entry")
	}
	assertDecimalEqual(t, "GLOBEX market value", "100.00", globex.MarketValue)
	assertDecimalEqual(t, "GLOBEX profit/loss", "0.00", globex.ProfitLoss)
	assertDecimalEqual(t, "GLOBEX profit/loss percent", "0", globex.ProfitLossPercent)
}

func TestTradingService_TradesForOwner(t *testing.T) {
	store := newTestStore(t)
	account := openAccount(t, store, aliceEmail, ledger.Checking, "1000.00")
	createStock(t, store, "ACME", "50.00", 100)

	service := ledger.NewTradingService(
		store,
		ledger.NewReferenceGenerator(),
		nil,
	)

	buy, err := service.Buy(account.ID, "ACME", 5, aliceEmail)
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}
	sell, err := service.Sell(account.ID, "ACME", 2, aliceEmail)
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	trades, err := service.TradesForOwner(aliceEmail, 10)
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}
	if len(trades) != 2 {
		t.Fatalf(
			"unexpected trades count\nexpected: [%v]\nactual:   [%v]",
			2,
			len(trades),
		)
	}
	if trades[0].Reference != sell.Reference {
		t.Errorf(
			"unexpected first trade\nexpected: [%v]\nactual:   [%v]",
			sell.Reference,
			trades[0].Reference,
		)
	}
	if trades[1].Reference != buy.Reference {
		t.Errorf(
			"unexpected second trade\nexpected: [%v]\nactual:   [%v]",
			buy.Reference,
			trades[1].Reference,
		)
	}
}

func TestTradingService_TradeByReference(t *testing.T) {
	store := newTestStore(t)
	account := openAccount(t, store, aliceEmail, ledger.Checking, "1000.00")
	createStock(t, store, "ACME", "50.00", 100)

	service := ledger.NewTradingService(
		store,
		ledger.NewReferenceGenerator(),
		nil,
	)

	buy, err := service.Buy(account.ID, "ACME", 5, aliceEmail)
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	resolved, err := service.TradeByReference(buy.Reference, aliceEmail)
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}
	if resolved.Reference != buy.Reference {
		t.Errorf(
			"unexpected trade\nexpected: [%v]\nactual:   [%v]",
			buy.Reference,
			resolved.Reference,
		)
	}

	// Unlike transfers, only the originating account owner may resolve a
	// trade.
	if _, err := service.TradeByReference(buy.Reference, bobEmail); !ledger.IsUnauthorized(err) {
		t.Errorf("unexpected error kind: [%v]", err)
	}

	if _, err := service.TradeByReference("STK-20250101-ABCDEF", aliceEmail); !ledger.IsNotFound(err) {
		t.Errorf("unexpected error kind: [%v]", err)
	}
}
