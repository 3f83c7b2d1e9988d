package ledger_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/summitwealth/ledger"
	"github.com/summitwealth/ledger/inmem"
)

const (
	aliceEmail = "alice@example.com"
	bobEmail   = "bob@example.com"
)

func newTestStore(t *testing.T) *inmem.Store {
	store := inmem.NewStore()

	registerUser(t, store, aliceEmail, "Alice Smith")
	registerUser(t, store, bobEmail, "Bob Jones")

	return store
}

func registerUser(
	t *testing.T,
	store ledger.Store,
	email string,
	fullName string,
) {
	err := store.Users().CreateUser(&ledger.User{
		ID:        uuid.New(),
		Email:     email,
		FullName:  fullName,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("could not register user [%v]: [%v]", email, err)
	}
}

func openAccount(
	t *testing.T,
	store ledger.Store,
	email string,
	accountType ledger.AccountType,
	initialDeposit string,
) *ledger.Account {
	account, err := ledger.NewAccountService(store).OpenAccount(
		email,
		accountType,
		money(t, initialDeposit),
	)
	if err != nil {
		t.Fatalf("could not open account for [%v]: [%v]", email, err)
	}

	return account
}

func createStock(
	t *testing.T,
	store ledger.Store,
	symbol string,
	price string,
	totalShares int64,
) *ledger.Stock {
	stock, err := ledger.NewStockAdminService(store).CreateStock(
		symbol,
		symbol+" Corp",
		money(t, price),
		totalShares,
		"Technology",
		"",
	)
	if err != nil {
		t.Fatalf("could not create stock [%v]: [%v]", symbol, err)
	}

	return stock
}

func money(t *testing.T, value string) decimal.Decimal {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("malformed decimal [%v]: [%v]", value, err)
	}

	return amount
}

func accountBalance(
	t *testing.T,
	store ledger.Store,
	accountID uuid.UUID,
) decimal.Decimal {
	account, err := store.Accounts().Account(accountID)
	if err != nil {
		t.Fatalf("could not read account [%v]: [%v]", accountID, err)
	}

	return account.Balance
}

func assertDecimalEqual(
	t *testing.T,
	description string,
	expected string,
	actual decimal.Decimal,
) {
	t.Helper()

	if !money(t, expected).Equal(actual) {
		t.Errorf(
			"unexpected %v\nexpected: [%v]\nactual:   [%v]",
			description,
			expected,
			actual,
		)
	}
}

// fixedPriceSource returns constant per-asset prices, making wealth
// arithmetic deterministic in tests.
type fixedPriceSource struct {
	stockPrice decimal.Decimal
	bondPrice  decimal.Decimal
}

func newFixedPriceSource(t *testing.T, stockPrice, bondPrice string) *fixedPriceSource {
	return &fixedPriceSource{
		stockPrice: money(t, stockPrice),
		bondPrice:  money(t, bondPrice),
	}
}

func (fps *fixedPriceSource) CurrentPrice(
	asset ledger.AssetClass,
) decimal.Decimal {
	if asset == ledger.AssetStock {
		return fps.stockPrice
	}

	return fps.bondPrice
}

// capturingEventService records published events for assertions.
type capturingEventService struct {
	events []*ledger.Event
}

func (ces *capturingEventService) Publish(event *ledger.Event) {
	ces.events = append(ces.events, event)
}
