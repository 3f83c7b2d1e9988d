package ledger_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/summitwealth/ledger"
)

func TestTransferService_Transfer(t *testing.T) {
	store := newTestStore(t)
	from := openAccount(t, store, aliceEmail, ledger.Checking, "1000.00")
	to := openAccount(t, store, bobEmail, ledger.Checking, "200.00")

	events := &capturingEventService{}
	service := ledger.NewTransferService(
		store,
		ledger.NewReferenceGenerator(),
		events,
	)

	transaction, err := service.Transfer(
		from.ID,
		to.ID,
		money(t, "250.00"),
		"rent",
		aliceEmail,
	)
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	assertDecimalEqual(
		t,
		"source balance",
		"750.00",
		accountBalance(t, store, from.ID),
	)
	assertDecimalEqual(
		t,
		"destination balance",
		"450.00",
		accountBalance(t, store, to.ID),
	)

	referencePattern := regexp.MustCompile(`^TXN-\d{8}-[A-Z0-9]{6}$`)
	if !referencePattern.MatchString(transaction.Reference) {
		t.Errorf(
			"unexpected reference shape\nexpected: [%v]\nactual:   [%v]",
			referencePattern.String(),
			transaction.Reference,
		)
	}

	if transaction.FromAccountNumber != from.Number {
		t.Errorf(
			"unexpected source account number\n"+
				"expected: [%v]\nactual:   [%v]",
			from.Number,
			transaction.FromAccountNumber,
		)
	}
	if transaction.ToAccountNumber != to.Number {
		t.Errorf(
			"unexpected destination account number\n"+
				"expected: [%v]\nactual:   [%v]",
			to.Number,
			transaction.ToAccountNumber,
		)
	}

	if len(events.events) != 1 {
		t.Fatalf(
			"unexpected events count\nexpected: [%v]\nactual:   [%v]",
			1,
			len(events.events),
		)
	}
	if events.events[0].Email != aliceEmail {
		t.Errorf(
			"unexpected event addressee\nexpected: [%v]\nactual:   [%v]",
			aliceEmail,
			events.events[0].Email,
		)
	}
	if !strings.Contains(events.events[0].Payload, transaction.Reference) {
		t.Errorf(
			"event payload does not mention reference [%v]: [%v]",
			transaction.Reference,
			events.events[0].Payload,
		)
	}
}

func TestTransferService_Transfer_Validation(t *testing.T) {
	store := newTestStore(t)
	from := openAccount(t, store, aliceEmail, ledger.Checking, "1000.00")
	to := openAccount(t, store, bobEmail, ledger.Checking, "0.00")

	service := ledger.NewTransferService(
		store,
		ledger.NewReferenceGenerator(),
		nil,
	)

	tests := map[string]struct {
		fromAccountID uuid.UUID
		toAccountID   uuid.UUID
		amount        decimal.Decimal
		description   string
		errPredicate  func(error) bool
	}{
		"missing source account": {
			fromAccountID: uuid.Nil,
			toAccountID:   to.ID,
			amount:        money(t, "10.00"),
			description:   "rent",
			errPredicate:  ledger.IsInvalidArgument,
		},
		"missing destination account": {
			fromAccountID: from.ID,
			toAccountID:   uuid.Nil,
			amount:        money(t, "10.00"),
			description:   "rent",
			errPredicate:  ledger.IsInvalidArgument,
		},
		"same account": {
			fromAccountID: from.ID,
			toAccountID:   from.ID,
			amount:        money(t, "10.00"),
			description:   "rent",
			errPredicate:  ledger.IsInvalidArgument,
		},
		"zero amount": {
			fromAccountID: from.ID,
			toAccountID:   to.ID,
			amount:        decimal.Zero,
			description:   "rent",
			errPredicate:  ledger.IsInvalidArgument,
		},
		"negative amount": {
			fromAccountID: from.ID,
			toAccountID:   to.ID,
			amount:        money(t, "-5.00"),
			description:   "rent",
			errPredicate:  ledger.IsInvalidArgument,
		},
		"blank description": {
			fromAccountID: from.ID,
			toAccountID:   to.ID,
			amount:        money(t, "10.00"),
			description:   "   ",
			errPredicate:  ledger.IsInvalidArgument,
		},
		"unknown destination": {
			fromAccountID: from.ID,
			toAccountID:   uuid.New(),
			amount:        money(t, "10.00"),
			description:   "rent",
			errPredicate:  ledger.IsNotFound,
		},
		"insufficient funds": {
			fromAccountID: from.ID,
			toAccountID:   to.ID,
			amount:        money(t, "1000.01"),
			description:   "rent",
			errPredicate:  ledger.IsInvalidArgument,
		},
	}

	for testName, test := range tests {
		t.Run(testName, func(t *testing.T) {
			_, err := service.Transfer(
				test.fromAccountID,
				test.toAccountID,
				test.amount,
				test.description,
				aliceEmail,
			)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !test.errPredicate(err) {
				t.Errorf("unexpected error kind: [%v]", err)
			}
		})
	}

	// No failed attempt may leave partial effects.
	assertDecimalEqual(
		t,
		"source balance",
		"1000.00",
		accountBalance(t, store, from.ID),
	)
	assertDecimalEqual(
		t,
		"destination balance",
		"0.00",
		accountBalance(t, store, to.ID),
	)
}

func TestTransferService_Transfer_NotOwner(t *testing.T) {
	store := newTestStore(t)
	from := openAccount(t, store, aliceEmail, ledger.Checking, "1000.00")
	to := openAccount(t, store, bobEmail, ledger.Checking, "0.00")

	service := ledger.NewTransferService(
		store,
		ledger.NewReferenceGenerator(),
		nil,
	)

	_, err := service.Transfer(
		from.ID,
		to.ID,
		money(t, "10.00"),
		"rent",
		bobEmail,
	)
	if !ledger.IsUnauthorized(err) {
		t.Errorf("unexpected error kind: [%v]", err)
	}
}

func TestTransferService_Transfer_FrozenAccounts(t *testing.T) {
	store := newTestStore(t)
	from := openAccount(t, store, aliceEmail, ledger.Checking, "1000.00")
	to := openAccount(t, store, bobEmail, ledger.Checking, "0.00")

	accounts := ledger.NewAccountService(store)
	service := ledger.NewTransferService(
		store,
		ledger.NewReferenceGenerator(),
		nil,
	)

	if err := accounts.FreezeAccount(from.ID); err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	_, err := service.Transfer(
		from.ID,
		to.ID,
		money(t, "10.00"),
		"rent",
		aliceEmail,
	)
	if !ledger.IsInvalidState(err) {
		t.Errorf("unexpected error kind: [%v]", err)
	}

	// A frozen destination refuses credits as well.
	if err := accounts.UnfreezeAccount(from.ID); err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}
	if err := accounts.FreezeAccount(to.ID); err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	_, err = service.Transfer(
		from.ID,
		to.ID,
		money(t, "10.00"),
		"rent",
		aliceEmail,
	)
	if !ledger.IsInvalidState(err) {
		t.Errorf("unexpected error kind: [%v]", err)
	}

	assertDecimalEqual(
		t,
		"source balance",
		"1000.00",
		accountBalance(t, store, from.ID),
	)
}

func TestTransferService_TransactionsForOwner(t *testing.T) {
	store := newTestStore(t)
	alice := openAccount(t, store, aliceEmail, ledger.Checking, "1000.00")
	bob := openAccount(t, store, bobEmail, ledger.Checking, "1000.00")

	service := ledger.NewTransferService(
		store,
		ledger.NewReferenceGenerator(),
		nil,
	)

	first, err := service.Transfer(
		alice.ID,
		bob.ID,
		money(t, "10.00"),
		"first",
		aliceEmail,
	)
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	second, err := service.Transfer(
		bob.ID,
		alice.ID,
		money(t, "20.00"),
		"second",
		bobEmail,
	)
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	transactions, err := service.TransactionsForOwner(aliceEmail, 10)
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	// Newest first; both directions count.
	if len(transactions) != 2 {
		t.Fatalf(
			"unexpected transactions count\nexpected: [%v]\nactual:   [%v]",
			2,
			len(transactions),
		)
	}
	if transactions[0].Reference != second.Reference {
		t.Errorf(
			"unexpected first transaction\nexpected: [%v]\nactual:   [%v]",
			second.Reference,
			transactions[0].Reference,
		)
	}
	if transactions[1].Reference != first.Reference {
		t.Errorf(
			"unexpected second transaction\nexpected: [%v]\nactual:   [%v]",
			first.Reference,
			transactions[1].Reference,
		)
	}

	limited, err := service.TransactionsForOwner(aliceEmail, 1)
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}
	if len(limited) != 1 {
		t.Fatalf(
			"unexpected transactions count\nexpected: [%v]\nactual:   [%v]",
			1,
			len(limited),
		)
	}
	if limited[0].Reference != second.Reference {
		t.Errorf(
			"unexpected limited transaction\nexpected: [%v]\nactual:   [%v]",
			second.Reference,
			limited[0].Reference,
		)
	}
}

func TestTransferService_TransactionByReference(t *testing.T) {
	store := newTestStore(t)
	alice := openAccount(t, store, aliceEmail, ledger.Checking, "1000.00")
	bob := openAccount(t, store, bobEmail, ledger.Checking, "0.00")

	registerUser(t, store, "carol@example.com", "Carol Davis")

	service := ledger.NewTransferService(
		store,
		ledger.NewReferenceGenerator(),
		nil,
	)

	transaction, err := service.Transfer(
		alice.ID,
		bob.ID,
		money(t, "10.00"),
		"rent",
		aliceEmail,
	)
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	// Both the sender and the recipient may resolve the reference.
	for _, email := range []string{aliceEmail, bobEmail} {
		resolved, err := service.TransactionByReference(
			transaction.Reference,
			email,
		)
		if err != nil {
			t.Fatalf("unexpected error for [%v]: [%v]", email, err)
		}
		if resolved.Reference != transaction.Reference {
			t.Errorf(
				"unexpected transaction\nexpected: [%v]\nactual:   [%v]",
				transaction.Reference,
				resolved.Reference,
			)
		}
	}

	_, err = service.TransactionByReference(
		transaction.Reference,
		"carol@example.com",
	)
	if !ledger.IsUnauthorized(err) {
		t.Errorf("unexpected error kind: [%v]", err)
	}

	_, err = service.TransactionByReference("TXN-20250101-ABCDEF", aliceEmail)
	if !ledger.IsNotFound(err) {
		t.Errorf("unexpected error kind: [%v]", err)
	}
}
