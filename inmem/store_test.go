package inmem

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/summitwealth/ledger"
)

func TestStore_InTransaction_Commit(t *testing.T) {
	store := NewStore()
	account := testAccount(t, store)

	err := store.InTransaction(func(tx ledger.Store) error {
		updated, err := tx.Accounts().Account(account.ID)
		if err != nil {
			return err
		}

		updated.Balance = decimal.NewFromInt(500)

		return tx.Accounts().UpdateAccount(updated)
	})
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	committed, err := store.Accounts().Account(account.ID)
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	if !committed.Balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf(
			"unexpected balance\nexpected: [%v]\nactual:   [%v]",
			500,
			committed.Balance,
		)
	}
}

func TestStore_InTransaction_Rollback(t *testing.T) {
	store := NewStore()
	account := testAccount(t, store)

	err := store.InTransaction(func(tx ledger.Store) error {
		updated, err := tx.Accounts().Account(account.ID)
		if err != nil {
			return err
		}

		updated.Balance = decimal.NewFromInt(500)
		if err := tx.Accounts().UpdateAccount(updated); err != nil {
			return err
		}

		return fmt.Errorf("deliberate failure")
	})
	if err == nil {
		t.Fatalf("expected an error")
	}

	// The failed transaction must leave no trace.
	unchanged, err := store.Accounts().Account(account.ID)
	if err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	if !unchanged.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf(
			"unexpected balance\nexpected: [%v]\nactual:   [%v]",
			100,
			unchanged.Balance,
		)
	}
}

func TestStore_InTransaction_NoNesting(t *testing.T) {
	store := NewStore()

	err := store.InTransaction(func(tx ledger.Store) error {
		return tx.InTransaction(func(ledger.Store) error {
			return nil
		})
	})
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestTransactionRepository_DuplicateReference(t *testing.T) {
	store := NewStore()

	transaction := &ledger.Transaction{
		Reference:     "TXN-20250101-ABCDEF",
		FromAccountID: uuid.New(),
		ToAccountID:   uuid.New(),
		Amount:        decimal.NewFromInt(10),
		Description:   "rent",
		Timestamp:     time.Now(),
	}

	if err := store.Transactions().CreateTransaction(transaction); err != nil {
		t.Fatalf("unexpected error: [%v]", err)
	}

	err := store.Transactions().CreateTransaction(transaction)
	if err != ledger.ErrDuplicateReference {
		t.Errorf(
			"unexpected error\nexpected: [%v]\nactual:   [%v]",
			ledger.ErrDuplicateReference,
			err,
		)
	}
}

func testAccount(t *testing.T, store *Store) *ledger.Account {
	account := &ledger.Account{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Type:      ledger.Checking,
		Balance:   decimal.NewFromInt(100),
		Number:    "0123456789",
		CreatedAt: time.Now(),
	}

	if err := store.Accounts().CreateAccount(account); err != nil {
		t.Fatalf("could not create account: [%v]", err)
	}

	return account
}
