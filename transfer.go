package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferService moves funds between two accounts as a single atomic
// unit: debit, credit and the ledger append either all commit or none do.
type TransferService struct {
	store      Store
	references *ReferenceGenerator
	events     EventService
}

func NewTransferService(
	store Store,
	references *ReferenceGenerator,
	events EventService,
) *TransferService {
	return &TransferService{store, references, events}
}

func (ts *TransferService) Transfer(
	fromAccountID uuid.UUID,
	toAccountID uuid.UUID,
	amount decimal.Decimal,
	description string,
	ownerEmail string,
) (*Transaction, error) {
	if fromAccountID == uuid.Nil || toAccountID == uuid.Nil {
		return nil, errInvalidArgument(
			"both source and destination accounts are required",
		)
	}

	if fromAccountID == toAccountID {
		return nil, errInvalidArgument("cannot transfer to the same account")
	}

	if amount.Sign() <= 0 {
		return nil, errInvalidArgument(
			"transfer amount must be greater than zero",
		)
	}

	if len(strings.TrimSpace(description)) == 0 {
		return nil, errInvalidArgument(
			"description is required and cannot be blank",
		)
	}

	var transaction *Transaction

	err := ts.store.InTransaction(func(tx Store) error {
		from, err := tx.Accounts().Account(fromAccountID)
		if err != nil {
			return err
		}

		to, err := tx.Accounts().Account(toAccountID)
		if err != nil {
			return err
		}

		owned, err := accountOwnedBy(tx, from, ownerEmail)
		if err != nil {
			return err
		}
		if !owned {
			return errUnauthorized(
				"you do not have permission to transfer from this account",
			)
		}

		if from.Frozen {
			return errInvalidState("source account is frozen")
		}

		if to.Frozen {
			return errInvalidState("destination account is frozen")
		}

		if from.Balance.LessThan(amount) {
			return errInvalidArgument("insufficient funds in source account")
		}

		if err := from.debit(amount); err != nil {
			return err
		}
		to.credit(amount)

		if err := tx.Accounts().UpdateAccount(from); err != nil {
			return err
		}
		if err := tx.Accounts().UpdateAccount(to); err != nil {
			return err
		}

		transaction = &Transaction{
			FromAccountID:     from.ID,
			FromAccountNumber: from.Number,
			ToAccountID:       to.ID,
			ToAccountNumber:   to.Number,
			Amount:            amount,
			Description:       description,
			Timestamp:         time.Now(),
		}

		return appendTransaction(tx, ts.references, transaction)
	})
	if err != nil {
		return nil, err
	}

	if ts.events != nil {
		ts.events.Publish(NewTransferExecutedEvent(ownerEmail, transaction))
	}

	return transaction, nil
}

// TransactionsForOwner returns up to limit recent transfers touching any
// account of the owner, newest first.
func (ts *TransferService) TransactionsForOwner(
	ownerEmail string,
	limit int,
) ([]*Transaction, error) {
	accounts, err := accountsForOwner(ts.store, ownerEmail)
	if err != nil {
		return nil, err
	}

	if len(accounts) == 0 {
		return []*Transaction{}, nil
	}

	return ts.store.Transactions().RecentTransactionsByAccounts(
		accountIDs(accounts),
		limit,
	)
}

// TransactionByReference resolves a transfer by its reference. The
// requester must own the source or the destination account.
func (ts *TransferService) TransactionByReference(
	reference string,
	ownerEmail string,
) (*Transaction, error) {
	transaction, err := ts.store.Transactions().TransactionByReference(
		reference,
	)
	if err != nil {
		return nil, err
	}

	accounts, err := accountsForOwner(ts.store, ownerEmail)
	if err != nil {
		return nil, err
	}

	for _, account := range accounts {
		if account.ID == transaction.FromAccountID ||
			account.ID == transaction.ToAccountID {
			return transaction, nil
		}
	}

	return nil, errUnauthorized(
		"you do not have permission to view this transaction",
	)
}

// appendTransaction persists the transfer row, regenerating the reference
// on collision up to the attempts limit.
func appendTransaction(
	tx Store,
	references *ReferenceGenerator,
	transaction *Transaction,
) error {
	for attempt := 0; attempt < referenceAttemptsLimit; attempt++ {
		transaction.Reference = references.Generate(TransferReferencePrefix)

		err := tx.Transactions().CreateTransaction(transaction)
		if errors.Is(err, ErrDuplicateReference) {
			continue
		}

		return err
	}

	return fmt.Errorf(
		"could not generate a unique transaction reference "+
			"in [%v] attempts",
		referenceAttemptsLimit,
	)
}

func accountIDs(accounts []*Account) []uuid.UUID {
	ids := make([]uuid.UUID, len(accounts))
	for i, account := range accounts {
		ids[i] = account.ID
	}

	return ids
}
