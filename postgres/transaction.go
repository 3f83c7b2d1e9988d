package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/summitwealth/ledger"
)

type TransactionRepository struct {
	store *Store
}

func (tr *TransactionRepository) CreateTransaction(
	transaction *ledger.Transaction,
) error {
	query := `INSERT INTO
		transfer (reference, from_account_id, from_account_number,
		          to_account_id, to_account_number, amount, description,
		          timestamp)
		VALUES (:reference, :from_account_id, :from_account_number,
		        :to_account_id, :to_account_number, :amount, :description,
		        :timestamp)`

	_, err := tr.store.runner().NamedExec(
		query,
		newTransactionRow(transaction),
	)
	if isUniqueViolation(err) {
		return ledger.ErrDuplicateReference
	}
	if err != nil {
		return fmt.Errorf(
			"could not execute command for transaction [%v]: [%v]",
			transaction.Reference,
			err,
		)
	}

	return nil
}

func (tr *TransactionRepository) TransactionByReference(
	reference string,
) (*ledger.Transaction, error) {
	var row transactionRow

	query := `SELECT * FROM transfer WHERE reference = $1`

	err := tr.store.runner().Get(&row, query, reference)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.NewNotFoundError(
			"transaction not found with reference: [%v]",
			reference,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("could not execute query: [%v]", err)
	}

	return row.unwrap(), nil
}

func (tr *TransactionRepository) RecentTransactionsByAccounts(
	accountIDs []uuid.UUID,
	limit int,
) ([]*ledger.Transaction, error) {
	rows := make([]transactionRow, 0)

	query, args, err := sqlx.In(
		`SELECT * FROM transfer
		WHERE from_account_id IN (?) OR to_account_id IN (?)
		ORDER BY timestamp DESC
		LIMIT ?`,
		accountIDs,
		accountIDs,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("could not build query: [%v]", err)
	}

	query = tr.store.runner().Rebind(query)

	err = tr.store.runner().Select(&rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not execute query: [%v]", err)
	}

	transactions := make([]*ledger.Transaction, len(rows))
	for i, row := range rows {
		transactions[i] = row.unwrap()
	}

	return transactions, nil
}

type transactionRow struct {
	Reference         string          `db:"reference"`
	FromAccountID     uuid.UUID       `db:"from_account_id"`
	FromAccountNumber string          `db:"from_account_number"`
	ToAccountID       uuid.UUID       `db:"to_account_id"`
	ToAccountNumber   string          `db:"to_account_number"`
	Amount            decimal.Decimal `db:"amount"`
	Description       string          `db:"description"`
	Timestamp         time.Time       `db:"timestamp"`
}

func newTransactionRow(
	transaction *ledger.Transaction,
) *transactionRow {
	return &transactionRow{
		Reference:         transaction.Reference,
		FromAccountID:     transaction.FromAccountID,
		FromAccountNumber: transaction.FromAccountNumber,
		ToAccountID:       transaction.ToAccountID,
		ToAccountNumber:   transaction.ToAccountNumber,
		Amount:            transaction.Amount,
		Description:       transaction.Description,
		Timestamp:         transaction.Timestamp,
	}
}

func (tr transactionRow) unwrap() *ledger.Transaction {
	return &ledger.Transaction{
		Reference:         tr.Reference,
		FromAccountID:     tr.FromAccountID,
		FromAccountNumber: tr.FromAccountNumber,
		ToAccountID:       tr.ToAccountID,
		ToAccountNumber:   tr.ToAccountNumber,
		Amount:            tr.Amount,
		Description:       tr.Description,
		Timestamp:         tr.Timestamp,
	}
}
