package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/summitwealth/ledger"
)

type AccountRepository struct {
	store *Store
}

func (ar *AccountRepository) CreateAccount(account *ledger.Account) error {
	query := `INSERT INTO
		account (id, user_id, type, balance, frozen, number, created_at)
		VALUES (:id, :user_id, :type, :balance, :frozen, :number,
		        :created_at)`

	_, err := ar.store.runner().NamedExec(query, newAccountRow(account))
	if err != nil {
		return fmt.Errorf(
			"could not execute command for account [%v]: [%v]",
			account.ID,
			err,
		)
	}

	return nil
}

func (ar *AccountRepository) UpdateAccount(account *ledger.Account) error {
	query := `UPDATE account
		SET balance = :balance, frozen = :frozen
		WHERE id = :id`

	_, err := ar.store.runner().NamedExec(query, newAccountRow(account))
	if err != nil {
		return fmt.Errorf(
			"could not execute command for account [%v]: [%v]",
			account.ID,
			err,
		)
	}

	return nil
}

func (ar *AccountRepository) Account(
	accountID uuid.UUID,
) (*ledger.Account, error) {
	var row accountRow

	query := `SELECT * FROM account WHERE id = $1` + ar.store.lockSuffix()

	err := ar.store.runner().Get(&row, query, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.NewNotFoundError(
			"account not found: [%v]",
			accountID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("could not execute query: [%v]", err)
	}

	return row.unwrap()
}

func (ar *AccountRepository) AccountsByUser(
	userID uuid.UUID,
) ([]*ledger.Account, error) {
	rows := make([]accountRow, 0)

	query := `SELECT * FROM account WHERE user_id = $1`

	err := ar.store.runner().Select(&rows, query, userID)
	if err != nil {
		return nil, fmt.Errorf("could not execute query: [%v]", err)
	}

	accounts := make([]*ledger.Account, len(rows))
	for i, row := range rows {
		accounts[i], err = row.unwrap()
		if err != nil {
			return nil, err
		}
	}

	return accounts, nil
}

type accountRow struct {
	ID        uuid.UUID       `db:"id"`
	UserID    uuid.UUID       `db:"user_id"`
	Type      string          `db:"type"`
	Balance   decimal.Decimal `db:"balance"`
	Frozen    bool            `db:"frozen"`
	Number    string          `db:"number"`
	CreatedAt time.Time       `db:"created_at"`
}

func newAccountRow(account *ledger.Account) *accountRow {
	return &accountRow{
		ID:        account.ID,
		UserID:    account.UserID,
		Type:      account.Type.String(),
		Balance:   account.Balance,
		Frozen:    account.Frozen,
		Number:    account.Number,
		CreatedAt: account.CreatedAt,
	}
}

func (ar accountRow) unwrap() (*ledger.Account, error) {
	accountType, err := ledger.ParseAccountType(ar.Type)
	if err != nil {
		return nil, err
	}

	return &ledger.Account{
		ID:        ar.ID,
		UserID:    ar.UserID,
		Type:      accountType,
		Balance:   ar.Balance,
		Frozen:    ar.Frozen,
		Number:    ar.Number,
		CreatedAt: ar.CreatedAt,
	}, nil
}
