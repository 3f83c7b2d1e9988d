package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/summitwealth/ledger"
)

type PositionRepository struct {
	store *Store
}

func (pr *PositionRepository) CreatePosition(
	position *ledger.Position,
) error {
	query := `INSERT INTO
		position (account_id, symbol, shares, average_cost_basis)
		VALUES (:account_id, :symbol, :shares, :average_cost_basis)`

	_, err := pr.store.runner().NamedExec(query, newPositionRow(position))
	if err != nil {
		return fmt.Errorf(
			"could not execute command for position [%v/%v]: [%v]",
			position.AccountID,
			position.Symbol,
			err,
		)
	}

	return nil
}

func (pr *PositionRepository) UpdatePosition(
	position *ledger.Position,
) error {
	query := `UPDATE position
		SET shares = :shares, average_cost_basis = :average_cost_basis
		WHERE account_id = :account_id AND symbol = :symbol`

	_, err := pr.store.runner().NamedExec(query, newPositionRow(position))
	if err != nil {
		return fmt.Errorf(
			"could not execute command for position [%v/%v]: [%v]",
			position.AccountID,
			position.Symbol,
			err,
		)
	}

	return nil
}

func (pr *PositionRepository) DeletePosition(
	accountID uuid.UUID,
	symbol string,
) error {
	query := `DELETE FROM position WHERE account_id = $1 AND symbol = $2`

	_, err := pr.store.runner().Exec(query, accountID, symbol)
	if err != nil {
		return fmt.Errorf(
			"could not execute command for position [%v/%v]: [%v]",
			accountID,
			symbol,
			err,
		)
	}

	return nil
}

func (pr *PositionRepository) Position(
	accountID uuid.UUID,
	symbol string,
) (*ledger.Position, error) {
	var row positionRow

	query := `SELECT * FROM position
		WHERE account_id = $1 AND symbol = $2` + pr.store.lockSuffix()

	err := pr.store.runner().Get(&row, query, accountID, symbol)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.NewNotFoundError(
			"position not found: [%v/%v]",
			accountID,
			symbol,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("could not execute query: [%v]", err)
	}

	return row.unwrap(), nil
}

func (pr *PositionRepository) PositionsByAccounts(
	accountIDs []uuid.UUID,
) ([]*ledger.Position, error) {
	rows := make([]positionRow, 0)

	query, args, err := sqlx.In(
		`SELECT * FROM position WHERE account_id IN (?)`,
		accountIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("could not build query: [%v]", err)
	}

	query = pr.store.runner().Rebind(query)

	err = pr.store.runner().Select(&rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not execute query: [%v]", err)
	}

	positions := make([]*ledger.Position, len(rows))
	for i, row := range rows {
		positions[i] = row.unwrap()
	}

	return positions, nil
}

type positionRow struct {
	AccountID        uuid.UUID       `db:"account_id"`
	Symbol           string          `db:"symbol"`
	Shares           int64           `db:"shares"`
	AverageCostBasis decimal.Decimal `db:"average_cost_basis"`
}

func newPositionRow(position *ledger.Position) *positionRow {
	return &positionRow{
		AccountID:        position.AccountID,
		Symbol:           position.Symbol,
		Shares:           position.Shares,
		AverageCostBasis: position.AverageCostBasis,
	}
}

func (pr positionRow) unwrap() *ledger.Position {
	return &ledger.Position{
		AccountID:        pr.AccountID,
		Symbol:           pr.Symbol,
		Shares:           pr.Shares,
		AverageCostBasis: pr.AverageCostBasis,
	}
}
