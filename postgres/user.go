package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/summitwealth/ledger"
)

type UserRepository struct {
	store *Store
}

func (ur *UserRepository) CreateUser(user *ledger.User) error {
	query := `INSERT INTO users (id, email, full_name, created_at)
		VALUES (:id, :email, :full_name, :created_at)`

	_, err := ur.store.runner().NamedExec(query, newUserRow(user))
	if err != nil {
		return fmt.Errorf(
			"could not execute command for user [%v]: [%v]",
			user.Email,
			err,
		)
	}

	return nil
}

func (ur *UserRepository) UserByEmail(email string) (*ledger.User, error) {
	var row userRow

	query := `SELECT * FROM users WHERE email = $1`

	err := ur.store.runner().Get(&row, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.NewNotFoundError("user not found: [%v]", email)
	}
	if err != nil {
		return nil, fmt.Errorf("could not execute query: [%v]", err)
	}

	return row.unwrap(), nil
}

type userRow struct {
	ID        uuid.UUID `db:"id"`
	Email     string    `db:"email"`
	FullName  string    `db:"full_name"`
	CreatedAt time.Time `db:"created_at"`
}

func newUserRow(user *ledger.User) *userRow {
	return &userRow{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	}
}

func (ur *userRow) unwrap() *ledger.User {
	return &ledger.User{
		ID:        ur.ID,
		Email:     ur.Email,
		FullName:  ur.FullName,
		CreatedAt: ur.CreatedAt,
	}
}
