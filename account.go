package ledger

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountType int

const (
	Checking AccountType = iota
	Savings
)

func ParseAccountType(value string) (AccountType, error) {
	switch value {
	case "CHECKING":
		return Checking, nil
	case "SAVINGS":
		return Savings, nil
	}

	return -1, fmt.Errorf("unknown account type: [%v]", value)
}

func (at AccountType) String() string {
	switch at {
	case Checking:
		return "CHECKING"
	case Savings:
		return "SAVINGS"
	default:
		panic("unknown account type")
	}
}

type AccountRepository interface {
	CreateAccount(account *Account) error

	UpdateAccount(account *Account) error

	Account(accountID uuid.UUID) (*Account, error)

	AccountsByUser(userID uuid.UUID) ([]*Account, error)
}

type Account struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      AccountType
	Balance   decimal.Decimal
	Frozen    bool
	Number    string
	CreatedAt time.Time
}

func (a *Account) Status() string {
	if a.Frozen {
		return "FROZEN"
	}
	return "ACTIVE"
}

// credit and debit are the only balance mutation primitives. They perform
// no authorization; callers run them inside a store transaction and are
// responsible for the surrounding invariants.
func (a *Account) credit(amount decimal.Decimal) {
	a.Balance = a.Balance.Add(amount)
}

func (a *Account) debit(amount decimal.Decimal) error {
	if a.Balance.LessThan(amount) {
		return errInvalidArgument(
			"debit of [%v] would overdraw account [%v]",
			amount,
			a.ID,
		)
	}

	a.Balance = a.Balance.Sub(amount)

	return nil
}

type AccountService struct {
	store Store
}

func NewAccountService(store Store) *AccountService {
	return &AccountService{store}
}

func (as *AccountService) OpenAccount(
	ownerEmail string,
	accountType AccountType,
	initialDeposit decimal.Decimal,
) (*Account, error) {
	if initialDeposit.Sign() < 0 {
		return nil, errInvalidArgument("initial deposit must not be negative")
	}

	var account *Account

	err := as.store.InTransaction(func(tx Store) error {
		user, err := tx.Users().UserByEmail(ownerEmail)
		if err != nil {
			return err
		}

		account = &Account{
			ID:        uuid.New(),
			UserID:    user.ID,
			Type:      accountType,
			Balance:   initialDeposit.Round(2),
			Frozen:    false,
			Number:    newAccountNumber(),
			CreatedAt: time.Now(),
		}

		return tx.Accounts().CreateAccount(account)
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

func (as *AccountService) Account(accountID uuid.UUID) (*Account, error) {
	return as.store.Accounts().Account(accountID)
}

func (as *AccountService) AccountsForOwner(
	ownerEmail string,
) ([]*Account, error) {
	return accountsForOwner(as.store, ownerEmail)
}

// Deposit adds external money to a savings account. It is the only flow
// which credits an account without a matching debit elsewhere in the
// ledger.
func (as *AccountService) Deposit(
	accountID uuid.UUID,
	amount decimal.Decimal,
	ownerEmail string,
) (*Account, error) {
	if amount.Sign() <= 0 {
		return nil, errInvalidArgument("amount must be greater than zero")
	}

	var account *Account

	err := as.store.InTransaction(func(tx Store) error {
		var err error

		account, err = tx.Accounts().Account(accountID)
		if err != nil {
			return err
		}

		owned, err := accountOwnedBy(tx, account, ownerEmail)
		if err != nil {
			return err
		}
		if !owned {
			return errUnauthorized(
				"you do not have permission to access this account",
			)
		}

		if account.Type != Savings {
			return errInvalidArgument(
				"only savings accounts can receive deposits; "+
					"account type: [%v]",
				account.Type,
			)
		}

		if account.Frozen {
			return errInvalidState("cannot add money to a frozen account")
		}

		account.credit(amount)

		return tx.Accounts().UpdateAccount(account)
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// FreezeAccount and UnfreezeAccount are administrative and bypass the
// frozen-account guard that applies to transfer and trading flows.
func (as *AccountService) FreezeAccount(accountID uuid.UUID) error {
	return as.setFrozen(accountID, true)
}

func (as *AccountService) UnfreezeAccount(accountID uuid.UUID) error {
	return as.setFrozen(accountID, false)
}

func (as *AccountService) setFrozen(accountID uuid.UUID, frozen bool) error {
	return as.store.InTransaction(func(tx Store) error {
		account, err := tx.Accounts().Account(accountID)
		if err != nil {
			return err
		}

		account.Frozen = frozen

		return tx.Accounts().UpdateAccount(account)
	})
}

// IsOwnedBy is the authorization primitive used by the higher engines.
func (as *AccountService) IsOwnedBy(
	account *Account,
	ownerEmail string,
) (bool, error) {
	return accountOwnedBy(as.store, account, ownerEmail)
}

func accountsForOwner(store Store, ownerEmail string) ([]*Account, error) {
	user, err := store.Users().UserByEmail(ownerEmail)
	if err != nil {
		return nil, err
	}

	return store.Accounts().AccountsByUser(user.ID)
}

func accountOwnedBy(
	store Store,
	account *Account,
	ownerEmail string,
) (bool, error) {
	ownerAccounts, err := accountsForOwner(store, ownerEmail)
	if err != nil {
		return false, fmt.Errorf(
			"could not resolve accounts of owner [%v]: [%v]",
			ownerEmail,
			err,
		)
	}

	for _, ownerAccount := range ownerAccounts {
		if ownerAccount.ID == account.ID {
			return true, nil
		}
	}

	return false, nil
}

func newAccountNumber() string {
	return fmt.Sprintf("%010d", rand.Int63n(10_000_000_000))
}
