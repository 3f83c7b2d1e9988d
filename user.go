package ledger

import (
	"time"

	"github.com/google/uuid"
)

// User is the minimal identity record owning accounts. Registration,
// authentication and profile management live outside this module; the
// ledger only needs to resolve an owner identity to its accounts.
type UserRepository interface {
	CreateUser(user *User) error

	UserByEmail(email string) (*User, error)
}

type User struct {
	ID        uuid.UUID
	Email     string
	FullName  string
	CreatedAt time.Time
}
