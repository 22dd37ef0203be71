package domain

import (
	"time"

	"github.com/google/uuid"
)

type AccountStatus string

const (
	AccountStatusInUse        AccountStatus = "IN_USE"
	AccountStatusUnregistered AccountStatus = "UNREGISTERED"
)

// AccountUser is the human owner of one or more accounts. Users are
// provisioned externally; this service only resolves them by id.
type AccountUser struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Account is a ledger account. Balance is kept in the smallest currency
// unit and never goes negative. Accounts are never deleted; closing one
// moves it to UNREGISTERED with a zero balance.
type Account struct {
	ID             uuid.UUID     `json:"id"`
	AccountNumber  string        `json:"account_number"`
	UserID         int64         `json:"user_id"`
	Balance        int64         `json:"balance"`
	Status         AccountStatus `json:"status"`
	RegisteredAt   time.Time     `json:"registered_at"`
	UnregisteredAt *time.Time    `json:"unregistered_at,omitempty"`
}

type AccountUserRepository interface {
	// FindByID returns (nil, nil) when no user exists with that id.
	FindByID(id int64) (*AccountUser, error)
}

type AccountRepository interface {
	Save(account *Account) error
	Update(account *Account) error
	// FindByNumber returns (nil, nil) when no account exists with that number.
	FindByNumber(number string) (*Account, error)
	FindByUserID(userID int64) ([]Account, error)
	// LatestAccountNumber returns "" when no accounts exist yet.
	LatestAccountNumber() (string, error)
	CountByUserID(userID int64) (int, error)
}

// Ledger is the durable store for users, accounts and transactions.
// WithTransaction runs fn against a Ledger whose writes commit or roll
// back as one unit.
type Ledger interface {
	Users() AccountUserRepository
	Accounts() AccountRepository
	Transactions() TransactionRepository
	WithTransaction(fn func(Ledger) error) error
}
