package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeUse    TransactionType = "USE"
	TransactionTypeCancel TransactionType = "CANCEL"
)

type TransactionResult string

const (
	TransactionResultSuccess TransactionResult = "SUCCESS"
	TransactionResultFail    TransactionResult = "FAIL"
)

// Transaction records one balance movement attempt. Rows are immutable:
// corrections are made by writing a CANCEL transaction, never by editing
// history. A CANCEL is correlated to its originating USE by transaction-id
// value only; there is no structural link between the rows.
type Transaction struct {
	ID            uuid.UUID         `json:"id"`
	TransactionID string            `json:"transaction_id"`
	Type          TransactionType   `json:"type"`
	Result        TransactionResult `json:"result"`
	AccountID     uuid.UUID         `json:"account_id"`
	// AccountNumber is a projection of the owning account, filled on read.
	AccountNumber   string    `json:"account_number"`
	Amount          int64     `json:"amount"`
	BalanceSnapshot int64     `json:"balance_snapshot"`
	TransactedAt    time.Time `json:"transacted_at"`
}

// NewTransactionID generates the opaque external-facing transaction id:
// a v4 uuid with the dashes stripped.
func NewTransactionID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

type TransactionRepository interface {
	Save(tx *Transaction) error
	// FindByTransactionID returns (nil, nil) when no transaction exists
	// with that external id.
	FindByTransactionID(transactionID string) (*Transaction, error)
}
