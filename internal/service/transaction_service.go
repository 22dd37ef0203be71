package service

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"account-ledger/internal/domain"
	"account-ledger/internal/errors"
)

// TransactionService validates and applies USE and CANCEL operations
// against an account's balance. Callers must serialize operations on the
// same account through the lock guard; the service itself holds no locks.
type TransactionService struct {
	ledger domain.Ledger
	logger *slog.Logger

	now              func() time.Time
	newTransactionID func() string
}

func NewTransactionService(ledger domain.Ledger, logger *slog.Logger) *TransactionService {
	return &TransactionService{
		ledger:           ledger,
		logger:           logger,
		now:              time.Now,
		newTransactionID: domain.NewTransactionID,
	}
}

// UseBalance deducts amount from the account and records a SUCCESS/USE
// transaction. Structural failures (unknown user or account, ownership or
// status violations, insufficient balance) write no transaction row.
func (s *TransactionService) UseBalance(userID int64, accountNumber string, amount int64) (*domain.Transaction, error) {
	s.logger.Info("Using balance", "user_id", userID, "account_number", accountNumber, "amount", amount)

	user, err := s.ledger.Users().FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.UserNotFound)
	}

	account, err := s.ledger.Accounts().FindByNumber(accountNumber)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.New(errors.AccountNotFound)
	}

	if account.UserID != user.ID {
		return nil, errors.New(errors.OwnershipMismatch)
	}
	if account.Status != domain.AccountStatusInUse {
		return nil, errors.New(errors.AlreadyUnregistered)
	}
	if amount > account.Balance {
		return nil, errors.New(errors.AmountExceedsBalance)
	}

	var saved *domain.Transaction
	err = s.ledger.WithTransaction(func(ledger domain.Ledger) error {
		account.Balance -= amount
		if err := ledger.Accounts().Update(account); err != nil {
			return err
		}

		tx := s.newTransaction(account, domain.TransactionTypeUse, domain.TransactionResultSuccess, amount)
		if err := ledger.Transactions().Save(tx); err != nil {
			return err
		}

		saved = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}

// SaveFailedUseTransaction records a FAIL/USE audit row against the
// account's current balance without mutating it. Best-effort: callers log
// and drop the returned error.
func (s *TransactionService) SaveFailedUseTransaction(accountNumber string, amount int64) error {
	return s.saveFailedTransaction(domain.TransactionTypeUse, accountNumber, amount)
}

// SaveFailedCancelTransaction is the CANCEL counterpart of
// SaveFailedUseTransaction.
func (s *TransactionService) SaveFailedCancelTransaction(accountNumber string, amount int64) error {
	return s.saveFailedTransaction(domain.TransactionTypeCancel, accountNumber, amount)
}

func (s *TransactionService) saveFailedTransaction(txType domain.TransactionType, accountNumber string, amount int64) error {
	account, err := s.ledger.Accounts().FindByNumber(accountNumber)
	if err != nil {
		return err
	}
	if account == nil {
		return errors.New(errors.AccountNotFound)
	}

	tx := s.newTransaction(account, txType, domain.TransactionResultFail, amount)
	return s.ledger.Transactions().Save(tx)
}

// CancelBalance restores amount to the account and records a
// SUCCESS/CANCEL transaction. The cancel must target the account the
// original transaction occurred on, match its amount exactly, and happen
// within one year of it. Transactions dated exactly one year ago are
// still cancellable.
func (s *TransactionService) CancelBalance(transactionID, accountNumber string, amount int64) (*domain.Transaction, error) {
	s.logger.Info("Cancelling balance",
		"transaction_id", transactionID,
		"account_number", accountNumber,
		"amount", amount)

	original, err := s.ledger.Transactions().FindByTransactionID(transactionID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, errors.New(errors.TransactionNotFound)
	}

	account, err := s.ledger.Accounts().FindByNumber(accountNumber)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.New(errors.AccountNotFound)
	}

	if original.AccountID != account.ID {
		return nil, errors.New(errors.TransactionAccountMismatch)
	}
	if original.Amount != amount {
		return nil, errors.New(errors.CancelMustBeFull)
	}
	if original.TransactedAt.Before(s.now().AddDate(-1, 0, 0)) {
		return nil, errors.New(errors.TooOldToCancel)
	}

	var saved *domain.Transaction
	err = s.ledger.WithTransaction(func(ledger domain.Ledger) error {
		account.Balance += amount
		if err := ledger.Accounts().Update(account); err != nil {
			return err
		}

		tx := s.newTransaction(account, domain.TransactionTypeCancel, domain.TransactionResultSuccess, amount)
		if err := ledger.Transactions().Save(tx); err != nil {
			return err
		}

		saved = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}

// QueryTransaction is a pure read; it takes no lock.
func (s *TransactionService) QueryTransaction(transactionID string) (*domain.Transaction, error) {
	tx, err := s.ledger.Transactions().FindByTransactionID(transactionID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, errors.New(errors.TransactionNotFound)
	}

	return tx, nil
}

// newTransaction snapshots the account balance as it stands at call time:
// post-mutation for successes, untouched for failure audit rows.
func (s *TransactionService) newTransaction(account *domain.Account, txType domain.TransactionType, result domain.TransactionResult, amount int64) *domain.Transaction {
	return &domain.Transaction{
		ID:              uuid.New(),
		TransactionID:   s.newTransactionID(),
		Type:            txType,
		Result:          result,
		AccountID:       account.ID,
		AccountNumber:   account.AccountNumber,
		Amount:          amount,
		BalanceSnapshot: account.Balance,
		TransactedAt:    s.now(),
	}
}
