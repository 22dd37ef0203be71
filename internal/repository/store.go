package repository

import (
	"database/sql"
	"log/slog"

	"account-ledger/internal/domain"
	"account-ledger/internal/errors"
)

// Store is the Postgres-backed ledger store. It satisfies domain.Ledger
// and hands out repositories bound to the current executor, which is
// either the raw connection pool or an open transaction.
type Store struct {
	executor SQLExecutor
	logger   *slog.Logger
}

func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		executor: db,
		logger:   logger,
	}
}

var _ domain.Ledger = (*Store)(nil)

func (s *Store) Users() domain.AccountUserRepository {
	return NewAccountUserRepository(s.executor, s.logger)
}

func (s *Store) Accounts() domain.AccountRepository {
	return NewAccountRepository(s.executor, s.logger)
}

func (s *Store) Transactions() domain.TransactionRepository {
	return NewTransactionRepository(s.executor, s.logger)
}

// WithTransaction runs fn against a Store bound to a single database
// transaction, committing on nil and rolling back on error or panic.
func (s *Store) WithTransaction(fn func(domain.Ledger) error) error {
	db, ok := s.executor.(*sql.DB)
	if !ok {
		return errors.New(errors.InternalError).WithDetails("nested transactions are not supported")
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.New(errors.InternalError).WithDetails(err.Error())
	}

	txStore := &Store{
		executor: tx,
		logger:   s.logger,
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txStore); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
