package repository

import (
	"database/sql"
	"log/slog"

	"github.com/lib/pq"

	"account-ledger/internal/domain"
	"account-ledger/internal/errors"
)

type transactionRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewTransactionRepository(db SQLExecutor, logger *slog.Logger) domain.TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *transactionRepository) Save(tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions
		(id, transaction_id, type, result, account_id, amount, balance_snapshot, transacted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(
		query,
		tx.ID,
		tx.TransactionID,
		tx.Type,
		tx.Result,
		tx.AccountID,
		tx.Amount,
		tx.BalanceSnapshot,
		tx.TransactedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			r.logger.Warn("Duplicate transaction id", "transaction_id", tx.TransactionID)
			return errors.New(errors.InternalError).WithDetails("transaction id already taken")
		}
		r.logger.Error("Failed to save transaction",
			"transaction_id", tx.TransactionID,
			"account_id", tx.AccountID,
			"error", err)
		return errors.New(errors.InternalError).WithDetails(err.Error())
	}

	r.logger.Info("Transaction recorded",
		"transaction_id", tx.TransactionID,
		"type", tx.Type,
		"result", tx.Result)
	return nil
}

func (r *transactionRepository) FindByTransactionID(transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT t.id, t.transaction_id, t.type, t.result, t.account_id, a.account_number,
		       t.amount, t.balance_snapshot, t.transacted_at
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE t.transaction_id = $1
	`

	var tx domain.Transaction
	err := r.db.QueryRow(query, transactionID).Scan(
		&tx.ID,
		&tx.TransactionID,
		&tx.Type,
		&tx.Result,
		&tx.AccountID,
		&tx.AccountNumber,
		&tx.Amount,
		&tx.BalanceSnapshot,
		&tx.TransactedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get transaction", "transaction_id", transactionID, "error", err)
		return nil, errors.New(errors.InternalError).WithDetails(err.Error())
	}

	return &tx, nil
}
