package repository

import (
	"database/sql"
	"log/slog"

	"github.com/lib/pq"

	"account-ledger/internal/domain"
	"account-ledger/internal/errors"
)

type accountRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewAccountRepository(db SQLExecutor, logger *slog.Logger) domain.AccountRepository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *accountRepository) Save(account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, account_number, user_id, balance, status, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(
		query,
		account.ID,
		account.AccountNumber,
		account.UserID,
		account.Balance,
		account.Status,
		account.RegisteredAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			r.logger.Warn("Duplicate account number", "account_number", account.AccountNumber)
			return errors.New(errors.InternalError).WithDetails("account number already taken")
		}
		r.logger.Error("Failed to save account", "account_number", account.AccountNumber, "error", err)
		return errors.New(errors.InternalError).WithDetails(err.Error())
	}

	r.logger.Info("Account created", "account_number", account.AccountNumber, "user_id", account.UserID)
	return nil
}

func (r *accountRepository) Update(account *domain.Account) error {
	query := `
		UPDATE accounts
		SET balance = $1, status = $2, unregistered_at = $3
		WHERE id = $4
	`

	result, err := r.db.Exec(query, account.Balance, account.Status, account.UnregisteredAt, account.ID)
	if err != nil {
		r.logger.Error("Failed to update account", "account_number", account.AccountNumber, "error", err)
		return errors.New(errors.InternalError).WithDetails(err.Error())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.New(errors.InternalError).WithDetails(err.Error())
	}
	if rowsAffected == 0 {
		r.logger.Warn("No account found to update", "account_number", account.AccountNumber)
		return errors.New(errors.AccountNotFound)
	}

	return nil
}

func (r *accountRepository) FindByNumber(number string) (*domain.Account, error) {
	query := `
		SELECT id, account_number, user_id, balance, status, registered_at, unregistered_at
		FROM accounts WHERE account_number = $1
	`

	var account domain.Account
	err := r.db.QueryRow(query, number).Scan(
		&account.ID,
		&account.AccountNumber,
		&account.UserID,
		&account.Balance,
		&account.Status,
		&account.RegisteredAt,
		&account.UnregisteredAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get account", "account_number", number, "error", err)
		return nil, errors.New(errors.InternalError).WithDetails(err.Error())
	}

	return &account, nil
}

func (r *accountRepository) FindByUserID(userID int64) ([]domain.Account, error) {
	query := `
		SELECT id, account_number, user_id, balance, status, registered_at, unregistered_at
		FROM accounts WHERE user_id = $1
		ORDER BY account_number
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		r.logger.Error("Failed to list accounts", "user_id", userID, "error", err)
		return nil, errors.New(errors.InternalError).WithDetails(err.Error())
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.ID,
			&account.AccountNumber,
			&account.UserID,
			&account.Balance,
			&account.Status,
			&account.RegisteredAt,
			&account.UnregisteredAt,
		); err != nil {
			return nil, errors.New(errors.InternalError).WithDetails(err.Error())
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(errors.InternalError).WithDetails(err.Error())
	}

	return accounts, nil
}

// LatestAccountNumber returns the numerically largest account number
// issued so far. Account numbers are fixed-width, so the lexical maximum
// is the numeric maximum.
func (r *accountRepository) LatestAccountNumber() (string, error) {
	query := `
		SELECT account_number FROM accounts
		ORDER BY account_number DESC LIMIT 1
	`

	var number string
	err := r.db.QueryRow(query).Scan(&number)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		r.logger.Error("Failed to get latest account number", "error", err)
		return "", errors.New(errors.InternalError).WithDetails(err.Error())
	}

	return number, nil
}

func (r *accountRepository) CountByUserID(userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM accounts WHERE user_id = $1`

	var count int
	if err := r.db.QueryRow(query, userID).Scan(&count); err != nil {
		r.logger.Error("Failed to count accounts", "user_id", userID, "error", err)
		return 0, errors.New(errors.InternalError).WithDetails(err.Error())
	}

	return count, nil
}
