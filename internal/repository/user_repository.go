package repository

import (
	"database/sql"
	"log/slog"

	"account-ledger/internal/domain"
	"account-ledger/internal/errors"
)

type accountUserRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewAccountUserRepository(db SQLExecutor, logger *slog.Logger) domain.AccountUserRepository {
	return &accountUserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *accountUserRepository) FindByID(id int64) (*domain.AccountUser, error) {
	query := `
		SELECT id, name, created_at
		FROM account_users WHERE id = $1
	`

	var user domain.AccountUser
	err := r.db.QueryRow(query, id).Scan(&user.ID, &user.Name, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get user", "user_id", id, "error", err)
		return nil, errors.New(errors.InternalError).WithDetails(err.Error())
	}

	return &user, nil
}
