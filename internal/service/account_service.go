package service

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"account-ledger/internal/domain"
	"account-ledger/internal/errors"
)

const (
	// baseAccountNumber is issued to the very first account; every later
	// account gets the numerically next value, zero-padded.
	baseAccountNumber  = "1000000000"
	accountNumberWidth = 10

	maxAccountsPerUser = 10
)

// AccountService creates and closes accounts. Account-number issuance
// assumes the caller serializes creations through the sequence lock.
type AccountService struct {
	ledger domain.Ledger
	logger *slog.Logger

	now func() time.Time
}

func NewAccountService(ledger domain.Ledger, logger *slog.Logger) *AccountService {
	return &AccountService{
		ledger: ledger,
		logger: logger,
		now:    time.Now,
	}
}

func (s *AccountService) CreateAccount(userID int64, initialBalance int64) (*domain.Account, error) {
	s.logger.Info("Creating account", "user_id", userID, "initial_balance", initialBalance)

	if initialBalance < 0 {
		return nil, errors.New(errors.InvalidRequest)
	}

	user, err := s.ledger.Users().FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.UserNotFound)
	}

	count, err := s.ledger.Accounts().CountByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	if count >= maxAccountsPerUser {
		return nil, errors.New(errors.MaxAccountsPerUser)
	}

	number, err := s.nextAccountNumber()
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:            uuid.New(),
		AccountNumber: number,
		UserID:        user.ID,
		Balance:       initialBalance,
		Status:        domain.AccountStatusInUse,
		RegisteredAt:  s.now(),
	}

	if err := s.ledger.Accounts().Save(account); err != nil {
		return nil, err
	}

	return account, nil
}

func (s *AccountService) nextAccountNumber() (string, error) {
	latest, err := s.ledger.Accounts().LatestAccountNumber()
	if err != nil {
		return "", err
	}
	if latest == "" {
		return baseAccountNumber, nil
	}

	n, err := strconv.ParseInt(latest, 10, 64)
	if err != nil {
		s.logger.Error("Malformed latest account number", "account_number", latest)
		return "", errors.New(errors.InternalError).WithDetails("malformed account number: " + latest)
	}

	return fmt.Sprintf("%0*d", accountNumberWidth, n+1), nil
}

func (s *AccountService) CloseAccount(userID int64, accountNumber string) (*domain.Account, error) {
	s.logger.Info("Closing account", "user_id", userID, "account_number", accountNumber)

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
	if account.Status == domain.AccountStatusUnregistered {
		return nil, errors.New(errors.AlreadyUnregistered)
	}
	if account.Balance != 0 {
		return nil, errors.New(errors.BalanceNotEmpty)
	}

	closedAt := s.now()
	account.Status = domain.AccountStatusUnregistered
	account.UnregisteredAt = &closedAt

	if err := s.ledger.Accounts().Update(account); err != nil {
		return nil, err
	}

	s.logger.Info("Account closed", "account_number", account.AccountNumber)
	return account, nil
}

func (s *AccountService) GetAccountsByUserID(userID int64) ([]domain.Account, error) {
	user, err := s.ledger.Users().FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.UserNotFound)
	}

	return s.ledger.Accounts().FindByUserID(user.ID)
}
