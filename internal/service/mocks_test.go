package service

import (
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"account-ledger/internal/domain"
)

// mockLedger fans out to testify mocks per repository. WithTransaction
// just runs fn against the same ledger, so mutation tests observe the
// writes directly.
type mockLedger struct {
	users        *mockUserRepository
	accounts     *mockAccountRepository
	transactions *mockTransactionRepository
}

func newMockLedger() *mockLedger {
	return &mockLedger{
		users:        new(mockUserRepository),
		accounts:     new(mockAccountRepository),
		transactions: new(mockTransactionRepository),
	}
}

func (l *mockLedger) Users() domain.AccountUserRepository { return l.users }

func (l *mockLedger) Accounts() domain.AccountRepository { return l.accounts }

func (l *mockLedger) Transactions() domain.TransactionRepository { return l.transactions }

func (l *mockLedger) WithTransaction(fn func(domain.Ledger) error) error {
	return fn(l)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) FindByID(id int64) (*domain.AccountUser, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountUser), args.Error(1)
}

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) Save(account *domain.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

func (m *mockAccountRepository) Update(account *domain.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

func (m *mockAccountRepository) FindByNumber(number string) (*domain.Account, error) {
	args := m.Called(number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepository) FindByUserID(userID int64) ([]domain.Account, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *mockAccountRepository) LatestAccountNumber() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *mockAccountRepository) CountByUserID(userID int64) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

type mockTransactionRepository struct {
	mock.Mock
}

func (m *mockTransactionRepository) Save(tx *domain.Transaction) error {
	args := m.Called(tx)
	return args.Error(0)
}

func (m *mockTransactionRepository) FindByTransactionID(transactionID string) (*domain.Transaction, error) {
	args := m.Called(transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
