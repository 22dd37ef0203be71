package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"account-ledger/internal/domain"
	"account-ledger/internal/errors"
)

func newTestAccountService(ledger *mockLedger) *AccountService {
	s := NewAccountService(ledger, testLogger())
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestCreateAccount_FirstAccountGetsBaseNumber(t *testing.T) {
	ledger := newMockLedger()
	ledger.users.On("FindByID", int64(1)).Return(&domain.AccountUser{ID: 1, Name: "tester"}, nil)
	ledger.accounts.On("CountByUserID", int64(1)).Return(0, nil)
	ledger.accounts.On("LatestAccountNumber").Return("", nil)

	var saved *domain.Account
	ledger.accounts.On("Save", mock.AnythingOfType("*domain.Account")).
		Run(func(args mock.Arguments) { saved = args.Get(0).(*domain.Account) }).
		Return(nil)

	account, err := newTestAccountService(ledger).CreateAccount(1, 0)

	require.NoError(t, err)
	assert.Equal(t, "1000000000", account.AccountNumber)
	assert.Equal(t, "1000000000", saved.AccountNumber)
	assert.Equal(t, int64(0), saved.Balance)
	assert.Equal(t, domain.AccountStatusInUse, saved.Status)
}

func TestCreateAccount_NextNumberIsLatestPlusOne(t *testing.T) {
	ledger := newMockLedger()
	ledger.users.On("FindByID", int64(1)).Return(&domain.AccountUser{ID: 1, Name: "tester"}, nil)
	ledger.accounts.On("CountByUserID", int64(1)).Return(3, nil)
	ledger.accounts.On("LatestAccountNumber").Return("1000000012", nil)

	var saved *domain.Account
	ledger.accounts.On("Save", mock.AnythingOfType("*domain.Account")).
		Run(func(args mock.Arguments) { saved = args.Get(0).(*domain.Account) }).
		Return(nil)

	account, err := newTestAccountService(ledger).CreateAccount(1, 10000)

	require.NoError(t, err)
	assert.Equal(t, "1000000013", account.AccountNumber)
	assert.Equal(t, "1000000013", saved.AccountNumber)
	assert.Equal(t, int64(10000), saved.Balance)
}

func TestCreateAccount_UserNotFound(t *testing.T) {
	ledger := newMockLedger()
	ledger.users.On("FindByID", int64(1)).Return(nil, nil)

	_, err := newTestAccountService(ledger).CreateAccount(1, 0)

	assert.True(t, errors.Is(err, errors.UserNotFound))
	ledger.accounts.AssertNotCalled(t, "Save", mock.Anything)
}

func TestCreateAccount_MaxAccountsPerUser(t *testing.T) {
	ledger := newMockLedger()
	ledger.users.On("FindByID", int64(1)).Return(&domain.AccountUser{ID: 1, Name: "tester"}, nil)
	ledger.accounts.On("CountByUserID", int64(1)).Return(10, nil)

	_, err := newTestAccountService(ledger).CreateAccount(1, 0)

	assert.True(t, errors.Is(err, errors.MaxAccountsPerUser))
	ledger.accounts.AssertNotCalled(t, "Save", mock.Anything)
}

func TestCreateAccount_NegativeInitialBalance(t *testing.T) {
	ledger := newMockLedger()

	_, err := newTestAccountService(ledger).CreateAccount(1, -1)

	assert.True(t, errors.Is(err, errors.InvalidRequest))
}

func TestCloseAccount_Success(t *testing.T) {
	ledger := newMockLedger()
	ledger.users.On("FindByID", int64(12)).Return(&domain.AccountUser{ID: 12, Name: "tester"}, nil)
	ledger.accounts.On("FindByNumber", "1000000012").Return(&domain.Account{
		AccountNumber: "1000000012",
		UserID:        12,
		Balance:       0,
		Status:        domain.AccountStatusInUse,
	}, nil)

	var updated *domain.Account
	ledger.accounts.On("Update", mock.AnythingOfType("*domain.Account")).
		Run(func(args mock.Arguments) { updated = args.Get(0).(*domain.Account) }).
		Return(nil)

	account, err := newTestAccountService(ledger).CloseAccount(12, "1000000012")

	require.NoError(t, err)
	assert.Equal(t, domain.AccountStatusUnregistered, account.Status)
	require.NotNil(t, updated.UnregisteredAt)
	assert.Equal(t, domain.AccountStatusUnregistered, updated.Status)
}

func TestCloseAccount_OwnershipMismatch(t *testing.T) {
	ledger := newMockLedger()
	ledger.users.On("FindByID", int64(12)).Return(&domain.AccountUser{ID: 12, Name: "tester"}, nil)
	ledger.accounts.On("FindByNumber", "1000000012").Return(&domain.Account{
		AccountNumber: "1000000012",
		UserID:        13,
		Status:        domain.AccountStatusInUse,
	}, nil)

	_, err := newTestAccountService(ledger).CloseAccount(12, "1000000012")

	assert.True(t, errors.Is(err, errors.OwnershipMismatch))
	ledger.accounts.AssertNotCalled(t, "Update", mock.Anything)
}

func TestCloseAccount_BalanceNotEmpty(t *testing.T) {
	ledger := newMockLedger()
	ledger.users.On("FindByID", int64(12)).Return(&domain.AccountUser{ID: 12, Name: "tester"}, nil)
	ledger.accounts.On("FindByNumber", "1000000012").Return(&domain.Account{
		AccountNumber: "1000000012",
		UserID:        12,
		Balance:       100,
		Status:        domain.AccountStatusInUse,
	}, nil)

	_, err := newTestAccountService(ledger).CloseAccount(12, "1000000012")

	assert.True(t, errors.Is(err, errors.BalanceNotEmpty))
}

func TestCloseAccount_AlreadyUnregistered(t *testing.T) {
	ledger := newMockLedger()
	ledger.users.On("FindByID", int64(12)).Return(&domain.AccountUser{ID: 12, Name: "tester"}, nil)
	ledger.accounts.On("FindByNumber", "1000000012").Return(&domain.Account{
		AccountNumber: "1000000012",
		UserID:        12,
		Status:        domain.AccountStatusUnregistered,
	}, nil)

	svc := newTestAccountService(ledger)

	// Repeated close attempts keep failing the same way.
	for i := 0; i < 2; i++ {
		_, err := svc.CloseAccount(12, "1000000012")
		assert.True(t, errors.Is(err, errors.AlreadyUnregistered))
	}
	ledger.accounts.AssertNotCalled(t, "Update", mock.Anything)
}

func TestCloseAccount_AccountNotFound(t *testing.T) {
	ledger := newMockLedger()
	ledger.users.On("FindByID", int64(12)).Return(&domain.AccountUser{ID: 12, Name: "tester"}, nil)
	ledger.accounts.On("FindByNumber", "1000000012").Return(nil, nil)

	_, err := newTestAccountService(ledger).CloseAccount(12, "1000000012")

	assert.True(t, errors.Is(err, errors.AccountNotFound))
}

func TestGetAccountsByUserID(t *testing.T) {
	ledger := newMockLedger()
	ledger.users.On("FindByID", int64(12)).Return(&domain.AccountUser{ID: 12, Name: "tester"}, nil)
	ledger.accounts.On("FindByUserID", int64(12)).Return([]domain.Account{
		{AccountNumber: "1000000000", Balance: 1000},
		{AccountNumber: "1000000001", Balance: 2000},
	}, nil)

	accounts, err := newTestAccountService(ledger).GetAccountsByUserID(12)

	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "1000000000", accounts[0].AccountNumber)
}

func TestGetAccountsByUserID_UserNotFound(t *testing.T) {
	ledger := newMockLedger()
	ledger.users.On("FindByID", int64(12)).Return(nil, nil)

	_, err := newTestAccountService(ledger).GetAccountsByUserID(12)

	assert.True(t, errors.Is(err, errors.UserNotFound))
}
