package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"account-ledger/internal/domain"
	"account-ledger/internal/errors"
	"account-ledger/internal/lock"
	"account-ledger/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
	guard          *lock.Guard
}

func NewAccountHandler(accountService *service.AccountService, guard *lock.Guard) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		guard:          guard,
	}
}

type CreateAccountRequest struct {
	UserID         int64 `json:"user_id"`
	InitialBalance int64 `json:"initial_balance"`
}

type CreateAccountResponse struct {
	UserID        int64     `json:"user_id"`
	AccountNumber string    `json:"account_number"`
	RegisteredAt  time.Time `json:"registered_at"`
}

type CloseAccountRequest struct {
	UserID        int64  `json:"user_id"`
	AccountNumber string `json:"account_number"`
}

type CloseAccountResponse struct {
	UserID         int64      `json:"user_id"`
	AccountNumber  string     `json:"account_number"`
	UnregisteredAt *time.Time `json:"unregistered_at"`
}

type AccountInfo struct {
	AccountNumber string `json:"account_number"`
	Balance       int64  `json:"balance"`
}

// CreateAccount issues the next account number under the sequence lock,
// so concurrent creations never race on "latest + 1".
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.InvalidRequest).WithDetails("invalid request body"))
		return
	}

	if req.UserID <= 0 || req.InitialBalance < 0 {
		writeError(w, errors.New(errors.InvalidRequest))
		return
	}

	var account *domain.Account
	err := h.guard.Do(r.Context(), lock.SequenceResource, func() error {
		var err error
		account, err = h.accountService.CreateAccount(req.UserID, req.InitialBalance)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateAccountResponse{
		UserID:        account.UserID,
		AccountNumber: account.AccountNumber,
		RegisteredAt:  account.RegisteredAt,
	})
}

func (h *AccountHandler) CloseAccount(w http.ResponseWriter, r *http.Request) {
	var req CloseAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.InvalidRequest).WithDetails("invalid request body"))
		return
	}

	if req.UserID <= 0 || !validAccountNumber(req.AccountNumber) {
		writeError(w, errors.New(errors.InvalidRequest))
		return
	}

	account, err := h.accountService.CloseAccount(req.UserID, req.AccountNumber)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CloseAccountResponse{
		UserID:         account.UserID,
		AccountNumber:  account.AccountNumber,
		UnregisteredAt: account.UnregisteredAt,
	})
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, errors.New(errors.InvalidRequest).WithDetails("user_id must be a positive integer"))
		return
	}

	accounts, err := h.accountService.GetAccountsByUserID(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	infos := make([]AccountInfo, 0, len(accounts))
	for _, account := range accounts {
		infos = append(infos, AccountInfo{
			AccountNumber: account.AccountNumber,
			Balance:       account.Balance,
		})
	}

	writeJSON(w, http.StatusOK, infos)
}
