package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"account-ledger/internal/domain"
	"account-ledger/internal/errors"
	"account-ledger/internal/lock"
	"account-ledger/internal/service"
)

// TransactionHandler wraps the mutating endpoints (use, cancel) with the
// per-account lock guard. The read-only query endpoint is unwrapped.
type TransactionHandler struct {
	transactionService *service.TransactionService
	guard              *lock.Guard
	logger             *slog.Logger
}

func NewTransactionHandler(transactionService *service.TransactionService, guard *lock.Guard, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		guard:              guard,
		logger:             logger,
	}
}

type UseBalanceRequest struct {
	UserID        int64  `json:"user_id"`
	AccountNumber string `json:"account_number"`
	Amount        int64  `json:"amount"`
}

type CancelBalanceRequest struct {
	TransactionID string `json:"transaction_id"`
	AccountNumber string `json:"account_number"`
	Amount        int64  `json:"amount"`
}

type TransactionResponse struct {
	AccountNumber     string    `json:"account_number"`
	TransactionResult string    `json:"transaction_result"`
	TransactionID     string    `json:"transaction_id"`
	Amount            int64     `json:"amount"`
	TransactedAt      time.Time `json:"transacted_at"`
}

type QueryTransactionResponse struct {
	AccountNumber     string    `json:"account_number"`
	TransactionType   string    `json:"transaction_type"`
	TransactionResult string    `json:"transaction_result"`
	TransactionID     string    `json:"transaction_id"`
	Amount            int64     `json:"amount"`
	TransactedAt      time.Time `json:"transacted_at"`
}

func (h *TransactionHandler) UseBalance(w http.ResponseWriter, r *http.Request) {
	var req UseBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.InvalidRequest).WithDetails("invalid request body"))
		return
	}

	if req.UserID <= 0 || !validAccountNumber(req.AccountNumber) || !validAmount(req.Amount) {
		writeError(w, errors.New(errors.InvalidRequest))
		return
	}

	var tx *domain.Transaction
	err := h.guard.Do(r.Context(), req.AccountNumber, func() error {
		var err error
		tx, err = h.transactionService.UseBalance(req.UserID, req.AccountNumber, req.Amount)
		if err != nil {
			h.logger.Error("Failed to use balance", "account_number", req.AccountNumber, "error", err)
			h.recordFailedUse(req.AccountNumber, req.Amount)
		}
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transactionResponse(tx))
}

func (h *TransactionHandler) CancelBalance(w http.ResponseWriter, r *http.Request) {
	var req CancelBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.InvalidRequest).WithDetails("invalid request body"))
		return
	}

	if req.TransactionID == "" || !validAccountNumber(req.AccountNumber) || !validAmount(req.Amount) {
		writeError(w, errors.New(errors.InvalidRequest))
		return
	}

	var tx *domain.Transaction
	err := h.guard.Do(r.Context(), req.AccountNumber, func() error {
		var err error
		tx, err = h.transactionService.CancelBalance(req.TransactionID, req.AccountNumber, req.Amount)
		if err != nil {
			h.logger.Error("Failed to cancel balance", "account_number", req.AccountNumber, "error", err)
			h.recordFailedCancel(req.AccountNumber, req.Amount)
		}
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transactionResponse(tx))
}

func (h *TransactionHandler) QueryTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := mux.Vars(r)["transaction_id"]

	tx, err := h.transactionService.QueryTransaction(transactionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QueryTransactionResponse{
		AccountNumber:     tx.AccountNumber,
		TransactionType:   string(tx.Type),
		TransactionResult: string(tx.Result),
		TransactionID:     tx.TransactionID,
		Amount:            tx.Amount,
		TransactedAt:      tx.TransactedAt,
	})
}

// recordFailedUse writes the failure audit row while the account lock is
// still held. Best-effort: the original business error is what surfaces.
func (h *TransactionHandler) recordFailedUse(accountNumber string, amount int64) {
	if err := h.transactionService.SaveFailedUseTransaction(accountNumber, amount); err != nil {
		h.logger.Error("Failed to record failed use transaction",
			"account_number", accountNumber, "error", err)
	}
}

func (h *TransactionHandler) recordFailedCancel(accountNumber string, amount int64) {
	if err := h.transactionService.SaveFailedCancelTransaction(accountNumber, amount); err != nil {
		h.logger.Error("Failed to record failed cancel transaction",
			"account_number", accountNumber, "error", err)
	}
}

func transactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		AccountNumber:     tx.AccountNumber,
		TransactionResult: string(tx.Result),
		TransactionID:     tx.TransactionID,
		Amount:            tx.Amount,
		TransactedAt:      tx.TransactedAt,
	}
}
