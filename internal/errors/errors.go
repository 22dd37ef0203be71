package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InternalError              ErrorCode = "internal_error"
	UserNotFound               ErrorCode = "user_not_found"
	AccountNotFound            ErrorCode = "account_not_found"
	LockUnavailable            ErrorCode = "lock_unavailable"
	InvalidRequest             ErrorCode = "invalid_request"
	TransactionNotFound        ErrorCode = "transaction_not_found"
	OwnershipMismatch          ErrorCode = "ownership_mismatch"
	TransactionAccountMismatch ErrorCode = "transaction_account_mismatch"
	TooOldToCancel             ErrorCode = "too_old_to_cancel"
	CancelMustBeFull           ErrorCode = "cancel_must_be_full"
	AmountExceedsBalance       ErrorCode = "amount_exceeds_balance"
	AlreadyUnregistered        ErrorCode = "already_unregistered"
	BalanceNotEmpty            ErrorCode = "balance_not_empty"
	MaxAccountsPerUser         ErrorCode = "max_accounts_per_user"
)

// descriptions holds the fixed human-readable message for each error kind.
var descriptions = map[ErrorCode]string{
	InternalError:              "internal server error",
	UserNotFound:               "user not found",
	AccountNotFound:            "account not found",
	LockUnavailable:            "account is currently in use",
	InvalidRequest:             "invalid request",
	TransactionNotFound:        "transaction not found",
	OwnershipMismatch:          "account owner does not match the user",
	TransactionAccountMismatch: "transaction did not occur on the given account",
	TooOldToCancel:             "transactions older than one year cannot be cancelled",
	CancelMustBeFull:           "partial cancellation is not allowed",
	AmountExceedsBalance:       "transaction amount exceeds the account balance",
	AlreadyUnregistered:        "account is already unregistered",
	BalanceNotEmpty:            "account balance is not empty",
	MaxAccountsPerUser:         "a user can hold at most 10 accounts",
}

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New returns an AppError carrying the fixed description for code.
func New(code ErrorCode) *AppError {
	return &AppError{
		Code:    code,
		Message: descriptions[code],
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// Is reports whether err is an AppError with the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// AsAppError converts any error to an AppError, wrapping unknown errors
// as InternalError.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return New(InternalError).WithDetails(err.Error())
}

func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case UserNotFound, AccountNotFound, TransactionNotFound:
		return http.StatusNotFound
	case LockUnavailable:
		return http.StatusConflict
	case InvalidRequest:
		return http.StatusBadRequest
	case InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
