package service

import "github.com/pkg/errors"

// Sub-reasons of an insufficient funds rejection.
const (
	ReasonPrincipal = "principal"
	ReasonFee       = "fee"
)

// ErrInvalidCredentials is returned when an email/password pair does
// not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError reports bad input, rejected before any side effect.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NotFoundError reports an absent user, wallet or transaction.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// InvalidAddressError reports a recipient address malformed for the
// chain's address format.
type InvalidAddressError struct {
	Address string
}

func (e *InvalidAddressError) Error() string {
	return "invalid recipient address"
}

// InsufficientFundsError reports a failed solvency check. Reason
// distinguishes a shortfall on the transfer principal from a shortfall
// on the native fee.
type InsufficientFundsError struct {
	Reason string
	Token  string
}

func (e *InsufficientFundsError) Error() string {
	if e.Reason == ReasonFee {
		return "insufficient native balance for fee"
	}
	return "insufficient " + e.Token + " balance"
}

// TransferRejectedError reports a submission the ledger node rejected.
// No transaction row is written in this case.
type TransferRejectedError struct {
	Reason string
}

func (e *TransferRejectedError) Error() string {
	if e.Reason == "" {
		return "transfer rejected"
	}
	return "transfer rejected: " + e.Reason
}

// DuplicateError reports a uniqueness collision on a user-visible
// resource, such as a registration email already in use.
type DuplicateError struct {
	Resource string
}

func (e *DuplicateError) Error() string {
	return e.Resource + " already exists"
}

// ReconciliationError reports a gateway failure that aborted the
// remaining reconciliation batch. Row writes already applied stay
// committed.
type ReconciliationError struct {
	Err error
}

func (e *ReconciliationError) Error() string {
	return "reconciliation failed: " + e.Err.Error()
}

func (e *ReconciliationError) Unwrap() error {
	return e.Err
}
