package transfer

import "errors"

// --- Error Taxonomy ---

// Caller-fixable failures. Each maps to a distinct HTTP status in the handler.
var (
	ErrInvalidAmount      = errors.New("amount must be a positive integer")
	ErrSelfTransfer       = errors.New("cannot transfer points to yourself")
	ErrUserNotFound       = errors.New("user not found")
	ErrInsufficientPoints = errors.New("insufficient points")
)

// ErrTransferFailed marks storage-level failures (connectivity, constraint
// violations, conflict aborts). The transaction rolled back, so a caller may
// safely retry the whole transfer.
var ErrTransferFailed = errors.New("transfer failed")
