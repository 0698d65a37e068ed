package mintgate

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound     = errors.New("mintgate: not found")
	ErrInvalidInput = errors.New("mintgate: invalid input")
	ErrUnauthorized = errors.New("mintgate: unauthorized")

	// Construction errors
	ErrInvalidConfiguration = errors.New("mintgate: invalid configuration")

	// Mint errors
	ErrSaleNotActive       = errors.New("mintgate: sale is not active")
	ErrSupplyExceeded      = errors.New("mintgate: max supply exceeded")
	ErrQuotaExceeded       = errors.New("mintgate: account quota exceeded")
	ErrInsufficientPayment = errors.New("mintgate: insufficient payment")
	ErrMalformedVoucher    = errors.New("mintgate: malformed voucher")
	ErrSignatureInvalid    = errors.New("mintgate: voucher signature invalid")
	ErrReentrant           = errors.New("mintgate: reentrant mint call")
	ErrRegistryMint        = errors.New("mintgate: token registry mint failed")

	// Admin errors
	ErrPriceUnchanged  = errors.New("mintgate: price unchanged")
	ErrZeroAuthority   = errors.New("mintgate: authority key is the zero address")
	ErrWithdrawalEmpty = errors.New("mintgate: no funds to withdraw")

	// Record errors
	ErrReceiptNotFound    = errors.New("mintgate: receipt not found")
	ErrWithdrawalNotFound = errors.New("mintgate: withdrawal record not found")

	// Store errors
	ErrStoreNotReady     = errors.New("mintgate: store not ready")
	ErrStoreClosed       = errors.New("mintgate: store is closed")
	ErrMigrationFailed   = errors.New("mintgate: migration failed")
	ErrSettingsNotSeeded = errors.New("mintgate: settings not seeded")
)

// ValidationError represents a configuration validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("mintgate: validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap lets ValidationError match ErrInvalidConfiguration in errors.Is.
func (e ValidationError) Unwrap() error { return ErrInvalidConfiguration }

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrReceiptNotFound) ||
		errors.Is(err, ErrWithdrawalNotFound)
}

// IsCapacityError returns true if the error is related to supply or quota caps.
func IsCapacityError(err error) bool {
	return errors.Is(err, ErrSupplyExceeded) ||
		errors.Is(err, ErrQuotaExceeded)
}

// IsAuthorizationError returns true if the error means the caller failed to
// prove its right to mint: a bad voucher, a bad signature, or a non-admin
// invoking an admin operation.
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrMalformedVoucher) ||
		errors.Is(err, ErrSignatureInvalid) ||
		errors.Is(err, ErrUnauthorized)
}

// IsTerminal returns true for errors that cannot succeed on plain retry —
// the caller must change its inputs (fresh voucher, more payment, smaller
// count) before resubmitting. All mint rejections are terminal.
func IsTerminal(err error) bool {
	return IsCapacityError(err) ||
		IsAuthorizationError(err) ||
		errors.Is(err, ErrSaleNotActive) ||
		errors.Is(err, ErrInsufficientPayment) ||
		errors.Is(err, ErrReentrant)
}
