package apperrors

import "fmt"

// Validation errors: recoverable by correcting the input.
var (
	ErrInsufficientLines = fmt.Errorf("%w: insufficient lines", ErrValidation)
	ErrUnbalancedEntry   = fmt.Errorf("%w: unbalanced entry", ErrValidation)
	ErrInvalidRange      = fmt.Errorf("%w: invalid date range", ErrValidation)
	ErrOverlappingPeriod = fmt.Errorf("%w: overlapping period", ErrValidation)
	ErrInvalidLine       = fmt.Errorf("%w: invalid line", ErrValidation)
)

// State errors: a precondition is violated by the current data.
var (
	ErrPeriodClosedOrMissing = fmt.Errorf("%w: no open period for posting date", ErrConflict)
	ErrPeriodNotCloseable    = fmt.Errorf("%w: period cannot be closed", ErrConflict)
	ErrPeriodHasEntries      = fmt.Errorf("%w: period has entries", ErrConflict)
	ErrPeriodClosed          = fmt.Errorf("%w: period is closed", ErrConflict)
	ErrAccountInUse          = fmt.Errorf("%w: account is referenced by journal lines", ErrConflict)
	ErrEntryHasPayments      = fmt.Errorf("%w: entry has recorded payments", ErrConflict)
	ErrEntryNotDraft         = fmt.Errorf("%w: entry is not a draft", ErrConflict)
	ErrEntryNotPosted        = fmt.Errorf("%w: entry is not posted", ErrConflict)
	ErrOverpayment           = fmt.Errorf("%w: payment exceeds outstanding amount", ErrConflict)

	ErrUnknownAccount = fmt.Errorf("%w: unknown account", ErrNotFound)
)

// Integrity errors: data that should be structurally impossible.
var (
	ErrPeriodIntegrity = fmt.Errorf("%w: period integrity violation", ErrInternal)
	ErrLedgerIntegrity = fmt.Errorf("%w: ledger integrity violation", ErrInternal)
)
