package ledger

import "errors"

// Sentinel errors for the ledger service. The API layer maps these to
// HTTP statuses so clients can tell "fix your input" from "try again".
var (
	// ErrHouseholdNotFound is returned when the household lookup fails.
	ErrHouseholdNotFound = errors.New("household not found")

	// ErrEmptyHousehold is returned when a snapshot is requested for a
	// household with no members. Surfaced to the caller, never silently
	// defaulted to an empty snapshot.
	ErrEmptyHousehold = errors.New("household has no members")

	// ErrInvalidAmount is returned when a mutation carries a
	// non-positive amount. Rejected before any write.
	ErrInvalidAmount = errors.New("amount must be a positive integer")

	// ErrInvalidTransfer is returned when a payment confirmation names
	// the same member on both sides.
	ErrInvalidTransfer = errors.New("transfer must be between two different members")

	// ErrInvalidPayer is returned when a mutation omits a member ID:
	// a transaction without a payer, or a payment with an empty side.
	ErrInvalidPayer = errors.New("member id must not be empty")
)
