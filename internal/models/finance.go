package models

// Transaction is one shared expense paid by a single member.
//
// Transactions are owned by a household and queried by month window.
// They may be edited or deleted at any time; snapshots are recomputed
// from scratch on every read, so no transaction is ever "locked in".
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// HouseholdID is the household this transaction belongs to.
	HouseholdID string

	// Description is the human-readable label ("groceries", "electricity").
	Description string

	// Amount is the amount paid, in minor currency units. Always > 0.
	Amount int64

	// PayerID is the member who fronted the money.
	PayerID string

	// CreatedAt is the Unix millisecond timestamp. Month windows are
	// half-open intervals over this field.
	CreatedAt int64

	// ImageURL optionally points at a receipt photo. Stored as an opaque
	// string; upload and encoding happen elsewhere.
	ImageURL string
}

// Payment is a settled real-world transfer between two members, recorded
// when the debtor confirms a suggested transfer in the app.
//
// Payments are append-only: they are never edited or deleted, and the
// engine folds them into balances on every recompute.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// HouseholdID is the household this payment belongs to.
	HouseholdID string

	// From is the member who paid (debtor settling up).
	From string

	// To is the member who received the money (creditor being paid).
	To string

	// Amount is the settled amount in minor currency units. Always > 0.
	Amount int64

	// Timestamp is the Unix millisecond timestamp the payment was
	// confirmed. Month windows are half-open intervals over this field.
	Timestamp int64
}

// Transfer is a suggested settlement: "From should pay To this amount."
// Transfers are ephemeral; they exist only inside a Snapshot and
// disappear as soon as the underlying balances change.
type Transfer struct {
	From   string
	To     string
	Amount int64 // minor currency units, always > 0
}

// Snapshot is the complete derived financial picture for one household
// for one month. It is a pure function of (roster, transactions in
// window, payments in window) and is never persisted.
type Snapshot struct {
	// Members is the roster the snapshot was computed against, in roster
	// order.
	Members []string

	// TotalAmount is the sum of all transaction amounts in the window.
	TotalAmount int64

	// PerMemberShare is the rounded-down mean share, for display.
	// The exact per-member values are in Shares.
	PerMemberShare int64

	// Shares maps member ID to that member's exact fair share.
	// Sum of all shares equals TotalAmount.
	Shares map[string]int64

	// Paid maps payer ID to the total that payer fronted in the window.
	// May contain IDs outside Members if a payer left the household.
	Paid map[string]int64

	// Balances maps ID to paid minus share, adjusted for settled
	// payments. Positive = owed money, negative = owes money.
	// Sum of all balances is always zero.
	Balances map[string]int64

	// Transfers is the suggested settlement plan. Applying every transfer
	// on top of Balances zeroes out every entry.
	Transfers []Transfer
}
