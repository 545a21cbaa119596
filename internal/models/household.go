package models

// Household represents a shared residence: one ledger, one chore roster,
// one chat room.
type Household struct {
	// ID is the unique identifier for the household (UUID format).
	ID string

	// Address is the street address, shown on the dashboard.
	Address string

	// Rent is the monthly rent in minor currency units. Informational
	// only; rent is split like any other transaction when recorded.
	Rent int64

	// OwnerID is the user ID of the member who created the household.
	OwnerID string

	// HomeCode is the short invite code other users join with. Unique
	// across households.
	HomeCode string

	// CreatedAt is the Unix millisecond timestamp of creation.
	CreatedAt int64
}

// Member is one participant in a household.
//
// The member ID is the identity the ledger uses: Transaction.PayerID and
// Payment.From/To reference it. It stays stable for the lifetime of the
// membership and is never reused.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// HouseholdID is the household this member belongs to.
	HouseholdID string

	// Name is the display name within the household.
	Name string

	// UserID links the member to a registered user account. Empty for
	// members added by name only (e.g., a flatmate who has not signed up).
	UserID string

	// JoinedAt is the Unix millisecond timestamp the member joined.
	// Roster order is ascending JoinedAt.
	JoinedAt int64
}
