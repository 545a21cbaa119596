package models

// ChoreTask is one recurring household task ("dishes", "trash").
type ChoreTask struct {
	Name string
	Icon string
}

// ChoreAssignment pairs a task with the member responsible for it today.
type ChoreAssignment struct {
	Task     ChoreTask
	MemberID string
	// MemberName is denormalized so the client can render history even
	// after a member leaves.
	MemberName string
}

// ChoreDay is one day's worth of assignments, kept as history.
type ChoreDay struct {
	// ID is the unique identifier (UUID format).
	ID string

	// HouseholdID is the household this day belongs to.
	HouseholdID string

	// Date is the calendar day in yyyy-mm-dd form, local to the server.
	Date string

	Assignments []ChoreAssignment

	// Timestamp is the Unix millisecond timestamp the shuffle ran.
	Timestamp int64
}

// ShoppingItem is one entry on the shared shopping list.
type ShoppingItem struct {
	// ID is the unique identifier (UUID format).
	ID string

	// HouseholdID is the household this item belongs to.
	HouseholdID string

	Name    string
	Note    string
	AddedBy string
	Bought  bool

	// CreatedAt is the Unix millisecond timestamp the item was added.
	CreatedAt int64
}
